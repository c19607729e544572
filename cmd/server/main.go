// Bookswap API server: users list books they own and negotiate swaps
// through pending/accepted/declined requests.
package main

import (
	"net/http"
	"time"

	"go.uber.org/fx"

	"bookswap/internal/components/auth"
	"bookswap/internal/components/book"
	"bookswap/internal/components/request"
	"bookswap/internal/server"
	"bookswap/internal/shared/config"
	"bookswap/internal/shared/database"
	"bookswap/internal/shared/logging"
	"bookswap/internal/shared/middleware"
	"bookswap/internal/shared/token"
)

func newIssuer(cfg *config.Config) *token.Issuer {
	return token.NewIssuer([]byte(cfg.TokenSecret), time.Duration(cfg.TokenTTLHours)*time.Hour)
}

func newCreateRequestHandler(r *request.Router) http.HandlerFunc {
	return r.CreateForBook
}

func main() {
	fx.New(
		fx.Provide(
			config.NewConfig,
			logging.NewLogger,
			database.NewPgxPool,
			newIssuer,
			middleware.NewAuthMiddleware,
			server.NewServer,
			server.NewHealthSrvc,
			fx.Annotate(server.NewHealthHandler, fx.ResultTags(`name:"healthHandler"`)),
			auth.NewRepo,
			auth.NewService,
			fx.Annotate(auth.NewRouter, fx.ResultTags(`name:"authRouter"`)),
			book.NewRepo,
			book.NewImageStore,
			book.NewService,
			fx.Annotate(book.NewRouter, fx.ResultTags(`name:"bookRouter"`)),
			request.NewRepo,
			request.NewService,
			request.NewRouter,
			newCreateRequestHandler,
		),
		fx.Invoke((*server.Server).Start),
	).Run()
}
