package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"bookswap/internal/shared/apperr"
	"bookswap/internal/shared/middleware"
	"bookswap/internal/shared/render"
)

type (
	Router struct {
		service servicer
	}
)

func NewRouter(service servicer, authmw func(http.Handler) http.Handler) chi.Router {
	router := &Router{service: service}
	return router.Routes(authmw)
}

func (r *Router) Routes(authmw func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", r.Signup)
	router.Post("/login", r.Login)

	router.Group(func(router chi.Router) {
		router.Use(authmw)
		router.Get("/profile", r.Profile)
		router.Post("/logout", r.Logout)
	})

	return router
}

func (r *Router) Signup(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	var in SignupIn
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		render.Error(w, apperr.Validation("invalid JSON body"))
		return
	}

	user, err := r.service.Signup(ctx, in)
	if err != nil {
		logger.Warn().Err(err).Str("email", in.Email).Msg("Signup failed")
		render.Error(w, err)
		return
	}

	logger.Info().Str("user_id", user.ID.String()).Msg("User signed up")
	render.JSON(w, http.StatusCreated, user)
}

func (r *Router) Login(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	var in LoginIn
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		render.Error(w, apperr.Validation("invalid JSON body"))
		return
	}

	out, err := r.service.Login(ctx, in)
	if err != nil {
		logger.Warn().Err(err).Str("email", in.Email).Msg("Login failed")
		render.Error(w, err)
		return
	}

	logger.Debug().Str("user_id", out.User.ID.String()).Msg("Login successful")
	render.JSON(w, http.StatusOK, out)
}

func (r *Router) Profile(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	user, err := r.service.Profile(ctx, middleware.GetUserID(ctx))
	if err != nil {
		logger.Warn().Err(err).Msg("Profile fetch failed")
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, user)
}

// Logout acknowledges the call. Tokens are stateless, so there is nothing to
// revoke server-side; the client clears its credential regardless.
func (r *Router) Logout(w http.ResponseWriter, req *http.Request) {
	hlog.FromRequest(req).Debug().Msg("Logout")
	render.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
