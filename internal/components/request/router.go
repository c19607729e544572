package request

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/google/uuid"

	"bookswap/internal/shared/apperr"
	"bookswap/internal/shared/middleware"
	"bookswap/internal/shared/render"
)

type (
	Router struct {
		service servicer
	}
)

func NewRouter(service servicer) *Router {
	return &Router{service: service}
}

// Routes covers /requests. CreateForBook is mounted separately under
// /books/{id}/request by the book router.
func (r *Router) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.Views)
	router.Patch("/{id}", r.Resolve)
	router.Delete("/{id}", r.Cancel)

	return router
}

func (r *Router) Views(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	views, err := r.service.Views(ctx, middleware.GetUserID(ctx))
	if err != nil {
		logger.Error().Err(err).Msg("Error listing requests")
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, views)
}

// CreateForBook handles POST /books/{id}/request.
func (r *Router) CreateForBook(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	bookID, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		render.Error(w, apperr.Validation("invalid book ID"))
		return
	}

	created, err := r.service.Create(ctx, middleware.GetUserID(ctx), bookID)
	if err != nil {
		logger.Warn().Err(err).Str("book_id", bookID.String()).Msg("Error creating request")
		render.Error(w, err)
		return
	}

	logger.Info().Str("request_id", created.ID.String()).Msg("Swap request created")
	render.JSON(w, http.StatusCreated, created)
}

func (r *Router) Resolve(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		render.Error(w, apperr.Validation("invalid request ID"))
		return
	}

	var in UpdateIn
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		render.Error(w, apperr.Validation("invalid JSON body"))
		return
	}

	resolved, err := r.service.Resolve(ctx, middleware.GetUserID(ctx), id, in.Status)
	if err != nil {
		logger.Warn().Err(err).Str("request_id", id.String()).Msg("Error resolving request")
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, resolved)
}

func (r *Router) Cancel(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		render.Error(w, apperr.Validation("invalid request ID"))
		return
	}

	if err := r.service.Cancel(ctx, middleware.GetUserID(ctx), id); err != nil {
		logger.Warn().Err(err).Str("request_id", id.String()).Msg("Error cancelling request")
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]string{"message": "request cancelled"})
}
