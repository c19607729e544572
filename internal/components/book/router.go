package book

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"bookswap/internal/shared/apperr"
	"bookswap/internal/shared/middleware"
	"bookswap/internal/shared/render"
)

const maxUploadBytes = 10 << 20 // 10 MiB

type (
	Router struct {
		service servicer
	}
)

// NewRouter builds the /books routes. createRequest handles
// POST /books/{id}/request; it belongs to the request component but lives
// under this path prefix.
func NewRouter(service servicer, createRequest http.HandlerFunc) chi.Router {
	router := &Router{service: service}
	return router.Routes(createRequest)
}

func (r *Router) Routes(createRequest http.HandlerFunc) chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Post("/", r.Create)
	router.Get("/{id}", r.Get)
	router.Patch("/{id}", r.Update)
	router.Delete("/{id}", r.Delete)
	router.Post("/{id}/request", createRequest)

	return router
}

func (r *Router) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	books, err := r.service.List(ctx, middleware.GetUserID(ctx), req.URL.Query().Get("owner"))
	if err != nil {
		logger.Error().Err(err).Msg("Error listing books")
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, books)
}

func (r *Router) Get(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		render.Error(w, apperr.Validation("invalid book ID"))
		return
	}

	book, err := r.service.Get(ctx, id)
	if err != nil {
		logger.Warn().Err(err).Str("book_id", id.String()).Msg("Error getting book")
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, book)
}

// Create accepts a multipart form: title, author, condition, description
// and an optional image file.
func (r *Router) Create(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		render.Error(w, apperr.Validation("invalid multipart form"))
		return
	}

	in := CreateBookIn{
		Title:       req.FormValue("title"),
		Author:      req.FormValue("author"),
		Condition:   Condition(req.FormValue("condition")),
		Description: req.FormValue("description"),
	}

	var image *ImageUpload
	if file, header, err := req.FormFile("image"); err == nil {
		defer file.Close()
		image = &ImageUpload{Filename: header.Filename, Reader: file}
	}

	book, err := r.service.Create(ctx, middleware.GetUserID(ctx), in, image)
	if err != nil {
		logger.Warn().Err(err).Msg("Error creating book")
		render.Error(w, err)
		return
	}

	logger.Info().Str("book_id", book.ID.String()).Msg("Book listed")
	render.JSON(w, http.StatusCreated, book)
}

func (r *Router) Update(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		render.Error(w, apperr.Validation("invalid book ID"))
		return
	}

	var in UpdateBookIn
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		render.Error(w, apperr.Validation("invalid JSON body"))
		return
	}

	book, err := r.service.Update(ctx, middleware.GetUserID(ctx), id, in)
	if err != nil {
		logger.Warn().Err(err).Str("book_id", id.String()).Msg("Error updating book")
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, book)
}

func (r *Router) Delete(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	logger := hlog.FromRequest(req)

	id, err := uuid.Parse(chi.URLParam(req, "id"))
	if err != nil {
		render.Error(w, apperr.Validation("invalid book ID"))
		return
	}

	if err := r.service.Delete(ctx, middleware.GetUserID(ctx), id); err != nil {
		logger.Warn().Err(err).Str("book_id", id.String()).Msg("Error deleting book")
		render.Error(w, err)
		return
	}

	render.JSON(w, http.StatusOK, map[string]string{"message": "book deleted"})
}
