package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tyrehub/catalog/internal/auth"
	"tyrehub/catalog/internal/common"
	"tyrehub/catalog/internal/constants"
	"tyrehub/catalog/internal/db/repositories"
	"tyrehub/catalog/internal/logging"
	"tyrehub/catalog/internal/models/dtos"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// ListTyres handles GET /tyres
func (h *Handlers) ListTyres() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		q, err := dtos.ParseTyreListQuery(r.URL.Query())
		if err != nil {
			common.RespondError(w, start, err, constants.MsgInvalidQuery, http.StatusBadRequest)
			return
		}

		page, err := h.deps.Services.Catalog.ListTyres(r.Context(), q)
		if err != nil {
			h.internalError(w, r, start, "List tyres failed", err)
			return
		}
		common.RespondSuccess(w, start, "", page)
	}
}

// GetTyre handles GET /tyres/{slug}
func (h *Handlers) GetTyre() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		product, err := h.deps.Services.Catalog.TyreBySlug(r.Context(), chi.URLParam(r, "slug"))
		if errors.Is(err, repositories.ErrNotFound) {
			common.RespondError(w, start, nil, constants.MsgProductNotFound, http.StatusNotFound)
			return
		}
		if err != nil {
			h.internalError(w, r, start, "Load tyre failed", err)
			return
		}
		common.RespondSuccess(w, start, "", product)
	}
}

// GetCatalogProduct handles GET /catalog/products/{slug}
func (h *Handlers) GetCatalogProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		product, err := h.deps.Services.Catalog.CatalogProduct(r.Context(), chi.URLParam(r, "slug"))
		if errors.Is(err, repositories.ErrNotFound) {
			common.RespondError(w, start, nil, constants.MsgProductNotFound, http.StatusNotFound)
			return
		}
		if err != nil {
			h.internalError(w, r, start, "Load catalog product failed", err)
			return
		}
		common.RespondSuccess(w, start, "", product)
	}
}

func (h *Handlers) ListDimensions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		dims, err := h.deps.Services.Catalog.Dimensions(r.Context())
		if err != nil {
			h.internalError(w, r, start, "List dimensions failed", err)
			return
		}
		common.RespondSuccess(w, start, "", dims)
	}
}

func (h *Handlers) ListSeasons() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		seasons, err := h.deps.Services.Catalog.Seasons(r.Context())
		if err != nil {
			h.internalError(w, r, start, "List seasons failed", err)
			return
		}
		common.RespondSuccess(w, start, "", seasons)
	}
}

func (h *Handlers) ListBrands() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		brands, err := h.deps.Services.Catalog.Brands(r.Context())
		if err != nil {
			h.internalError(w, r, start, "List brands failed", err)
			return
		}
		common.RespondSuccess(w, start, "", brands)
	}
}

func (h *Handlers) internalError(w http.ResponseWriter, r *http.Request, start time.Time, msg string, err error) {
	logging.Error(msg,
		"request_id", auth.GetRequestID(r.Context()),
		"path", r.URL.Path,
		"error", err,
	)
	common.RespondError(w, start, nil, constants.MsgInternalError, http.StatusInternalServerError)
}
