package api

import (
	"net/http"
	"time"

	"infinite-experiment/flightdeck/internal/common"
	"infinite-experiment/flightdeck/internal/models/dtos"
)

// CreateRoute handles POST /api/v1/routes
func (h *Handlers) CreateRoute() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CreateRouteRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		route, err := h.deps.Services.Routes.Create(r.Context(), req)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Route created", route, http.StatusCreated)
	}
}

// GetRoute handles GET /api/v1/routes/{id}
func (h *Handlers) GetRoute() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id, err := pathID(r, "id")
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		route, err := h.deps.Services.Routes.Get(r.Context(), id)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Route fetched", route)
	}
}

// ListRoutes handles GET /api/v1/routes
func (h *Handlers) ListRoutes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		routes, err := h.deps.Services.Routes.List(r.Context())
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Routes fetched", routes)
	}
}
