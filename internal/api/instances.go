package api

import (
	"net/http"
	"time"

	"infinite-experiment/flightdeck/internal/apperrors"
	"infinite-experiment/flightdeck/internal/common"
	"infinite-experiment/flightdeck/internal/models/dtos"
)

// CreateInstance handles POST /api/v1/instances
//
// 201 with the instance and its gate. When the instance was stored but no gate
// could be allocated the answer is 409 and data still carries the instance.
func (h *Handlers) CreateInstance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.CreateInstanceRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		resp, err := h.deps.Services.Instances.Create(r.Context(), req)
		if err != nil {
			appErr, ok := apperrors.As(err)
			if resp != nil && ok && appErr.Kind == apperrors.KindConflict {
				common.RespondErrorWithData(w, initTime, "Flight instance created without a gate: "+appErr.Message,
					common.CreatedWithConflict{Code: appErr.Code, CreateInstanceResponse: resp}, http.StatusConflict)
				return
			}
			common.RespondAppError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Flight instance created", resp, http.StatusCreated)
	}
}

// GetInstance handles GET /api/v1/instances/{id}
func (h *Handlers) GetInstance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id, err := pathID(r, "id")
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		instance, err := h.deps.Services.Instances.Get(r.Context(), id)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Flight instance fetched", instance)
	}
}

// ListInstances handles GET /api/v1/instances and GET /api/v1/instances/search
// Query: origin_airport_id, destination_airport_id, departure_date (YYYY-MM-DD), status
func (h *Handlers) ListInstances() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		originID, err := queryID(r, "origin_airport_id")
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		destinationID, err := queryID(r, "destination_airport_id")
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		q := r.URL.Query()
		instances, err := h.deps.Services.Instances.Search(r.Context(), originID, destinationID, q.Get("departure_date"), q.Get("status"))
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Flight instances fetched", instances)
	}
}

// UpdateInstanceStatus handles PUT /api/v1/instances/{id}
func (h *Handlers) UpdateInstanceStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id, err := pathID(r, "id")
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		var req dtos.UpdateInstanceStatusRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		instance, err := h.deps.Services.Instances.UpdateStatus(r.Context(), id, req)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Flight instance updated", instance)
	}
}

// GateOptions handles GET /api/v1/instances/{id}/gate-options
func (h *Handlers) GateOptions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id, err := pathID(r, "id")
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		options, err := h.deps.Services.Gates.ListOptions(r.Context(), id)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Gate options fetched", options)
	}
}

// ReassignGate handles PUT /api/v1/instances/{id}/gate
func (h *Handlers) ReassignGate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		id, err := pathID(r, "id")
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		var req dtos.ReassignGateRequest
		if err := decodeJSON(r, &req); err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		if req.GateID <= 0 {
			common.RespondAppError(w, initTime, apperrors.Validation("gate_id is required"))
			return
		}

		assignment, err := h.deps.Services.Gates.Reassign(r.Context(), id, req.GateID)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Gate assigned", assignment)
	}
}
