package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"infinite-experiment/flightdeck/internal/apperrors"
	"infinite-experiment/flightdeck/internal/common"
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

// decodeJSON reads a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperrors.Validation("invalid request body: %v", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := common.ParseID(chi.URLParam(r, name))
	if err != nil {
		return 0, apperrors.Validation("%s: %v", name, err)
	}
	return id, nil
}

// queryID parses an optional positive id query parameter; absent means 0.
func queryID(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	id, err := common.ParseID(raw)
	if err != nil {
		return 0, apperrors.Validation("%s: %v", name, err)
	}
	return id, nil
}
