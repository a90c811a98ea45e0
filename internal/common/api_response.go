package common

import (
	"encoding/json"
	"net/http"
	"time"

	"infinite-experiment/flightdeck/internal/apperrors"
	"infinite-experiment/flightdeck/internal/constants"
	"infinite-experiment/flightdeck/internal/logging"
	"infinite-experiment/flightdeck/internal/models/dtos"
)

// RespondSuccess sends a standardized JSON success response.
func RespondSuccess(w http.ResponseWriter, initTime time.Time, message string, data any, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusOk),
		Message:      message,
		ResponseTime: GetResponseTime(initTime),
		Data:         data,
	}

	writeJSON(w, code, response)
}

// RespondError sends a standardized JSON error response.
func RespondError(w http.ResponseWriter, initTime time.Time, err error, message string, statusCode ...int) {
	code := http.StatusInternalServerError
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	msg := message
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusError),
		Message:      msg,
		ResponseTime: GetResponseTime(initTime),
	}

	writeJSON(w, code, response)
}

// RespondErrorWithData sends an error envelope that still carries a payload,
// for operations that partially succeeded.
func RespondErrorWithData(w http.ResponseWriter, initTime time.Time, message string, data any, statusCode int) {
	writeJSON(w, statusCode, dtos.APIResponse{
		Status:       string(constants.APIStatusError),
		Message:      message,
		ResponseTime: GetResponseTime(initTime),
		Data:         data,
	})
}

// CreatedWithConflict is the 409 payload of an instance stored without a gate.
type CreatedWithConflict struct {
	Code string `json:"code"`
	*dtos.CreateInstanceResponse
}

// ErrorBody is the data payload attached to domain error responses.
type ErrorBody struct {
	Code     string                    `json:"code"`
	Conflict *apperrors.ConflictDetail `json:"conflict,omitempty"`
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondAppError writes err using its kind for the status and its code and
// conflict detail as data. Server errors never leak their cause.
func RespondAppError(w http.ResponseWriter, initTime time.Time, err error) {
	code := StatusFor(err)

	appErr, ok := apperrors.As(err)
	if !ok || appErr.Kind == apperrors.KindServer {
		logging.Error("Request failed", "error", err)
		writeJSON(w, code, dtos.APIResponse{
			Status:       string(constants.APIStatusError),
			Message:      constants.MsgServerError,
			ResponseTime: GetResponseTime(initTime),
			Data:         ErrorBody{Code: constants.ErrCodeServer},
		})
		return
	}

	writeJSON(w, code, dtos.APIResponse{
		Status:       string(constants.APIStatusError),
		Message:      appErr.Message,
		ResponseTime: GetResponseTime(initTime),
		Data:         ErrorBody{Code: appErr.Code, Conflict: appErr.Detail},
	})
}

// writeJSON marshals data and writes it to the HTTP response.
func writeJSON(w http.ResponseWriter, code int, body dtos.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err)
	}
}
