package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/grocerly/grocery-admin/pkg/domain/model"
	"github.com/grocerly/grocery-admin/pkg/usecase"
	"github.com/grocerly/grocery-admin/pkg/utils/errutil"
	"github.com/grocerly/grocery-admin/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Error codes returned in the "code" member of error responses
const (
	codeBadRequest      = "BAD_REQUEST"
	codeTooLarge        = "PAYLOAD_TOO_LARGE"
	codeUnauthorized    = "UNAUTHORIZED"
	codeNotFound        = "NOT_FOUND"
	codeUnknownResource = "UNKNOWN_RESOURCE"
	codeSessionNotFound = "SESSION_NOT_FOUND"
	codeFileNotStaged   = "FILE_NOT_STAGED"
	codeInvalidField    = "INVALID_FIELD"
	codeSubmitInFlight  = "SUBMIT_IN_FLIGHT"
	codeFormDisposed    = "FORM_DISPOSED"
	codeValidation      = "VALIDATION_FAILED"
	codeTransport       = "TRANSPORT_FAILED"
	codeTimeout         = "TIMEOUT"
	codeInternal        = "INTERNAL"
)

type errorResponse struct {
	Error string    `json:"error"`
	Code  string    `json:"code"`
	Form  *formView `json:"form,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.From(r.Context()).Warn("failed to write response", "error", err.Error())
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg, Code: code})
}

// classify maps a use case error to an HTTP status and error code
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound):
		return http.StatusNotFound, codeSessionNotFound
	case errors.Is(err, model.ErrSchemaNotFound):
		return http.StatusNotFound, codeUnknownResource
	case errors.Is(err, model.ErrFileNotStaged):
		return http.StatusNotFound, codeFileNotStaged
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, model.ErrUnknownField), errors.Is(err, model.ErrNotImageField):
		return http.StatusBadRequest, codeInvalidField
	case errors.Is(err, usecase.ErrEmptyRecordID):
		return http.StatusBadRequest, codeBadRequest
	case errors.Is(err, model.ErrSubmitInFlight):
		return http.StatusConflict, codeSubmitInFlight
	case errors.Is(err, model.ErrFormDisposed):
		return http.StatusGone, codeFormDisposed
	case errors.Is(err, model.ErrTimeout):
		return http.StatusGatewayTimeout, codeTimeout
	case errors.Is(err, model.ErrTransport):
		return http.StatusBadGateway, codeTransport
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

// handleError writes the response for err. Server-side failures are logged
// and reported.
func handleError(w http.ResponseWriter, r *http.Request, err error, form *formView) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		errutil.Handle(r.Context(), err, "dashboard API request failed")
	} else {
		logging.From(r.Context()).Warn("dashboard API request rejected",
			"status", status,
			"code", code,
			"error", err.Error(),
		)
	}
	writeJSON(w, r, status, errorResponse{Error: err.Error(), Code: code, Form: form})
}
