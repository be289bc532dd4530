package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/setupsched/pkg/errors"
)

// codeCanceled reports a request abandoned by the client.
const codeCanceled errors.Code = "CANCELED"

// HTTPError carries the status and code an error maps to.
type HTTPError struct {
	StatusCode int
	Code       errors.Code
	Err        error
}

func (e *HTTPError) Error() string { return e.Err.Error() }

func (e *HTTPError) Unwrap() error { return e.Err }

// MapError maps a domain error to an HTTPError.
func MapError(err error) *HTTPError {
	if err == nil {
		return nil
	}

	switch code := errors.GetCode(err); code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig:
		return &HTTPError{http.StatusBadRequest, code, err}
	case errors.ErrCodeInvalidInstance, errors.ErrCodeInvalidSolution, errors.ErrCodeNoFeasible:
		return &HTTPError{http.StatusUnprocessableEntity, code, err}
	case errors.ErrCodeNotFound:
		return &HTTPError{http.StatusNotFound, code, err}
	case errors.ErrCodeUnsupported:
		return &HTTPError{http.StatusNotImplemented, code, err}
	}

	switch {
	case stderrors.Is(err, context.Canceled):
		// 499: nginx convention for "client closed request"
		return &HTTPError{499, codeCanceled, err}
	case stderrors.Is(err, context.DeadlineExceeded):
		return &HTTPError{http.StatusGatewayTimeout, errors.ErrCodeTimeout, err}
	}
	return &HTTPError{http.StatusInternalServerError, errors.ErrCodeInternal, err}
}

// writeError writes err as a JSON error body.
func writeError(w http.ResponseWriter, err error) {
	httpErr := MapError(err)
	if httpErr == nil {
		return
	}
	writeJSON(w, httpErr.StatusCode, ErrorResponse{
		Code:    string(httpErr.Code),
		Message: errors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
