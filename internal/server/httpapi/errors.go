package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/common"
)

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// statusFor maps a service error onto exactly one HTTP status.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, common.ErrPaymentNotConfigured):
		return http.StatusBadRequest, "payment not configured"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "not found"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// writeError renders err. msg replaces the generic text of a 500. Validation
// messages are returned as-is since they only describe the request; other
// causes are shown only outside production.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	code, kind := statusFor(err)
	body := errorBody{Error: kind}
	if code == http.StatusInternalServerError && msg != "" {
		body.Error = msg
	}

	switch {
	case code == http.StatusBadRequest && errors.Is(err, common.ErrValidation):
		body.Details = err.Error()
	case code == http.StatusInternalServerError:
		a.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		if !a.opts.Production {
			body.Details = err.Error()
		}
	}

	writeJSON(w, code, body)
}
