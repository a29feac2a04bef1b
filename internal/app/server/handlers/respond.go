package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrNoFunsadface/FCommunityBE/internal/core/contracts"
	"github.com/MrNoFunsadface/FCommunityBE/internal/platform/logger"
	"github.com/MrNoFunsadface/FCommunityBE/pkg/apperr"
	"github.com/MrNoFunsadface/FCommunityBE/pkg/middleware"
)

func requestLogger(r *http.Request) *slog.Logger {
	return logger.FromContext(r.Context())
}

func caller(r *http.Request) (contracts.Identity, bool) {
	return middleware.IdentityFromContext(r.Context())
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps the application error taxonomy to HTTP statuses. Anything
// that is not an apperr degrades to a bare internal error so no store or
// broker detail leaks to clients.
func writeError(w http.ResponseWriter, err error) {
	code := apperr.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case apperr.CodeInvalidArgument:
		status = http.StatusBadRequest
	case apperr.CodeUnauthenticated:
		status = http.StatusUnauthorized
	case apperr.CodePermissionDenied:
		status = http.StatusForbidden
	case apperr.CodeNotFound:
		status = http.StatusNotFound
	case apperr.CodeConflict:
		status = http.StatusConflict
	case apperr.CodeInvalidOperation:
		status = http.StatusUnprocessableEntity
	}
	message := "internal error"
	var ae *apperr.Error
	if errors.As(err, &ae) {
		message = ae.Message
	}
	writeJSON(w, status, map[string]string{
		"code":    string(code),
		"message": message,
	})
}
