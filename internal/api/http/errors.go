package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentalstore-backend/internal/domain"
	"rentalstore-backend/internal/logger"
)

const msgInternal = "Something failed."

// writeError answers with a plain-text message, the format clients of the
// store expect for every failure.
func writeError(w http.ResponseWriter, status int, message string) {
	http.Error(w, message, status)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WarnContext(r.Context(), "Failed to encode response", "error", err)
	}
}

// writeServiceError maps a service error to a status code and a message that
// is safe to show the caller. notFound is used for domain.ErrNotFound.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var (
		vErr   *domain.ValidationError
		refErr *domain.InvalidReferenceError
	)

	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Error())
	case errors.As(err, &refErr):
		writeError(w, http.StatusBadRequest, "Invalid "+refErr.Entity+".")
	case errors.Is(err, domain.ErrOutOfStock):
		writeError(w, http.StatusBadRequest, "Movie not in stock.")
	case errors.Is(err, domain.ErrAlreadyProcessed):
		writeError(w, http.StatusBadRequest, "Return already processed.")
	case errors.Is(err, domain.ErrRentalAlreadyOpen):
		writeError(w, http.StatusBadRequest, "Rental already open for this customer and movie.")
	case errors.Is(err, domain.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "User already registered.")
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, "Invalid email or password.")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	default:
		logger.ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}
