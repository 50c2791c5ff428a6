package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	registrydomain "gift-tracker-go/internal/domain/registry"
)

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, envelope{Error: &errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeDomainError maps registry error kinds to status codes. action is the
// log prefix, e.g. "households.merge".
func (h *Handlers) writeDomainError(w http.ResponseWriter, err error, action string, args ...any) {
	switch {
	case errors.Is(err, registrydomain.ErrValidation):
		h.log.BusinessError(action+": invalid request", err, args...)
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, registrydomain.ErrNotFound):
		h.log.BusinessError(action+": not found", err, args...)
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, registrydomain.ErrAlreadyExists):
		h.log.BusinessError(action+": conflict", err, args...)
		writeError(w, http.StatusConflict, "conflict", "conflicts with an existing record")
	default:
		h.log.InternalError(action+": failed", err, args...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
