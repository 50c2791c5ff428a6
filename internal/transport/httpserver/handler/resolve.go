package handler

import (
	"net/http"
	"strings"

	registrydomain "gift-tracker-go/internal/domain/registry"
)

type resolveRequest struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	HouseholdID *int64 `json:"household_id"`
}

func (h *Handlers) Resolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	kind := registrydomain.Kind(strings.ToLower(strings.TrimSpace(req.Kind)))
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "invalid_request", "kind must be one of household, person, event")
		return
	}
	if req.HouseholdID != nil && kind != registrydomain.KindPerson {
		writeError(w, http.StatusBadRequest, "invalid_request", "household_id is only valid for people")
		return
	}

	result, err := h.Resolver.Resolve(r.Context(), registrydomain.ResolveInput{
		Kind:        kind,
		Name:        req.Name,
		HouseholdID: req.HouseholdID,
	})
	if err != nil {
		h.writeDomainError(w, err, "resolve", "kind", kind, "outcome", result.Outcome)
		return
	}

	// A blank name resolves to a skipped outcome with a null entity.
	status := http.StatusOK
	if result.Outcome == registrydomain.OutcomeCreated {
		status = http.StatusCreated
	}
	writeData(w, status, result)
}
