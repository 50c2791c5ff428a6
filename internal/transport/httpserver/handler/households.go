package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handlers) ListHouseholds(w http.ResponseWriter, r *http.Request) {
	includeRetired, err := parseBoolParam(r.URL.Query().Get("include_retired"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "include_retired must be a boolean")
		return
	}

	households, err := h.Directory.ListHouseholds(r.Context(), includeRetired)
	if err != nil {
		h.writeDomainError(w, err, "households.list")
		return
	}

	writeData(w, http.StatusOK, households)
}

func (h *Handlers) GetHousehold(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "id must be a positive integer")
		return
	}
	includeMembers, err := parseBoolParam(r.URL.Query().Get("include_members"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "include_members must be a boolean")
		return
	}

	household, err := h.Directory.GetHousehold(r.Context(), id, includeMembers)
	if err != nil {
		h.writeDomainError(w, err, "households.get", "household_id", id)
		return
	}

	if !includeMembers {
		writeData(w, http.StatusOK, household.Household)
		return
	}
	writeData(w, http.StatusOK, household)
}
