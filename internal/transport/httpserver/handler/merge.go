package handler

import (
	"net/http"

	mergedomain "gift-tracker-go/internal/domain/merge"
)

func (h *Handlers) MergeHouseholds(w http.ResponseWriter, r *http.Request) {
	var req mergedomain.Input
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	result, err := h.Merge.Merge(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, err, "households.merge",
			"source_household_id", req.SourceHouseholdID,
			"target_household_id", req.TargetHouseholdID,
		)
		return
	}

	h.log.Info("households.merge: merged",
		"source_household_id", req.SourceHouseholdID,
		"target_household_id", req.TargetHouseholdID,
		"people_moved", result.PeopleMoved,
		"gifts_updated", result.GiftsUpdated,
		"cards_updated", result.CardsUpdated,
	)
	writeData(w, http.StatusOK, result)
}
