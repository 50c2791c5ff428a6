package handler

import (
	"context"
	"errors"
	"net/http"

	importsdomain "gift-tracker-go/internal/domain/imports"
)

type importGiftsRequest struct {
	Gifts any `json:"gifts"`
}

type importPeopleRequest struct {
	People any `json:"people"`
}

func (h *Handlers) ImportGifts(w http.ResponseWriter, r *http.Request) {
	var req importGiftsRequest
	if !h.decodeImport(w, r, &req) {
		return
	}

	result, err := h.Imports.ImportGifts(r.Context(), req.Gifts)
	if result != nil {
		h.logImport("import.gifts", result.ImportID, result.Errors,
			"processed", result.Processed,
			"created", result.Created,
		)
	}
	if err != nil {
		h.writeImportError(w, err, "import.gifts", result)
		return
	}

	writeData(w, http.StatusOK, result)
}

func (h *Handlers) ImportPeople(w http.ResponseWriter, r *http.Request) {
	var req importPeopleRequest
	if !h.decodeImport(w, r, &req) {
		return
	}

	result, err := h.Imports.ImportPeople(r.Context(), req.People)
	if result != nil {
		h.logImport("import.people", result.ImportID, result.Errors,
			"processed", result.Processed,
			"people_created", result.PeopleCreated,
			"households_created", result.HouseholdsCreated,
		)
	}
	if err != nil {
		h.writeImportError(w, err, "import.people", result)
		return
	}

	writeData(w, http.StatusOK, result)
}

func (h *Handlers) decodeImport(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := decodeJSON(r, dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.log.BusinessError("import: body too large", err, "limit", tooLarge.Limit)
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
		return false
	}
	writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
	return false
}

// writeImportError reports an interrupted batch with the records committed
// so far; anything else goes through the usual domain mapping.
func (h *Handlers) writeImportError(w http.ResponseWriter, err error, action string, partial any) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		h.log.BusinessError(action+": interrupted", err)
		writeJSON(w, http.StatusServiceUnavailable, envelope{
			Data:  partial,
			Error: &errorBody{Code: "import_interrupted", Message: "import interrupted before every record was processed"},
		})
		return
	}
	h.writeDomainError(w, err, action)
}

func (h *Handlers) logImport(action, importID string, failures []importsdomain.RecordError, counts ...any) {
	for _, failure := range failures {
		h.log.Warn(action+": record failed", "import_id", importID, "index", failure.Index, "error", failure.Error)
	}
	args := append([]any{"import_id", importID, "failed", len(failures)}, counts...)
	h.log.Info(action+": completed", args...)
}
