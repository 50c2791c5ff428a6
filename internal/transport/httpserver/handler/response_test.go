package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	registrydomain "gift-tracker-go/internal/domain/registry"
	"gift-tracker-go/pkg/logger"
)

func TestWriteDomainErrorStatus(t *testing.T) {
	h := &Handlers{log: logger.Discard()}

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "validation", err: registrydomain.NewValidationError("kind", "bad"), status: http.StatusBadRequest, code: "invalid_request"},
		{name: "not found", err: registrydomain.NotFound(registrydomain.KindHousehold, 7), status: http.StatusNotFound, code: "not_found"},
		{name: "conflict", err: fmt.Errorf("move cards: %w", registrydomain.ErrAlreadyExists), status: http.StatusConflict, code: "conflict"},
		{name: "internal", err: errors.New("connection reset"), status: http.StatusInternalServerError, code: "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.writeDomainError(rec, tc.err, "test")

			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rec.Code)
			}
			var body envelope
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Success || body.Error == nil || body.Error.Code != tc.code {
				t.Fatalf("expected error code %q, got %+v", tc.code, body.Error)
			}
		})
	}
}

func TestInternalErrorMessageIsGeneric(t *testing.T) {
	h := &Handlers{log: logger.Discard()}
	rec := httptest.NewRecorder()

	h.writeDomainError(rec, errors.New("pq: password authentication failed"), "test")

	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Message != "internal error" {
		t.Fatalf("expected generic message, got %q", body.Error.Message)
	}
}

func TestParseParams(t *testing.T) {
	if v, err := parseBoolParam(""); err != nil || v {
		t.Fatalf("expected false for empty, got %v %v", v, err)
	}
	if v, err := parseBoolParam("true"); err != nil || !v {
		t.Fatalf("expected true, got %v %v", v, err)
	}
	if _, err := parseBoolParam("yes"); err == nil {
		t.Fatalf("expected error for yes")
	}
	if _, err := parseIDParam("0"); err == nil {
		t.Fatalf("expected error for zero id")
	}
	if id, err := parseIDParam(" 42 "); err != nil || id != 42 {
		t.Fatalf("expected 42, got %d %v", id, err)
	}
}
