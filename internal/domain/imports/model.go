package imports

import (
	"time"

	"gift-tracker-go/internal/domain/registry"
	"github.com/shopspring/decimal"
)

type Batch string

const (
	BatchGifts  Batch = "gifts"
	BatchPeople Batch = "people"
)

type RecordStatus string

const (
	RecordStatusImported RecordStatus = "imported"
	RecordStatusFailed   RecordStatus = "failed"
)

// RecordError reports one record that could not be imported. Record is the
// input exactly as received.
type RecordError struct {
	Index  int    `json:"index"`
	Record any    `json:"record"`
	Error  string `json:"error"`
}

// GiftsResult summarizes a gift batch. Processed counts the records that
// were attempted and equals the batch length unless the call was cancelled.
type GiftsResult struct {
	ImportID  string        `json:"import_id"`
	Processed int           `json:"processed"`
	Created   int           `json:"created"`
	Errors    []RecordError `json:"errors,omitempty"`
}

type PeopleResult struct {
	ImportID          string        `json:"import_id"`
	Processed         int           `json:"processed"`
	PeopleCreated     int           `json:"people_created"`
	HouseholdsCreated int           `json:"households_created"`
	Errors            []RecordError `json:"errors,omitempty"`
}

// GiftRecord is a gift import row after validation.
type GiftRecord struct {
	Direction             registry.Direction
	Description           string
	EstValue              decimal.NullDecimal
	GivenDate             *time.Time
	EventName             string
	GiverName             string
	GiverHouseholdName    string
	ReceiverName          string
	ReceiverHouseholdName string
	Notes                 *string
	RecordedBy            string
	VisibilityHint        string
}

// PersonRecord is a person import row after validation. Nil attributes
// were not supplied and are left untouched on existing people.
type PersonRecord struct {
	DisplayName       string
	HouseholdName     string
	RelationshipLabel *string
	Notes             *string
	IsChild           *bool
}

type Metrics interface {
	ObserveImportRecord(batch Batch, status RecordStatus)
}

type noopMetrics struct{}

func (noopMetrics) ObserveImportRecord(Batch, RecordStatus) {}
