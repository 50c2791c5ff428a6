package imports

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"gift-tracker-go/internal/domain/registry"
	"github.com/shopspring/decimal"
)

// rawRecord is one loosely typed import row as decoded from JSON.
type rawRecord map[string]any

func asRecord(item any) (rawRecord, error) {
	record, ok := item.(map[string]any)
	if !ok {
		return nil, registry.NewValidationError("record", "must be an object")
	}
	return record, nil
}

// text returns the field as a string. Numbers and booleans are accepted
// and formatted; absent and null fields read as "".
func (r rawRecord) text(field string) (string, error) {
	value, ok := r[field]
	if !ok || value == nil {
		return "", nil
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", registry.NewValidationError(field, "must be a string")
	}
}

func (r rawRecord) optionalText(field string) (*string, error) {
	value, err := r.text(field)
	if err != nil {
		return nil, err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	return &value, nil
}

func (r rawRecord) flag(field string) (*bool, error) {
	value, ok := r[field]
	if !ok || value == nil {
		return nil, nil
	}
	switch v := value.(type) {
	case bool:
		return &v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, registry.NewValidationError(field, "must be a boolean")
		}
		return &parsed, nil
	default:
		return nil, registry.NewValidationError(field, "must be a boolean")
	}
}

// money parses a lenient decimal. Absent or blank values are null.
func (r rawRecord) money(field string) (decimal.NullDecimal, error) {
	value, ok := r[field]
	if !ok || value == nil {
		return decimal.NullDecimal{}, nil
	}

	var (
		parsed decimal.Decimal
		err    error
	)
	switch v := value.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return decimal.NullDecimal{}, nil
		}
		parsed, err = decimal.NewFromString(trimmed)
	case json.Number:
		parsed, err = decimal.NewFromString(v.String())
	case float64:
		parsed = decimal.NewFromFloat(v)
	default:
		return decimal.NullDecimal{}, registry.NewValidationError(field, "must be a number")
	}
	if err != nil {
		return decimal.NullDecimal{}, registry.NewValidationError(field, "must be a number")
	}
	return decimal.NewNullDecimal(parsed), nil
}

// date accepts YYYY-MM-DD or an RFC 3339 timestamp, truncated to the day.
func (r rawRecord) date(field string) (*time.Time, error) {
	value, err := r.text(field)
	if err != nil {
		return nil, err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if parsed, err := time.Parse(time.DateOnly, value); err == nil {
		return &parsed, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		day := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		return &day, nil
	}
	return nil, registry.NewValidationError(field, "must be a date in YYYY-MM-DD format")
}

func parseGift(r rawRecord) (GiftRecord, error) {
	var gift GiftRecord

	direction, err := r.text("direction")
	if err != nil {
		return gift, err
	}
	description, err := r.text("description")
	if err != nil {
		return gift, err
	}
	direction = strings.TrimSpace(direction)
	description = strings.TrimSpace(description)
	if direction == "" || description == "" {
		return gift, registry.NewValidationError("", "direction and description are required")
	}
	gift.Direction = registry.Direction(strings.ToLower(direction))
	if !gift.Direction.Valid() {
		return gift, registry.NewValidationError("direction", "must be in or out")
	}
	gift.Description = description

	if gift.EstValue, err = r.money("est_value"); err != nil {
		return gift, err
	}
	if gift.GivenDate, err = r.date("given_date"); err != nil {
		return gift, err
	}

	names := []struct {
		field string
		dst   *string
	}{
		{"event_name", &gift.EventName},
		{"giver_name", &gift.GiverName},
		{"giver_household_name", &gift.GiverHouseholdName},
		{"receiver_name", &gift.ReceiverName},
		{"receiver_household_name", &gift.ReceiverHouseholdName},
	}
	for _, name := range names {
		if *name.dst, err = r.text(name.field); err != nil {
			return gift, err
		}
	}

	if gift.Notes, err = r.optionalText("notes"); err != nil {
		return gift, err
	}

	gift.RecordedBy = registry.RecordedByImported
	if value, err := r.optionalText("recorded_by"); err != nil {
		return gift, err
	} else if value != nil {
		gift.RecordedBy = *value
	}
	gift.VisibilityHint = registry.VisibilityHintPublic
	if value, err := r.optionalText("visibility_hint"); err != nil {
		return gift, err
	} else if value != nil {
		gift.VisibilityHint = *value
	}

	return gift, nil
}

func parsePerson(r rawRecord) (PersonRecord, error) {
	var person PersonRecord

	displayName, err := r.text("display_name")
	if err != nil {
		return person, err
	}
	if strings.TrimSpace(displayName) == "" {
		return person, registry.NewValidationError("display_name", "is required")
	}
	person.DisplayName = displayName

	if person.HouseholdName, err = r.text("household_name"); err != nil {
		return person, err
	}
	if person.RelationshipLabel, err = r.optionalText("relationship_label"); err != nil {
		return person, err
	}
	if person.Notes, err = r.optionalText("notes"); err != nil {
		return person, err
	}
	if person.IsChild, err = r.flag("is_child"); err != nil {
		return person, err
	}

	return person, nil
}
