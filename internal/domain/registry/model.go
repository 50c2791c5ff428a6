package registry

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindHousehold Kind = "household"
	KindPerson    Kind = "person"
	KindEvent     Kind = "event"
)

func (k Kind) Valid() bool {
	switch k {
	case KindHousehold, KindPerson, KindEvent:
		return true
	default:
		return false
	}
}

type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

func (d Direction) Valid() bool {
	return d == DirectionIn || d == DirectionOut
}

type CardStatus string

const (
	CardStatusPlanned  CardStatus = "planned"
	CardStatusWritten  CardStatus = "written"
	CardStatusSent     CardStatus = "sent"
	CardStatusReturned CardStatus = "returned"
)

const (
	EventTypeGiftExchange = "gift_exchange"

	RecordedByImported   = "imported"
	VisibilityHintPublic = "public"
)

type Household struct {
	ID               int64     `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"not null" json:"name"`
	NameKey          string    `gorm:"column:name_key;not null" json:"-"`
	AddressLine1     *string   `gorm:"column:address_line_1" json:"address_line_1"`
	AddressLine2     *string   `gorm:"column:address_line_2" json:"address_line_2"`
	City             *string   `json:"city"`
	Region           *string   `json:"region"`
	PostalCode       *string   `json:"postal_code"`
	Country          *string   `json:"country"`
	CardGreetingName *string   `json:"card_greeting_name"`
	Notes            *string   `json:"notes"`
	Active           bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Person struct {
	ID                int64     `gorm:"primaryKey" json:"id"`
	DisplayName       string    `gorm:"not null" json:"display_name"`
	NameKey           string    `gorm:"column:name_key;not null" json:"-"`
	ShortName         *string   `json:"short_name"`
	HouseholdID       *int64    `json:"household_id"`
	RelationshipLabel *string   `json:"relationship_label"`
	Notes             *string   `json:"notes"`
	IsChild           bool      `gorm:"not null;default:false" json:"is_child"`
	Active            bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// PersonChanges is a partial update; nil fields are left untouched.
type PersonChanges struct {
	HouseholdID       *int64
	RelationshipLabel *string
	Notes             *string
	IsChild           *bool
}

func (c PersonChanges) Empty() bool {
	return c.HouseholdID == nil && c.RelationshipLabel == nil && c.Notes == nil && c.IsChild == nil
}

type Event struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	EventType string     `gorm:"not null" json:"event_type"`
	EventDate *time.Time `gorm:"type:date" json:"event_date"`
	Notes     *string    `json:"notes"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type Gift struct {
	ID                  int64               `gorm:"primaryKey" json:"id"`
	Direction           Direction           `gorm:"not null" json:"direction"`
	EventID             *int64              `json:"event_id"`
	GiverPersonID       *int64              `json:"giver_person_id"`
	GiverHouseholdID    *int64              `json:"giver_household_id"`
	ReceiverPersonID    *int64              `json:"receiver_person_id"`
	ReceiverHouseholdID *int64              `json:"receiver_household_id"`
	Description         string              `gorm:"not null" json:"description"`
	EstValue            decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"est_value"`
	GivenDate           *time.Time          `gorm:"type:date" json:"given_date"`
	Notes               *string             `json:"notes"`
	RecordedBy          string              `gorm:"not null" json:"recorded_by"`
	VisibilityHint      string              `gorm:"not null" json:"visibility_hint"`
	ThankYouSent        bool                `gorm:"not null;default:false" json:"thank_you_sent"`
	CreatedAt           time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

type Card struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	EventID     int64      `gorm:"not null" json:"event_id"`
	HouseholdID int64      `gorm:"not null" json:"household_id"`
	AddressName *string    `json:"address_name"`
	Status      CardStatus `gorm:"not null;default:planned" json:"status"`
	Notes       *string    `json:"notes"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// HouseholdWithMembers is a household together with its active members.
type HouseholdWithMembers struct {
	Household
	Members []Person `json:"members"`
}

func (Household) TableName() string { return "households" }

func (Person) TableName() string { return "people" }

func (Event) TableName() string { return "events" }

func (Gift) TableName() string { return "gifts" }

func (Card) TableName() string { return "cards" }
