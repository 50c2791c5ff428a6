package registry

import "context"

// Repository is the persistence boundary for households, people, events,
// gifts and cards.
//
// Find* methods return (nil, nil) when nothing matches; Get* methods return
// ErrNotFound. Create* methods return ErrAlreadyExists when a natural key
// collides with an existing row. Other storage failures wrap ErrPersistence.
type Repository interface {
	// Transaction runs fn with a repository bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(Repository) error) error

	FindActiveHouseholdByName(ctx context.Context, key string) (*Household, error)
	FindActivePersonByName(ctx context.Context, key string) (*Person, error)
	FindEventByName(ctx context.Context, name string) (*Event, error)

	GetHousehold(ctx context.Context, id int64) (*Household, error)
	ListHouseholds(ctx context.Context, includeRetired bool) ([]Household, error)
	// ListMembers returns the household's active people ordered by
	// normalized name, then id.
	ListMembers(ctx context.Context, householdID int64) ([]Person, error)

	CreateHousehold(ctx context.Context, household *Household) error
	CreatePerson(ctx context.Context, person *Person) error
	CreateEvent(ctx context.Context, event *Event) error
	CreateGift(ctx context.Context, gift *Gift) error

	UpdatePerson(ctx context.Context, id int64, changes PersonChanges) error

	MovePeople(ctx context.Context, fromHouseholdID, toHouseholdID int64) (int64, error)
	RepointGifts(ctx context.Context, fromHouseholdID, toHouseholdID int64) (int64, error)
	RepointCards(ctx context.Context, fromHouseholdID, toHouseholdID int64) (int64, error)
	RetireHousehold(ctx context.Context, id int64) error
}
