// Package registrytest provides an in-memory registry.Repository for tests.
package registrytest

import (
	"context"
	"sort"
	"time"

	"gift-tracker-go/internal/domain/identity"
	"gift-tracker-go/internal/domain/registry"
)

// Repo is an in-memory registry.Repository. Transaction snapshots every
// table and restores it when the callback fails, so rollbacks are visible.
// Uniqueness rules mirror the database indexes.
type Repo struct {
	Households map[int64]registry.Household
	People     map[int64]registry.Person
	Events     map[int64]registry.Event
	Gifts      map[int64]registry.Gift
	Cards      map[int64]registry.Card

	// Calls counts invocations per method name.
	Calls map[string]int
	// Fail makes the named method return the given error.
	Fail map[string]error
	// BeforeCreate runs before a create is applied. Tests use it to insert
	// a competing row and simulate a lost find-or-create race.
	BeforeCreate func(kind registry.Kind)

	nextID int64
}

func New() *Repo {
	return &Repo{
		Households: make(map[int64]registry.Household),
		People:     make(map[int64]registry.Person),
		Events:     make(map[int64]registry.Event),
		Gifts:      make(map[int64]registry.Gift),
		Cards:      make(map[int64]registry.Card),
		Calls:      make(map[string]int),
		Fail:       make(map[string]error),
	}
}

func (r *Repo) call(name string) error {
	r.Calls[name]++
	return r.Fail[name]
}

func (r *Repo) id() int64 {
	r.nextID++
	return r.nextID
}

// SeedHousehold inserts an active household and returns its id.
func (r *Repo) SeedHousehold(name string) int64 {
	id := r.id()
	r.Households[id] = registry.Household{ID: id, Name: name, NameKey: identity.Normalize(name), Active: true}
	return id
}

// SeedPerson inserts an active person and returns its id.
func (r *Repo) SeedPerson(name string, householdID *int64) int64 {
	id := r.id()
	r.People[id] = registry.Person{ID: id, DisplayName: name, NameKey: identity.Normalize(name), HouseholdID: householdID, Active: true}
	return id
}

func (r *Repo) SeedEvent(name string) int64 {
	id := r.id()
	r.Events[id] = registry.Event{ID: id, Name: name, EventType: registry.EventTypeGiftExchange}
	return id
}

func (r *Repo) SeedGift(gift registry.Gift) int64 {
	gift.ID = r.id()
	r.Gifts[gift.ID] = gift
	return gift.ID
}

func (r *Repo) SeedCard(eventID, householdID int64) int64 {
	id := r.id()
	r.Cards[id] = registry.Card{ID: id, EventID: eventID, HouseholdID: householdID, Status: registry.CardStatusPlanned}
	return id
}

// WritesTotal sums calls to every mutating method.
func (r *Repo) WritesTotal() int {
	total := 0
	for _, name := range []string{
		"CreateHousehold", "CreatePerson", "CreateEvent", "CreateGift", "UpdatePerson",
		"MovePeople", "RepointGifts", "RepointCards", "RetireHousehold",
	} {
		total += r.Calls[name]
	}
	return total
}

func (r *Repo) Transaction(ctx context.Context, fn func(registry.Repository) error) error {
	if err := r.call("Transaction"); err != nil {
		return err
	}

	snapshot := r.snapshot()
	if err := fn(r); err != nil {
		r.restore(snapshot)
		return err
	}
	return nil
}

func (r *Repo) FindActiveHouseholdByName(ctx context.Context, key string) (*registry.Household, error) {
	if err := r.call("FindActiveHouseholdByName"); err != nil {
		return nil, err
	}
	for _, id := range sortedKeys(r.Households) {
		household := r.Households[id]
		if household.Active && household.NameKey == key {
			return &household, nil
		}
	}
	return nil, nil
}

func (r *Repo) FindActivePersonByName(ctx context.Context, key string) (*registry.Person, error) {
	if err := r.call("FindActivePersonByName"); err != nil {
		return nil, err
	}
	for _, id := range sortedKeys(r.People) {
		person := r.People[id]
		if person.Active && person.NameKey == key {
			return &person, nil
		}
	}
	return nil, nil
}

func (r *Repo) FindEventByName(ctx context.Context, name string) (*registry.Event, error) {
	if err := r.call("FindEventByName"); err != nil {
		return nil, err
	}
	for _, id := range sortedKeys(r.Events) {
		event := r.Events[id]
		if event.Name == name {
			return &event, nil
		}
	}
	return nil, nil
}

func (r *Repo) GetHousehold(ctx context.Context, id int64) (*registry.Household, error) {
	if err := r.call("GetHousehold"); err != nil {
		return nil, err
	}
	household, ok := r.Households[id]
	if !ok {
		return nil, registry.NotFound(registry.KindHousehold, id)
	}
	return &household, nil
}

func (r *Repo) ListHouseholds(ctx context.Context, includeRetired bool) ([]registry.Household, error) {
	if err := r.call("ListHouseholds"); err != nil {
		return nil, err
	}
	result := make([]registry.Household, 0, len(r.Households))
	for _, id := range sortedKeys(r.Households) {
		household := r.Households[id]
		if household.Active || includeRetired {
			result = append(result, household)
		}
	}
	return result, nil
}

func (r *Repo) ListMembers(ctx context.Context, householdID int64) ([]registry.Person, error) {
	if err := r.call("ListMembers"); err != nil {
		return nil, err
	}
	result := make([]registry.Person, 0)
	for _, id := range sortedKeys(r.People) {
		person := r.People[id]
		if person.Active && person.HouseholdID != nil && *person.HouseholdID == householdID {
			result = append(result, person)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].NameKey < result[j].NameKey
	})
	return result, nil
}

func (r *Repo) CreateHousehold(ctx context.Context, household *registry.Household) error {
	if err := r.call("CreateHousehold"); err != nil {
		return err
	}
	r.beforeCreate(registry.KindHousehold)

	household.NameKey = identity.Normalize(household.Name)
	for _, existing := range r.Households {
		if existing.Active && existing.NameKey == household.NameKey {
			return registry.ErrAlreadyExists
		}
	}
	household.ID = r.id()
	household.Active = true
	household.CreatedAt = time.Now().UTC()
	household.UpdatedAt = household.CreatedAt
	r.Households[household.ID] = *household
	return nil
}

func (r *Repo) CreatePerson(ctx context.Context, person *registry.Person) error {
	if err := r.call("CreatePerson"); err != nil {
		return err
	}
	r.beforeCreate(registry.KindPerson)

	person.NameKey = identity.Normalize(person.DisplayName)
	for _, existing := range r.People {
		if existing.Active && existing.NameKey == person.NameKey {
			return registry.ErrAlreadyExists
		}
	}
	person.ID = r.id()
	person.Active = true
	person.CreatedAt = time.Now().UTC()
	person.UpdatedAt = person.CreatedAt
	r.People[person.ID] = *person
	return nil
}

func (r *Repo) CreateEvent(ctx context.Context, event *registry.Event) error {
	if err := r.call("CreateEvent"); err != nil {
		return err
	}
	r.beforeCreate(registry.KindEvent)

	for _, existing := range r.Events {
		if existing.Name == event.Name {
			return registry.ErrAlreadyExists
		}
	}
	event.ID = r.id()
	event.CreatedAt = time.Now().UTC()
	event.UpdatedAt = event.CreatedAt
	r.Events[event.ID] = *event
	return nil
}

func (r *Repo) CreateGift(ctx context.Context, gift *registry.Gift) error {
	if err := r.call("CreateGift"); err != nil {
		return err
	}
	gift.ID = r.id()
	gift.CreatedAt = time.Now().UTC()
	gift.UpdatedAt = gift.CreatedAt
	r.Gifts[gift.ID] = *gift
	return nil
}

func (r *Repo) UpdatePerson(ctx context.Context, id int64, changes registry.PersonChanges) error {
	if err := r.call("UpdatePerson"); err != nil {
		return err
	}
	person, ok := r.People[id]
	if !ok {
		return registry.NotFound(registry.KindPerson, id)
	}
	if changes.HouseholdID != nil {
		value := *changes.HouseholdID
		person.HouseholdID = &value
	}
	if changes.RelationshipLabel != nil {
		value := *changes.RelationshipLabel
		person.RelationshipLabel = &value
	}
	if changes.Notes != nil {
		value := *changes.Notes
		person.Notes = &value
	}
	if changes.IsChild != nil {
		person.IsChild = *changes.IsChild
	}
	r.People[id] = person
	return nil
}

func (r *Repo) MovePeople(ctx context.Context, fromHouseholdID, toHouseholdID int64) (int64, error) {
	if err := r.call("MovePeople"); err != nil {
		return 0, err
	}
	var moved int64
	for id, person := range r.People {
		if person.HouseholdID != nil && *person.HouseholdID == fromHouseholdID {
			target := toHouseholdID
			person.HouseholdID = &target
			r.People[id] = person
			moved++
		}
	}
	return moved, nil
}

func (r *Repo) RepointGifts(ctx context.Context, fromHouseholdID, toHouseholdID int64) (int64, error) {
	if err := r.call("RepointGifts"); err != nil {
		return 0, err
	}
	var updated int64
	for id, gift := range r.Gifts {
		touched := false
		if gift.GiverHouseholdID != nil && *gift.GiverHouseholdID == fromHouseholdID {
			target := toHouseholdID
			gift.GiverHouseholdID = &target
			touched = true
		}
		if gift.ReceiverHouseholdID != nil && *gift.ReceiverHouseholdID == fromHouseholdID {
			target := toHouseholdID
			gift.ReceiverHouseholdID = &target
			touched = true
		}
		if touched {
			r.Gifts[id] = gift
			updated++
		}
	}
	return updated, nil
}

func (r *Repo) RepointCards(ctx context.Context, fromHouseholdID, toHouseholdID int64) (int64, error) {
	if err := r.call("RepointCards"); err != nil {
		return 0, err
	}
	var updated int64
	for id, card := range r.Cards {
		if card.HouseholdID != fromHouseholdID {
			continue
		}
		for _, other := range r.Cards {
			if other.HouseholdID == toHouseholdID && other.EventID == card.EventID {
				return updated, registry.ErrAlreadyExists
			}
		}
		card.HouseholdID = toHouseholdID
		r.Cards[id] = card
		updated++
	}
	return updated, nil
}

func (r *Repo) RetireHousehold(ctx context.Context, id int64) error {
	if err := r.call("RetireHousehold"); err != nil {
		return err
	}
	household, ok := r.Households[id]
	if !ok {
		return registry.NotFound(registry.KindHousehold, id)
	}
	household.Active = false
	r.Households[id] = household
	return nil
}

func (r *Repo) beforeCreate(kind registry.Kind) {
	if r.BeforeCreate == nil {
		return
	}
	hook := r.BeforeCreate
	r.BeforeCreate = nil
	hook(kind)
}

type snapshot struct {
	households map[int64]registry.Household
	people     map[int64]registry.Person
	events     map[int64]registry.Event
	gifts      map[int64]registry.Gift
	cards      map[int64]registry.Card
	nextID     int64
}

func (r *Repo) snapshot() snapshot {
	return snapshot{
		households: cloneMap(r.Households),
		people:     cloneMap(r.People),
		events:     cloneMap(r.Events),
		gifts:      cloneMap(r.Gifts),
		cards:      cloneMap(r.Cards),
		nextID:     r.nextID,
	}
}

func (r *Repo) restore(s snapshot) {
	r.Households = s.households
	r.People = s.people
	r.Events = s.events
	r.Gifts = s.gifts
	r.Cards = s.cards
	r.nextID = s.nextID
}

func cloneMap[V any](src map[int64]V) map[int64]V {
	dst := make(map[int64]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
