package registry

import (
	"context"
	"errors"
	"strings"
	"time"

	"gift-tracker-go/internal/domain/identity"
)

// Outcome tags how a find-or-create call was satisfied.
type Outcome string

const (
	// OutcomeSkipped means the name was empty and nothing was looked up.
	OutcomeSkipped       Outcome = "skipped"
	OutcomeCreated       Outcome = "created"
	OutcomeFoundExisting Outcome = "found_existing"
	// OutcomeUpdated means an existing person was found and its household
	// reference was changed.
	OutcomeUpdated Outcome = "updated"
	// OutcomeLostRace means the lookup missed but the insert collided with a
	// row created concurrently. The ErrAlreadyExists error is returned too.
	OutcomeLostRace Outcome = "lost_race_conflict"
)

type Resolution[T any] struct {
	Entity  *T
	Outcome Outcome
}

func (r Resolution[T]) Created() bool {
	return r.Outcome == OutcomeCreated
}

type Metrics interface {
	ObserveResolution(kind Kind, outcome Outcome)
}

type noopMetrics struct{}

func (noopMetrics) ObserveResolution(Kind, Outcome) {}

type EventDefaults struct {
	Type string
	Date *time.Time
}

type ResolveInput struct {
	Kind        Kind
	Name        string
	HouseholdID *int64
	Event       EventDefaults
}

// Resolved is the kind-erased result of Resolve.
type Resolved struct {
	Kind    Kind    `json:"kind"`
	Outcome Outcome `json:"outcome"`
	Entity  any     `json:"entity"`
}

// Resolver finds active records by normalized name or creates them. Each
// call issues at most one read and one write. Concurrent callers are not
// serialized; the storage uniqueness constraints decide who wins.
type Resolver struct {
	repo    Repository
	metrics Metrics
}

func NewResolver(repo Repository, metrics Metrics) *Resolver {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Resolver{repo: repo, metrics: metrics}
}

// InTransaction returns a resolver issuing its queries through tx. Its
// observations are held by the returned Deferred until the caller settles
// the transaction with Commit or Rollback.
func (r *Resolver) InTransaction(tx Repository) (*Resolver, *Deferred) {
	deferred := &Deferred{next: r.metrics}
	return &Resolver{repo: tx, metrics: deferred}, deferred
}

type observation struct {
	kind    Kind
	outcome Outcome
}

// Deferred buffers resolution observations made inside a transaction.
type Deferred struct {
	next    Metrics
	pending []observation
}

func (d *Deferred) ObserveResolution(kind Kind, outcome Outcome) {
	d.pending = append(d.pending, observation{kind: kind, outcome: outcome})
}

// Commit forwards every buffered observation.
func (d *Deferred) Commit() {
	d.flush(func(Outcome) bool { return true })
}

// Rollback forwards lost races only. Created, found and updated outcomes
// describe rows the rollback discarded.
func (d *Deferred) Rollback() {
	d.flush(func(outcome Outcome) bool { return outcome == OutcomeLostRace })
}

func (d *Deferred) flush(keep func(Outcome) bool) {
	for _, obs := range d.pending {
		if keep(obs.outcome) {
			d.next.ObserveResolution(obs.kind, obs.outcome)
		}
	}
	d.pending = nil
}

func (r *Resolver) Resolve(ctx context.Context, input ResolveInput) (Resolved, error) {
	switch input.Kind {
	case KindHousehold:
		res, err := r.ResolveHousehold(ctx, input.Name)
		return erase(KindHousehold, res, err)
	case KindPerson:
		res, err := r.ResolvePerson(ctx, input.Name, input.HouseholdID)
		return erase(KindPerson, res, err)
	case KindEvent:
		res, err := r.ResolveEvent(ctx, input.Name, input.Event)
		return erase(KindEvent, res, err)
	default:
		return Resolved{}, NewValidationError("kind", "must be one of household, person, event")
	}
}

func (r *Resolver) ResolveHousehold(ctx context.Context, name string) (Resolution[Household], error) {
	key := identity.Normalize(name)
	if key == "" {
		return Resolution[Household]{Outcome: OutcomeSkipped}, nil
	}

	existing, err := r.repo.FindActiveHouseholdByName(ctx, key)
	if err != nil {
		return Resolution[Household]{}, err
	}
	if existing != nil {
		return resolved(r.metrics, KindHousehold, OutcomeFoundExisting, existing)
	}

	household := &Household{
		Name:   strings.TrimSpace(name),
		Active: true,
	}
	if err := r.repo.CreateHousehold(ctx, household); err != nil {
		return createFailed[Household](r.metrics, KindHousehold, err)
	}
	return resolved(r.metrics, KindHousehold, OutcomeCreated, household)
}

// ResolvePerson matches an active person by display name. When householdID
// is set it is attached to a new person, or written to an existing one whose
// current household differs.
func (r *Resolver) ResolvePerson(ctx context.Context, name string, householdID *int64) (Resolution[Person], error) {
	key := identity.Normalize(name)
	if key == "" {
		return Resolution[Person]{Outcome: OutcomeSkipped}, nil
	}

	existing, err := r.repo.FindActivePersonByName(ctx, key)
	if err != nil {
		return Resolution[Person]{}, err
	}
	if existing != nil {
		if householdID == nil || sameID(existing.HouseholdID, householdID) {
			return resolved(r.metrics, KindPerson, OutcomeFoundExisting, existing)
		}
		target := *householdID
		if err := r.repo.UpdatePerson(ctx, existing.ID, PersonChanges{HouseholdID: &target}); err != nil {
			return Resolution[Person]{}, err
		}
		existing.HouseholdID = &target
		return resolved(r.metrics, KindPerson, OutcomeUpdated, existing)
	}

	person := &Person{
		DisplayName: strings.TrimSpace(name),
		HouseholdID: copyID(householdID),
		Active:      true,
	}
	if err := r.repo.CreatePerson(ctx, person); err != nil {
		return createFailed[Person](r.metrics, KindPerson, err)
	}
	return resolved(r.metrics, KindPerson, OutcomeCreated, person)
}

// ResolveEvent matches events by exact stored name regardless of any
// active state, unlike households and people.
func (r *Resolver) ResolveEvent(ctx context.Context, name string, defaults EventDefaults) (Resolution[Event], error) {
	if strings.TrimSpace(name) == "" {
		return Resolution[Event]{Outcome: OutcomeSkipped}, nil
	}

	existing, err := r.repo.FindEventByName(ctx, name)
	if err != nil {
		return Resolution[Event]{}, err
	}
	if existing != nil {
		return resolved(r.metrics, KindEvent, OutcomeFoundExisting, existing)
	}

	eventType := strings.TrimSpace(defaults.Type)
	if eventType == "" {
		eventType = EventTypeGiftExchange
	}
	event := &Event{
		Name:      name,
		EventType: eventType,
		EventDate: defaults.Date,
	}
	if err := r.repo.CreateEvent(ctx, event); err != nil {
		return createFailed[Event](r.metrics, KindEvent, err)
	}
	return resolved(r.metrics, KindEvent, OutcomeCreated, event)
}

func resolved[T any](metrics Metrics, kind Kind, outcome Outcome, entity *T) (Resolution[T], error) {
	metrics.ObserveResolution(kind, outcome)
	return Resolution[T]{Entity: entity, Outcome: outcome}, nil
}

func createFailed[T any](metrics Metrics, kind Kind, err error) (Resolution[T], error) {
	if errors.Is(err, ErrAlreadyExists) {
		metrics.ObserveResolution(kind, OutcomeLostRace)
		return Resolution[T]{Outcome: OutcomeLostRace}, err
	}
	return Resolution[T]{}, err
}

func erase[T any](kind Kind, res Resolution[T], err error) (Resolved, error) {
	out := Resolved{Kind: kind, Outcome: res.Outcome}
	if err != nil {
		return out, err
	}
	if res.Entity != nil {
		out.Entity = res.Entity
	}
	return out, nil
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	value := *id
	return &value
}
