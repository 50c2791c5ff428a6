package imports

import (
	"context"
	"fmt"

	"gift-tracker-go/internal/domain/identity"
	"gift-tracker-go/internal/domain/registry"
	"github.com/google/uuid"
)

// Service imports batches of loosely structured gift and person records.
// Each record is committed in its own transaction; a failing record is
// reported in the result and does not stop the batch.
//
// When ctx is cancelled mid-batch the result so far is returned together
// with the context error; records from Processed onwards were not attempted.
type Service struct {
	repo     registry.Repository
	resolver *registry.Resolver
	metrics  Metrics
}

func NewService(repo registry.Repository, resolver *registry.Resolver, metrics Metrics) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{
		repo:     repo,
		resolver: resolver,
		metrics:  metrics,
	}
}

func (s *Service) ImportGifts(ctx context.Context, raw any) (*GiftsResult, error) {
	items, err := s.records(BatchGifts, raw)
	if err != nil {
		return nil, err
	}

	result := &GiftsResult{ImportID: uuid.NewString()}
	for index, item := range items {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Processed++

		if err := s.importGift(ctx, item); err != nil {
			result.Errors = append(result.Errors, recordError(index, item, err))
			s.metrics.ObserveImportRecord(BatchGifts, RecordStatusFailed)
			continue
		}
		result.Created++
		s.metrics.ObserveImportRecord(BatchGifts, RecordStatusImported)
	}

	return result, nil
}

func (s *Service) importGift(ctx context.Context, item any) error {
	record, err := asRecord(item)
	if err != nil {
		return err
	}
	input, err := parseGift(record)
	if err != nil {
		return err
	}

	return s.inTransaction(ctx, func(tx registry.Repository, resolver *registry.Resolver) error {
		event, err := resolver.ResolveEvent(ctx, input.EventName, registry.EventDefaults{
			Type: registry.EventTypeGiftExchange,
			Date: input.GivenDate,
		})
		if err != nil {
			return fmt.Errorf("event: %w", err)
		}

		giverHousehold, err := resolver.ResolveHousehold(ctx, input.GiverHouseholdName)
		if err != nil {
			return fmt.Errorf("giver household: %w", err)
		}
		giver, err := resolver.ResolvePerson(ctx, input.GiverName, householdRef(giverHousehold.Entity))
		if err != nil {
			return fmt.Errorf("giver: %w", err)
		}

		receiverHousehold, err := resolver.ResolveHousehold(ctx, input.ReceiverHouseholdName)
		if err != nil {
			return fmt.Errorf("receiver household: %w", err)
		}
		receiver, err := resolver.ResolvePerson(ctx, input.ReceiverName, nil)
		if err != nil {
			return fmt.Errorf("receiver: %w", err)
		}

		gift := &registry.Gift{
			Direction:           input.Direction,
			EventID:             eventRef(event.Entity),
			GiverPersonID:       personRef(giver.Entity),
			GiverHouseholdID:    householdRef(giverHousehold.Entity),
			ReceiverPersonID:    personRef(receiver.Entity),
			ReceiverHouseholdID: householdRef(receiverHousehold.Entity),
			Description:         input.Description,
			EstValue:            input.EstValue,
			GivenDate:           input.GivenDate,
			Notes:               input.Notes,
			RecordedBy:          input.RecordedBy,
			VisibilityHint:      input.VisibilityHint,
		}
		return tx.CreateGift(ctx, gift)
	})
}

func (s *Service) ImportPeople(ctx context.Context, raw any) (*PeopleResult, error) {
	items, err := s.records(BatchPeople, raw)
	if err != nil {
		return nil, err
	}

	result := &PeopleResult{ImportID: uuid.NewString()}
	households := make(map[string]*registry.Household)

	for index, item := range items {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Processed++

		outcome, err := s.importPerson(ctx, item, households)
		if err != nil {
			result.Errors = append(result.Errors, recordError(index, item, err))
			s.metrics.ObserveImportRecord(BatchPeople, RecordStatusFailed)
			continue
		}

		if outcome.household != nil {
			if _, ok := households[outcome.householdKey]; !ok {
				households[outcome.householdKey] = outcome.household
			}
		}
		if outcome.householdCreated {
			result.HouseholdsCreated++
		}
		if outcome.personCreated {
			result.PeopleCreated++
		}
		s.metrics.ObserveImportRecord(BatchPeople, RecordStatusImported)
	}

	return result, nil
}

type personOutcome struct {
	householdKey     string
	household        *registry.Household
	householdCreated bool
	personCreated    bool
}

// importPerson reads households from the batch memo but never writes to it;
// the caller records the household once the transaction has committed.
func (s *Service) importPerson(ctx context.Context, item any, households map[string]*registry.Household) (personOutcome, error) {
	var outcome personOutcome

	record, err := asRecord(item)
	if err != nil {
		return outcome, err
	}
	input, err := parsePerson(record)
	if err != nil {
		return outcome, err
	}

	err = s.inTransaction(ctx, func(tx registry.Repository, resolver *registry.Resolver) error {
		outcome = personOutcome{householdKey: identity.Normalize(input.HouseholdName)}

		var householdID *int64
		if outcome.householdKey != "" {
			household, ok := households[outcome.householdKey]
			if !ok {
				res, err := resolver.ResolveHousehold(ctx, input.HouseholdName)
				if err != nil {
					return fmt.Errorf("household: %w", err)
				}
				household = res.Entity
				outcome.householdCreated = res.Created()
			}
			outcome.household = household
			householdID = householdRef(household)
		}

		person, err := resolver.ResolvePerson(ctx, input.DisplayName, householdID)
		if err != nil {
			return fmt.Errorf("person: %w", err)
		}
		outcome.personCreated = person.Created()

		changes := registry.PersonChanges{
			RelationshipLabel: input.RelationshipLabel,
			Notes:             input.Notes,
			IsChild:           input.IsChild,
		}
		if changes.Empty() {
			return nil
		}
		return tx.UpdatePerson(ctx, person.Entity.ID, changes)
	})
	if err != nil {
		return personOutcome{}, err
	}
	return outcome, nil
}

// inTransaction runs fn with a resolver bound to the record's transaction.
// Resolution metrics are forwarded once the outcome of the transaction is known.
func (s *Service) inTransaction(ctx context.Context, fn func(tx registry.Repository, resolver *registry.Resolver) error) error {
	var deferred *registry.Deferred
	err := s.repo.Transaction(ctx, func(tx registry.Repository) error {
		var resolver *registry.Resolver
		resolver, deferred = s.resolver.InTransaction(tx)
		return fn(tx, resolver)
	})
	if deferred != nil {
		if err != nil {
			deferred.Rollback()
		} else {
			deferred.Commit()
		}
	}
	return err
}

// records only rejects payloads that are not a sequence; every element of a
// sequence is attempted regardless of the batch size.
func (s *Service) records(batch Batch, raw any) ([]any, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, registry.NewValidationError(string(batch), "must be an array")
	}
	return items, nil
}

func recordError(index int, item any, err error) RecordError {
	return RecordError{Index: index, Record: item, Error: err.Error()}
}

func householdRef(household *registry.Household) *int64 {
	if household == nil {
		return nil
	}
	id := household.ID
	return &id
}

func personRef(person *registry.Person) *int64 {
	if person == nil {
		return nil
	}
	id := person.ID
	return &id
}

func eventRef(event *registry.Event) *int64 {
	if event == nil {
		return nil
	}
	id := event.ID
	return &id
}
