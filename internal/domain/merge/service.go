package merge

import (
	"context"
	"errors"
	"fmt"

	"gift-tracker-go/internal/domain/registry"
)

// Service folds one household into another. References are repointed
// before the source is retired, and every step shares one transaction.
type Service struct {
	repo    registry.Repository
	metrics Metrics
}

func NewService(repo registry.Repository, metrics Metrics) *Service {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Service{repo: repo, metrics: metrics}
}

func (s *Service) Merge(ctx context.Context, input Input) (*Result, error) {
	result, err := s.merge(ctx, input)
	switch {
	case err == nil:
		s.metrics.ObserveMerge(StatusMerged)
	case errors.Is(err, registry.ErrValidation), errors.Is(err, registry.ErrNotFound):
		s.metrics.ObserveMerge(StatusRejected)
	default:
		s.metrics.ObserveMerge(StatusFailed)
	}
	return result, err
}

func (s *Service) merge(ctx context.Context, input Input) (*Result, error) {
	if input.SourceHouseholdID <= 0 {
		return nil, registry.NewValidationError("source_household_id", "is required")
	}
	if input.TargetHouseholdID <= 0 {
		return nil, registry.NewValidationError("target_household_id", "is required")
	}
	if input.SourceHouseholdID == input.TargetHouseholdID {
		return nil, registry.NewValidationError("", "source and target households must differ")
	}

	source, target := input.SourceHouseholdID, input.TargetHouseholdID
	var result Result
	err := s.repo.Transaction(ctx, func(tx registry.Repository) error {
		if _, err := tx.GetHousehold(ctx, source); err != nil {
			return err
		}
		if _, err := tx.GetHousehold(ctx, target); err != nil {
			return err
		}

		var err error
		if result.PeopleMoved, err = tx.MovePeople(ctx, source, target); err != nil {
			return fmt.Errorf("move people: %w", err)
		}
		if result.GiftsUpdated, err = tx.RepointGifts(ctx, source, target); err != nil {
			return fmt.Errorf("repoint gifts: %w", err)
		}
		if result.CardsUpdated, err = tx.RepointCards(ctx, source, target); err != nil {
			return fmt.Errorf("repoint cards: %w", err)
		}
		if err := tx.RetireHousehold(ctx, source); err != nil {
			return fmt.Errorf("retire source: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
