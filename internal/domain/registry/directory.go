package registry

import (
	"context"
	"sort"

	"gift-tracker-go/internal/domain/identity"
	"github.com/facette/natsort"
)

// Directory serves read-only household views.
type Directory struct {
	repo Repository
}

func NewDirectory(repo Repository) *Directory {
	return &Directory{repo: repo}
}

// ListHouseholds returns households in natural name order, so "Unit 2"
// sorts before "Unit 10".
func (d *Directory) ListHouseholds(ctx context.Context, includeRetired bool) ([]Household, error) {
	households, err := d.repo.ListHouseholds(ctx, includeRetired)
	if err != nil {
		return nil, err
	}
	if households == nil {
		households = []Household{}
	}
	sort.SliceStable(households, func(i, j int) bool {
		return natsort.Compare(identity.Normalize(households[i].Name), identity.Normalize(households[j].Name))
	})
	return households, nil
}

func (d *Directory) GetHousehold(ctx context.Context, id int64, includeMembers bool) (*HouseholdWithMembers, error) {
	if id <= 0 {
		return nil, NewValidationError("id", "must be a positive integer")
	}

	household, err := d.repo.GetHousehold(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &HouseholdWithMembers{Household: *household}
	if !includeMembers {
		return result, nil
	}

	members, err := d.repo.ListMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []Person{}
	}
	result.Members = members
	return result, nil
}
