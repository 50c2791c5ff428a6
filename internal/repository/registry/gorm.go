package registry

import (
	"context"
	"errors"
	"fmt"

	"gift-tracker-go/internal/domain/identity"
	registrydomain "gift-tracker-go/internal/domain/registry"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// GormRepository implements registrydomain.Repository on postgres or sqlite.
type GormRepository struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Transaction(ctx context.Context, fn func(registrydomain.Repository) error) error {
	var fnErr error
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(&GormRepository{db: tx})
		return fnErr
	})
	if err != nil && fnErr == nil {
		return mapError(err)
	}
	return err
}

func (r *GormRepository) FindActiveHouseholdByName(ctx context.Context, key string) (*registrydomain.Household, error) {
	var household registrydomain.Household
	err := r.db.WithContext(ctx).Where("name_key = ? AND active = ?", key, true).First(&household).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return &household, nil
}

func (r *GormRepository) FindActivePersonByName(ctx context.Context, key string) (*registrydomain.Person, error) {
	var person registrydomain.Person
	err := r.db.WithContext(ctx).Where("name_key = ? AND active = ?", key, true).First(&person).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return &person, nil
}

func (r *GormRepository) FindEventByName(ctx context.Context, name string) (*registrydomain.Event, error) {
	var event registrydomain.Event
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err)
	}
	return &event, nil
}

func (r *GormRepository) GetHousehold(ctx context.Context, id int64) (*registrydomain.Household, error) {
	var household registrydomain.Household
	if err := r.db.WithContext(ctx).First(&household, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, registrydomain.NotFound(registrydomain.KindHousehold, id)
		}
		return nil, mapError(err)
	}
	return &household, nil
}

func (r *GormRepository) ListHouseholds(ctx context.Context, includeRetired bool) ([]registrydomain.Household, error) {
	query := r.db.WithContext(ctx).Order("id asc")
	if !includeRetired {
		query = query.Where("active = ?", true)
	}

	var households []registrydomain.Household
	if err := query.Find(&households).Error; err != nil {
		return nil, mapError(err)
	}
	return households, nil
}

func (r *GormRepository) ListMembers(ctx context.Context, householdID int64) ([]registrydomain.Person, error) {
	var people []registrydomain.Person
	if err := r.db.WithContext(ctx).
		Where("household_id = ? AND active = ?", householdID, true).
		Order("name_key asc, id asc").
		Find(&people).Error; err != nil {
		return nil, mapError(err)
	}
	return people, nil
}

func (r *GormRepository) CreateHousehold(ctx context.Context, household *registrydomain.Household) error {
	household.NameKey = identity.Normalize(household.Name)
	return mapError(r.db.WithContext(ctx).Create(household).Error)
}

func (r *GormRepository) CreatePerson(ctx context.Context, person *registrydomain.Person) error {
	person.NameKey = identity.Normalize(person.DisplayName)
	return mapError(r.db.WithContext(ctx).Create(person).Error)
}

func (r *GormRepository) CreateEvent(ctx context.Context, event *registrydomain.Event) error {
	return mapError(r.db.WithContext(ctx).Create(event).Error)
}

func (r *GormRepository) CreateGift(ctx context.Context, gift *registrydomain.Gift) error {
	return mapError(r.db.WithContext(ctx).Create(gift).Error)
}

func (r *GormRepository) UpdatePerson(ctx context.Context, id int64, changes registrydomain.PersonChanges) error {
	updates := make(map[string]any)
	if changes.HouseholdID != nil {
		updates["household_id"] = *changes.HouseholdID
	}
	if changes.RelationshipLabel != nil {
		updates["relationship_label"] = *changes.RelationshipLabel
	}
	if changes.Notes != nil {
		updates["notes"] = *changes.Notes
	}
	if changes.IsChild != nil {
		updates["is_child"] = *changes.IsChild
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&registrydomain.Person{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return registrydomain.NotFound(registrydomain.KindPerson, id)
	}
	return nil
}

func (r *GormRepository) MovePeople(ctx context.Context, fromHouseholdID, toHouseholdID int64) (int64, error) {
	result := r.db.WithContext(ctx).Model(&registrydomain.Person{}).
		Where("household_id = ?", fromHouseholdID).
		Update("household_id", toHouseholdID)
	if result.Error != nil {
		return 0, mapError(result.Error)
	}
	return result.RowsAffected, nil
}

// RepointGifts rewrites both household columns in one statement so a gift
// referencing the source on both sides counts once.
func (r *GormRepository) RepointGifts(ctx context.Context, fromHouseholdID, toHouseholdID int64) (int64, error) {
	result := r.db.WithContext(ctx).Model(&registrydomain.Gift{}).
		Where("giver_household_id = ? OR receiver_household_id = ?", fromHouseholdID, fromHouseholdID).
		Updates(map[string]any{
			"giver_household_id": gorm.Expr(
				"CASE WHEN giver_household_id = ? THEN ? ELSE giver_household_id END", fromHouseholdID, toHouseholdID),
			"receiver_household_id": gorm.Expr(
				"CASE WHEN receiver_household_id = ? THEN ? ELSE receiver_household_id END", fromHouseholdID, toHouseholdID),
		})
	if result.Error != nil {
		return 0, mapError(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *GormRepository) RepointCards(ctx context.Context, fromHouseholdID, toHouseholdID int64) (int64, error) {
	result := r.db.WithContext(ctx).Model(&registrydomain.Card{}).
		Where("household_id = ?", fromHouseholdID).
		Update("household_id", toHouseholdID)
	if result.Error != nil {
		return 0, mapError(result.Error)
	}
	return result.RowsAffected, nil
}

func (r *GormRepository) RetireHousehold(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Model(&registrydomain.Household{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return registrydomain.NotFound(registrydomain.KindHousehold, id)
	}
	return nil
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", registrydomain.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey), pgCode(err) == pgUniqueViolation:
		return fmt.Errorf("%w: %w", registrydomain.ErrAlreadyExists, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated), pgCode(err) == pgForeignKeyViolation:
		return fmt.Errorf("%w: %w", registrydomain.ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %w", registrydomain.ErrPersistence, err)
	}
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
