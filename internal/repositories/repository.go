package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Errors returned (wrapped) by every repository. Services match them with errors.Is.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrForeignKey   = errors.New("referenced record not found")
)

// translate maps GORM's translated driver errors onto the repository errors.
func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKey
	default:
		return err
	}
}

// paginate applies skip/take to a query.
func paginate(skip, take int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if skip > 0 {
			db = db.Offset(skip)
		}
		if take > 0 {
			db = db.Limit(take)
		}
		return db
	}
}

// gormStore implements the single-table operations shared by the resource repositories.
type gormStore[T any] struct {
	db       *gorm.DB
	resource string
}

func newGormStore[T any](db *gorm.DB, resource string) gormStore[T] {
	return gormStore[T]{db: db, resource: resource}
}

// Create inserts entity. Its ID is assigned by models.Base when empty.
func (s gormStore[T]) Create(ctx context.Context, entity *T) error {
	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", s.resource, translate(err))
	}
	return nil
}

// GetByID retrieves a single row by its ID.
func (s gormStore[T]) GetByID(ctx context.Context, id string) (*T, error) {
	var entity T
	if err := s.db.WithContext(ctx).First(&entity, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get %s by ID %s: %w", s.resource, id, translate(err))
	}
	return &entity, nil
}

// Exists reports whether a row with the given ID exists.
func (s gormStore[T]) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check %s %s: %w", s.resource, id, translate(err))
	}
	return count > 0, nil
}

// Update writes the given columns. Zero values in fields are written as is.
func (s gormStore[T]) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		ok, err := s.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s with ID %s not found for update: %w", s.resource, id, ErrNotFound)
		}
		return nil
	}

	res := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update %s: %w", s.resource, translate(res.Error))
	}
	// Updates does not report a missing row, so check RowsAffected.
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s with ID %s not found for update: %w", s.resource, id, ErrNotFound)
	}
	return nil
}

// Delete removes a row by its ID.
func (s gormStore[T]) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", s.resource, translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s with ID %s not found for deletion: %w", s.resource, id, ErrNotFound)
	}
	return nil
}

func (s gormStore[T]) find(query *gorm.DB) ([]T, error) {
	items := make([]T, 0)
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.resource, translate(err))
	}
	return items, nil
}
