// Package repository holds the gorm queries behind the handlers.
package repository

import (
	"context"
	"errors"
	"fmt"

	"cafelist/model"

	"gorm.io/gorm"
)

// CafeRepo reads and writes the cafes table.
type CafeRepo struct {
	db *gorm.DB
}

func NewCafeRepo(db *gorm.DB) *CafeRepo {
	return &CafeRepo{db: db}
}

// List returns every cafe ordered by id.
func (r *CafeRepo) List(ctx context.Context) ([]model.Cafe, error) {
	var cafes []model.Cafe
	if err := r.db.WithContext(ctx).Order("id").Find(&cafes).Error; err != nil {
		return nil, fmt.Errorf("list cafes: %w", err)
	}
	return cafes, nil
}

// Count returns the number of rows in the table.
func (r *CafeRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Cafe{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count cafes: %w", err)
	}
	return n, nil
}

// GetByID returns ErrCafeNotFound when the id is unknown.
func (r *CafeRepo) GetByID(ctx context.Context, id uint) (*model.Cafe, error) {
	var cafe model.Cafe
	if err := r.db.WithContext(ctx).First(&cafe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCafeNotFound
		}
		return nil, fmt.Errorf("get cafe %d: %w", id, err)
	}
	return &cafe, nil
}

// Create inserts the cafe and fills in its ID.
func (r *CafeRepo) Create(ctx context.Context, cafe *model.Cafe) error {
	if err := r.db.WithContext(ctx).Create(cafe).Error; err != nil {
		if isDuplicate(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("create cafe: %w", err)
	}
	return nil
}

// CreateBatch inserts all cafes in one transaction; either every row is
// stored or none is.
func (r *CafeRepo) CreateBatch(ctx context.Context, cafes []model.Cafe) error {
	if len(cafes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&cafes).Error; err != nil {
			if isDuplicate(err) {
				return ErrDuplicateName
			}
			return fmt.Errorf("create cafes: %w", err)
		}
		return nil
	})
}

// Delete removes the cafe with the given id. A missing id is an error,
// never a silent no-op.
func (r *CafeRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cafe model.Cafe
		if err := tx.First(&cafe, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCafeNotFound
			}
			return fmt.Errorf("find cafe %d: %w", id, err)
		}
		if err := tx.Delete(&cafe).Error; err != nil {
			return fmt.Errorf("delete cafe %d: %w", id, err)
		}
		return nil
	})
}
