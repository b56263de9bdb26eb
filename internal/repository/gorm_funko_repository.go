package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"funko-catalog-api/internal/models"

	"gorm.io/gorm"
)

// Options tunes GormFunkoRepository behaviour.
type Options struct {
	// StrictNameLookup makes FindByName return ErrNoMatches instead of an empty slice.
	StrictNameLookup bool
}

// GormFunkoRepository stores funkos through gorm.
type GormFunkoRepository struct {
	db   *gorm.DB
	opts Options
}

// NewGormFunkoRepository wraps an already migrated database handle.
func NewGormFunkoRepository(db *gorm.DB, opts Options) *GormFunkoRepository {
	return &GormFunkoRepository{db: db, opts: opts}
}

// FindAll returns every funko ordered by name.
func (r *GormFunkoRepository) FindAll(ctx context.Context) ([]models.Funko, error) {
	var funkos []models.Funko
	if err := r.db.WithContext(ctx).Order("name asc").Find(&funkos).Error; err != nil {
		return nil, fmt.Errorf("find all funkos: %w", err)
	}
	return funkos, nil
}

// FindByID returns the funko with id, or nil when there is none.
func (r *GormFunkoRepository) FindByID(ctx context.Context, id string) (*models.Funko, error) {
	var f models.Funko
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find funko %s: %w", id, err)
	}
	return &f, nil
}

// FindByName returns funkos whose name equals name, ignoring case.
func (r *GormFunkoRepository) FindByName(ctx context.Context, name string) ([]models.Funko, error) {
	var funkos []models.Funko
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Order("name asc").
		Find(&funkos).Error
	if err != nil {
		return nil, fmt.Errorf("find funkos named %q: %w", name, err)
	}
	if len(funkos) == 0 && r.opts.StrictNameLookup {
		return nil, ErrNoMatches
	}
	return funkos, nil
}

// Save inserts f. Inserting an existing ID fails.
func (r *GormFunkoRepository) Save(ctx context.Context, f models.Funko) (*models.Funko, error) {
	if err := r.db.WithContext(ctx).Create(&f).Error; err != nil {
		return nil, fmt.Errorf("save funko %s: %w", f.ID, err)
	}
	return &f, nil
}

// Update overwrites the mutable columns of the funko with id. It returns nil when no
// row was touched.
func (r *GormFunkoRepository) Update(ctx context.Context, id string, f models.Funko) (*models.Funko, error) {
	var updated *models.Funko
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Funko{ID: id}).
			Select("name", "model", "price", "release_date", "updated_at").
			Updates(models.Funko{
				Name:        f.Name,
				Model:       f.Model,
				Price:       f.Price,
				ReleaseDate: f.ReleaseDate,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		var out models.Funko
		if err := tx.Where("id = ?", id).First(&out).Error; err != nil {
			return err
		}
		updated = &out
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update funko %s: %w", id, err)
	}
	return updated, nil
}

// Delete removes the funko with id and returns the removed record, or nil when
// nothing was removed.
func (r *GormFunkoRepository) Delete(ctx context.Context, id string) (*models.Funko, error) {
	var removed *models.Funko
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var f models.Funko
		err := tx.Where("id = ?", id).First(&f).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		res := tx.Delete(&models.Funko{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			removed = &f
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete funko %s: %w", id, err)
	}
	return removed, nil
}

// Ensure GormFunkoRepository implements FunkoRepository at compile time.
var _ FunkoRepository = (*GormFunkoRepository)(nil)
