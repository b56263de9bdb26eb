package repository

import (
	"context"
	"errors"

	"funko-catalog-api/internal/models"
)

// ErrNoMatches is returned by FindByName when strict name lookups are enabled and
// nothing matched.
var ErrNoMatches = errors.New("no funkos match the given name")

// FunkoRepository performs persistent CRUD on funkos.
//
// Lookups and mutations that find nothing report it with a nil record and a nil
// error; errors are reserved for storage failures.
type FunkoRepository interface {
	FindAll(ctx context.Context) ([]models.Funko, error)
	FindByID(ctx context.Context, id string) (*models.Funko, error)
	FindByName(ctx context.Context, name string) ([]models.Funko, error)
	Save(ctx context.Context, f models.Funko) (*models.Funko, error)
	Update(ctx context.Context, id string, f models.Funko) (*models.Funko, error)
	Delete(ctx context.Context, id string) (*models.Funko, error)
}
