// Package mocks holds testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"funko-catalog-api/internal/models"
	"funko-catalog-api/internal/repository"

	"github.com/stretchr/testify/mock"
)

// FunkoRepository is a testify mock of repository.FunkoRepository.
type FunkoRepository struct {
	mock.Mock
}

// NewFunkoRepository creates a mock and asserts its expectations when the test ends.
func NewFunkoRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *FunkoRepository {
	m := &FunkoRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *FunkoRepository) FindAll(ctx context.Context) ([]models.Funko, error) {
	args := m.Called(ctx)
	funkos, _ := args.Get(0).([]models.Funko)
	return funkos, args.Error(1)
}

func (m *FunkoRepository) FindByID(ctx context.Context, id string) (*models.Funko, error) {
	args := m.Called(ctx, id)
	f, _ := args.Get(0).(*models.Funko)
	return f, args.Error(1)
}

func (m *FunkoRepository) FindByName(ctx context.Context, name string) ([]models.Funko, error) {
	args := m.Called(ctx, name)
	funkos, _ := args.Get(0).([]models.Funko)
	return funkos, args.Error(1)
}

func (m *FunkoRepository) Save(ctx context.Context, f models.Funko) (*models.Funko, error) {
	args := m.Called(ctx, f)
	if fn, ok := args.Get(0).(func(context.Context, models.Funko) (*models.Funko, error)); ok {
		return fn(ctx, f)
	}
	saved, _ := args.Get(0).(*models.Funko)
	return saved, args.Error(1)
}

func (m *FunkoRepository) Update(ctx context.Context, id string, f models.Funko) (*models.Funko, error) {
	args := m.Called(ctx, id, f)
	if fn, ok := args.Get(0).(func(context.Context, string, models.Funko) (*models.Funko, error)); ok {
		return fn(ctx, id, f)
	}
	updated, _ := args.Get(0).(*models.Funko)
	return updated, args.Error(1)
}

func (m *FunkoRepository) Delete(ctx context.Context, id string) (*models.Funko, error) {
	args := m.Called(ctx, id)
	removed, _ := args.Get(0).(*models.Funko)
	return removed, args.Error(1)
}

var _ repository.FunkoRepository = (*FunkoRepository)(nil)
