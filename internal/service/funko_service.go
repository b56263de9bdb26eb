package service

import (
	"context"
	"errors"

	"funko-catalog-api/internal/cache"
	"funko-catalog-api/internal/logging"
	"funko-catalog-api/internal/models"
	"funko-catalog-api/internal/realtime"
	"funko-catalog-api/internal/repository"

	"github.com/google/uuid"
)

// Publisher delivers domain events to observers.
type Publisher interface {
	Publish(ctx context.Context, evt realtime.Event)
	Close()
}

// FunkoService coordinates the lookup cache, the repository and event publishing.
// It is safe for concurrent use.
type FunkoService struct {
	repo      repository.FunkoRepository
	cache     cache.Cache[string, models.Funko]
	publisher Publisher
}

// NewFunkoService wires a service around its collaborators.
func NewFunkoService(
	repo repository.FunkoRepository,
	c cache.Cache[string, models.Funko],
	publisher Publisher,
) *FunkoService {
	return &FunkoService{
		repo:      repo,
		cache:     c,
		publisher: publisher,
	}
}

// FindAll returns every stored funko straight from the repository.
func (s *FunkoService) FindAll(ctx context.Context) ([]models.Funko, error) {
	funkos, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, newError(KindStorage, "find all", "", err)
	}
	if funkos == nil {
		funkos = []models.Funko{}
	}
	return funkos, nil
}

// FindByID serves from the cache when possible and populates it on a repository hit.
// A funko that does not exist yields (nil, nil).
func (s *FunkoService) FindByID(ctx context.Context, id string) (*models.Funko, error) {
	log := logging.FromContext(ctx)

	if f, ok := s.cache.Get(id); ok {
		log.Debug().Str("funko_id", id).Msg("cache hit")
		return &f, nil
	}
	log.Debug().Str("funko_id", id).Msg("cache miss")

	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, newError(KindStorage, "find by id", id, err)
	}
	if f == nil {
		return nil, nil
	}

	s.cache.Put(f.ID, *f)
	return f, nil
}

// FindByName always queries the repository.
func (s *FunkoService) FindByName(ctx context.Context, name string) ([]models.Funko, error) {
	funkos, err := s.repo.FindByName(ctx, name)
	if errors.Is(err, repository.ErrNoMatches) {
		return nil, newError(KindNotFound, "find by name", name, err)
	}
	if err != nil {
		return nil, newError(KindStorage, "find by name", name, err)
	}
	if funkos == nil {
		funkos = []models.Funko{}
	}
	return funkos, nil
}

// Save validates and stores a new funko, assigning an ID when it has none.
func (s *FunkoService) Save(ctx context.Context, f models.Funko) (*models.Funko, error) {
	log := logging.FromContext(ctx)

	if err := f.Validate(); err != nil {
		return nil, newError(KindInvalidEntity, "save", f.ID, err)
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}

	saved, err := s.repo.Save(ctx, f)
	if err != nil {
		return nil, newError(KindNotSaved, "save", f.ID, err)
	}
	if saved == nil {
		return nil, newError(KindNotSaved, "save", f.ID, nil)
	}

	s.cache.Put(saved.ID, *saved)
	s.publisher.Publish(ctx, realtime.NewEvent(realtime.EventCreated, *saved))

	log.Info().Str("funko_id", saved.ID).Str("name", saved.Name).Msg("funko saved")
	return saved, nil
}

// Update replaces the funko stored under id. Existence is checked against the
// repository, never the cache.
func (s *FunkoService) Update(ctx context.Context, id string, f models.Funko) (*models.Funko, error) {
	log := logging.FromContext(ctx)

	f.ID = id
	if err := f.Validate(); err != nil {
		return nil, newError(KindInvalidEntity, "update", id, err)
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, newError(KindStorage, "update", id, err)
	}
	if current == nil {
		return nil, newError(KindNotFound, "update", id, nil)
	}

	updated, err := s.repo.Update(ctx, id, f)
	if err != nil {
		return nil, newError(KindStorage, "update", id, err)
	}
	if updated == nil {
		return nil, newError(KindNotValid, "update", id, nil)
	}

	s.cache.Put(id, *updated)
	s.publisher.Publish(ctx, realtime.NewEvent(realtime.EventUpdated, *updated))

	log.Info().Str("funko_id", id).Str("name", updated.Name).Msg("funko updated")
	return updated, nil
}

// Delete removes the funko stored under id and returns it. The cache entry is only
// dropped once the repository has answered.
func (s *FunkoService) Delete(ctx context.Context, id string) (*models.Funko, error) {
	log := logging.FromContext(ctx)

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, newError(KindStorage, "delete", id, err)
	}

	// The repository is authoritative: whether or not it removed anything, the
	// record is gone now.
	s.cache.Remove(id)

	if removed == nil {
		return nil, newError(KindNotRemoved, "delete", id, nil)
	}

	s.publisher.Publish(ctx, realtime.NewEvent(realtime.EventDeleted, *removed))

	log.Info().Str("funko_id", id).Msg("funko deleted")
	return removed, nil
}

// Shutdown stops the cache sweeper and drops every event subscriber.
func (s *FunkoService) Shutdown() {
	s.cache.Shutdown()
	s.publisher.Close()
}
