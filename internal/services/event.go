package services

import (
	"context"
	"errors"
	"fmt"

	"event-checkout-backend/internal/cache"
	"event-checkout-backend/internal/models"
	"event-checkout-backend/internal/repositories"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// EventRepository interface for event data operations
type EventRepository interface {
	Create(req *models.EventCreateRequest) (*models.Event, error)
	GetByID(id int) (*models.Event, error)
	Get(q repositories.Querier, id int) (*models.Event, error)
	List() ([]*models.Event, error)
	DeductInventory(q repositories.Querier, eventID, units, revenue int) error
}

// EventService is the event catalog with an optional redis read-through
// cache. Cache failures degrade to direct reads; they never fail a request.
type EventService struct {
	eventRepo EventRepository
	cache     *cache.EventCache
	logger    *zap.Logger
}

// NewEventService creates a new event service. The cache may be nil.
func NewEventService(eventRepo EventRepository, eventCache *cache.EventCache, logger *zap.Logger) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		cache:     eventCache,
		logger:    logger,
	}
}

// CreateEvent creates an event and invalidates the cached list
func (s *EventService) CreateEvent(ctx context.Context, req *models.EventCreateRequest) (*models.Event, error) {
	event, err := s.eventRepo.Create(req)
	if err != nil {
		return nil, err
	}

	s.InvalidateEvents(ctx, event.ID)

	return event, nil
}

// GetEvent retrieves an event, serving from the cache when possible
func (s *EventService) GetEvent(ctx context.Context, id int) (*models.Event, error) {
	if s.cache != nil {
		event, err := s.cache.GetEvent(ctx, id)
		if err == nil {
			return event, nil
		}
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("event cache read failed", zap.Int("event_id", id), zap.Error(err))
		}
	}

	event, err := s.eventRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetEvent(ctx, event); err != nil {
			s.logger.Warn("event cache write failed", zap.Int("event_id", id), zap.Error(err))
		}
	}

	return event, nil
}

// ListEvents retrieves all events, serving from the cache when possible
func (s *EventService) ListEvents(ctx context.Context) ([]*models.Event, error) {
	if s.cache != nil {
		events, err := s.cache.GetEvents(ctx)
		if err == nil {
			return events, nil
		}
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("event list cache read failed", zap.Error(err))
		}
	}

	events, err := s.eventRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetEvents(ctx, events); err != nil {
			s.logger.Warn("event list cache write failed", zap.Error(err))
		}
	}

	return events, nil
}

// InvalidateEvents drops cached entries after inventory writes. Best effort.
func (s *EventService) InvalidateEvents(ctx context.Context, eventIDs ...int) {
	if s.cache == nil || len(eventIDs) == 0 {
		return
	}

	if err := s.cache.Invalidate(ctx, eventIDs...); err != nil {
		s.logger.Warn("event cache invalidation failed", zap.Ints("event_ids", eventIDs), zap.Error(err))
	}
}
