package event

import (
	"context"
	"database/sql"
	"strings"

	"crm-service/internal/cache"
	"crm-service/internal/domain/event"
	"crm-service/internal/domain/user"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/ws"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// GlobalEventRepository is the persistence surface the journal needs.
type GlobalEventRepository interface {
	Create(ctx context.Context, e *event.GlobalEvent) error
	List(ctx context.Context) ([]event.GlobalEvent, error)
}

// GlobalEventService keeps the organization-wide journal. Entries are
// append-only; there is no update or delete path.
type GlobalEventService struct {
	eventRepo GlobalEventRepository
	cache     *cache.Store
	hub       *ws.Hub
	logger    *zap.Logger
}

func NewGlobalEventService(eventRepo GlobalEventRepository, cacheStore *cache.Store, hub *ws.Hub, logger *zap.Logger) *GlobalEventService {
	return &GlobalEventService{
		eventRepo: eventRepo,
		cache:     cacheStore,
		hub:       hub,
		logger:    logger,
	}
}

// CreateGlobalEvent appends a journal entry attributed to the actor.
func (s *GlobalEventService) CreateGlobalEvent(ctx context.Context, actor *user.Actor, req *event.CreateGlobalEventRequest) (*event.GlobalEvent, error) {
	if actor == nil {
		return nil, xerrors.ErrUnauthorized
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, xerrors.Invalid("event description is required")
	}

	e := &event.GlobalEvent{
		ID:            ulid.Make().String(),
		Description:   description,
		CreatedBy:     sql.NullString{String: actor.ID, Valid: true},
		CreatedByName: actor.FullName,
	}

	if err := s.eventRepo.Create(ctx, e); err != nil {
		s.logger.Error("failed to create global event", zap.Error(err))
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.CollectionGlobalEvents)
	s.hub.Publish(ws.Activity{
		Kind:      ws.KindJournalEntry,
		EntityID:  e.ID,
		Title:     description,
		ActorName: actor.FullName,
	})

	s.logger.Info("global event created", zap.String("event_id", e.ID), zap.String("created_by", actor.ID))
	return e, nil
}

// ListGlobalEvents retrieves the journal, newest first.
func (s *GlobalEventService) ListGlobalEvents(ctx context.Context) ([]event.GlobalEvent, error) {
	events := []event.GlobalEvent{}
	if s.cache.GetList(ctx, cache.CollectionGlobalEvents, &events) {
		return events, nil
	}

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.SetList(ctx, cache.CollectionGlobalEvents, events)
	return events, nil
}
