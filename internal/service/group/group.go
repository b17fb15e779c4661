package group

import (
	"context"
	"database/sql"
	"strings"

	"crm-service/internal/cache"
	"crm-service/internal/domain/group"
	"crm-service/internal/domain/user"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// GroupRepository is the persistence surface the registry needs.
type GroupRepository interface {
	Create(ctx context.Context, g *group.ContactGroup) error
	FindByID(ctx context.Context, id string) (*group.ContactGroup, error)
	List(ctx context.Context) ([]group.ContactGroup, error)
	UpdateName(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

type GroupService struct {
	groupRepo GroupRepository
	cache     *cache.Store
	logger    *zap.Logger
}

func NewGroupService(groupRepo GroupRepository, cacheStore *cache.Store, logger *zap.Logger) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
		cache:     cacheStore,
		logger:    logger,
	}
}

// CreateGroup creates a named tag. Names are not unique.
func (s *GroupService) CreateGroup(ctx context.Context, actor *user.Actor, req *group.CreateGroupRequest) (*group.ContactGroup, error) {
	if actor == nil {
		return nil, xerrors.ErrUnauthorized
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, xerrors.Invalid("group name is required")
	}

	g := &group.ContactGroup{
		ID:        ulid.Make().String(),
		Name:      name,
		CreatedBy: sql.NullString{String: actor.ID, Valid: true},
	}

	if err := s.groupRepo.Create(ctx, g); err != nil {
		s.logger.Error("failed to create contact group", zap.Error(err))
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.CollectionGroups)

	s.logger.Info("contact group created", zap.String("group_id", g.ID), zap.String("created_by", actor.ID))
	return g, nil
}

// GetGroup retrieves a contact group by ID.
func (s *GroupService) GetGroup(ctx context.Context, id string) (*group.ContactGroup, error) {
	return s.groupRepo.FindByID(ctx, id)
}

// ListGroups retrieves all contact groups ordered by name.
func (s *GroupService) ListGroups(ctx context.Context) ([]group.ContactGroup, error) {
	groups := []group.ContactGroup{}
	if s.cache.GetList(ctx, cache.CollectionGroups, &groups) {
		return groups, nil
	}

	groups, err := s.groupRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.SetList(ctx, cache.CollectionGroups, groups)
	return groups, nil
}

// UpdateGroup renames a contact group.
func (s *GroupService) UpdateGroup(ctx context.Context, actor *user.Actor, id string, req *group.UpdateGroupRequest) (*group.ContactGroup, error) {
	if actor == nil {
		return nil, xerrors.ErrUnauthorized
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, xerrors.Invalid("group name is required")
	}

	if err := s.groupRepo.UpdateName(ctx, id, name); err != nil {
		s.logger.Error("failed to update contact group", zap.Error(err))
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.CollectionGroups)
	return s.groupRepo.FindByID(ctx, id)
}

// DeleteGroup removes a group. Clients referencing it are left untouched;
// their dangling group ids degrade to "Unknown Group" on display.
func (s *GroupService) DeleteGroup(ctx context.Context, actor *user.Actor, id string) error {
	if actor == nil {
		return xerrors.ErrUnauthorized
	}

	if err := s.groupRepo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete contact group", zap.Error(err))
		return err
	}

	s.cache.Invalidate(ctx, cache.CollectionGroups)

	s.logger.Info("contact group deleted", zap.String("group_id", id), zap.String("by", actor.ID))
	return nil
}
