package client

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"crm-service/internal/cache"
	"crm-service/internal/domain/client"
	"crm-service/internal/domain/user"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// ClientRepository is the persistence surface the registry needs.
type ClientRepository interface {
	Create(ctx context.Context, c *client.Client) error
	FindByID(ctx context.Context, id string) (*client.Client, error)
	List(ctx context.Context) ([]client.Client, error)
	Update(ctx context.Context, id string, c *client.Client) error
	UpdateGroup(ctx context.Context, id string, groupID *string) error
	Delete(ctx context.Context, id string) error
}

// CallLogSyncer re-syncs the denormalized client name on call logs.
type CallLogSyncer interface {
	SyncClientName(ctx context.Context, clientID, clientName string) error
}

type ClientService struct {
	clientRepo ClientRepository
	callLogs   CallLogSyncer
	cache      *cache.Store
	logger     *zap.Logger
}

func NewClientService(clientRepo ClientRepository, callLogs CallLogSyncer, cacheStore *cache.Store, logger *zap.Logger) *ClientService {
	return &ClientService{
		clientRepo: clientRepo,
		callLogs:   callLogs,
		cache:      cacheStore,
		logger:     logger,
	}
}

// CreateClient creates a new contact record.
func (s *ClientService) CreateClient(ctx context.Context, actor *user.Actor, req *client.CreateClientRequest) (*client.Client, error) {
	if actor == nil {
		return nil, xerrors.ErrUnauthorized
	}

	c := &client.Client{
		ID:        ulid.Make().String(),
		FullName:  strings.TrimSpace(req.FullName),
		Phones:    pq.StringArray(req.Phones),
		CreatedBy: sql.NullString{String: actor.ID, Valid: true},
	}
	if c.Phones == nil {
		c.Phones = pq.StringArray{}
	}

	c.FirstName = optString(req.FirstName)
	c.MiddleName = optString(req.MiddleName)
	c.LastName = optString(req.LastName)
	c.Address = optString(req.Address)
	c.City = optString(req.City)
	c.Village = optString(req.Village)
	c.Block = optString(req.Block)
	c.Profession = optString(req.Profession)
	c.Qualifications = optString(req.Qualifications)
	c.Email = optString(req.Email)
	c.Company = optString(req.Company)
	c.ProfilePhoto = optString(req.ProfilePhoto)
	if req.Age != nil {
		c.Age = sql.NullInt32{Int32: int32(*req.Age), Valid: true}
	}
	if req.GroupID != nil && *req.GroupID != "" {
		c.GroupID = sql.NullString{String: *req.GroupID, Valid: true}
	}

	c.NormalizeName()
	if c.FullName == "" {
		return nil, xerrors.Invalid("client name is required")
	}

	if err := s.clientRepo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create client", zap.Error(err))
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.CollectionClients)

	s.logger.Info("client created", zap.String("client_id", c.ID), zap.String("created_by", actor.ID))
	return c, nil
}

// GetClient retrieves a client by ID.
func (s *ClientService) GetClient(ctx context.Context, id string) (*client.Client, error) {
	return s.clientRepo.FindByID(ctx, id)
}

// ListClients retrieves all clients, newest first.
func (s *ClientService) ListClients(ctx context.Context) ([]client.Client, error) {
	clients := []client.Client{}
	if s.cache.GetList(ctx, cache.CollectionClients, &clients) {
		return clients, nil
	}

	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.SetList(ctx, cache.CollectionClients, clients)
	return clients, nil
}

// UpdateClient applies a partial patch. The display-name invariant is
// re-established after the patch: whenever any name part is present, the
// full name is their space-joined concatenation.
func (s *ClientService) UpdateClient(ctx context.Context, actor *user.Actor, id string, req *client.UpdateClientRequest) (*client.Client, error) {
	if actor == nil {
		return nil, xerrors.ErrUnauthorized
	}

	c, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prevName := c.FullName

	if req.FullName != nil {
		c.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.FirstName != nil {
		c.FirstName = optString(*req.FirstName)
	}
	if req.MiddleName != nil {
		c.MiddleName = optString(*req.MiddleName)
	}
	if req.LastName != nil {
		c.LastName = optString(*req.LastName)
	}
	if req.Age != nil {
		c.Age = sql.NullInt32{Int32: int32(*req.Age), Valid: true}
	}
	if req.Phones != nil {
		c.Phones = pq.StringArray(req.Phones)
	}
	if req.Address != nil {
		c.Address = optString(*req.Address)
	}
	if req.City != nil {
		c.City = optString(*req.City)
	}
	if req.Village != nil {
		c.Village = optString(*req.Village)
	}
	if req.Block != nil {
		c.Block = optString(*req.Block)
	}
	if req.Profession != nil {
		c.Profession = optString(*req.Profession)
	}
	if req.Qualifications != nil {
		c.Qualifications = optString(*req.Qualifications)
	}
	if req.Email != nil {
		c.Email = optString(*req.Email)
	}
	if req.Company != nil {
		c.Company = optString(*req.Company)
	}
	if req.ProfilePhoto != nil {
		c.ProfilePhoto = optString(*req.ProfilePhoto)
	}
	if req.GroupID != nil {
		c.GroupID = optString(*req.GroupID)
	}

	c.NormalizeName()
	if c.FullName == "" {
		return nil, xerrors.Invalid("client name is required")
	}

	if err := s.clientRepo.Update(ctx, id, c); err != nil {
		s.logger.Error("failed to update client", zap.Error(err))
		return nil, err
	}

	// Keep the denormalized name on call logs in step with a rename.
	if c.FullName != prevName && s.callLogs != nil {
		if err := s.callLogs.SyncClientName(ctx, id, c.FullName); err != nil {
			s.logger.Warn("failed to sync client name to call logs", zap.String("client_id", id), zap.Error(err))
		} else {
			s.cache.Invalidate(ctx, cache.CollectionCallLogs)
		}
	}

	s.cache.Invalidate(ctx, cache.CollectionClients)

	s.logger.Info("client updated", zap.String("client_id", id))
	return s.clientRepo.FindByID(ctx, id)
}

// DeleteClient removes a client permanently. There is no bin for clients;
// the delete capability is required.
func (s *ClientService) DeleteClient(ctx context.Context, actor *user.Actor, id string) error {
	if actor == nil {
		return xerrors.ErrUnauthorized
	}
	if !actor.CanDelete() {
		return fmt.Errorf("client deletion requires admin role: %w", xerrors.ErrForbidden)
	}

	if err := s.clientRepo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete client", zap.Error(err))
		return err
	}

	s.cache.Invalidate(ctx, cache.CollectionClients)

	s.logger.Info("client deleted", zap.String("client_id", id), zap.String("by", actor.ID))
	return nil
}

// AssignGroup applies one group to a set of clients as independent updates.
// There is no rollback: clients updated before a failure stay updated, and
// the result reports each outcome.
func (s *ClientService) AssignGroup(ctx context.Context, actor *user.Actor, req *client.AssignGroupRequest) ([]client.AssignGroupResult, error) {
	if actor == nil {
		return nil, xerrors.ErrUnauthorized
	}

	var groupID *string
	if req.GroupID != nil && *req.GroupID != "" {
		groupID = req.GroupID
	}

	results := make([]client.AssignGroupResult, 0, len(req.ClientIDs))
	for _, id := range req.ClientIDs {
		res := client.AssignGroupResult{ClientID: id, OK: true}
		if err := s.clientRepo.UpdateGroup(ctx, id, groupID); err != nil {
			res.OK = false
			res.Error = err.Error()
			s.logger.Warn("group assignment failed for client", zap.String("client_id", id), zap.Error(err))
		}
		results = append(results, res)
	}

	s.cache.Invalidate(ctx, cache.CollectionClients)
	return results, nil
}

func optString(v string) sql.NullString {
	v = strings.TrimSpace(v)
	return sql.NullString{String: v, Valid: v != ""}
}
