package client

import (
	"context"
	"errors"
	"testing"

	"crm-service/internal/domain/client"
	"crm-service/internal/domain/user"
	xerrors "crm-service/internal/pkg/errors"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubClientRepo is an in-memory ClientRepository. Group updates can be
// forced to fail per client id to exercise partial bulk assignment.
type stubClientRepo struct {
	clients  map[string]*client.Client
	failIDs  map[string]bool
	deleted  []string
	groupSet map[string]*string
}

func newStubClientRepo() *stubClientRepo {
	return &stubClientRepo{
		clients:  map[string]*client.Client{},
		failIDs:  map[string]bool{},
		groupSet: map[string]*string{},
	}
}

func (r *stubClientRepo) Create(ctx context.Context, c *client.Client) error {
	cp := *c
	r.clients[c.ID] = &cp
	return nil
}

func (r *stubClientRepo) FindByID(ctx context.Context, id string) (*client.Client, error) {
	if c, ok := r.clients[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, xerrors.ErrNotFound
}

func (r *stubClientRepo) List(ctx context.Context) ([]client.Client, error) {
	out := []client.Client{}
	for _, c := range r.clients {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubClientRepo) Update(ctx context.Context, id string, c *client.Client) error {
	if _, ok := r.clients[id]; !ok {
		return xerrors.ErrNotFound
	}
	cp := *c
	cp.ID = id
	r.clients[id] = &cp
	return nil
}

func (r *stubClientRepo) UpdateGroup(ctx context.Context, id string, groupID *string) error {
	if r.failIDs[id] {
		return errors.New("forced failure")
	}
	if _, ok := r.clients[id]; !ok {
		return xerrors.ErrNotFound
	}
	r.groupSet[id] = groupID
	return nil
}

func (r *stubClientRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.clients[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(r.clients, id)
	r.deleted = append(r.deleted, id)
	return nil
}

// stubSyncer records name sync calls.
type stubSyncer struct {
	calls map[string]string
}

func (s *stubSyncer) SyncClientName(ctx context.Context, clientID, clientName string) error {
	if s.calls == nil {
		s.calls = map[string]string{}
	}
	s.calls[clientID] = clientName
	return nil
}

func newTestService(t *testing.T) (*ClientService, *stubClientRepo, *stubSyncer) {
	t.Helper()
	repo := newStubClientRepo()
	syncer := &stubSyncer{}
	return NewClientService(repo, syncer, nil, zap.NewNop()), repo, syncer
}

var (
	admin     = &user.Actor{ID: "01ADMIN", FullName: "Admin", Role: user.RoleAdmin}
	associate = &user.Actor{ID: "01ASSOC", FullName: "Associate", Role: user.RoleAssociate}
)

func strptr(s string) *string { return &s }

func TestCreateClient_ComposesFullName(t *testing.T) {
	svc, _, _ := newTestService(t)

	c, err := svc.CreateClient(context.Background(), associate, &client.CreateClientRequest{
		FirstName:  "Jane",
		MiddleName: " M ",
		LastName:   "Doe",
		Phones:     []string{"+100200300"},
	})
	require.NoError(t, err)
	require.Equal(t, "Jane M Doe", c.FullName)
	require.Equal(t, "01ASSOC", c.CreatedBy.String)
}

func TestCreateClient_FullNameOnlyIsKept(t *testing.T) {
	svc, _, _ := newTestService(t)

	c, err := svc.CreateClient(context.Background(), associate, &client.CreateClientRequest{
		FullName: "ACME Holdings",
	})
	require.NoError(t, err)
	require.Equal(t, "ACME Holdings", c.FullName)
}

func TestCreateClient_NoNameRejected(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.CreateClient(context.Background(), associate, &client.CreateClientRequest{
		Phones: []string{"+100200300"},
	})
	require.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestUpdateClient_ReestablishesNameInvariant(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateClient(ctx, associate, &client.CreateClientRequest{
		FirstName: "Jane", LastName: "Doe",
	})
	require.NoError(t, err)

	// Patching one part recomposes the display name.
	updated, err := svc.UpdateClient(ctx, associate, c.ID, &client.UpdateClientRequest{
		FirstName: strptr("Janet"),
	})
	require.NoError(t, err)
	require.Equal(t, "Janet Doe", updated.FullName)

	// A full-name patch loses to the composed parts.
	updated, err = svc.UpdateClient(ctx, associate, c.ID, &client.UpdateClientRequest{
		FullName: strptr("Someone Else"),
	})
	require.NoError(t, err)
	require.Equal(t, "Janet Doe", updated.FullName)
}

func TestUpdateClient_RenameSyncsCallLogs(t *testing.T) {
	svc, _, syncer := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateClient(ctx, associate, &client.CreateClientRequest{FullName: "ACME"})
	require.NoError(t, err)

	_, err = svc.UpdateClient(ctx, associate, c.ID, &client.UpdateClientRequest{
		FullName: strptr("ACME Holdings"),
	})
	require.NoError(t, err)
	require.Equal(t, "ACME Holdings", syncer.calls[c.ID])

	// A patch that leaves the name alone does not trigger a sync.
	delete(syncer.calls, c.ID)
	_, err = svc.UpdateClient(ctx, associate, c.ID, &client.UpdateClientRequest{
		City: strptr("Springfield"),
	})
	require.NoError(t, err)
	require.NotContains(t, syncer.calls, c.ID)
}

func TestDeleteClient_RequiresAdmin(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	c, err := svc.CreateClient(ctx, associate, &client.CreateClientRequest{FullName: "ACME"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeleteClient(ctx, associate, c.ID), xerrors.ErrForbidden)
	require.NoError(t, svc.DeleteClient(ctx, admin, c.ID))
	require.Equal(t, []string{c.ID}, repo.deleted)
}

func TestAssignGroup_PartialFailure(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateClient(ctx, associate, &client.CreateClientRequest{FullName: "A"})
	require.NoError(t, err)
	b, err := svc.CreateClient(ctx, associate, &client.CreateClientRequest{FullName: "B"})
	require.NoError(t, err)
	repo.failIDs[b.ID] = true

	groupID := "01GROUP"
	results, err := svc.AssignGroup(ctx, associate, &client.AssignGroupRequest{
		ClientIDs: []string{a.ID, b.ID},
		GroupID:   &groupID,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// The first update stuck even though the second failed.
	require.True(t, results[0].OK)
	require.False(t, results[1].OK)
	require.NotEmpty(t, results[1].Error)
	require.Equal(t, &groupID, repo.groupSet[a.ID])
}

func TestAssignGroup_EmptyGroupClears(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreateClient(ctx, associate, &client.CreateClientRequest{FullName: "A"})
	require.NoError(t, err)

	empty := ""
	results, err := svc.AssignGroup(ctx, associate, &client.AssignGroupRequest{
		ClientIDs: []string{a.ID},
		GroupID:   &empty,
	})
	require.NoError(t, err)
	require.True(t, results[0].OK)
	require.Nil(t, repo.groupSet[a.ID])
}
