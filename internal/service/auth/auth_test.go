package auth

import (
	"context"
	"testing"
	"time"

	"crm-service/internal/domain/user"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/jwt"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubUserRepo is an in-memory UserRepository.
type stubUserRepo struct {
	users map[string]*user.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: map[string]*user.User{}}
}

func (r *stubUserRepo) Create(ctx context.Context, u *user.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return xerrors.ErrConflict
		}
	}
	u.CreatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *stubUserRepo) FindByID(ctx context.Context, id string) (*user.User, error) {
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, xerrors.ErrNotFound
}

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (r *stubUserRepo) List(ctx context.Context) ([]user.User, error) {
	out := []user.User{}
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) UpdateRole(ctx context.Context, id string, role user.Role) error {
	u, ok := r.users[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	u.Role = role
	return nil
}

func (r *stubUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	u.IsActive = active
	return nil
}

func newTestService(t *testing.T) (*AuthService, *stubUserRepo) {
	t.Helper()
	mgr, err := jwt.NewManager(jwt.Config{
		Secret:   "test-secret",
		Issuer:   "crm-service",
		Audience: "crm-users",
		TTL:      time.Hour,
	})
	require.NoError(t, err)

	repo := newStubUserRepo()
	return NewAuthService(repo, mgr, zap.NewNop()), repo
}

func TestRegister_CreatesAssociate(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.Register(context.Background(), &user.RegisterRequest{
		Email:    "Jane@Example.com",
		Password: "correct-horse",
		FullName: "Jane Doe",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.Equal(t, user.RoleAssociate, res.User.Role)
	require.Equal(t, "jane@example.com", res.User.Email)
	require.True(t, res.User.IsActive)
}

func TestRegister_ShortPasswordRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), &user.RegisterRequest{
		Email:    "jane@example.com",
		Password: "short",
		FullName: "Jane Doe",
	})
	require.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &user.RegisterRequest{
		Email: "jane@example.com", Password: "correct-horse", FullName: "Jane Doe",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &user.LoginRequest{Email: "jane@example.com", Password: "wrong-horse"})
	require.ErrorIs(t, err, xerrors.ErrUnauthorized)

	res, err := svc.Login(ctx, &user.LoginRequest{Email: " JANE@example.com ", Password: "correct-horse"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, &user.RegisterRequest{
		Email: "jane@example.com", Password: "correct-horse", FullName: "Jane Doe",
	})
	require.NoError(t, err)
	require.NoError(t, repo.SetActive(ctx, res.User.ID, false))

	_, err = svc.Login(ctx, &user.LoginRequest{Email: "jane@example.com", Password: "correct-horse"})
	require.ErrorIs(t, err, xerrors.ErrForbidden)
}

func TestResolveActor_ReadsRoleFromStore(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, &user.RegisterRequest{
		Email: "jane@example.com", Password: "correct-horse", FullName: "Jane Doe",
	})
	require.NoError(t, err)

	actor, err := svc.ResolveActor(ctx, res.Token)
	require.NoError(t, err)
	require.Equal(t, user.RoleAssociate, actor.Role)
	require.False(t, actor.CanDelete())

	// A promotion takes effect on the next resolve, with the same token.
	require.NoError(t, repo.UpdateRole(ctx, res.User.ID, user.RoleAdmin))

	actor, err = svc.ResolveActor(ctx, res.Token)
	require.NoError(t, err)
	require.Equal(t, user.RoleAdmin, actor.Role)
	require.True(t, actor.CanDelete())
	require.True(t, actor.CanManageUsers())
}

func TestResolveActor_DeactivationLocksOut(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, &user.RegisterRequest{
		Email: "jane@example.com", Password: "correct-horse", FullName: "Jane Doe",
	})
	require.NoError(t, err)
	require.NoError(t, repo.SetActive(ctx, res.User.ID, false))

	_, err = svc.ResolveActor(ctx, res.Token)
	require.ErrorIs(t, err, xerrors.ErrUnauthorized)
}

func TestResolveActor_GarbageToken(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ResolveActor(context.Background(), "not-a-token")
	require.ErrorIs(t, err, xerrors.ErrUnauthorized)
}

func TestCreateUser_RequiresManageCapability(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	associate := &user.Actor{ID: "01ASSOC", Role: user.RoleAssociate}
	admin := &user.Actor{ID: "01ADMIN", Role: user.RoleAdmin}

	req := &user.CreateUserRequest{
		Email: "new@example.com", Password: "correct-horse", FullName: "New User", Role: "admin",
	}

	_, err := svc.CreateUser(ctx, associate, req)
	require.ErrorIs(t, err, xerrors.ErrForbidden)

	created, err := svc.CreateUser(ctx, admin, req)
	require.NoError(t, err)
	require.Equal(t, user.RoleAdmin, created.Role)
}

func TestUpdateRole_SelfChangeRejected(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	admin := &user.Actor{ID: "01ADMIN", Role: user.RoleAdmin}
	repo.users["01ADMIN"] = &user.User{ID: "01ADMIN", Role: user.RoleAdmin, IsActive: true}
	repo.users["01OTHER"] = &user.User{ID: "01OTHER", Role: user.RoleAssociate, IsActive: true}

	require.ErrorIs(t, svc.UpdateRole(ctx, admin, "01ADMIN", user.RoleAssociate), xerrors.ErrConflict)
	require.NoError(t, svc.UpdateRole(ctx, admin, "01OTHER", user.RoleAdmin))
}

func TestSetActive_SelfDeactivateRejected(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	admin := &user.Actor{ID: "01ADMIN", Role: user.RoleAdmin}
	repo.users["01ADMIN"] = &user.User{ID: "01ADMIN", Role: user.RoleAdmin, IsActive: true}

	require.ErrorIs(t, svc.SetActive(ctx, admin, "01ADMIN", false), xerrors.ErrConflict)
	// Re-activating yourself is a no-op, not a conflict.
	require.NoError(t, svc.SetActive(ctx, admin, "01ADMIN", true))
}

func TestEnsureAdminExists(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdminExists(ctx, "Boss@Example.com", "correct-horse", "Boss"))

	u, err := repo.FindByEmail(ctx, "boss@example.com")
	require.NoError(t, err)
	require.Equal(t, user.RoleAdmin, u.Role)

	// Idempotent on the second boot.
	require.NoError(t, svc.EnsureAdminExists(ctx, "boss@example.com", "correct-horse", "Boss"))
	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestMe_CapabilityFlags(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	repo.users["01ADMIN"] = &user.User{ID: "01ADMIN", Role: user.RoleAdmin, IsActive: true}
	repo.users["01ASSOC"] = &user.User{ID: "01ASSOC", Role: user.RoleAssociate, IsActive: true}

	me, err := svc.Me(ctx, &user.Actor{ID: "01ADMIN", Role: user.RoleAdmin})
	require.NoError(t, err)
	require.True(t, me.IsAdmin)
	require.True(t, me.CanDelete)
	require.True(t, me.CanManageUsers)

	me, err = svc.Me(ctx, &user.Actor{ID: "01ASSOC", Role: user.RoleAssociate})
	require.NoError(t, err)
	require.False(t, me.IsAdmin)
	require.False(t, me.CanDelete)
	require.False(t, me.CanManageUsers)
}
