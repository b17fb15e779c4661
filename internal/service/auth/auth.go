package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crm-service/internal/domain/user"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/jwt"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is the persistence surface the auth service needs.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	List(ctx context.Context) ([]user.User, error)
	UpdateRole(ctx context.Context, id string, role user.Role) error
	SetActive(ctx context.Context, id string, active bool) error
}

type AuthService struct {
	userRepo UserRepository
	jwtMgr   *jwt.Manager
	logger   *zap.Logger
}

func NewAuthService(userRepo UserRepository, jwtMgr *jwt.Manager, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		jwtMgr:   jwtMgr,
		logger:   logger,
	}
}

// Register creates a new associate account and logs it in. Administrators
// are only ever provisioned by other administrators.
func (s *AuthService) Register(ctx context.Context, req *user.RegisterRequest) (*user.LoginResponse, error) {
	u, err := s.createUser(ctx, req.Email, req.Password, req.FullName, user.RoleAssociate)
	if err != nil {
		return nil, err
	}

	token, _, err := s.jwtMgr.Generate(u.ID, u.FullName, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user registered", zap.String("user_id", u.ID), zap.String("email", u.Email))

	return &user.LoginResponse{Token: token, User: u}, nil
}

// Login authenticates credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, req *user.LoginRequest) (*user.LoginResponse, error) {
	u, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", xerrors.ErrUnauthorized)
		}
		return nil, err
	}

	if !u.IsActive {
		return nil, fmt.Errorf("account is deactivated: %w", xerrors.ErrForbidden)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", xerrors.ErrUnauthorized)
	}

	token, _, err := s.jwtMgr.Generate(u.ID, u.FullName, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", u.ID))

	return &user.LoginResponse{Token: token, User: u}, nil
}

// ResolveActor validates a token and resolves the acting identity. The role
// is read back from the user store rather than trusted from the claims, so
// role changes and deactivations take effect on the next request.
func (s *AuthService) ResolveActor(ctx context.Context, token string) (*user.Actor, error) {
	claims, err := s.jwtMgr.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, xerrors.ErrUnauthorized)
	}

	u, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("unknown identity: %w", xerrors.ErrUnauthorized)
	}
	if !u.IsActive {
		return nil, fmt.Errorf("account is deactivated: %w", xerrors.ErrUnauthorized)
	}

	return &user.Actor{ID: u.ID, FullName: u.FullName, Role: u.Role}, nil
}

// Me returns the actor's profile with its derived capability flags.
func (s *AuthService) Me(ctx context.Context, actor *user.Actor) (*user.MeResponse, error) {
	if actor == nil {
		return nil, xerrors.ErrUnauthorized
	}

	u, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	return &user.MeResponse{
		User:           u,
		IsAdmin:        actor.IsAdmin(),
		CanDelete:      actor.CanDelete(),
		CanManageUsers: actor.CanManageUsers(),
	}, nil
}

// ==================== User administration ====================

// ListUsers lists all accounts. Requires the manage-users capability.
func (s *AuthService) ListUsers(ctx context.Context, actor *user.Actor) ([]user.User, error) {
	if actor == nil {
		return nil, xerrors.ErrUnauthorized
	}
	if !actor.CanManageUsers() {
		return nil, fmt.Errorf("user administration requires admin role: %w", xerrors.ErrForbidden)
	}

	return s.userRepo.List(ctx)
}

// CreateUser provisions an account with an explicit role.
func (s *AuthService) CreateUser(ctx context.Context, actor *user.Actor, req *user.CreateUserRequest) (*user.User, error) {
	if actor == nil {
		return nil, xerrors.ErrUnauthorized
	}
	if !actor.CanManageUsers() {
		return nil, fmt.Errorf("user administration requires admin role: %w", xerrors.ErrForbidden)
	}

	role := user.Role(req.Role)
	if !role.Valid() {
		return nil, xerrors.Invalid("unknown role")
	}

	u, err := s.createUser(ctx, req.Email, req.Password, req.FullName, role)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user provisioned",
		zap.String("user_id", u.ID),
		zap.String("role", string(u.Role)),
		zap.String("created_by", actor.ID),
	)

	return u, nil
}

// UpdateRole changes an account's role.
func (s *AuthService) UpdateRole(ctx context.Context, actor *user.Actor, userID string, role user.Role) error {
	if actor == nil {
		return xerrors.ErrUnauthorized
	}
	if !actor.CanManageUsers() {
		return fmt.Errorf("user administration requires admin role: %w", xerrors.ErrForbidden)
	}
	if !role.Valid() {
		return xerrors.Invalid("unknown role")
	}
	if actor.ID == userID {
		return fmt.Errorf("cannot change own role: %w", xerrors.ErrConflict)
	}

	if err := s.userRepo.UpdateRole(ctx, userID, role); err != nil {
		return err
	}

	s.logger.Info("role updated", zap.String("user_id", userID), zap.String("role", string(role)))
	return nil
}

// SetActive activates or deactivates an account.
func (s *AuthService) SetActive(ctx context.Context, actor *user.Actor, userID string, active bool) error {
	if actor == nil {
		return xerrors.ErrUnauthorized
	}
	if !actor.CanManageUsers() {
		return fmt.Errorf("user administration requires admin role: %w", xerrors.ErrForbidden)
	}
	if actor.ID == userID && !active {
		return fmt.Errorf("cannot deactivate own account: %w", xerrors.ErrConflict)
	}

	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		return err
	}

	s.logger.Info("user active flag updated", zap.String("user_id", userID), zap.Bool("active", active))
	return nil
}

// EnsureAdminExists creates the bootstrap administrator when missing.
func (s *AuthService) EnsureAdminExists(ctx context.Context, email, password, fullName string) error {
	if email == "" || password == "" {
		return fmt.Errorf("bootstrap admin credentials not configured")
	}

	_, err := s.userRepo.FindByEmail(ctx, strings.ToLower(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, xerrors.ErrNotFound) {
		return err
	}

	u, err := s.createUser(ctx, email, password, fullName, user.RoleAdmin)
	if err != nil {
		return err
	}

	s.logger.Info("bootstrap admin created", zap.String("user_id", u.ID))
	return nil
}

func (s *AuthService) createUser(ctx context.Context, email, password, fullName string, role user.Role) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	fullName = strings.TrimSpace(fullName)
	if email == "" || fullName == "" {
		return nil, xerrors.Invalid("email and full name are required")
	}
	if len(password) < 8 {
		return nil, xerrors.Invalid("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		ID:           ulid.Make().String(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         role,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}
