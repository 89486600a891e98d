package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pizza_service/internal/authz"
	"pizza_service/internal/model"
	"pizza_service/internal/repository"
	"pizza_service/internal/utils"

	"go.uber.org/zap"
)

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService provides registration, login, session and profile services
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Logout(ctx context.Context, token string, expiresAt time.Time) error
	UpdateUser(ctx context.Context, identity authz.Identity, userID int, req model.UpdateUserRequest) (*model.User, error)
	DeleteUser(ctx context.Context, identity authz.Identity, userID int) error
}

type authService struct {
	userRepo    repository.UserRepository
	jwtUtil     *utils.JWTUtil
	revocations repository.RevocationStore
	adminEmail  string
	logger      *zap.Logger
}

// NewAuthService creates a new AuthService. adminEmail may be empty;
// when set, a registration with that email bootstraps the first admin.
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil, revocations repository.RevocationStore, adminEmail string, logger *zap.Logger) AuthService {
	return &authService{
		userRepo:    userRepo,
		jwtUtil:     jwtUtil,
		revocations: revocations,
		adminEmail:  adminEmail,
		logger:      logger,
	}
}

// Register creates a new user account with the default diner role
func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, string, error) {
	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	roles := []model.UserRole{{Role: model.RoleDiner}}
	if s.adminEmail != "" && req.Email == s.adminEmail {
		roles = []model.UserRole{{Role: model.RoleAdmin}}
		s.logger.Info("registering bootstrap admin", zap.String("email", req.Email))
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Roles:        roles,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique constraint closes the race two concurrent
		// registrations with the same email would otherwise win.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user in repository: %w", err)
	}

	token, err := s.jwtUtil.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("user created, but failed to generate token: %w", err)
	}

	return user, token, nil
}

// Login authenticates a user and returns a fresh session token.
// Unknown emails and wrong passwords are indistinguishable to callers.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtUtil.GenerateToken(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// Logout adds the token to the shared revocation list. Revoking an
// already-revoked token is a no-op success.
func (s *authService) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	if err := s.revocations.Revoke(ctx, token, time.Until(expiresAt)); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// UpdateUser applies a partial profile update, permitted for the user
// themselves or an admin.
func (s *authService) UpdateUser(ctx context.Context, identity authz.Identity, userID int, req model.UpdateUserRequest) (*model.User, error) {
	if !authz.CanAct(identity, authz.ActionUpdateUser, authz.Target{UserID: userID}) {
		return nil, ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Password != nil {
		hashed, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser removes an account, permitted for the user themselves or
// an admin. Role grants, including franchise admin links, go with it.
func (s *authService) DeleteUser(ctx context.Context, identity authz.Identity, userID int) error {
	if !authz.CanAct(identity, authz.ActionDeleteUser, authz.Target{UserID: userID}) {
		return ErrForbidden
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
