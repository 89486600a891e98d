package service

import (
	"context"
	"errors"
	"fmt"

	"pizza_service/internal/authz"
	"pizza_service/internal/model"
	"pizza_service/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrFranchiseNotFound = errors.New("franchise not found")
	ErrFranchiseExists   = errors.New("franchise with this name already exists")
	ErrUnknownAdmin      = errors.New("unknown user for franchise admin")
	ErrStoreNotFound     = errors.New("store not found")
)

// FranchiseService provides franchise and store administration
type FranchiseService interface {
	List(ctx context.Context, identity *authz.Identity) ([]model.Franchise, error)
	ListForUser(ctx context.Context, identity authz.Identity, userID int) ([]model.Franchise, error)
	Create(ctx context.Context, identity authz.Identity, req model.CreateFranchiseRequest) (*model.Franchise, error)
	Delete(ctx context.Context, identity authz.Identity, franchiseID int) error
	CreateStore(ctx context.Context, identity authz.Identity, franchiseID int, req model.CreateStoreRequest) (*model.Store, error)
	DeleteStore(ctx context.Context, identity authz.Identity, franchiseID, storeID int) error
}

type franchiseService struct {
	franchiseRepo repository.FranchiseRepository
	userRepo      repository.UserRepository
	logger        *zap.Logger
}

// NewFranchiseService creates a new FranchiseService
func NewFranchiseService(franchiseRepo repository.FranchiseRepository, userRepo repository.UserRepository, logger *zap.Logger) FranchiseService {
	return &franchiseService{
		franchiseRepo: franchiseRepo,
		userRepo:      userRepo,
		logger:        logger,
	}
}

// List returns all franchises. The endpoint is public; the admin
// roster is only included for authenticated admins.
func (s *franchiseService) List(ctx context.Context, identity *authz.Identity) ([]model.Franchise, error) {
	detailed := identity != nil && identity.IsAdmin()
	franchises, err := s.franchiseRepo.List(ctx, detailed)
	if err != nil {
		return nil, fmt.Errorf("failed to list franchises: %w", err)
	}
	return franchises, nil
}

// ListForUser returns the franchises the user administers. Requesting
// another user's franchises yields an empty list unless the requester
// is an admin.
func (s *franchiseService) ListForUser(ctx context.Context, identity authz.Identity, userID int) ([]model.Franchise, error) {
	if identity.ID != userID && !identity.IsAdmin() {
		return []model.Franchise{}, nil
	}
	franchises, err := s.franchiseRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user franchises: %w", err)
	}
	return franchises, nil
}

// Create creates a franchise and grants the franchisee role to every
// admin named by email. Admin only.
func (s *franchiseService) Create(ctx context.Context, identity authz.Identity, req model.CreateFranchiseRequest) (*model.Franchise, error) {
	if !authz.CanAct(identity, authz.ActionCreateFranchise, authz.Target{}) {
		return nil, ErrForbidden
	}

	adminIDs := make([]int, 0, len(req.Admins))
	for _, admin := range req.Admins {
		id, err := s.userRepo.FindIDByEmail(ctx, admin.Email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownAdmin, admin.Email)
			}
			return nil, fmt.Errorf("failed to resolve franchise admin: %w", err)
		}
		adminIDs = append(adminIDs, id)
	}

	franchise := &model.Franchise{Name: req.Name}
	if err := s.franchiseRepo.Create(ctx, franchise, adminIDs); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrFranchiseExists
		}
		return nil, fmt.Errorf("failed to create franchise: %w", err)
	}

	s.logger.Info("franchise created",
		zap.Int("franchiseId", franchise.ID),
		zap.String("name", franchise.Name),
		zap.Int("admins", len(adminIDs)))

	created, err := s.franchiseRepo.FindByID(ctx, franchise.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created franchise: %w", err)
	}
	return created, nil
}

// Delete removes a franchise with its stores and franchisee grants.
// Admin only.
func (s *franchiseService) Delete(ctx context.Context, identity authz.Identity, franchiseID int) error {
	if !authz.CanAct(identity, authz.ActionDeleteFranchise, authz.Target{FranchiseID: franchiseID}) {
		return ErrForbidden
	}

	if err := s.franchiseRepo.Delete(ctx, franchiseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFranchiseNotFound
		}
		return fmt.Errorf("failed to delete franchise: %w", err)
	}

	s.logger.Info("franchise deleted", zap.Int("franchiseId", franchiseID))
	return nil
}

// CreateStore adds a store under the franchise, permitted for admins
// and franchisees of that franchise.
func (s *franchiseService) CreateStore(ctx context.Context, identity authz.Identity, franchiseID int, req model.CreateStoreRequest) (*model.Store, error) {
	if !authz.CanAct(identity, authz.ActionCreateStore, authz.Target{FranchiseID: franchiseID}) {
		return nil, ErrForbidden
	}

	franchise, err := s.franchiseRepo.FindByID(ctx, franchiseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load franchise: %w", err)
	}
	if franchise == nil {
		return nil, ErrFranchiseNotFound
	}

	store := &model.Store{FranchiseID: franchiseID, Name: req.Name}
	if err := s.franchiseRepo.CreateStore(ctx, store); err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	return store, nil
}

// DeleteStore removes a store, same scope as CreateStore
func (s *franchiseService) DeleteStore(ctx context.Context, identity authz.Identity, franchiseID, storeID int) error {
	if !authz.CanAct(identity, authz.ActionDeleteStore, authz.Target{FranchiseID: franchiseID}) {
		return ErrForbidden
	}

	if err := s.franchiseRepo.DeleteStore(ctx, franchiseID, storeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrStoreNotFound
		}
		return fmt.Errorf("failed to delete store: %w", err)
	}
	return nil
}
