package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pizza_service/internal/authz"
	"pizza_service/internal/model"
	"pizza_service/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrReceiptFailed    = errors.New("failed to fulfill order at factory")
)

// ReceiptSigner produces the signed receipt returned alongside a
// created order. The pizza factory client implements it.
type ReceiptSigner interface {
	SignReceipt(ctx context.Context, diner *model.User, order *model.Order) (string, error)
}

// OrderService provides the menu catalog and order placement
type OrderService interface {
	Menu(ctx context.Context) ([]model.MenuItem, error)
	UpsertMenuItem(ctx context.Context, identity authz.Identity, req model.UpsertMenuItemRequest) ([]model.MenuItem, error)
	ListOrders(ctx context.Context, identity authz.Identity, page int) (*model.OrderPage, error)
	CreateOrder(ctx context.Context, identity authz.Identity, req model.CreateOrderRequest) (*model.Order, string, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	menuRepo  repository.MenuRepository
	signer    ReceiptSigner
	pageSize  int
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo repository.OrderRepository, menuRepo repository.MenuRepository, signer ReceiptSigner, pageSize int, logger *zap.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		menuRepo:  menuRepo,
		signer:    signer,
		pageSize:  pageSize,
		logger:    logger,
	}
}

// Menu returns the full catalog. Public, no authorization involved.
func (s *orderService) Menu(ctx context.Context) ([]model.MenuItem, error) {
	items, err := s.menuRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu: %w", err)
	}
	return items, nil
}

// UpsertMenuItem adds or replaces a catalog entry and returns the full
// updated menu. Admin only.
func (s *orderService) UpsertMenuItem(ctx context.Context, identity authz.Identity, req model.UpsertMenuItemRequest) ([]model.MenuItem, error) {
	if !authz.CanAct(identity, authz.ActionUpdateMenu, authz.Target{}) {
		return nil, ErrForbidden
	}

	item := &model.MenuItem{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
	}

	var err error
	if item.ID > 0 {
		err = s.menuRepo.Update(ctx, item)
	} else {
		err = s.menuRepo.Insert(ctx, item)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to upsert menu item: %w", err)
	}

	return s.Menu(ctx)
}

// ListOrders returns one page of the requester's own orders
func (s *orderService) ListOrders(ctx context.Context, identity authz.Identity, page int) (*model.OrderPage, error) {
	if page < 0 {
		page = 0
	}
	orders, err := s.orderRepo.FindByDiner(ctx, identity.ID, page, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return &model.OrderPage{DinerID: identity.ID, Orders: orders, Page: page}, nil
}

// CreateOrder persists the order and obtains the signed receipt from
// the factory. The order must reference an existing store of the
// franchise.
func (s *orderService) CreateOrder(ctx context.Context, identity authz.Identity, req model.CreateOrderRequest) (*model.Order, string, error) {
	exists, err := s.orderRepo.StoreExists(ctx, req.FranchiseID, req.StoreID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to verify store: %w", err)
	}
	if !exists {
		return nil, "", ErrStoreNotFound
	}

	order := &model.Order{
		DinerID:     identity.ID,
		FranchiseID: req.FranchiseID,
		StoreID:     req.StoreID,
		Date:        time.Now(),
		Items:       make([]model.OrderItem, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, model.OrderItem{
			MenuID:      item.MenuID,
			Description: item.Description,
			Price:       item.Price,
		})
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, "", fmt.Errorf("failed to create order: %w", err)
	}

	diner := &model.User{ID: identity.ID, Name: identity.Name, Email: identity.Email}
	receipt, err := s.signer.SignReceipt(ctx, diner, order)
	if err != nil {
		s.logger.Error("factory receipt failed",
			zap.Int("orderId", order.ID),
			zap.Error(err))
		return nil, "", ErrReceiptFailed
	}

	return order, receipt, nil
}
