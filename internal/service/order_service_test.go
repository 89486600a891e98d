package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pizza_service/internal/model"
	"pizza_service/internal/repository"
)

type fakeMenuRepo struct {
	items  []model.MenuItem
	nextID int
}

func newFakeMenuRepo() *fakeMenuRepo {
	return &fakeMenuRepo{nextID: 1}
}

func (r *fakeMenuRepo) List(_ context.Context) ([]model.MenuItem, error) {
	return append([]model.MenuItem{}, r.items...), nil
}

func (r *fakeMenuRepo) Insert(_ context.Context, item *model.MenuItem) error {
	item.ID = r.nextID
	r.nextID++
	r.items = append(r.items, *item)
	return nil
}

func (r *fakeMenuRepo) Update(_ context.Context, item *model.MenuItem) error {
	for i := range r.items {
		if r.items[i].ID == item.ID {
			r.items[i] = *item
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeOrderRepo struct {
	orders     []model.Order
	nextID     int
	knownStore [2]int // franchise id, store id
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{nextID: 1, knownStore: [2]int{1, 1}}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *model.Order) error {
	order.ID = r.nextID
	r.nextID++
	for i := range order.Items {
		order.Items[i].ID = i + 1
	}
	r.orders = append(r.orders, *order)
	return nil
}

func (r *fakeOrderRepo) FindByDiner(_ context.Context, dinerID, page, pageSize int) ([]model.Order, error) {
	out := []model.Order{}
	for _, order := range r.orders {
		if order.DinerID == dinerID {
			out = append(out, order)
		}
	}
	start := page * pageSize
	if start >= len(out) {
		return []model.Order{}, nil
	}
	end := start + pageSize
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (r *fakeOrderRepo) StoreExists(_ context.Context, franchiseID, storeID int) (bool, error) {
	return franchiseID == r.knownStore[0] && storeID == r.knownStore[1], nil
}

type fakeSigner struct {
	receipt string
	err     error
	diner   *model.User
	order   *model.Order
}

func (s *fakeSigner) SignReceipt(_ context.Context, diner *model.User, order *model.Order) (string, error) {
	s.diner = diner
	s.order = order
	if s.err != nil {
		return "", s.err
	}
	return s.receipt, nil
}

func newOrderFixture(signer ReceiptSigner) (OrderService, *fakeOrderRepo, *fakeMenuRepo) {
	orderRepo := newFakeOrderRepo()
	menuRepo := newFakeMenuRepo()
	return NewOrderService(orderRepo, menuRepo, signer, 10, zap.NewNop()), orderRepo, menuRepo
}

func veggieItem() model.UpsertMenuItemRequest {
	return model.UpsertMenuItemRequest{
		Title: "Veggie", Description: "A garden of delight", Image: "pizza1.png", Price: 0.0038,
	}
}

func TestOrderService_Menu(t *testing.T) {
	svc, _, menuRepo := newOrderFixture(&fakeSigner{})
	require.NoError(t, menuRepo.Insert(context.Background(), &model.MenuItem{Title: "Veggie", Price: 0.0038}))

	menu, err := svc.Menu(context.Background())

	require.NoError(t, err)
	assert.Len(t, menu, 1)
	assert.Equal(t, "Veggie", menu[0].Title)
}

func TestOrderService_UpsertMenuItem_AdminOnly(t *testing.T) {
	svc, _, _ := newOrderFixture(&fakeSigner{})

	_, err := svc.UpsertMenuItem(context.Background(), dinerIdentity(5), veggieItem())
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpsertMenuItem(context.Background(), franchiseeIdentity(7, 1), veggieItem())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestOrderService_UpsertMenuItem_InsertThenUpdate(t *testing.T) {
	svc, _, _ := newOrderFixture(&fakeSigner{})

	menu, err := svc.UpsertMenuItem(context.Background(), adminIdentity(), veggieItem())
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.NotZero(t, menu[0].ID)

	update := veggieItem()
	update.ID = menu[0].ID
	update.Price = 0.0042
	menu, err = svc.UpsertMenuItem(context.Background(), adminIdentity(), update)
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t, 0.0042, menu[0].Price)
}

func TestOrderService_UpsertMenuItem_UnknownID(t *testing.T) {
	svc, _, _ := newOrderFixture(&fakeSigner{})

	req := veggieItem()
	req.ID = 42
	_, err := svc.UpsertMenuItem(context.Background(), adminIdentity(), req)

	assert.ErrorIs(t, err, ErrMenuItemNotFound)
}

func TestOrderService_ListOrders(t *testing.T) {
	svc, orderRepo, _ := newOrderFixture(&fakeSigner{})
	require.NoError(t, orderRepo.Create(context.Background(), &model.Order{DinerID: 5}))
	require.NoError(t, orderRepo.Create(context.Background(), &model.Order{DinerID: 9}))

	page, err := svc.ListOrders(context.Background(), dinerIdentity(5), 0)

	require.NoError(t, err)
	assert.Equal(t, 5, page.DinerID)
	assert.Equal(t, 0, page.Page)
	assert.Len(t, page.Orders, 1)
}

func TestOrderService_ListOrders_NegativePageClamped(t *testing.T) {
	svc, _, _ := newOrderFixture(&fakeSigner{})

	page, err := svc.ListOrders(context.Background(), dinerIdentity(5), -3)

	require.NoError(t, err)
	assert.Equal(t, 0, page.Page)
	assert.Empty(t, page.Orders)
}

func orderRequest() model.CreateOrderRequest {
	req := model.CreateOrderRequest{FranchiseID: 1, StoreID: 1}
	req.Items = append(req.Items, struct {
		MenuID      int     `json:"menuId" binding:"required"`
		Description string  `json:"description" binding:"required"`
		Price       float64 `json:"price"`
	}{MenuID: 1, Description: "Veggie", Price: 0.0038})
	return req
}

func TestOrderService_CreateOrder(t *testing.T) {
	signer := &fakeSigner{receipt: "signed-receipt"}
	svc, _, _ := newOrderFixture(signer)

	order, receipt, err := svc.CreateOrder(context.Background(), dinerIdentity(5), orderRequest())

	require.NoError(t, err)
	assert.Equal(t, "signed-receipt", receipt)
	assert.NotZero(t, order.ID)
	assert.Equal(t, 5, order.DinerID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Veggie", order.Items[0].Description)

	// The factory saw the persisted order and the ordering diner.
	require.NotNil(t, signer.order)
	assert.Equal(t, order.ID, signer.order.ID)
	assert.Equal(t, 5, signer.diner.ID)
}

func TestOrderService_CreateOrder_UnknownStore(t *testing.T) {
	svc, _, _ := newOrderFixture(&fakeSigner{receipt: "signed-receipt"})

	req := orderRequest()
	req.StoreID = 42
	_, _, err := svc.CreateOrder(context.Background(), dinerIdentity(5), req)

	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestOrderService_CreateOrder_FactoryFailure(t *testing.T) {
	svc, _, _ := newOrderFixture(&fakeSigner{err: errors.New("factory down")})

	_, _, err := svc.CreateOrder(context.Background(), dinerIdentity(5), orderRequest())

	assert.ErrorIs(t, err, ErrReceiptFailed)
}
