package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bergizi/backend/internal/domain/inventory"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.events))
	for i, e := range m.events {
		types[i] = e.EventType()
	}
	return types
}

// MockItemRepository is a mock implementation of inventory.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryItem), args.Error(1)
}

func (m *MockItemRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]inventory.InventoryItem, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]inventory.InventoryItem), args.Error(1)
}

func (m *MockItemRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.InventoryItem, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]inventory.InventoryItem), args.Error(1)
}

func (m *MockItemRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) FindLowStock(ctx context.Context, tenantID uuid.UUID) ([]inventory.InventoryItem, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]inventory.InventoryItem), args.Error(1)
}

func (m *MockItemRepository) CountLowStock(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockItemRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) SaveWithLock(ctx context.Context, item *inventory.InventoryItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// MockMovementRepository is a mock implementation of inventory.MovementRepository
type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) Create(ctx context.Context, mv *inventory.StockMovement) error {
	return m.Called(ctx, mv).Error(0)
}

func (m *MockMovementRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, mf inventory.MovementFilter, filter shared.Filter) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, tenantID, mf, filter)
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}

func (m *MockMovementRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, mf inventory.MovementFilter) (int64, error) {
	args := m.Called(ctx, tenantID, mf)
	return args.Get(0).(int64), args.Error(1)
}

type serviceFixture struct {
	tenantID  uuid.UUID
	items     *MockItemRepository
	movements *MockMovementRepository
	publisher *MockEventPublisher
	service   *InventoryService
}

func newFixture() *serviceFixture {
	f := &serviceFixture{
		tenantID:  uuid.New(),
		items:     new(MockItemRepository),
		movements: new(MockMovementRepository),
		publisher: &MockEventPublisher{},
	}
	scope := NewNoOpTransactionScope(f.items, f.movements, nil, nil)
	f.service = NewInventoryService(f.items, f.movements, scope)
	f.service.SetEventPublisher(f.publisher)
	return f
}

func (f *serviceFixture) item(t *testing.T, stock, min string) *inventory.InventoryItem {
	t.Helper()
	item, err := inventory.NewInventoryItem(f.tenantID, "BRS-01", "Beras", inventory.CategoryCarbohydrate, valueobject.UnitKilogram)
	require.NoError(t, err)
	item.CurrentStock = decimal.RequireFromString(stock)
	item.MinStock = decimal.RequireFromString(min)
	return item
}

func TestInventoryService_Create(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	actor := uuid.New()

	f.items.On("ExistsByCode", ctx, f.tenantID, "brs-01").Return(false, nil)
	f.items.On("Save", ctx, mock.AnythingOfType("*inventory.InventoryItem")).Return(nil)

	resp, err := f.service.Create(ctx, f.tenantID, &actor, CreateItemRequest{
		Code:        "brs-01",
		Name:        "Beras",
		Category:    "carbohydrate",
		Unit:        "kg",
		MinStock:    decimal.NewFromInt(50),
		CostPerUnit: decimal.NewFromInt(13000),
	})
	require.NoError(t, err)
	assert.Equal(t, "BRS-01", resp.Code)
	assert.True(t, resp.MinStock.Equal(decimal.NewFromInt(50)))
	assert.True(t, resp.CurrentStock.IsZero())
	f.items.AssertExpectations(t)
}

func TestInventoryService_Create_DuplicateCode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.items.On("ExistsByCode", ctx, f.tenantID, "BRS-01").Return(true, nil)

	_, err := f.service.Create(ctx, f.tenantID, nil, CreateItemRequest{Code: "BRS-01", Name: "Beras", Category: "carbohydrate", Unit: "kg"})
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	f.items.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInventoryService_StockOut_RecordsMovementAndLowStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.item(t, "60", "50")

	f.items.On("FindByIDForTenant", ctx, f.tenantID, item.ID).Return(item, nil)
	f.items.On("SaveWithLock", ctx, item).Return(nil)
	f.movements.On("Create", ctx, mock.MatchedBy(func(m *inventory.StockMovement) bool {
		return m.Type == inventory.MovementOut && m.StockAfter.Equal(decimal.NewFromInt(45))
	})).Return(nil)

	resp, err := f.service.StockOut(ctx, f.tenantID, item.ID, nil, StockRequest{Quantity: decimal.NewFromInt(15)})
	require.NoError(t, err)
	assert.Equal(t, "out", resp.Type)
	assert.True(t, resp.StockBefore.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, []string{inventory.EventTypeStockMovementRecorded, inventory.EventTypeLowStockDetected}, f.publisher.EventTypes())
	assert.Empty(t, item.GetDomainEvents())
	f.items.AssertExpectations(t)
	f.movements.AssertExpectations(t)
}

func TestInventoryService_StockOut_Insufficient(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.item(t, "5", "0")
	f.items.On("FindByIDForTenant", ctx, f.tenantID, item.ID).Return(item, nil)

	_, err := f.service.StockOut(ctx, f.tenantID, item.ID, nil, StockRequest{Quantity: decimal.NewFromInt(6)})
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
	f.items.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	assert.Empty(t, f.publisher.EventTypes())
}

func TestInventoryService_Adjust_ConcurrencyConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.item(t, "10", "0")
	f.items.On("FindByIDForTenant", ctx, f.tenantID, item.ID).Return(item, nil)
	f.items.On("SaveWithLock", ctx, item).Return(shared.ErrConcurrencyConflict)

	_, err := f.service.Adjust(ctx, f.tenantID, item.ID, nil, AdjustRequest{CountedStock: decimal.NewFromInt(8), Notes: "opname"})
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	f.movements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInventoryService_Update_UnitLockedWhileStocked(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.item(t, "10", "0")
	f.items.On("FindByIDForTenant", ctx, f.tenantID, item.ID).Return(item, nil)

	_, err := f.service.Update(ctx, f.tenantID, item.ID, UpdateItemRequest{Name: "Beras", Category: "carbohydrate", Unit: "g"})
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "UNIT_CHANGE_NOT_ALLOWED", domainErr.Code)
}

func TestInventoryService_Delete_RejectsStockedItem(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.item(t, "1", "0")
	f.items.On("FindByIDForTenant", ctx, f.tenantID, item.ID).Return(item, nil)

	err := f.service.Delete(ctx, f.tenantID, item.ID)
	require.Error(t, err)
	f.items.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestInventoryService_List_BuildsFilter(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	active := true
	matchFilter := mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Page == 2 && filter.PageSize == 10 &&
			filter.Filters["category"] == "protein" &&
			filter.Filters["is_active"] == true &&
			filter.Filters["low_stock"] == true
	})
	f.items.On("FindAllForTenant", ctx, f.tenantID, matchFilter).Return([]inventory.InventoryItem{*f.item(t, "1", "5")}, nil)
	f.items.On("CountForTenant", ctx, f.tenantID, matchFilter).Return(int64(11), nil)

	items, total, err := f.service.List(ctx, f.tenantID, ItemListFilter{
		Category: "protein", IsActive: &active, LowStock: true, Page: 2, PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), total)
	require.Len(t, items, 1)
	assert.True(t, items[0].IsLowStock)
}
