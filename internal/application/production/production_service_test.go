package production

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	appinventory "github.com/bergizi/backend/internal/application/inventory"
	"github.com/bergizi/backend/internal/domain/inventory"
	"github.com/bergizi/backend/internal/domain/menu"
	"github.com/bergizi/backend/internal/domain/production"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
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

type MockProductionRepository struct {
	production.Repository
	mock.Mock
}

func (m *MockProductionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*production.Production, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*production.Production), args.Error(1)
}

func (m *MockProductionRepository) CountOnDate(ctx context.Context, tenantID uuid.UUID, date time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, date)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductionRepository) Save(ctx context.Context, p *production.Production) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductionRepository) SaveWithLock(ctx context.Context, p *production.Production) error {
	return m.Called(ctx, p).Error(0)
}

type MockMenuRepository struct {
	menu.MenuRepository
	mock.Mock
}

func (m *MockMenuRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*menu.Menu, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*menu.Menu), args.Error(1)
}

type MockPlanRepository struct {
	menu.PlanRepository
	mock.Mock
}

func (m *MockPlanRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*menu.MenuPlan, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*menu.MenuPlan), args.Error(1)
}

type MockItemRepository struct {
	inventory.ItemRepository
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

func (m *MockItemRepository) SaveWithLock(ctx context.Context, item *inventory.InventoryItem) error {
	return m.Called(ctx, item).Error(0)
}

type MockMovementRepository struct {
	inventory.MovementRepository
	mock.Mock
}

func (m *MockMovementRepository) Create(ctx context.Context, mv *inventory.StockMovement) error {
	return m.Called(ctx, mv).Error(0)
}

type fixture struct {
	tenantID    uuid.UUID
	productions *MockProductionRepository
	menus       *MockMenuRepository
	plans       *MockPlanRepository
	items       *MockItemRepository
	movements   *MockMovementRepository
	publisher   *MockEventPublisher
	service     *ProductionService
}

func newFixture() *fixture {
	f := &fixture{
		tenantID:    uuid.New(),
		productions: new(MockProductionRepository),
		menus:       new(MockMenuRepository),
		plans:       new(MockPlanRepository),
		items:       new(MockItemRepository),
		movements:   new(MockMovementRepository),
		publisher:   &MockEventPublisher{},
	}
	scope := appinventory.NewNoOpTransactionScope(f.items, f.movements, nil, f.productions)
	f.service = NewProductionService(f.productions, f.menus, f.plans, scope)
	f.service.SetEventPublisher(f.publisher)
	f.service.now = func() time.Time { return time.Date(2026, 10, 16, 6, 30, 0, 0, time.UTC) }
	return f
}

// kitchen returns a lunch menu of 100 g rice and one egg per portion, with
// rice stocked in kg and eggs per piece
func (f *fixture) kitchen(t *testing.T, riceStock, eggStock int64) (*menu.Menu, *inventory.InventoryItem, *inventory.InventoryItem) {
	t.Helper()
	rice, err := inventory.NewInventoryItem(f.tenantID, "BRS", "Beras", inventory.CategoryCarbohydrate, valueobject.UnitKilogram)
	require.NoError(t, err)
	rice.CurrentStock = decimal.NewFromInt(riceStock)
	egg, err := inventory.NewInventoryItem(f.tenantID, "TLR", "Telur", inventory.CategoryProtein, valueobject.UnitPiece)
	require.NoError(t, err)
	egg.CurrentStock = decimal.NewFromInt(eggStock)
	egg.UnitWeight = decimal.NewFromInt(50)

	m, err := menu.NewMenu(f.tenantID, "MN-01", "Nasi Telur", menu.MealLunch, 300)
	require.NoError(t, err)
	require.NoError(t, m.SetIngredients([]menu.IngredientInput{
		{InventoryItemID: rice.ID, Name: "Beras", Quantity: decimal.NewFromInt(100), Unit: valueobject.UnitGram},
		{InventoryItemID: egg.ID, Name: "Telur", Quantity: decimal.NewFromInt(1), Unit: valueobject.UnitPiece},
	}))
	return m, rice, egg
}

func (f *fixture) expectKitchen(ctx context.Context, m *menu.Menu, rice, egg *inventory.InventoryItem) {
	f.menus.On("FindByIDForTenant", ctx, f.tenantID, m.ID).Return(m, nil)
	f.items.On("FindByIDs", ctx, f.tenantID, m.IngredientItemIDs()).Return([]inventory.InventoryItem{*rice, *egg}, nil)
	f.items.On("FindByIDForTenant", ctx, f.tenantID, rice.ID).Return(rice, nil)
	f.items.On("FindByIDForTenant", ctx, f.tenantID, egg.ID).Return(egg, nil)
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected domain error, got %v", err)
	return domainErr.Code
}

func TestProductionService_Create_FromApprovedPlan(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m, _, _ := f.kitchen(t, 0, 0)
	plan, err := menu.NewMenuPlan(f.tenantID, f.service.now(), m.ID, nil, 850)
	require.NoError(t, err)
	require.NoError(t, plan.Approve(uuid.New(), f.service.now()))
	date := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	f.plans.On("FindByIDForTenant", ctx, f.tenantID, plan.ID).Return(plan, nil)
	f.menus.On("FindByIDForTenant", ctx, f.tenantID, m.ID).Return(m, nil)
	f.productions.On("CountOnDate", ctx, f.tenantID, date).Return(int64(0), nil)
	f.productions.On("Save", ctx, mock.AnythingOfType("*production.Production")).Return(nil)

	resp, err := f.service.Create(ctx, f.tenantID, nil, CreateProductionRequest{ProductionDate: "2026-10-16", MenuPlanID: &plan.ID})
	require.NoError(t, err)
	assert.Equal(t, "PRD-20261016-001", resp.BatchNumber)
	assert.Equal(t, m.ID, resp.MenuID)
	assert.Equal(t, 850, resp.PlannedPortions)
	assert.Equal(t, "planned", resp.Status)
}

func TestProductionService_Create_DraftPlanRejected(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	plan, err := menu.NewMenuPlan(f.tenantID, f.service.now(), uuid.New(), nil, 100)
	require.NoError(t, err)
	f.plans.On("FindByIDForTenant", ctx, f.tenantID, plan.ID).Return(plan, nil)

	_, err = f.service.Create(ctx, f.tenantID, nil, CreateProductionRequest{ProductionDate: "2026-10-16", MenuPlanID: &plan.ID})
	assert.Equal(t, "PLAN_NOT_APPROVED", domainCode(t, err))
}

func TestProductionService_Start_ConsumesScaledRecipe(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m, rice, egg := f.kitchen(t, 200, 500)
	p, err := production.NewProduction(f.tenantID, "PRD-20261016-001", f.service.now(), m.ID, 120)
	require.NoError(t, err)

	f.productions.On("FindByIDForTenant", ctx, f.tenantID, p.ID).Return(p, nil)
	f.expectKitchen(ctx, m, rice, egg)
	f.items.On("SaveWithLock", ctx, mock.AnythingOfType("*inventory.InventoryItem")).Return(nil)
	f.movements.On("Create", ctx, mock.MatchedBy(func(mv *inventory.StockMovement) bool {
		return mv.Type == inventory.MovementOut && mv.ReferenceType == inventory.ReferenceProduction && *mv.ReferenceID == p.ID
	})).Return(nil).Twice()
	f.productions.On("SaveWithLock", ctx, p).Return(nil)

	resp, err := f.service.Start(ctx, f.tenantID, p.ID, nil, StartRequest{HeadCook: "Bu Sri"})
	require.NoError(t, err)
	assert.Equal(t, "preparing", resp.Status)
	assert.Equal(t, "Bu Sri", resp.HeadCook)
	// 120 x 100 g = 12 kg rice, 120 eggs
	assert.Equal(t, "188", rice.CurrentStock.String())
	assert.Equal(t, "380", egg.CurrentStock.String())
	assert.Equal(t, []string{
		inventory.EventTypeStockMovementRecorded,
		inventory.EventTypeStockMovementRecorded,
		production.EventTypeProductionStatusChanged,
	}, f.publisher.EventTypes())
	f.movements.AssertExpectations(t)
}

func TestProductionService_Start_InsufficientStockAborts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	m, rice, egg := f.kitchen(t, 200, 50)
	p, err := production.NewProduction(f.tenantID, "PRD-20261016-001", f.service.now(), m.ID, 120)
	require.NoError(t, err)

	f.productions.On("FindByIDForTenant", ctx, f.tenantID, p.ID).Return(p, nil)
	f.expectKitchen(ctx, m, rice, egg)
	f.items.On("SaveWithLock", ctx, rice).Return(nil)
	f.movements.On("Create", ctx, mock.Anything).Return(nil)

	_, err = f.service.Start(ctx, f.tenantID, p.ID, nil, StartRequest{HeadCook: "Bu Sri"})
	assert.Equal(t, "INSUFFICIENT_STOCK", domainCode(t, err))
	f.productions.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	assert.Empty(t, f.publisher.EventTypes())
}

func TestProductionService_QualityCheckFlow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p, err := production.NewProduction(f.tenantID, "PRD-1", f.service.now(), uuid.New(), 100)
	require.NoError(t, err)
	require.NoError(t, p.StartPreparation("Bu Sri", f.service.now()))
	require.NoError(t, p.StartCooking(f.service.now()))
	p.ClearDomainEvents()
	checker := uuid.New()

	f.productions.On("FindByIDForTenant", ctx, f.tenantID, p.ID).Return(p, nil)
	f.productions.On("SaveWithLock", ctx, p).Return(nil)

	failed, passed := false, true
	resp, err := f.service.SubmitQualityCheck(ctx, f.tenantID, p.ID, checker, QualityCheckRequest{Passed: &failed, Notes: "kurang matang"})
	require.NoError(t, err)
	assert.Equal(t, "cooking", resp.Status)

	_, err = f.service.Complete(ctx, f.tenantID, p.ID, CompleteRequest{ActualPortions: 98})
	assert.Equal(t, "INVALID_STATE", domainCode(t, err))

	temp := decimal.NewFromInt(75)
	resp, err = f.service.SubmitQualityCheck(ctx, f.tenantID, p.ID, checker, QualityCheckRequest{Passed: &passed, Temperature: &temp})
	require.NoError(t, err)
	assert.Equal(t, "quality_check", resp.Status)
	require.NotNil(t, resp.QCTemperature)
	assert.Equal(t, "75", resp.QCTemperature.String())

	resp, err = f.service.Complete(ctx, f.tenantID, p.ID, CompleteRequest{ActualPortions: 98})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, "98", resp.Yield.String())

	_, err = f.service.Cancel(ctx, f.tenantID, p.ID, CancelRequest{Reason: "late"})
	assert.Equal(t, "INVALID_STATE", domainCode(t, err))
	assert.Len(t, f.publisher.EventTypes(), 3)
}
