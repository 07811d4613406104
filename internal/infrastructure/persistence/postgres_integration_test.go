package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	appinv "github.com/bergizi/backend/internal/application/inventory"
	"github.com/bergizi/backend/internal/domain/inventory"
	"github.com/bergizi/backend/internal/domain/procurement"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/domain/shared/valueobject"
	"github.com/bergizi/backend/internal/domain/sppg"
	"github.com/bergizi/backend/internal/infrastructure/migration"
)

// setupPostgres starts a disposable PostgreSQL container and applies the
// embedded migrations to it.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("bergizi_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	wrapped, err := Wrap(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = wrapped.Close() })

	sqlDB, err := db.DB()
	require.NoError(t, err)
	m, err := migration.New(sqlDB, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(3), version)

	return wrapped.DB
}

func TestPostgres_ProcurementReceiveBooksStock(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()

	kitchen, err := sppg.NewSPPG("SPPG-BDG-01", "SPPG Bandung Wetan", sppg.PlanBasic)
	require.NoError(t, err)
	require.NoError(t, NewGormSPPGRepository(db).Save(ctx, kitchen))
	tenantID := kitchen.TenantID()

	supplier, err := procurement.NewSupplier(tenantID, "SUP-01", "CV Tani Makmur")
	require.NoError(t, err)
	require.NoError(t, NewGormSupplierRepository(db).Save(ctx, supplier))

	itemRepo := NewGormInventoryItemRepository(db)
	rice, err := inventory.NewInventoryItem(tenantID, "BRS-01", "Beras Medium", inventory.CategoryCarbohydrate, valueobject.UnitKilogram)
	require.NoError(t, err)
	require.NoError(t, itemRepo.Save(ctx, rice))

	orderRepo := NewGormProcurementOrderRepository(db)
	order, err := procurement.NewProcurementOrder(tenantID, "PO-20261016-001", supplier.ID, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, order.SetItems([]procurement.OrderItemInput{{
		InventoryItemID: rice.ID,
		ItemName:        rice.Name,
		Unit:            string(rice.Unit),
		Quantity:        decimal.NewFromInt(50),
		UnitPrice:       decimal.NewFromInt(12500),
	}}))
	require.NoError(t, orderRepo.Save(ctx, order))

	now := time.Now()
	require.NoError(t, order.Submit(now))
	require.NoError(t, order.Approve(uuid.New(), now))
	received, err := order.Receive([]procurement.ReceiveLine{{InventoryItemID: rice.ID, Quantity: decimal.NewFromInt(40)}}, now)
	require.NoError(t, err)
	require.Len(t, received, 1)

	scope := NewGormTransactionScope(db)
	err = scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		for _, line := range received {
			if _, _, err := appinv.ApplyStockChange(ctx, repos, tenantID, appinv.StockChange{
				ItemID:   line.InventoryItemID,
				Type:     inventory.MovementIn,
				Quantity: line.Quantity,
				Ref:      inventory.MovementReference{Type: inventory.ReferenceProcurement, ID: &order.ID},
			}); err != nil {
				return err
			}
		}
		return repos.OrderRepo().Save(ctx, order)
	})
	require.NoError(t, err)

	stocked, err := itemRepo.FindByIDForTenant(ctx, tenantID, rice.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(40).Equal(stocked.CurrentStock))

	movements, err := NewGormStockMovementRepository(db).FindForTenant(ctx, tenantID, inventory.MovementFilter{ItemID: &rice.ID}, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, order.ID, *movements[0].ReferenceID)

	saved, err := orderRepo.FindByIDForTenant(ctx, tenantID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, procurement.OrderStatusReceived, saved.Status)
	require.Len(t, saved.Items, 1)
	assert.True(t, decimal.NewFromInt(40).Equal(saved.Items[0].ReceivedQuantity))
}

func TestPostgres_FailedTransactionRollsBackStock(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	tenantID := uuid.New()

	itemRepo := NewGormInventoryItemRepository(db)
	oil, err := inventory.NewInventoryItem(tenantID, "MYK-01", "Minyak Goreng", inventory.CategoryOil, valueobject.UnitLiter)
	require.NoError(t, err)
	require.NoError(t, itemRepo.Save(ctx, oil))

	scope := NewGormTransactionScope(db)
	err = scope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		if _, _, err := appinv.ApplyStockChange(ctx, repos, tenantID, appinv.StockChange{
			ItemID:   oil.ID,
			Type:     inventory.MovementIn,
			Quantity: decimal.NewFromInt(20),
		}); err != nil {
			return err
		}
		_, _, err := appinv.ApplyStockChange(ctx, repos, tenantID, appinv.StockChange{
			ItemID:   oil.ID,
			Type:     inventory.MovementOut,
			Quantity: decimal.NewFromInt(25),
		})
		return err
	})
	require.Error(t, err)

	reloaded, err := itemRepo.FindByIDForTenant(ctx, tenantID, oil.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.CurrentStock.IsZero())
}

func TestPostgres_UniqueCodePerTenant(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	repo := NewGormSupplierRepository(db)
	tenantA, tenantB := uuid.New(), uuid.New()

	first, err := procurement.NewSupplier(tenantA, "SUP-01", "UD Sayur Segar")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	other, err := procurement.NewSupplier(tenantB, "SUP-01", "UD Sayur Segar")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, other))

	dup, err := procurement.NewSupplier(tenantA, "SUP-01", "Duplikat")
	require.NoError(t, err)
	assert.Error(t, repo.Save(ctx, dup))
}
