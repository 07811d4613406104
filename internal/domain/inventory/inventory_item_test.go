package inventory

import (
	"testing"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestItem(t *testing.T) *InventoryItem {
	t.Helper()
	item, err := NewInventoryItem(uuid.New(), "brs-01", "Beras Putih", CategoryCarbohydrate, valueobject.UnitKilogram)
	require.NoError(t, err)
	item.ClearDomainEvents()
	return item
}

func TestNewInventoryItem(t *testing.T) {
	t.Run("creates an active item with zero stock", func(t *testing.T) {
		item := createTestItem(t)

		assert.Equal(t, "BRS-01", item.Code)
		assert.True(t, item.IsActive)
		assert.True(t, item.CurrentStock.IsZero())
		assert.False(t, item.IsLowStock())
	})

	t.Run("validates input", func(t *testing.T) {
		tenantID := uuid.New()

		_, err := NewInventoryItem(tenantID, "", "Beras", CategoryCarbohydrate, valueobject.UnitKilogram)
		assert.Error(t, err)

		_, err = NewInventoryItem(tenantID, "BRS", "", CategoryCarbohydrate, valueobject.UnitKilogram)
		assert.Error(t, err)

		_, err = NewInventoryItem(tenantID, "BRS", "Beras", Category("grain"), valueobject.UnitKilogram)
		assert.Error(t, err)

		_, err = NewInventoryItem(tenantID, "BRS", "Beras", CategoryCarbohydrate, valueobject.Unit("karung"))
		assert.ErrorIs(t, err, valueobject.ErrUnsupportedUnit)
	})
}

func TestInventoryItem_StockIn(t *testing.T) {
	item := createTestItem(t)
	poID := uuid.New()

	m, err := item.StockIn(decimal.NewFromInt(50), MovementReference{Type: ReferenceProcurement, ID: &poID})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(item.CurrentStock))
	assert.Equal(t, MovementIn, m.Type)
	assert.True(t, m.StockBefore.IsZero())
	assert.True(t, decimal.NewFromInt(50).Equal(m.StockAfter))
	assert.Equal(t, ReferenceProcurement, m.ReferenceType)
	assert.Equal(t, &poID, m.ReferenceID)
	assert.Equal(t, item.TenantID, m.TenantID)

	events := item.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeStockMovementRecorded, events[0].EventType())

	_, err = item.StockIn(decimal.Zero, MovementReference{})
	assert.Error(t, err)
}

func TestInventoryItem_StockOut(t *testing.T) {
	t.Run("removes stock", func(t *testing.T) {
		item := createTestItem(t)
		item.CurrentStock = decimal.NewFromInt(20)

		m, err := item.StockOut(decimal.RequireFromString("7.5"), MovementReference{})

		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("12.5").Equal(item.CurrentStock))
		assert.Equal(t, ReferenceManual, m.ReferenceType)
		assert.True(t, decimal.RequireFromString("-7.5").Equal(m.Delta()))
	})

	t.Run("fails when quantity exceeds stock", func(t *testing.T) {
		item := createTestItem(t)
		item.CurrentStock = decimal.NewFromInt(5)

		_, err := item.StockOut(decimal.NewFromInt(6), MovementReference{})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.True(t, decimal.NewFromInt(5).Equal(item.CurrentStock))
		assert.Empty(t, item.GetDomainEvents())
	})

	t.Run("allows taking the whole stock", func(t *testing.T) {
		item := createTestItem(t)
		item.CurrentStock = decimal.NewFromInt(5)

		_, err := item.StockOut(decimal.NewFromInt(5), MovementReference{})

		require.NoError(t, err)
		assert.True(t, item.CurrentStock.IsZero())
	})
}

func TestInventoryItem_LowStockDetection(t *testing.T) {
	item := createTestItem(t)
	require.NoError(t, item.SetMinStock(decimal.NewFromInt(10)))
	item.CurrentStock = decimal.NewFromInt(15)
	item.ClearDomainEvents()

	_, err := item.StockOut(decimal.NewFromInt(4), MovementReference{})
	require.NoError(t, err)
	assert.Len(t, item.GetDomainEvents(), 1, "still above minimum")

	_, err = item.StockOut(decimal.NewFromInt(3), MovementReference{})
	require.NoError(t, err)
	events := item.GetDomainEvents()
	require.Len(t, events, 3)
	low, ok := events[2].(*LowStockDetectedEvent)
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(8).Equal(low.CurrentStock))
	assert.True(t, item.IsLowStock())

	_, err = item.StockOut(decimal.NewFromInt(1), MovementReference{})
	require.NoError(t, err)
	assert.Len(t, item.GetDomainEvents(), 4, "no second alert while already low")
}

func TestInventoryItem_Adjust(t *testing.T) {
	item := createTestItem(t)
	item.CurrentStock = decimal.NewFromInt(30)

	m, err := item.Adjust(decimal.NewFromInt(27), MovementReference{Type: ReferenceStockCount, Notes: "opname"})

	require.NoError(t, err)
	assert.Equal(t, MovementAdjustment, m.Type)
	assert.True(t, decimal.NewFromInt(3).Equal(m.Quantity))
	assert.True(t, decimal.NewFromInt(27).Equal(item.CurrentStock))
	assert.Equal(t, "opname", m.Notes)

	_, err = item.Adjust(decimal.NewFromInt(27), MovementReference{})
	assert.Error(t, err)

	_, err = item.Adjust(decimal.NewFromInt(-1), MovementReference{})
	assert.Error(t, err)
}

func TestInventoryItem_Settings(t *testing.T) {
	item := createTestItem(t)

	require.NoError(t, item.SetNutrition(valueobject.Nutrients{EnergyKcal: decimal.NewFromInt(360)}))
	assert.Error(t, item.SetNutrition(valueobject.Nutrients{ProteinG: decimal.NewFromInt(-1)}))

	require.NoError(t, item.SetConversion(decimal.RequireFromString("0.92"), decimal.Zero))
	assert.True(t, decimal.RequireFromString("0.92").Equal(item.Conversion().Density))
	assert.Error(t, item.SetConversion(decimal.NewFromInt(-1), decimal.Zero))

	assert.Error(t, item.SetMinStock(decimal.NewFromInt(-1)))
	assert.Error(t, item.SetCostPerUnit(decimal.NewFromInt(-1)))
	require.NoError(t, item.SetCostPerUnit(decimal.NewFromInt(12000)))

	item.Deactivate()
	assert.False(t, item.IsActive)
	item.Activate()
	assert.True(t, item.IsActive)
}
