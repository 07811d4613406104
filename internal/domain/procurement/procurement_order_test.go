package procurement

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderDate = time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

func newDraftOrder(t *testing.T) (*ProcurementOrder, uuid.UUID, uuid.UUID) {
	t.Helper()
	o, err := NewProcurementOrder(uuid.New(), "PO-20260210-0001", uuid.New(), orderDate)
	require.NoError(t, err)

	rice, egg := uuid.New(), uuid.New()
	require.NoError(t, o.SetItems([]OrderItemInput{
		{InventoryItemID: rice, ItemName: "Beras", Unit: "kg", Quantity: decimal.NewFromInt(100), UnitPrice: decimal.NewFromInt(12500)},
		{InventoryItemID: egg, ItemName: "Telur", Unit: "pcs", Quantity: decimal.NewFromInt(300), UnitPrice: decimal.RequireFromString("1850.50")},
	}))
	return o, rice, egg
}

func approvedOrder(t *testing.T) (*ProcurementOrder, uuid.UUID, uuid.UUID) {
	t.Helper()
	o, rice, egg := newDraftOrder(t)
	require.NoError(t, o.Submit(time.Now()))
	require.NoError(t, o.Approve(uuid.New(), time.Now()))
	o.ClearDomainEvents()
	return o, rice, egg
}

func TestNewProcurementOrder(t *testing.T) {
	_, err := NewProcurementOrder(uuid.New(), "", uuid.New(), orderDate)
	assert.Error(t, err)

	_, err = NewProcurementOrder(uuid.New(), "PO-1", uuid.Nil, orderDate)
	assert.Error(t, err)

	_, err = NewProcurementOrder(uuid.New(), "PO-1", uuid.New(), time.Time{})
	assert.Error(t, err)
}

func TestProcurementOrder_SetItems(t *testing.T) {
	o, _, _ := newDraftOrder(t)

	// 100 x 12500 + 300 x 1850.50
	assert.True(t, decimal.NewFromInt(1805150).Equal(o.TotalAmount), "total %s", o.TotalAmount)
	require.Len(t, o.Items, 2)
	assert.Equal(t, o.ID, o.Items[0].OrderID)

	item := uuid.New()
	assert.Error(t, o.SetItems([]OrderItemInput{{InventoryItemID: item, Quantity: decimal.Zero}}))
	assert.Error(t, o.SetItems([]OrderItemInput{{InventoryItemID: item, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(-1)}}))
	assert.Error(t, o.SetItems([]OrderItemInput{
		{InventoryItemID: item, Quantity: decimal.NewFromInt(1)},
		{InventoryItemID: item, Quantity: decimal.NewFromInt(2)},
	}))
	assert.Len(t, o.Items, 2, "failed updates leave lines intact")
}

func TestProcurementOrder_Lifecycle(t *testing.T) {
	t.Run("submit requires items", func(t *testing.T) {
		o, err := NewProcurementOrder(uuid.New(), "PO-1", uuid.New(), orderDate)
		require.NoError(t, err)
		assert.Error(t, o.Submit(time.Now()))
	})

	t.Run("approve requires submitted", func(t *testing.T) {
		o, _, _ := newDraftOrder(t)
		assert.Error(t, o.Approve(uuid.New(), time.Now()))

		require.NoError(t, o.Submit(time.Now()))
		assert.Error(t, o.SetItems(nil), "submitted orders are frozen")
		assert.Error(t, o.UpdateHeader(o.SupplierID, orderDate, nil, ""))

		require.NoError(t, o.Approve(uuid.New(), time.Now()))
		assert.Equal(t, OrderStatusApproved, o.Status)
		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProcurementApproved, events[0].EventType())
	})

	t.Run("receive requires approved", func(t *testing.T) {
		o, _, _ := newDraftOrder(t)
		_, err := o.Receive(nil, time.Now())
		assert.Error(t, err)
	})
}

func TestProcurementOrder_Receive(t *testing.T) {
	t.Run("receives everything when no lines are given", func(t *testing.T) {
		o, rice, _ := approvedOrder(t)

		stock, err := o.Receive(nil, time.Now())

		require.NoError(t, err)
		require.Len(t, stock, 2)
		assert.Equal(t, rice, stock[0].InventoryItemID)
		assert.True(t, decimal.NewFromInt(100).Equal(stock[0].Quantity))
		assert.Equal(t, OrderStatusReceived, o.Status)
		assert.NotNil(t, o.ReceivedAt)
		require.Len(t, o.GetDomainEvents(), 1)
	})

	t.Run("caps counted quantities at the ordered quantity", func(t *testing.T) {
		o, rice, egg := approvedOrder(t)

		stock, err := o.Receive([]ReceiveLine{
			{InventoryItemID: rice, Quantity: decimal.NewFromInt(120)},
			{InventoryItemID: egg, Quantity: decimal.NewFromInt(280)},
		}, time.Now())

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(100).Equal(stock[0].Quantity))
		assert.True(t, decimal.NewFromInt(280).Equal(stock[1].Quantity))
		assert.True(t, decimal.NewFromInt(280).Equal(o.Items[1].ReceivedQuantity))

		event, ok := o.GetDomainEvents()[0].(*ProcurementReceivedEvent)
		require.True(t, ok)
		// 100 x 12500 + 280 x 1850.50
		assert.True(t, decimal.NewFromInt(1768140).Equal(event.ReceivedTotal), "got %s", event.ReceivedTotal)
	})

	t.Run("skips lines received as zero", func(t *testing.T) {
		o, _, egg := approvedOrder(t)

		stock, err := o.Receive([]ReceiveLine{{InventoryItemID: egg, Quantity: decimal.Zero}}, time.Now())

		require.NoError(t, err)
		assert.Len(t, stock, 1)
	})

	t.Run("rejects unknown and negative lines", func(t *testing.T) {
		o, rice, _ := approvedOrder(t)

		_, err := o.Receive([]ReceiveLine{{InventoryItemID: uuid.New(), Quantity: decimal.NewFromInt(1)}}, time.Now())
		assert.Error(t, err)

		_, err = o.Receive([]ReceiveLine{{InventoryItemID: rice, Quantity: decimal.NewFromInt(-1)}}, time.Now())
		assert.Error(t, err)
		assert.Equal(t, OrderStatusApproved, o.Status)
	})
}

func TestProcurementOrder_Cancel(t *testing.T) {
	o, _, _ := approvedOrder(t)

	assert.Error(t, o.Cancel("  ", time.Now()))
	require.NoError(t, o.Cancel("harga naik", time.Now()))
	assert.Equal(t, OrderStatusCancelled, o.Status)
	assert.Error(t, o.Cancel("lagi", time.Now()))

	received, _, _ := approvedOrder(t)
	_, err := received.Receive(nil, time.Now())
	require.NoError(t, err)
	assert.Error(t, received.Cancel("terlambat", time.Now()))
}

func TestProcurementOrder_UpdateHeader(t *testing.T) {
	o, _, _ := newDraftOrder(t)
	expected := orderDate.AddDate(0, 0, 3)

	require.NoError(t, o.UpdateHeader(uuid.New(), orderDate, &expected, "kirim pagi"))
	assert.Equal(t, "kirim pagi", o.Notes)

	before := orderDate.AddDate(0, 0, -1)
	assert.Error(t, o.UpdateHeader(o.SupplierID, orderDate, &before, ""))
}

func TestSupplier(t *testing.T) {
	s, err := NewSupplier(uuid.New(), "sup-01", "CV Tani Makmur")
	require.NoError(t, err)
	assert.Equal(t, "SUP-01", s.Code)
	assert.True(t, s.IsActive)

	require.NoError(t, s.Update("CV Tani Makmur", "Pak Joko", "0812", "Joko@Tani.co.id", "Lembang"))
	assert.Equal(t, "joko@tani.co.id", s.Email)
	assert.Error(t, s.Update("CV Tani Makmur", "", "", "bukan-email", ""))

	s.Deactivate()
	assert.False(t, s.IsActive)

	_, err = NewSupplier(uuid.New(), "", "X")
	assert.Error(t, err)
}
