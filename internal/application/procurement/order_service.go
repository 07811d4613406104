package procurement

import (
	"context"
	"fmt"
	"time"

	appinventory "github.com/bergizi/backend/internal/application/inventory"
	"github.com/bergizi/backend/internal/domain/inventory"
	"github.com/bergizi/backend/internal/domain/procurement"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderService handles procurement orders from draft to receipt
type OrderService struct {
	orderRepo      procurement.OrderRepository
	supplierRepo   procurement.SupplierRepository
	itemRepo       inventory.ItemRepository
	txScope        appinventory.TransactionScope
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo procurement.OrderRepository,
	supplierRepo procurement.SupplierRepository,
	itemRepo inventory.ItemRepository,
	txScope appinventory.TransactionScope,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		supplierRepo: supplierRepo,
		itemRepo:     itemRepo,
		txScope:      txScope,
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a draft order numbered PO-YYYYMMDD-NNN
func (s *OrderService) Create(ctx context.Context, tenantID uuid.UUID, actorID *uuid.UUID, req OrderRequest) (*OrderResponse, error) {
	orderDate, expected, err := parseOrderDates(req)
	if err != nil {
		return nil, err
	}
	if err := s.checkSupplier(ctx, tenantID, req.SupplierID); err != nil {
		return nil, err
	}
	lines, err := s.buildLines(ctx, tenantID, req.Items)
	if err != nil {
		return nil, err
	}

	count, err := s.orderRepo.CountOnDate(ctx, tenantID, orderDate)
	if err != nil {
		return nil, err
	}
	number := fmt.Sprintf("PO-%s-%03d", orderDate.Format("20060102"), count+1)

	order, err := procurement.NewProcurementOrder(tenantID, number, req.SupplierID, orderDate)
	if err != nil {
		return nil, err
	}
	if err := order.UpdateHeader(req.SupplierID, orderDate, expected, req.Notes); err != nil {
		return nil, err
	}
	if err := order.SetItems(lines); err != nil {
		return nil, err
	}
	if actorID != nil {
		order.SetCreatedBy(*actorID)
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetByID retrieves an order with its lines
func (s *OrderService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	f := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.SupplierID != nil {
		f.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.From != nil {
		f.Filters["from"] = *filter.From
	}
	if filter.To != nil {
		f.Filters["to"] = *filter.To
	}

	orders, err := s.orderRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out, total, nil
}

// Update replaces the header and lines of a draft order
func (s *OrderService) Update(ctx context.Context, tenantID, id uuid.UUID, req OrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	orderDate, expected, err := parseOrderDates(req)
	if err != nil {
		return nil, err
	}
	if req.SupplierID != order.SupplierID {
		if err := s.checkSupplier(ctx, tenantID, req.SupplierID); err != nil {
			return nil, err
		}
	}
	lines, err := s.buildLines(ctx, tenantID, req.Items)
	if err != nil {
		return nil, err
	}
	if err := order.UpdateHeader(req.SupplierID, orderDate, expected, req.Notes); err != nil {
		return nil, err
	}
	if err := order.SetItems(lines); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// Submit sends a draft order for approval
func (s *OrderService) Submit(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, tenantID, id, func(o *procurement.ProcurementOrder) error {
		return o.Submit(s.now())
	})
}

// Approve authorizes a submitted order
func (s *OrderService) Approve(ctx context.Context, tenantID, id, approverID uuid.UUID) (*OrderResponse, error) {
	return s.transition(ctx, tenantID, id, func(o *procurement.ProcurementOrder) error {
		return o.Approve(approverID, s.now())
	})
}

// Cancel abandons an order that has not been received
func (s *OrderService) Cancel(ctx context.Context, tenantID, id uuid.UUID, req CancelRequest) (*OrderResponse, error) {
	return s.transition(ctx, tenantID, id, func(o *procurement.ProcurementOrder) error {
		return o.Cancel(req.Reason, s.now())
	})
}

// Receive books the delivered goods into inventory. The order and every
// stock movement commit in one transaction.
func (s *OrderService) Receive(ctx context.Context, tenantID, id uuid.UUID, actorID *uuid.UUID, req ReceiveRequest) (*OrderResponse, error) {
	lines := make([]procurement.ReceiveLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = procurement.ReceiveLine{InventoryItemID: l.InventoryItemID, Quantity: l.Quantity}
	}

	var (
		order *procurement.ProcurementOrder
		items []*inventory.InventoryItem
	)
	err := s.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		stock, err := order.Receive(lines, s.now())
		if err != nil {
			return err
		}

		notes := order.OrderNumber
		if req.Notes != "" {
			notes += ": " + req.Notes
		}
		items = items[:0]
		for _, st := range stock {
			item, _, err := appinventory.ApplyStockChange(ctx, repos, tenantID, appinventory.StockChange{
				ItemID:   st.InventoryItemID,
				Type:     inventory.MovementIn,
				Quantity: st.Quantity,
				Ref: inventory.MovementReference{
					Type:    inventory.ReferenceProcurement,
					ID:      &order.ID,
					Notes:   notes,
					ActorID: actorID,
				},
			})
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	appinventory.PublishItemEvents(ctx, s.eventPublisher, items...)
	s.publish(ctx, order)
	resp := ToOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) transition(ctx context.Context, tenantID, id uuid.UUID, fn func(*procurement.ProcurementOrder) error) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publish(ctx, order)
	resp := ToOrderResponse(order)
	return &resp, nil
}

func (s *OrderService) publish(ctx context.Context, order *procurement.ProcurementOrder) {
	if s.eventPublisher == nil {
		return
	}
	if events := order.GetDomainEvents(); len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
		order.ClearDomainEvents()
	}
}

func (s *OrderService) checkSupplier(ctx context.Context, tenantID, supplierID uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, supplierID)
	if err != nil {
		return err
	}
	if !supplier.IsActive {
		return shared.NewDomainError("SUPPLIER_INACTIVE", "Supplier is inactive")
	}
	return nil
}

// buildLines resolves the inventory items of the requested lines
func (s *OrderService) buildLines(ctx context.Context, tenantID uuid.UUID, req []OrderItemRequest) ([]procurement.OrderItemInput, error) {
	if len(req) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, len(req))
	for i, l := range req {
		ids[i] = l.InventoryItemID
	}
	found, err := s.itemRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*inventory.InventoryItem, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	lines := make([]procurement.OrderItemInput, len(req))
	for i, l := range req {
		item, ok := byID[l.InventoryItemID]
		if !ok {
			return nil, shared.NewDomainError("INVALID_ITEM", "Inventory item not found")
		}
		lines[i] = procurement.OrderItemInput{
			InventoryItemID: item.ID,
			ItemName:        item.Name,
			Unit:            item.Unit.String(),
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
		}
	}
	return lines, nil
}

func parseOrderDates(req OrderRequest) (time.Time, *time.Time, error) {
	orderDate, err := time.Parse(time.DateOnly, req.OrderDate)
	if err != nil {
		return time.Time{}, nil, shared.NewDomainError("INVALID_DATE", "Order date must be YYYY-MM-DD")
	}
	if req.ExpectedDate == "" {
		return orderDate, nil, nil
	}
	expected, err := time.Parse(time.DateOnly, req.ExpectedDate)
	if err != nil {
		return time.Time{}, nil, shared.NewDomainError("INVALID_DATE", "Expected date must be YYYY-MM-DD")
	}
	return orderDate, &expected, nil
}
