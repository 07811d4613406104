package procurement

import (
	"context"

	"github.com/bergizi/backend/internal/domain/procurement"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierService handles supplier master data
type SupplierService struct {
	supplierRepo procurement.SupplierRepository
	orderRepo    procurement.OrderRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo procurement.SupplierRepository, orderRepo procurement.OrderRepository) *SupplierService {
	return &SupplierService{supplierRepo: supplierRepo, orderRepo: orderRepo}
}

// Create registers a supplier
func (s *SupplierService) Create(ctx context.Context, tenantID uuid.UUID, actorID *uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	exists, err := s.supplierRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Supplier code already exists")
	}

	supplier, err := procurement.NewSupplier(tenantID, req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := supplier.Update(req.Name, req.ContactName, req.Phone, req.Email, req.Address); err != nil {
		return nil, err
	}
	if actorID != nil {
		supplier.SetCreatedBy(*actorID)
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// GetByID retrieves a supplier
func (s *SupplierService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// List retrieves suppliers with filtering and pagination
func (s *SupplierService) List(ctx context.Context, tenantID uuid.UUID, filter SupplierListFilter) ([]SupplierResponse, int64, error) {
	f := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.IsActive != nil {
		f.Filters["is_active"] = *filter.IsActive
	}

	suppliers, err := s.supplierRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]SupplierResponse, len(suppliers))
	for i := range suppliers {
		out[i] = ToSupplierResponse(&suppliers[i])
	}
	return out, total, nil
}

// Update changes a supplier's contact details and active flag
func (s *SupplierService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.Update(req.Name, req.ContactName, req.Phone, req.Email, req.Address); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		if *req.IsActive {
			supplier.Activate()
		} else {
			supplier.Deactivate()
		}
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Delete removes a supplier that has never been ordered from
func (s *SupplierService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	count, err := s.orderRepo.CountBySupplier(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("SUPPLIER_IN_USE", "Supplier has procurement orders; deactivate it instead")
	}
	return s.supplierRepo.DeleteForTenant(ctx, tenantID, id)
}
