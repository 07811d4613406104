package sppg

import (
	"context"

	"github.com/bergizi/backend/internal/domain/identity"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/domain/sppg"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SPPGService manages SPPG tenants. Only platform users reach it.
type SPPGService struct {
	repo           sppg.Repository
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSPPGService creates a new SPPGService
func NewSPPGService(repo sppg.Repository, userRepo identity.UserRepository, logger *zap.Logger) *SPPGService {
	return &SPPGService{repo: repo, userRepo: userRepo, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SPPGService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a pending SPPG, optionally with its first Kepala SPPG
// account
func (s *SPPGService) Create(ctx context.Context, req CreateSPPGRequest) (*SPPGResponse, error) {
	exists, err := s.repo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "SPPG code already exists")
	}

	tenant, err := sppg.NewSPPG(req.Code, req.Name, sppg.Plan(req.Plan))
	if err != nil {
		return nil, err
	}
	if err := tenant.Update(req.Name, req.Address, req.Province, req.Regency, req.Phone, req.Email); err != nil {
		return nil, err
	}
	if err := tenant.SetTargetPortions(req.TargetPortions); err != nil {
		return nil, err
	}

	// build the admin before anything is saved so a bad username or
	// password leaves no half-created tenant behind
	var admin *identity.User
	if req.AdminUsername != "" {
		taken, err := s.userRepo.ExistsByUsername(ctx, req.AdminUsername)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Username already exists")
		}
		admin, err = identity.NewUser(tenant.TenantID(), req.AdminUsername, req.AdminPassword, identity.RoleSPPGKepala)
		if err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	if admin != nil {
		if err := s.userRepo.Save(ctx, admin); err != nil {
			return nil, err
		}
	}

	s.logger.Info("SPPG registered",
		zap.String("sppg_id", tenant.ID.String()),
		zap.String("code", tenant.Code))
	s.publish(ctx, tenant)
	if admin != nil {
		admin.ClearDomainEvents()
	}

	resp := ToSPPGResponse(tenant)
	return &resp, nil
}

// GetByID retrieves an SPPG by ID
func (s *SPPGService) GetByID(ctx context.Context, id uuid.UUID) (*SPPGResponse, error) {
	tenant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSPPGResponse(tenant)
	return &resp, nil
}

// GetByCode retrieves an SPPG by code, e.g. for subdomain resolution
func (s *SPPGService) GetByCode(ctx context.Context, code string) (*SPPGResponse, error) {
	tenant, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := ToSPPGResponse(tenant)
	return &resp, nil
}

// List retrieves SPPGs with filtering and pagination
func (s *SPPGService) List(ctx context.Context, filter SPPGListFilter) ([]SPPGResponse, int64, error) {
	f := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.Plan != "" {
		f.Filters["plan"] = filter.Plan
	}
	if filter.Province != "" {
		f.Filters["province"] = filter.Province
	}

	list, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]SPPGResponse, len(list))
	for i := range list {
		out[i] = ToSPPGResponse(&list[i])
	}
	return out, total, nil
}

// Update replaces the descriptive fields, plan and capacity
func (s *SPPGService) Update(ctx context.Context, id uuid.UUID, req UpdateSPPGRequest) (*SPPGResponse, error) {
	tenant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := tenant.Update(req.Name, req.Address, req.Province, req.Regency, req.Phone, req.Email); err != nil {
		return nil, err
	}
	if err := tenant.SetTargetPortions(req.TargetPortions); err != nil {
		return nil, err
	}
	if req.Plan != "" && sppg.Plan(req.Plan) != tenant.Plan {
		if err := tenant.ChangePlan(sppg.Plan(req.Plan)); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	resp := ToSPPGResponse(tenant)
	return &resp, nil
}

// Activate opens an SPPG for use
func (s *SPPGService) Activate(ctx context.Context, id uuid.UUID) (*SPPGResponse, error) {
	return s.transition(ctx, id, (*sppg.SPPG).Activate)
}

// Suspend blocks an SPPG; its users can no longer sign in
func (s *SPPGService) Suspend(ctx context.Context, id uuid.UUID) (*SPPGResponse, error) {
	return s.transition(ctx, id, (*sppg.SPPG).Suspend)
}

func (s *SPPGService) transition(ctx context.Context, id uuid.UUID, apply func(*sppg.SPPG) error) (*SPPGResponse, error) {
	tenant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(tenant); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, tenant); err != nil {
		return nil, err
	}
	s.logger.Info("SPPG status changed",
		zap.String("sppg_id", tenant.ID.String()),
		zap.String("status", string(tenant.Status)))
	s.publish(ctx, tenant)

	resp := ToSPPGResponse(tenant)
	return &resp, nil
}

func (s *SPPGService) publish(ctx context.Context, tenant *sppg.SPPG) {
	if s.eventPublisher != nil {
		if events := tenant.GetDomainEvents(); len(events) > 0 {
			_ = s.eventPublisher.Publish(ctx, events...)
		}
	}
	tenant.ClearDomainEvents()
}
