package distribution

import (
	"context"

	"github.com/bergizi/backend/internal/domain/distribution"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SchoolService handles beneficiary schools
type SchoolService struct {
	schoolRepo       distribution.SchoolRepository
	distributionRepo distribution.Repository
}

// NewSchoolService creates a new SchoolService
func NewSchoolService(schoolRepo distribution.SchoolRepository, distributionRepo distribution.Repository) *SchoolService {
	return &SchoolService{schoolRepo: schoolRepo, distributionRepo: distributionRepo}
}

// Create registers a school. NPSN is unique within the SPPG.
func (s *SchoolService) Create(ctx context.Context, tenantID uuid.UUID, actorID *uuid.UUID, req SchoolRequest) (*SchoolResponse, error) {
	exists, err := s.schoolRepo.ExistsByNPSN(ctx, tenantID, req.NPSN)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A school with NPSN "+req.NPSN+" is already registered")
	}

	school, err := distribution.NewSchool(tenantID, req.NPSN, req.Name, distribution.SchoolLevel(req.Level), req.StudentCount)
	if err != nil {
		return nil, err
	}
	if err := applySchool(school, req); err != nil {
		return nil, err
	}
	if actorID != nil {
		school.SetCreatedBy(*actorID)
	}
	if err := s.schoolRepo.Save(ctx, school); err != nil {
		return nil, err
	}
	resp := ToSchoolResponse(school)
	return &resp, nil
}

// GetByID retrieves a school
func (s *SchoolService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SchoolResponse, error) {
	school, err := s.schoolRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToSchoolResponse(school)
	return &resp, nil
}

// List retrieves schools with filtering and pagination
func (s *SchoolService) List(ctx context.Context, tenantID uuid.UUID, filter SchoolListFilter) ([]SchoolResponse, int64, error) {
	f := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Level != "" {
		f.Filters["level"] = filter.Level
	}
	if filter.IsActive != nil {
		f.Filters["is_active"] = *filter.IsActive
	}

	schools, err := s.schoolRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.schoolRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]SchoolResponse, len(schools))
	for i := range schools {
		out[i] = ToSchoolResponse(&schools[i])
	}
	return out, total, nil
}

// Update changes a school's profile
func (s *SchoolService) Update(ctx context.Context, tenantID, id uuid.UUID, req SchoolRequest) (*SchoolResponse, error) {
	school, err := s.schoolRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := applySchool(school, req); err != nil {
		return nil, err
	}
	if err := s.schoolRepo.Save(ctx, school); err != nil {
		return nil, err
	}
	resp := ToSchoolResponse(school)
	return &resp, nil
}

// Delete removes a school that has never received a delivery
func (s *SchoolService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.schoolRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	count, err := s.distributionRepo.CountBySchool(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("SCHOOL_IN_USE", "School has distributions; deactivate it instead")
	}
	return s.schoolRepo.DeleteForTenant(ctx, tenantID, id)
}

func applySchool(school *distribution.School, req SchoolRequest) error {
	if err := school.Update(req.Name, distribution.SchoolLevel(req.Level), req.Address, req.StudentCount); err != nil {
		return err
	}
	school.SetContact(req.ContactName, req.ContactPhone)
	if req.Latitude != nil && req.Longitude != nil {
		if err := school.SetLocation(*req.Latitude, *req.Longitude); err != nil {
			return err
		}
	}
	if req.IsActive != nil {
		if *req.IsActive {
			school.Activate()
		} else {
			school.Deactivate()
		}
	}
	return nil
}
