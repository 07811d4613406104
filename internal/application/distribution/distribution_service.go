package distribution

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bergizi/backend/internal/domain/distribution"
	"github.com/bergizi/backend/internal/domain/menu"
	"github.com/bergizi/backend/internal/domain/production"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/domain/sppg"
	"github.com/bergizi/backend/internal/infrastructure/printing"
	"github.com/bergizi/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ObjectStorage is the subset of object storage used for proof photos
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, key string) error
}

// DeliveryNotePrinter renders surat jalan PDFs
type DeliveryNotePrinter interface {
	RenderDeliveryNote(ctx context.Context, data printing.DeliveryNoteData) (*printing.Document, error)
}

// proofContentTypes maps accepted photo types to file extensions
var proofContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// DistributionService schedules and tracks deliveries to schools
type DistributionService struct {
	distributionRepo distribution.Repository
	schoolRepo       distribution.SchoolRepository
	productionRepo   production.Repository
	menuRepo         menu.MenuRepository
	sppgRepo         sppg.Repository
	storage          ObjectStorage
	printer          DeliveryNotePrinter
	eventPublisher   shared.EventPublisher
	logger           *zap.Logger
	now              func() time.Time
}

// NewDistributionService creates a new DistributionService. storage and
// printer may be nil when those features are disabled.
func NewDistributionService(
	distributionRepo distribution.Repository,
	schoolRepo distribution.SchoolRepository,
	productionRepo production.Repository,
	menuRepo menu.MenuRepository,
	sppgRepo sppg.Repository,
	objectStorage ObjectStorage,
	printer DeliveryNotePrinter,
	logger *zap.Logger,
) *DistributionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DistributionService{
		distributionRepo: distributionRepo,
		schoolRepo:       schoolRepo,
		productionRepo:   productionRepo,
		menuRepo:         menuRepo,
		sppgRepo:         sppgRepo,
		storage:          objectStorage,
		printer:          printer,
		logger:           logger,
		now:              time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *DistributionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create schedules a delivery numbered DST-YYYYMMDD-NNN
func (s *DistributionService) Create(ctx context.Context, tenantID uuid.UUID, actorID *uuid.UUID, req CreateDistributionRequest) (*DistributionResponse, error) {
	date, err := time.Parse(time.DateOnly, req.ScheduledDate)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Scheduled date must be YYYY-MM-DD")
	}

	school, err := s.schoolRepo.FindByIDForTenant(ctx, tenantID, req.SchoolID)
	if err != nil {
		return nil, err
	}
	if !school.IsActive {
		return nil, shared.NewDomainError("SCHOOL_INACTIVE", "School "+school.Name+" is not receiving deliveries")
	}
	portions := req.Portions
	if portions == 0 {
		portions = school.StudentCount
	}

	if req.ProductionID != nil {
		p, err := s.productionRepo.FindByIDForTenant(ctx, tenantID, *req.ProductionID)
		if err != nil {
			return nil, err
		}
		if p.Status == production.StatusCancelled {
			return nil, shared.NewDomainError("PRODUCTION_CANCELLED", "Production "+p.BatchNumber+" was cancelled")
		}
	}

	count, err := s.distributionRepo.CountOnDate(ctx, tenantID, date)
	if err != nil {
		return nil, err
	}
	number := fmt.Sprintf("DST-%s-%03d", date.Format("20060102"), count+1)

	d, err := distribution.NewDistribution(tenantID, number, school.ID, req.ProductionID, date, portions)
	if err != nil {
		return nil, err
	}
	d.Notes = strings.TrimSpace(req.Notes)
	if actorID != nil {
		d.SetCreatedBy(*actorID)
	}
	if err := s.distributionRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDistributionResponse(d)
	return &resp, nil
}

// GetByID retrieves a distribution
func (s *DistributionService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*DistributionResponse, error) {
	d, err := s.distributionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToDistributionResponse(d)
	return &resp, nil
}

// List retrieves distributions with filtering and pagination
func (s *DistributionService) List(ctx context.Context, tenantID uuid.UUID, filter DistributionListFilter) ([]DistributionResponse, int64, error) {
	f := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.SchoolID != nil {
		f.Filters["school_id"] = *filter.SchoolID
	}
	if filter.ProductionID != nil {
		f.Filters["production_id"] = *filter.ProductionID
	}
	if filter.Date != nil {
		f.Filters["date"] = *filter.Date
	}

	items, err := s.distributionRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.distributionRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]DistributionResponse, len(items))
	for i := range items {
		out[i] = ToDistributionResponse(&items[i])
	}
	return out, total, nil
}

// Prepare starts packing a scheduled delivery
func (s *DistributionService) Prepare(ctx context.Context, tenantID, id uuid.UUID) (*DistributionResponse, error) {
	return s.transition(ctx, tenantID, id, func(d *distribution.Distribution) error {
		return d.Prepare()
	})
}

// Depart records the vehicle leaving the kitchen
func (s *DistributionService) Depart(ctx context.Context, tenantID, id uuid.UUID, req DepartRequest) (*DistributionResponse, error) {
	return s.transition(ctx, tenantID, id, func(d *distribution.Distribution) error {
		return d.Depart(req.DriverName, req.VehiclePlate, s.now())
	})
}

// Deliver records the hand-over at the school
func (s *DistributionService) Deliver(ctx context.Context, tenantID, id uuid.UUID, req DeliverRequest) (*DistributionResponse, error) {
	return s.transition(ctx, tenantID, id, func(d *distribution.Distribution) error {
		return d.Deliver(req.RecipientName, req.Notes, s.now())
	})
}

// Cancel calls off a delivery before it is delivered
func (s *DistributionService) Cancel(ctx context.Context, tenantID, id uuid.UUID, req CancelRequest) (*DistributionResponse, error) {
	return s.transition(ctx, tenantID, id, func(d *distribution.Distribution) error {
		return d.Cancel(req.Reason, s.now())
	})
}

// UploadProof stores a delivery photo and returns a presigned link to it.
// A previous photo is replaced.
func (s *DistributionService) UploadProof(ctx context.Context, tenantID, id uuid.UUID, body io.Reader, contentType string) (*ProofResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "File storage is not configured")
	}
	ext, ok := proofContentTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, shared.NewDomainError("INVALID_FILE_TYPE", "Proof photo must be JPEG, PNG or WebP")
	}

	d, err := s.distributionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	previous := d.ProofPhotoKey
	key := storage.ObjectKey(tenantID, "distributions", d.ID, ext)
	if err := d.AttachProof(key); err != nil {
		return nil, err
	}

	if err := s.storage.Upload(ctx, key, body, contentType); err != nil {
		return nil, err
	}
	if err := s.distributionRepo.Save(ctx, d); err != nil {
		if delErr := s.storage.DeleteObject(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove orphaned proof photo", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}
	if previous != "" && previous != key {
		if err := s.storage.DeleteObject(ctx, previous); err != nil {
			s.logger.Warn("failed to remove replaced proof photo", zap.String("key", previous), zap.Error(err))
		}
	}
	return s.proofLink(ctx, key)
}

// GetProof returns a fresh presigned link to the delivery photo
func (s *DistributionService) GetProof(ctx context.Context, tenantID, id uuid.UUID) (*ProofResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "File storage is not configured")
	}
	d, err := s.distributionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if d.ProofPhotoKey == "" {
		return nil, shared.NewDomainError("NOT_FOUND", "Distribution has no proof photo")
	}
	return s.proofLink(ctx, d.ProofPhotoKey)
}

func (s *DistributionService) proofLink(ctx context.Context, key string) (*ProofResponse, error) {
	// zero lets the storage apply its configured expiry
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, 0)
	if err != nil {
		return nil, err
	}
	return &ProofResponse{ObjectKey: key, URL: url, ExpiresAt: expiresAt}, nil
}

// PrintDeliveryNote renders the surat jalan for a delivery
func (s *DistributionService) PrintDeliveryNote(ctx context.Context, tenantID, id uuid.UUID) (*printing.Document, error) {
	if s.printer == nil {
		return nil, shared.NewDomainError("PRINTING_DISABLED", "Document printing is not configured")
	}
	d, err := s.distributionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	school, err := s.schoolRepo.FindByIDForTenant(ctx, tenantID, d.SchoolID)
	if err != nil {
		return nil, err
	}

	data := printing.DeliveryNoteData{
		Number:        d.DistributionNumber,
		ScheduledDate: d.ScheduledDate,
		SchoolName:    school.Name,
		SchoolNPSN:    school.NPSN,
		SchoolAddress: school.Address,
		Portions:      d.Portions,
		DriverName:    d.DriverName,
		VehiclePlate:  d.VehiclePlate,
		RecipientName: d.RecipientName,
		Notes:         d.Notes,
		DepartedAt:    d.DepartedAt,
		DeliveredAt:   d.DeliveredAt,
	}
	if kitchen, err := s.sppgRepo.FindByID(ctx, tenantID); err == nil {
		data.KitchenName = kitchen.Name
		data.KitchenAddress = kitchen.Address
	} else {
		s.logger.Warn("delivery note without kitchen header", zap.String("tenant_id", tenantID.String()), zap.Error(err))
	}
	if d.ProductionID != nil {
		data.MenuName = s.menuName(ctx, tenantID, *d.ProductionID)
	}
	return s.printer.RenderDeliveryNote(ctx, data)
}

// menuName resolves the menu cooked by a batch; blank when unknown
func (s *DistributionService) menuName(ctx context.Context, tenantID, productionID uuid.UUID) string {
	p, err := s.productionRepo.FindByIDForTenant(ctx, tenantID, productionID)
	if err != nil {
		return ""
	}
	m, err := s.menuRepo.FindByIDForTenant(ctx, tenantID, p.MenuID)
	if err != nil {
		return ""
	}
	return m.Name
}

func (s *DistributionService) transition(ctx context.Context, tenantID, id uuid.UUID, fn func(*distribution.Distribution) error) (*DistributionResponse, error) {
	d, err := s.distributionRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(d); err != nil {
		return nil, err
	}
	if err := s.distributionRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	s.publish(ctx, d)
	resp := ToDistributionResponse(d)
	return &resp, nil
}

func (s *DistributionService) publish(ctx context.Context, d *distribution.Distribution) {
	if s.eventPublisher == nil {
		return
	}
	if events := d.GetDomainEvents(); len(events) > 0 {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("failed to publish distribution events", zap.String("distribution_id", d.ID.String()), zap.Error(err))
		}
		d.ClearDomainEvents()
	}
}
