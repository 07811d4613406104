package feedback

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/bergizi/backend/internal/domain/distribution"
	"github.com/bergizi/backend/internal/domain/feedback"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ObjectStorage is the subset of object storage used for attachments
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

var attachmentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// FeedbackService collects and answers feedback on the meals
type FeedbackService struct {
	feedbackRepo   feedback.Repository
	schoolRepo     distribution.SchoolRepository
	storage        ObjectStorage
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewFeedbackService creates a new FeedbackService. objectStorage may be
// nil, in which case attachments are rejected.
func NewFeedbackService(feedbackRepo feedback.Repository, schoolRepo distribution.SchoolRepository, objectStorage ObjectStorage, logger *zap.Logger) *FeedbackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{
		feedbackRepo: feedbackRepo,
		schoolRepo:   schoolRepo,
		storage:      objectStorage,
		logger:       logger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *FeedbackService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Submit records feedback with an optional attachment
func (s *FeedbackService) Submit(ctx context.Context, tenantID uuid.UUID, req SubmitRequest, attachment *Attachment) (*FeedbackResponse, error) {
	var ext string
	if attachment != nil {
		if s.storage == nil {
			return nil, shared.NewDomainError("STORAGE_DISABLED", "File storage is not configured")
		}
		var ok bool
		if ext, ok = attachmentTypes[strings.ToLower(strings.TrimSpace(attachment.ContentType))]; !ok {
			return nil, shared.NewDomainError("INVALID_FILE_TYPE", "Attachment must be JPEG, PNG, WebP or PDF")
		}
	}
	if req.SchoolID != nil {
		if _, err := s.schoolRepo.FindByIDForTenant(ctx, tenantID, *req.SchoolID); err != nil {
			return nil, err
		}
	}

	f, err := feedback.Submit(tenantID, req.SchoolID, feedback.Source(req.Source), feedback.Category(req.Category), req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}
	if attachment != nil {
		key := storage.ObjectKey(tenantID, "feedback", f.ID, ext)
		if err := s.storage.Upload(ctx, key, attachment.Body, attachment.ContentType); err != nil {
			return nil, err
		}
		if err := f.AttachFile(key); err != nil {
			return nil, err
		}
	}
	if err := s.feedbackRepo.Save(ctx, f); err != nil {
		return nil, err
	}
	s.publish(ctx, f)
	resp := ToFeedbackResponse(f)
	return &resp, nil
}

// GetByID retrieves feedback
func (s *FeedbackService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*FeedbackResponse, error) {
	f, err := s.feedbackRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToFeedbackResponse(f)
	return &resp, nil
}

// GetAttachment returns a presigned link to the feedback's attachment
func (s *FeedbackService) GetAttachment(ctx context.Context, tenantID, id uuid.UUID) (*AttachmentResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "File storage is not configured")
	}
	f, err := s.feedbackRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if f.AttachmentKey == "" {
		return nil, shared.NewDomainError("NOT_FOUND", "Feedback has no attachment")
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, f.AttachmentKey, 0)
	if err != nil {
		return nil, err
	}
	return &AttachmentResponse{URL: url, ExpiresAt: expiresAt}, nil
}

// List retrieves feedback with filtering and pagination
func (s *FeedbackService) List(ctx context.Context, tenantID uuid.UUID, filter FeedbackListFilter) ([]FeedbackResponse, int64, error) {
	f := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.Category != "" {
		f.Filters["category"] = filter.Category
	}
	if filter.Source != "" {
		f.Filters["source"] = filter.Source
	}
	if filter.SchoolID != nil {
		f.Filters["school_id"] = *filter.SchoolID
	}
	if filter.Rating > 0 {
		f.Filters["rating"] = filter.Rating
	}

	items, err := s.feedbackRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.feedbackRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]FeedbackResponse, len(items))
	for i := range items {
		out[i] = ToFeedbackResponse(&items[i])
	}
	return out, total, nil
}

// Review puts new feedback in review
func (s *FeedbackService) Review(ctx context.Context, tenantID, id uuid.UUID) (*FeedbackResponse, error) {
	return s.update(ctx, tenantID, id, func(f *feedback.Feedback) error {
		return f.Review()
	})
}

// Respond answers feedback and resolves it
func (s *FeedbackService) Respond(ctx context.Context, tenantID, id, responderID uuid.UUID, req RespondRequest) (*FeedbackResponse, error) {
	return s.update(ctx, tenantID, id, func(f *feedback.Feedback) error {
		return f.Respond(req.Response, responderID, s.now())
	})
}

// Stats returns the average rating and counts per category and status
func (s *FeedbackService) Stats(ctx context.Context, tenantID uuid.UUID, filter StatsFilter) (*StatsResponse, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "to must not be before from")
	}
	stats, err := s.feedbackRepo.Stats(ctx, tenantID, filter.From, filter.To)
	if err != nil {
		return nil, err
	}
	resp := ToStatsResponse(stats)
	return &resp, nil
}

func (s *FeedbackService) update(ctx context.Context, tenantID, id uuid.UUID, fn func(*feedback.Feedback) error) (*FeedbackResponse, error) {
	f, err := s.feedbackRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(f); err != nil {
		return nil, err
	}
	if err := s.feedbackRepo.Save(ctx, f); err != nil {
		return nil, err
	}
	resp := ToFeedbackResponse(f)
	return &resp, nil
}

func (s *FeedbackService) publish(ctx context.Context, f *feedback.Feedback) {
	if s.eventPublisher == nil {
		return
	}
	if events := f.GetDomainEvents(); len(events) > 0 {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("failed to publish feedback events", zap.String("feedback_id", f.ID.String()), zap.Error(err))
		}
		f.ClearDomainEvents()
	}
}
