package feedback

import (
	"strings"
	"time"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Source identifies who sent the feedback
type Source string

const (
	SourceStudent Source = "student"
	SourceParent  Source = "parent"
	SourceTeacher Source = "teacher"
	SourceSchool  Source = "school"
)

// IsValid reports whether s is a known source
func (s Source) IsValid() bool {
	switch s {
	case SourceStudent, SourceParent, SourceTeacher, SourceSchool:
		return true
	}
	return false
}

// Category is the topic of the feedback
type Category string

const (
	CategoryTaste    Category = "taste"
	CategoryPortion  Category = "portion"
	CategoryHygiene  Category = "hygiene"
	CategoryDelivery Category = "delivery"
	CategoryOther    Category = "other"
)

// IsValid reports whether c is a known category
func (c Category) IsValid() bool {
	switch c {
	case CategoryTaste, CategoryPortion, CategoryHygiene, CategoryDelivery, CategoryOther:
		return true
	}
	return false
}

// Status tracks handling of the feedback
type Status string

const (
	StatusNew      Status = "new"
	StatusInReview Status = "in_review"
	StatusResolved Status = "resolved"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Feedback is a rating and comment about the meals served
type Feedback struct {
	shared.TenantAggregateRoot
	SchoolID      *uuid.UUID `gorm:"type:uuid;index"`
	Source        Source     `gorm:"type:varchar(20);not null"`
	Category      Category   `gorm:"type:varchar(20);not null;index"`
	Rating        int        `gorm:"not null"`
	Comment       string     `gorm:"type:text"`
	AttachmentKey string     `gorm:"type:varchar(500)"`
	Status        Status     `gorm:"type:varchar(20);not null;default:'new';index"`
	Response      string     `gorm:"type:text"`
	RespondedBy   *uuid.UUID `gorm:"type:uuid"`
	RespondedAt   *time.Time
}

// TableName returns the table name for GORM
func (Feedback) TableName() string {
	return "feedbacks"
}

// Submit records new feedback
func Submit(tenantID uuid.UUID, schoolID *uuid.UUID, source Source, category Category, rating int, comment string) (*Feedback, error) {
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Unknown feedback source: "+string(source))
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown feedback category: "+string(category))
	}
	if rating < MinRating || rating > MaxRating {
		return nil, shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	f := &Feedback{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SchoolID:            schoolID,
		Source:              source,
		Category:            category,
		Rating:              rating,
		Comment:             strings.TrimSpace(comment),
		Status:              StatusNew,
	}
	f.AddDomainEvent(NewFeedbackSubmittedEvent(f))
	return f, nil
}

// AttachFile stores the object key of an uploaded attachment
func (f *Feedback) AttachFile(objectKey string) error {
	if strings.TrimSpace(objectKey) == "" {
		return shared.NewDomainError("INVALID_ATTACHMENT", "Attachment key is required")
	}
	f.AttachmentKey = objectKey
	f.Touch()
	f.IncrementVersion()
	return nil
}

// Review marks the feedback as being looked at
func (f *Feedback) Review() error {
	if f.Status != StatusNew {
		return shared.NewDomainError("INVALID_STATE", "Only new feedback can be put in review")
	}
	f.Status = StatusInReview
	f.Touch()
	f.IncrementVersion()
	return nil
}

// Respond answers the feedback and resolves it
func (f *Feedback) Respond(response string, by uuid.UUID, at time.Time) error {
	if f.Status == StatusResolved {
		return shared.NewDomainError("INVALID_STATE", "Feedback is already resolved")
	}
	response = strings.TrimSpace(response)
	if response == "" {
		return shared.NewDomainError("INVALID_RESPONSE", "Response cannot be empty")
	}
	f.Response = response
	f.RespondedBy = &by
	f.RespondedAt = &at
	f.Status = StatusResolved
	f.Touch()
	f.IncrementVersion()
	return nil
}

// Stats summarizes feedback for a tenant
type Stats struct {
	Total         int64              `json:"total"`
	AverageRating float64            `json:"average_rating"`
	ByCategory    map[Category]int64 `json:"by_category"`
	ByStatus      map[Status]int64   `json:"by_status"`
}

// NewStats returns empty stats with initialized maps
func NewStats() Stats {
	return Stats{
		ByCategory: make(map[Category]int64),
		ByStatus:   make(map[Status]int64),
	}
}
