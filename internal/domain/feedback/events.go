package feedback

import (
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	AggregateTypeFeedback      = "Feedback"
	EventTypeFeedbackSubmitted = "FeedbackSubmitted"
)

// FeedbackSubmittedEvent is raised when feedback arrives
type FeedbackSubmittedEvent struct {
	shared.BaseDomainEvent
	SchoolID *uuid.UUID `json:"school_id,omitempty"`
	Source   Source     `json:"source"`
	Category Category   `json:"category"`
	Rating   int        `json:"rating"`
}

// NewFeedbackSubmittedEvent creates a new FeedbackSubmittedEvent
func NewFeedbackSubmittedEvent(f *Feedback) *FeedbackSubmittedEvent {
	return &FeedbackSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFeedbackSubmitted, AggregateTypeFeedback, f.ID, f.TenantID),
		SchoolID:        f.SchoolID,
		Source:          f.Source,
		Category:        f.Category,
		Rating:          f.Rating,
	}
}
