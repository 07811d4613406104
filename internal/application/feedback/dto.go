package feedback

import (
	"io"
	"time"

	"github.com/bergizi/backend/internal/domain/feedback"
	"github.com/google/uuid"
)

// FeedbackResponse represents feedback in API responses
type FeedbackResponse struct {
	ID            uuid.UUID  `json:"id"`
	SchoolID      *uuid.UUID `json:"school_id,omitempty"`
	Source        string     `json:"source"`
	Category      string     `json:"category"`
	Rating        int        `json:"rating"`
	Comment       string     `json:"comment,omitempty"`
	HasAttachment bool       `json:"has_attachment"`
	Status        string     `json:"status"`
	Response      string     `json:"response,omitempty"`
	RespondedBy   *uuid.UUID `json:"responded_by,omitempty"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// SubmitRequest represents new feedback
type SubmitRequest struct {
	SchoolID *uuid.UUID `json:"school_id" form:"school_id"`
	Source   string     `json:"source" form:"source" binding:"required,oneof=student parent teacher school"`
	Category string     `json:"category" form:"category" binding:"required,oneof=taste portion hygiene delivery other"`
	Rating   int        `json:"rating" form:"rating" binding:"required,min=1,max=5"`
	Comment  string     `json:"comment" form:"comment" binding:"max=2000"`
}

// Attachment is an uploaded file sent with feedback
type Attachment struct {
	Body        io.Reader
	ContentType string
}

// RespondRequest answers feedback
type RespondRequest struct {
	Response string `json:"response" binding:"required,max=2000"`
}

// FeedbackListFilter represents filter options for the feedback list
type FeedbackListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=new in_review resolved"`
	Category string     `form:"category" binding:"omitempty,oneof=taste portion hygiene delivery other"`
	Source   string     `form:"source" binding:"omitempty,oneof=student parent teacher school"`
	SchoolID *uuid.UUID `form:"school_id"`
	Rating   int        `form:"rating" binding:"omitempty,min=1,max=5"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// StatsFilter bounds the stats to a date range; both ends are optional
type StatsFilter struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// StatsResponse summarizes feedback
type StatsResponse struct {
	Total         int64            `json:"total"`
	AverageRating float64          `json:"average_rating"`
	ByCategory    map[string]int64 `json:"by_category"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// AttachmentResponse is a time-limited link to an attachment
type AttachmentResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ToFeedbackResponse converts domain feedback to a response
func ToFeedbackResponse(f *feedback.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:            f.ID,
		SchoolID:      f.SchoolID,
		Source:        string(f.Source),
		Category:      string(f.Category),
		Rating:        f.Rating,
		Comment:       f.Comment,
		HasAttachment: f.AttachmentKey != "",
		Status:        string(f.Status),
		Response:      f.Response,
		RespondedBy:   f.RespondedBy,
		RespondedAt:   f.RespondedAt,
		CreatedAt:     f.CreatedAt,
	}
}

// ToStatsResponse converts domain stats to a response
func ToStatsResponse(s feedback.Stats) StatsResponse {
	resp := StatsResponse{
		Total:         s.Total,
		AverageRating: s.AverageRating,
		ByCategory:    make(map[string]int64, len(s.ByCategory)),
		ByStatus:      make(map[string]int64, len(s.ByStatus)),
	}
	for k, v := range s.ByCategory {
		resp.ByCategory[string(k)] = v
	}
	for k, v := range s.ByStatus {
		resp.ByStatus[string(k)] = v
	}
	return resp
}
