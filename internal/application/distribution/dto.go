package distribution

import (
	"time"

	"github.com/bergizi/backend/internal/domain/distribution"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SchoolResponse represents a school in API responses
type SchoolResponse struct {
	ID           uuid.UUID        `json:"id"`
	NPSN         string           `json:"npsn"`
	Name         string           `json:"name"`
	Level        string           `json:"level"`
	Address      string           `json:"address,omitempty"`
	StudentCount int              `json:"student_count"`
	ContactName  string           `json:"contact_name,omitempty"`
	ContactPhone string           `json:"contact_phone,omitempty"`
	Latitude     *decimal.Decimal `json:"latitude,omitempty"`
	Longitude    *decimal.Decimal `json:"longitude,omitempty"`
	IsActive     bool             `json:"is_active"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// SchoolRequest represents a request to create or update a school. NPSN
// is ignored on update.
type SchoolRequest struct {
	NPSN         string           `json:"npsn" binding:"omitempty,len=8,numeric"`
	Name         string           `json:"name" binding:"required,max=200"`
	Level        string           `json:"level" binding:"required,oneof=PAUD SD SMP SMA"`
	Address      string           `json:"address"`
	StudentCount int              `json:"student_count" binding:"min=0"`
	ContactName  string           `json:"contact_name" binding:"max=200"`
	ContactPhone string           `json:"contact_phone" binding:"max=50"`
	Latitude     *decimal.Decimal `json:"latitude"`
	Longitude    *decimal.Decimal `json:"longitude"`
	IsActive     *bool            `json:"is_active"`
}

// SchoolListFilter represents filter options for the school list
type SchoolListFilter struct {
	Search   string `form:"search"`
	Level    string `form:"level" binding:"omitempty,oneof=PAUD SD SMP SMA"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// DistributionResponse represents a distribution in API responses
type DistributionResponse struct {
	ID                 uuid.UUID  `json:"id"`
	DistributionNumber string     `json:"distribution_number"`
	ProductionID       *uuid.UUID `json:"production_id,omitempty"`
	SchoolID           uuid.UUID  `json:"school_id"`
	ScheduledDate      string     `json:"scheduled_date"`
	Portions           int        `json:"portions"`
	Status             string     `json:"status"`
	DriverName         string     `json:"driver_name,omitempty"`
	VehiclePlate       string     `json:"vehicle_plate,omitempty"`
	RecipientName      string     `json:"recipient_name,omitempty"`
	HasProof           bool       `json:"has_proof"`
	Notes              string     `json:"notes,omitempty"`
	CancelReason       string     `json:"cancel_reason,omitempty"`
	DepartedAt         *time.Time `json:"departed_at,omitempty"`
	DeliveredAt        *time.Time `json:"delivered_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	Version            int        `json:"version"`
}

// CreateDistributionRequest schedules a delivery
type CreateDistributionRequest struct {
	SchoolID      uuid.UUID  `json:"school_id" binding:"required"`
	ProductionID  *uuid.UUID `json:"production_id"`
	ScheduledDate string     `json:"scheduled_date" binding:"required"`
	// Portions defaults to the school's student count
	Portions int    `json:"portions" binding:"min=0"`
	Notes    string `json:"notes"`
}

// DepartRequest records the vehicle leaving
type DepartRequest struct {
	DriverName   string `json:"driver_name" binding:"required,max=200"`
	VehiclePlate string `json:"vehicle_plate" binding:"max=20"`
}

// DeliverRequest records the hand-over
type DeliverRequest struct {
	RecipientName string `json:"recipient_name" binding:"required,max=200"`
	Notes         string `json:"notes"`
}

// CancelRequest cancels a delivery
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ProofResponse is a stored proof photo and a time-limited link to it
type ProofResponse struct {
	ObjectKey string    `json:"object_key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DistributionListFilter represents filter options for the distribution list
type DistributionListFilter struct {
	Search       string     `form:"search"`
	Status       string     `form:"status" binding:"omitempty,oneof=scheduled preparing in_transit delivered cancelled"`
	SchoolID     *uuid.UUID `form:"school_id"`
	ProductionID *uuid.UUID `form:"production_id"`
	Date         *time.Time `form:"date" time_format:"2006-01-02"`
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToSchoolResponse converts a domain school to a response
func ToSchoolResponse(s *distribution.School) SchoolResponse {
	resp := SchoolResponse{
		ID:           s.ID,
		NPSN:         s.NPSN,
		Name:         s.Name,
		Level:        string(s.Level),
		Address:      s.Address,
		StudentCount: s.StudentCount,
		ContactName:  s.ContactName,
		ContactPhone: s.ContactPhone,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	if s.Latitude.Valid && s.Longitude.Valid {
		lat, lng := s.Latitude.Decimal, s.Longitude.Decimal
		resp.Latitude, resp.Longitude = &lat, &lng
	}
	return resp
}

// ToDistributionResponse converts a domain distribution to a response
func ToDistributionResponse(d *distribution.Distribution) DistributionResponse {
	return DistributionResponse{
		ID:                 d.ID,
		DistributionNumber: d.DistributionNumber,
		ProductionID:       d.ProductionID,
		SchoolID:           d.SchoolID,
		ScheduledDate:      d.ScheduledDate.Format(time.DateOnly),
		Portions:           d.Portions,
		Status:             string(d.Status),
		DriverName:         d.DriverName,
		VehiclePlate:       d.VehiclePlate,
		RecipientName:      d.RecipientName,
		HasProof:           d.ProofPhotoKey != "",
		Notes:              d.Notes,
		CancelReason:       d.CancelReason,
		DepartedAt:         d.DepartedAt,
		DeliveredAt:        d.DeliveredAt,
		CancelledAt:        d.CancelledAt,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
		Version:            d.Version,
	}
}
