package sppg

import (
	"time"

	"github.com/bergizi/backend/internal/domain/sppg"
	"github.com/google/uuid"
)

// SPPGResponse represents an SPPG in API responses
type SPPGResponse struct {
	ID             uuid.UUID `json:"id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	Address        string    `json:"address,omitempty"`
	Province       string    `json:"province,omitempty"`
	Regency        string    `json:"regency,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Email          string    `json:"email,omitempty"`
	Status         string    `json:"status"`
	Plan           string    `json:"plan"`
	TargetPortions int       `json:"target_portions"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Version        int       `json:"version"`
}

// CreateSPPGRequest registers a new SPPG. When AdminUsername is set, a
// Kepala SPPG account is created along with it.
type CreateSPPGRequest struct {
	Code           string `json:"code" binding:"required,max=50"`
	Name           string `json:"name" binding:"required,max=200"`
	Plan           string `json:"plan" binding:"omitempty,oneof=demo basic pro"`
	Address        string `json:"address"`
	Province       string `json:"province" binding:"max=100"`
	Regency        string `json:"regency" binding:"max=100"`
	Phone          string `json:"phone" binding:"max=50"`
	Email          string `json:"email" binding:"omitempty,email,max=200"`
	TargetPortions int    `json:"target_portions" binding:"min=0"`
	AdminUsername  string `json:"admin_username" binding:"omitempty,min=3,max=100"`
	AdminPassword  string `json:"admin_password" binding:"required_with=AdminUsername,omitempty,min=8,max=72"`
}

// UpdateSPPGRequest replaces the editable fields of an SPPG
type UpdateSPPGRequest struct {
	Name           string `json:"name" binding:"required,max=200"`
	Plan           string `json:"plan" binding:"omitempty,oneof=demo basic pro"`
	Address        string `json:"address"`
	Province       string `json:"province" binding:"max=100"`
	Regency        string `json:"regency" binding:"max=100"`
	Phone          string `json:"phone" binding:"max=50"`
	Email          string `json:"email" binding:"omitempty,email,max=200"`
	TargetPortions int    `json:"target_portions" binding:"min=0"`
}

// SPPGListFilter represents filter options for the SPPG list
type SPPGListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=pending active suspended"`
	Plan     string `form:"plan" binding:"omitempty,oneof=demo basic pro"`
	Province string `form:"province"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToSPPGResponse converts a domain SPPG to a response
func ToSPPGResponse(s *sppg.SPPG) SPPGResponse {
	return SPPGResponse{
		ID:             s.ID,
		Code:           s.Code,
		Name:           s.Name,
		Address:        s.Address,
		Province:       s.Province,
		Regency:        s.Regency,
		Phone:          s.Phone,
		Email:          s.Email,
		Status:         string(s.Status),
		Plan:           string(s.Plan),
		TargetPortions: s.TargetPortions,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
		Version:        s.Version,
	}
}
