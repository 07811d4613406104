package sppg

import "github.com/bergizi/backend/internal/domain/shared"

// AggregateTypeSPPG is the aggregate type for SPPGs
const AggregateTypeSPPG = "SPPG"

// SPPG domain event types
const (
	EventTypeSPPGCreated       = "SPPGCreated"
	EventTypeSPPGStatusChanged = "SPPGStatusChanged"
)

// SPPGCreatedEvent is raised when an SPPG is registered
type SPPGCreatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
	Plan Plan   `json:"plan"`
}

// NewSPPGCreatedEvent creates a new SPPGCreatedEvent
func NewSPPGCreatedEvent(s *SPPG) *SPPGCreatedEvent {
	return &SPPGCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSPPGCreated, AggregateTypeSPPG, s.ID, s.ID),
		Code:            s.Code,
		Name:            s.Name,
		Plan:            s.Plan,
	}
}

// SPPGStatusChangedEvent is raised on activation or suspension
type SPPGStatusChangedEvent struct {
	shared.BaseDomainEvent
	Code       string `json:"code"`
	FromStatus Status `json:"from_status"`
	ToStatus   Status `json:"to_status"`
}

// NewSPPGStatusChangedEvent creates a new SPPGStatusChangedEvent
func NewSPPGStatusChangedEvent(s *SPPG, from, to Status) *SPPGStatusChangedEvent {
	return &SPPGStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSPPGStatusChanged, AggregateTypeSPPG, s.ID, s.ID),
		Code:            s.Code,
		FromStatus:      from,
		ToStatus:        to,
	}
}
