package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/bergizi/backend/internal/domain/distribution"
	"github.com/bergizi/backend/internal/domain/feedback"
	"github.com/bergizi/backend/internal/domain/hr"
	"github.com/bergizi/backend/internal/domain/identity"
	"github.com/bergizi/backend/internal/domain/inventory"
	"github.com/bergizi/backend/internal/domain/menu"
	"github.com/bergizi/backend/internal/domain/production"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/domain/sppg"
	"github.com/bergizi/backend/internal/infrastructure/realtime"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// feedbackWindow is how far back the summary's average rating looks
const feedbackWindow = 30 * 24 * time.Hour

// defaultEventLimit is used when no limit is requested
const defaultEventLimit = 20

// Repositories groups the read models the dashboard aggregates
type Repositories struct {
	Plans         menu.PlanRepository
	Productions   production.Repository
	Distributions distribution.Repository
	Items         inventory.ItemRepository
	Attendance    hr.AttendanceRepository
	Feedback      feedback.Repository
	SPPG          sppg.Repository
	Users         identity.UserRepository
}

// EventHistory reads stored realtime events
type EventHistory interface {
	Recent(ctx context.Context, channel string, limit int) ([]realtime.Event, error)
}

// ClientCounter reports connected realtime clients
type ClientCounter interface {
	ClientCount() int
}

// Service builds dashboard summaries
type Service struct {
	repos    Repositories
	history  EventHistory
	clients  ClientCounter
	channels realtime.Channels
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a dashboard service. history and clients may be nil
// when realtime is disabled.
func NewService(repos Repositories, history EventHistory, clients ClientCounter, channels realtime.Channels, loc *time.Location, logger *zap.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repos:    repos,
		history:  history,
		clients:  clients,
		channels: channels,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// Summary returns the tenant's figures for the requested day, today by default
func (s *Service) Summary(ctx context.Context, tenantID uuid.UUID, filter SummaryFilter) (*SummaryResponse, error) {
	day, err := s.day(filter.Date)
	if err != nil {
		return nil, err
	}

	resp := &SummaryResponse{Date: day.Format(time.DateOnly)}
	counters := []struct {
		name string
		dst  *int64
		fn   func() (int64, error)
	}{
		{"planned portions", &resp.PlannedPortions, func() (int64, error) { return s.repos.Plans.SumPortionsOnDate(ctx, tenantID, day) }},
		{"produced portions", &resp.ProducedPortions, func() (int64, error) { return s.repos.Productions.SumCompletedPortions(ctx, tenantID, day) }},
		{"production batches", &resp.ProductionBatches, func() (int64, error) { return s.repos.Productions.CountOnDate(ctx, tenantID, day) }},
		{"delivered portions", &resp.DeliveredPortions, func() (int64, error) { return s.repos.Distributions.SumDeliveredPortions(ctx, tenantID, day) }},
		{"scheduled deliveries", &resp.ScheduledDeliveries, func() (int64, error) { return s.repos.Distributions.CountOnDate(ctx, tenantID, day) }},
		{"active distributions", &resp.ActiveDistributions, func() (int64, error) { return s.repos.Distributions.CountActive(ctx, tenantID, day) }},
		{"low stock items", &resp.LowStockItems, func() (int64, error) { return s.repos.Items.CountLowStock(ctx, tenantID) }},
		{"present employees", &resp.PresentEmployees, func() (int64, error) { return s.repos.Attendance.CountPresentOnDate(ctx, tenantID, day) }},
	}
	for _, c := range counters {
		v, err := c.fn()
		if err != nil {
			return nil, fmt.Errorf("dashboard %s: %w", c.name, err)
		}
		*c.dst = v
	}

	to := day.Add(24 * time.Hour)
	from := to.Add(-feedbackWindow)
	stats, err := s.repos.Feedback.Stats(ctx, tenantID, &from, &to)
	if err != nil {
		return nil, fmt.Errorf("dashboard feedback stats: %w", err)
	}
	resp.AverageRating = stats.AverageRating
	resp.FeedbackCount = stats.Total

	return resp, nil
}

// PlatformSummary returns SPPG counts by status and the number of users
func (s *Service) PlatformSummary(ctx context.Context) (*PlatformSummaryResponse, error) {
	byStatus, err := s.repos.SPPG.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard sppg counts: %w", err)
	}
	users, err := s.repos.Users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard user count: %w", err)
	}

	resp := &PlatformSummaryResponse{
		SPPGByStatus: make(map[string]int64, len(byStatus)),
		TotalUsers:   users,
	}
	for status, n := range byStatus {
		resp.SPPGByStatus[string(status)] = n
		resp.TotalSPPG += n
	}
	if s.clients != nil {
		resp.ConnectedUsers = s.clients.ClientCount()
	}
	return resp, nil
}

// RecentEvents returns the stored events of the tenant's dashboard channel,
// or of the platform channel when filter.Platform is set
func (s *Service) RecentEvents(ctx context.Context, tenantID uuid.UUID, filter EventsFilter) (*EventsResponse, error) {
	channel := s.channels.Dashboard(tenantID)
	if filter.Platform {
		channel = s.channels.Platform()
	}
	resp := &EventsResponse{Channel: channel, Events: []realtime.Event{}}
	if s.history == nil {
		return resp, nil
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultEventLimit
	}
	events, err := s.history.Recent(ctx, channel, limit)
	if err != nil {
		return nil, err
	}
	resp.Events = events
	return resp, nil
}

func (s *Service) day(date string) (time.Time, error) {
	if date == "" {
		now := s.now().In(s.loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc), nil
	}
	d, err := time.ParseInLocation(time.DateOnly, date, s.loc)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_DATE", "Date must be formatted as YYYY-MM-DD")
	}
	return d, nil
}
