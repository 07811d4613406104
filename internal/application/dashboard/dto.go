package dashboard

import (
	"github.com/bergizi/backend/internal/infrastructure/realtime"
)

// SummaryFilter selects the day of a tenant summary
type SummaryFilter struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// SummaryResponse is one SPPG's operational snapshot for a day
type SummaryResponse struct {
	Date                string  `json:"date"`
	PlannedPortions     int64   `json:"planned_portions"`
	ProducedPortions    int64   `json:"produced_portions"`
	DeliveredPortions   int64   `json:"delivered_portions"`
	ProductionBatches   int64   `json:"production_batches"`
	ScheduledDeliveries int64   `json:"scheduled_deliveries"`
	ActiveDistributions int64   `json:"active_distributions"`
	LowStockItems       int64   `json:"low_stock_items"`
	PresentEmployees    int64   `json:"present_employees"`
	AverageRating       float64 `json:"average_rating"`
	FeedbackCount       int64   `json:"feedback_count"`
}

// PlatformSummaryResponse is the platform console snapshot
type PlatformSummaryResponse struct {
	TotalSPPG      int64            `json:"total_sppg"`
	SPPGByStatus   map[string]int64 `json:"sppg_by_status"`
	TotalUsers     int64            `json:"total_users"`
	ConnectedUsers int              `json:"connected_clients"`
}

// EventsFilter limits the recent events listing
type EventsFilter struct {
	Limit    int  `form:"limit" binding:"omitempty,min=1,max=100"`
	Platform bool `form:"platform"`
}

// EventsResponse lists stored realtime events, newest first
type EventsResponse struct {
	Channel string           `json:"channel"`
	Events  []realtime.Event `json:"events"`
}
