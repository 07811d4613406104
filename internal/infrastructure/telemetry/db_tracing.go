package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds database tracing configuration
type DBTracingConfig struct {
	Enabled         bool
	SlowQueryThresh time.Duration // default 200ms
	DBSystem        string        // default "postgresql"
	LogFullSQL      bool          // include bound variables in db.statement
}

const queryStartKey = "telemetry:query_start"

// DBTracingPlugin registers otelgorm spans plus slow-query annotation and
// an optional query duration histogram.
type DBTracingPlugin struct {
	config   DBTracingConfig
	logger   *zap.Logger
	duration *Histogram
	now      func() time.Time
}

// NewDBTracingPlugin creates the plugin. duration may be nil.
func NewDBTracingPlugin(cfg DBTracingConfig, duration *Histogram, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.DBSystem == "" {
		cfg.DBSystem = "postgresql"
	}
	return &DBTracingPlugin{config: cfg, logger: logger, duration: duration, now: time.Now}
}

// Register installs the plugin on db. It does nothing when disabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBSystem)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := p.registerCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

func (p *DBTracingPlugin) registerCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("telemetry:before_create", p.before),
		cb.Create().After("gorm:create").Register("telemetry:after_create", p.after),
		cb.Query().Before("gorm:query").Register("telemetry:before_query", p.before),
		cb.Query().After("gorm:query").Register("telemetry:after_query", p.after),
		cb.Update().Before("gorm:update").Register("telemetry:before_update", p.before),
		cb.Update().After("gorm:update").Register("telemetry:after_update", p.after),
		cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", p.before),
		cb.Delete().After("gorm:delete").Register("telemetry:after_delete", p.after),
		cb.Row().Before("gorm:row").Register("telemetry:before_row", p.before),
		cb.Row().After("gorm:row").Register("telemetry:after_row", p.after),
		cb.Raw().Before("gorm:raw").Register("telemetry:before_raw", p.before),
		cb.Raw().After("gorm:raw").Register("telemetry:after_raw", p.after),
	)
}

func (p *DBTracingPlugin) before(db *gorm.DB) {
	db.InstanceSet(queryStartKey, p.now())
}

func (p *DBTracingPlugin) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}

	var elapsed time.Duration
	if v, ok := db.InstanceGet(queryStartKey); ok {
		if start, ok := v.(time.Time); ok {
			elapsed = p.now().Sub(start)
		}
	}
	if p.duration != nil {
		p.duration.RecordDuration(ctx, elapsed, attribute.String("db.sql.table", db.Statement.Table))
	}

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}
	if elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("threshold_ms", p.config.SlowQueryThresh.Milliseconds()),
		))
	}
}
