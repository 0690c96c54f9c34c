package reservations

import (
	"context"
	"fmt"
	"sync"
	"time"

	"busbenin/internal/shared/config"
	"busbenin/pkg/logger"

	"github.com/robfig/cron/v3"
)

// JobProcessor runs the payment reconciler and the expiry sweep on cron schedules
type JobProcessor struct {
	service Service
	config  *JobConfig
	cron    *cron.Cron
	log     *logger.Logger

	mu      sync.Mutex
	lastRun map[string]time.Time
	cancel  context.CancelFunc
}

// JobConfig contains configuration for background jobs
type JobConfig struct {
	ReconcileEnabled  bool
	ReconcileSchedule string
	ExpiryEnabled     bool
	ExpirySchedule    string
	Timeout           time.Duration
	Location          *time.Location
}

func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		ReconcileEnabled:  true,
		ReconcileSchedule: "@every 1m",
		ExpiryEnabled:     true,
		ExpirySchedule:    "@every 15m",
		Timeout:           2 * time.Minute,
		Location:          time.UTC,
	}
}

func JobConfigFrom(cfg *config.Config) *JobConfig {
	jc := DefaultJobConfig()
	jc.ReconcileEnabled = cfg.Reconcile.Enabled
	jc.ExpiryEnabled = cfg.Expiry.Enabled
	if cfg.Reconcile.Schedule != "" {
		jc.ReconcileSchedule = cfg.Reconcile.Schedule
	}
	if cfg.Expiry.Schedule != "" {
		jc.ExpirySchedule = cfg.Expiry.Schedule
	}
	jc.Location = cfg.Location()
	return jc
}

func NewJobProcessor(service Service, cfg *JobConfig, log *logger.Logger) *JobProcessor {
	if cfg == nil {
		cfg = DefaultJobConfig()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &JobProcessor{
		service: service,
		config:  cfg,
		cron: cron.New(
			cron.WithLocation(cfg.Location),
			cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		log:     log,
		lastRun: make(map[string]time.Time),
	}
}

// Start registers the enabled jobs and starts the scheduler
func (jp *JobProcessor) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	jp.cancel = cancel

	if jp.config.ReconcileEnabled {
		if _, err := jp.cron.AddFunc(jp.config.ReconcileSchedule, func() { jp.runReconcile(ctx) }); err != nil {
			cancel()
			return fmt.Errorf("invalid reconcile schedule %q: %w", jp.config.ReconcileSchedule, err)
		}
	}
	if jp.config.ExpiryEnabled {
		if _, err := jp.cron.AddFunc(jp.config.ExpirySchedule, func() { jp.runExpiry(ctx) }); err != nil {
			cancel()
			return fmt.Errorf("invalid expiry schedule %q: %w", jp.config.ExpirySchedule, err)
		}
	}

	jp.cron.Start()
	jp.log.Info("reservation background jobs started",
		"reconcile", jp.describe(jp.config.ReconcileEnabled, jp.config.ReconcileSchedule),
		"expiry", jp.describe(jp.config.ExpiryEnabled, jp.config.ExpirySchedule),
	)
	return nil
}

// Stop stops scheduling and waits for running jobs, up to ctx's deadline
func (jp *JobProcessor) Stop(ctx context.Context) {
	done := jp.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		jp.log.Warn("reservation jobs still running at shutdown")
	}
	if jp.cancel != nil {
		jp.cancel()
	}
	jp.log.Info("reservation background jobs stopped")
}

func (jp *JobProcessor) runReconcile(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, jp.config.Timeout)
	defer cancel()

	if _, err := jp.service.RunReconcileSweep(ctx); err != nil {
		jp.log.ErrorContext(ctx, "reconcile sweep failed", "error", err)
	}
	jp.markRun("reconcile")
}

func (jp *JobProcessor) runExpiry(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, jp.config.Timeout)
	defer cancel()

	if _, err := jp.service.RunExpirySweep(ctx); err != nil {
		jp.log.ErrorContext(ctx, "expiry sweep failed", "error", err)
	}
	jp.markRun("expiry")
}

func (jp *JobProcessor) markRun(name string) {
	jp.mu.Lock()
	jp.lastRun[name] = time.Now()
	jp.mu.Unlock()
}

func (jp *JobProcessor) describe(enabled bool, schedule string) string {
	if !enabled {
		return "disabled"
	}
	return schedule
}

// GetJobStatus returns the status of background jobs
func (jp *JobProcessor) GetJobStatus() map[string]interface{} {
	jp.mu.Lock()
	defer jp.mu.Unlock()

	status := map[string]interface{}{
		"reconcile_schedule": jp.describe(jp.config.ReconcileEnabled, jp.config.ReconcileSchedule),
		"expiry_schedule":    jp.describe(jp.config.ExpiryEnabled, jp.config.ExpirySchedule),
		"status":             "running",
	}
	for name, at := range jp.lastRun {
		status[name+"_last_run"] = at.Format(time.RFC3339)
	}
	if entries := jp.cron.Entries(); len(entries) > 0 {
		status["next_run"] = entries[0].Next.Format(time.RFC3339)
	}
	return status
}
