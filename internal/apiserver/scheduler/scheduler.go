// Package scheduler runs the periodic maintenance jobs of the API server
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/amoylab/casedesk/internal/apiserver/database"
	"github.com/amoylab/casedesk/internal/common/config"
	"github.com/amoylab/casedesk/pkg/metrics"
)

// Job names
const (
	JobOverdue      = "overdue_investigations"
	JobSubscription = "subscription_expiry"
)

const (
	defaultOverdueSpec      = "@every 15m"
	defaultSubscriptionSpec = "@hourly"
	jobTimeout              = 2 * time.Minute
)

// TenantInvalidator drops cached copies of a tenant
type TenantInvalidator interface {
	Invalidate(ctx context.Context, slug string)
}

// Option customises a Scheduler
type Option func(*Scheduler)

// WithTenantInvalidator evicts suspended tenants from c so the suspension
// takes effect before the cache TTL runs out
func WithTenantInvalidator(c TenantInvalidator) Option {
	return func(s *Scheduler) { s.tenants = c }
}

// Scheduler manages the cron jobs
type Scheduler struct {
	logger  *zap.Logger
	db      database.Database
	metrics *metrics.Metrics
	tenants TenantInvalidator
	cron    *cron.Cron
	now     func() time.Time
	specs   map[string]string

	resultMutex sync.RWMutex
	results     map[string]*JobResult
	// tenants published on the overdue gauge by the last run
	overdueTenants map[string]struct{}

	runningMutex sync.Mutex
	running      bool
	registered   bool
}

// JobResult is the outcome of the last run of a job
type JobResult struct {
	Status    string        `json:"status"`
	StartTime time.Time     `json:"startTime"`
	Duration  time.Duration `json:"duration"`
	Affected  int64         `json:"affected"`
	Error     string        `json:"error,omitempty"`
}

// New creates a scheduler; empty specs fall back to the defaults
func New(cfg config.SchedulerConfig, db database.Database, m *metrics.Metrics, logger *zap.Logger, opts ...Option) *Scheduler {
	specs := map[string]string{
		JobOverdue:      cfg.OverdueSpec,
		JobSubscription: cfg.SubscriptionSpec,
	}
	if specs[JobOverdue] == "" {
		specs[JobOverdue] = defaultOverdueSpec
	}
	if specs[JobSubscription] == "" {
		specs[JobSubscription] = defaultSubscriptionSpec
	}

	logger = logger.Named("scheduler")
	cl := cronLogger{logger: logger}
	s := &Scheduler{
		logger:         logger,
		db:             db,
		metrics:        m,
		cron:           cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl))),
		now:            func() time.Time { return time.Now().UTC() },
		specs:          specs,
		results:        make(map[string]*JobResult),
		overdueTenants: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start registers the jobs and starts the cron loop
func (s *Scheduler) Start() error {
	s.runningMutex.Lock()
	defer s.runningMutex.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	if !s.registered {
		jobs := map[string]func(context.Context) (int64, error){
			JobOverdue:      s.SweepOverdue,
			JobSubscription: s.SweepSubscriptions,
		}
		for name, fn := range jobs {
			name, fn := name, fn
			if _, err := s.cron.AddFunc(s.specs[name], func() { s.run(name, fn) }); err != nil {
				return fmt.Errorf("invalid schedule %q for %s: %w", s.specs[name], name, err)
			}
		}
		s.registered = true
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("scheduler started",
		zap.String(JobOverdue, s.specs[JobOverdue]),
		zap.String(JobSubscription, s.specs[JobSubscription]))
	return nil
}

// Stop stops the cron loop and waits for running jobs. When ctx expires
// first the scheduler still counts as running and Stop may be called again.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.runningMutex.Lock()
	defer s.runningMutex.Unlock()

	if !s.running {
		return nil
	}

	select {
	case <-s.cron.Stop().Done():
		s.running = false
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SweepOverdue publishes the number of overdue investigations per tenant
func (s *Scheduler) SweepOverdue(ctx context.Context) (int64, error) {
	counts, err := s.db.CountOverdueInvestigations(ctx, s.now())
	if err != nil {
		return 0, err
	}

	var total int64
	seen := make(map[string]struct{}, len(counts))
	for tenantID, n := range counts {
		total += n
		seen[tenantID] = struct{}{}
		s.metrics.SetOverdue(tenantID, int(n))
		s.logger.Info("overdue investigations",
			zap.String("tenant_id", tenantID),
			zap.Int64("count", n))
	}

	s.resultMutex.Lock()
	for tenantID := range s.overdueTenants {
		if _, ok := seen[tenantID]; !ok {
			s.metrics.SetOverdue(tenantID, 0)
		}
	}
	s.overdueTenants = seen
	s.resultMutex.Unlock()

	return total, nil
}

// SweepSubscriptions suspends subscriptions whose end date has passed
func (s *Scheduler) SweepSubscriptions(ctx context.Context) (int64, error) {
	slugs, err := s.db.SuspendExpiredSubscriptions(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if len(slugs) == 0 {
		return 0, nil
	}
	s.logger.Warn("suspended expired subscriptions", zap.Strings("tenants", slugs))
	if s.tenants != nil {
		for _, slug := range slugs {
			s.tenants.Invalidate(ctx, slug)
		}
	}
	return int64(len(slugs)), nil
}

// Result returns the last result of the named job, or nil
func (s *Scheduler) Result(name string) *JobResult {
	s.resultMutex.RLock()
	defer s.resultMutex.RUnlock()
	return s.results[name]
}

func (s *Scheduler) run(name string, fn func(context.Context) (int64, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	affected, err := fn(ctx)
	result := &JobResult{
		Status:    "success",
		StartTime: start,
		Duration:  time.Since(start),
		Affected:  affected,
	}
	if err != nil {
		result.Status = "failed"
		result.Error = err.Error()
		s.logger.Error("job failed", zap.String("job", name), zap.Error(err))
	} else {
		s.logger.Debug("job completed",
			zap.String("job", name),
			zap.Int64("affected", affected),
			zap.Duration("duration", result.Duration))
	}

	s.resultMutex.Lock()
	s.results[name] = result
	s.resultMutex.Unlock()
}

// cronLogger routes the cron library's logs through zap
type cronLogger struct {
	logger *zap.Logger
}

// Info carries the per tick chatter of the cron loop, so it logs at debug
func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, cronFields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(cronFields(keysAndValues), zap.Error(err))...)
}

func cronFields(keysAndValues []interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2+1)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields = append(fields, zap.Any(fmt.Sprint(keysAndValues[i]), keysAndValues[i+1]))
	}
	return fields
}
