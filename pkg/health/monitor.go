package health

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents health check status
type Status int

const (
	StatusUnknown Status = iota
	StatusHealthy
	StatusUnhealthy
	StatusDegraded
	StatusDisabled
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "HEALTHY"
	case StatusUnhealthy:
		return "UNHEALTHY"
	case StatusDegraded:
		return "DEGRADED"
	case StatusDisabled:
		return "DISABLED"
	default:
		return "UNKNOWN"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(s.String())), nil
}

// CheckResult represents the result of a health check
type CheckResult struct {
	Status       Status         `json:"status"`
	Required     bool           `json:"required"`
	Message      string         `json:"message,omitempty"`
	Latency      time.Duration  `json:"latency_ns"`
	LastCheck    time.Time      `json:"last_check"`
	LastError    error          `json:"-"`
	Details      map[string]any `json:"details,omitempty"`
	CheckCount   int            `json:"check_count,omitempty"`
	FailureCount int            `json:"failure_count,omitempty"`
}

// Checker interface for health checks
type Checker interface {
	Check(ctx context.Context) CheckResult
}

// SQLChecker pings the database pool
type SQLChecker struct {
	DB *sql.DB
}

func (c *SQLChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{LastCheck: start}

	if c.DB == nil {
		result.Status = StatusUnhealthy
		result.Message = "database connection not initialized"
		return result
	}

	err := c.DB.PingContext(ctx)
	result.Latency = time.Since(start)
	if err != nil {
		result.Status = StatusUnhealthy
		result.LastError = err
		result.Message = "database ping failed"
		return result
	}

	stats := c.DB.Stats()
	result.Status = StatusHealthy
	result.Details = map[string]any{
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"wait_count":       stats.WaitCount,
	}
	return result
}

// Pinger is satisfied by the redis client wrapper
type Pinger interface {
	IsEnabled() bool
	Ping(ctx context.Context) error
}

// PingChecker checks an optional dependency that can be switched off
type PingChecker struct {
	Target Pinger
}

func (c *PingChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{LastCheck: start}

	if c.Target == nil || !c.Target.IsEnabled() {
		result.Status = StatusDisabled
		return result
	}

	err := c.Target.Ping(ctx)
	result.Latency = time.Since(start)
	if err != nil {
		result.Status = StatusUnhealthy
		result.LastError = err
		result.Message = "ping failed"
		return result
	}
	result.Status = StatusHealthy
	return result
}

// OpenCircuits lists the names of breakers currently failing fast
type OpenCircuits interface {
	Open() []string
}

// BreakerChecker reports degraded while any outbound breaker is open
type BreakerChecker struct {
	Breakers OpenCircuits
}

func (c *BreakerChecker) Check(_ context.Context) CheckResult {
	result := CheckResult{LastCheck: time.Now(), Status: StatusHealthy}
	if c.Breakers == nil {
		return result
	}

	open := c.Breakers.Open()
	if len(open) > 0 {
		result.Status = StatusDegraded
		result.Message = fmt.Sprintf("open circuits: %s", strings.Join(open, ", "))
		result.Details = map[string]any{"open": open}
	}
	return result
}

type registration struct {
	checker  Checker
	required bool
}

// Report aggregates every registered check
type Report struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Healthy is false only when a required dependency is unhealthy
func (r Report) Healthy() bool {
	return r.Status != StatusUnhealthy
}

// Monitor runs dependency checks on demand and in the background
type Monitor struct {
	mu       sync.RWMutex
	checkers map[string]registration
	results  map[string]*CheckResult
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	running  bool
}

func NewMonitor(interval time.Duration, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Monitor{
		checkers: make(map[string]registration),
		results:  make(map[string]*CheckResult),
		interval: interval,
		timeout:  5 * time.Second,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Register adds a checker. A failing required checker makes the whole report unhealthy.
func (m *Monitor) Register(name string, checker Checker, required bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.checkers[name] = registration{checker: checker, required: required}

	m.logger.Info("Registered health checker",
		zap.String("name", name),
		zap.Bool("required", required),
	)
}

// Start runs the checks every interval so failures show up in the logs
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running || m.interval <= 0 {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.mu.Unlock()

	go m.runChecks()
}

func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	m.running = false
	m.cancel()
}

func (m *Monitor) runChecks() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(m.ctx)

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.Check(m.ctx)
		}
	}
}

// Check runs every checker now and aggregates the results
func (m *Monitor) Check(ctx context.Context) Report {
	m.mu.RLock()
	checkers := make(map[string]registration, len(m.checkers))
	for name, reg := range m.checkers {
		checkers[name] = reg
	}
	m.mu.RUnlock()

	report := Report{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Checks:    make(map[string]CheckResult, len(checkers)),
	}

	names := make([]string, 0, len(checkers))
	for name := range checkers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		reg := checkers[name]

		checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
		result := reg.checker.Check(checkCtx)
		cancel()

		result.Required = reg.required
		m.record(name, &result)
		report.Checks[name] = result

		switch {
		case result.Status == StatusUnhealthy && reg.required:
			report.Status = StatusUnhealthy
		case result.Status == StatusUnhealthy || result.Status == StatusDegraded:
			if report.Status == StatusHealthy {
				report.Status = StatusDegraded
			}
		}

		if result.Status == StatusUnhealthy || result.Status == StatusDegraded {
			m.logger.Warn("Health check failed",
				zap.String("name", name),
				zap.String("status", result.Status.String()),
				zap.Bool("required", reg.required),
				zap.Duration("latency", result.Latency),
				zap.Error(result.LastError),
			)
		}
	}

	return report
}

func (m *Monitor) record(name string, result *CheckResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.results[name]; ok {
		result.CheckCount = existing.CheckCount + 1
		result.FailureCount = existing.FailureCount
	} else {
		result.CheckCount = 1
	}
	if result.Status == StatusUnhealthy {
		result.FailureCount++
	}
	stored := *result
	m.results[name] = &stored
}

// GetResult returns the last recorded result of one checker
func (m *Monitor) GetResult(name string) (*CheckResult, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result, exists := m.results[name]
	if !exists {
		return nil, false
	}
	resultCopy := *result
	return &resultCopy, true
}
