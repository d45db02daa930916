// Package health probes the datastores on a cron schedule and reports the
// result over HTTP and the gRPC health protocol.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the gRPC health service name reported alongside "".
const ServiceName = "jobly.jobs"

const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// Check is one named dependency probe.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// Report is the outcome of the latest probe.
type Report struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	CheckedAt time.Time         `json:"checkedAt"`
}

// Monitor runs its checks every interval.
type Monitor struct {
	checks  []Check
	timeout time.Duration
	spec    string
	cron    *cron.Cron
	grpc    *health.Server

	mu     sync.RWMutex
	report Report
}

// NewMonitor returns a Monitor that probes checks every interval. Each check
// gets at most timeout to answer.
func NewMonitor(interval, timeout time.Duration, checks ...Check) *Monitor {
	return &Monitor{
		checks:  checks,
		timeout: timeout,
		spec:    fmt.Sprintf("@every %s", interval),
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		grpc:    health.NewServer(),
		report:  Report{Status: StatusDegraded, Checks: map[string]string{}},
	}
}

// Start probes once, then schedules the periodic probe.
func (m *Monitor) Start(ctx context.Context) error {
	m.Probe(ctx)

	if _, err := m.cron.AddFunc(m.spec, func() { m.Probe(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	m.cron.Start()
	slog.Info("health monitor started", slog.String("spec", m.spec))
	return nil
}

// Stop halts the schedule and marks the service as not serving.
func (m *Monitor) Stop() {
	<-m.cron.Stop().Done()
	m.grpc.Shutdown()
}

// Probe runs every check now and records the result.
func (m *Monitor) Probe(ctx context.Context) Report {
	r := Report{
		Status:    StatusOK,
		Checks:    make(map[string]string, len(m.checks)),
		CheckedAt: time.Now().UTC(),
	}
	for _, c := range m.checks {
		cctx, cancel := context.WithTimeout(ctx, m.timeout)
		err := c.Ping(cctx)
		cancel()

		if err != nil {
			r.Status = StatusDegraded
			r.Checks[c.Name] = err.Error()
			slog.Warn("health check failed", slog.String("check", c.Name), slog.String("error", err.Error()))
			continue
		}
		r.Checks[c.Name] = StatusOK
	}

	status := healthpb.HealthCheckResponse_SERVING
	if r.Status != StatusOK {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	m.grpc.SetServingStatus("", status)
	m.grpc.SetServingStatus(ServiceName, status)

	m.mu.Lock()
	m.report = r
	m.mu.Unlock()
	return r
}

// Report returns the latest probe result.
func (m *Monitor) Report() Report {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.report
}

// GRPCServer returns the health service to register on a grpc.Server.
func (m *Monitor) GRPCServer() *health.Server { return m.grpc }

// ServeHTTP answers GET /health with the latest report.
func (m *Monitor) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	r := m.Report()
	code := http.StatusOK
	if r.Status != StatusOK {
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(r)
}
