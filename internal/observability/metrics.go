package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/contacts-backend/internal/platform/logger"
)

// Avatar probe outcomes.
const (
	ProbeHit   = "hit"
	ProbeMiss  = "miss"
	ProbeError = "error"
)

type Metrics struct {
	apiRequests  *CounterVec
	apiLatency   *HistogramVec
	apiInflight  *Gauge
	apiReqTotal  *Counter
	apiReqError  *Counter
	contactOps   *CounterVec
	avatarProbe  *CounterVec
	avatarLat    *HistogramVec
	eventPublish *CounterVec
	sqlStats     *GaugeVec
	redisUp      *Gauge
	redisPing    *Gauge

	scrapeInterval time.Duration
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init builds the process-wide registry once. It returns nil when disabled;
// every method on a nil *Metrics is a no-op.
func Init(log *logger.Logger, enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

func New() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("contacts_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"contacts_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight: NewGauge("contacts_api_inflight_requests", "In-flight API requests."),
		apiReqTotal: NewCounter("contacts_api_requests_total_all", "Total API requests (all)."),
		apiReqError: NewCounter("contacts_api_requests_error_total", "Total API requests answered with a 5xx."),
		contactOps:  NewCounterVec("contacts_operations_total", "Contact operations by op/result.", []string{"op", "result"}),
		avatarProbe: NewCounterVec("contacts_avatar_probe_total", "Avatar existence probes by outcome.", []string{"outcome"}),
		avatarLat: NewHistogramVec(
			"contacts_avatar_probe_duration_seconds",
			"Avatar probe latency in seconds by outcome.",
			[]string{"outcome"},
			[]float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5},
		),
		eventPublish: NewCounterVec("contacts_events_published_total", "Change feed publishes by type/status.", []string{"type", "status"}),
		sqlStats:     NewGaugeVec("contacts_sql_pool", "database/sql pool stats.", []string{"stat"}),
		redisUp:      NewGauge("contacts_redis_up", "Redis reachability (1=up)."),
		redisPing:    NewGauge("contacts_redis_ping_seconds", "Redis ping latency in seconds."),

		scrapeInterval: 10 * time.Second,
	}
}

// SetScrapeInterval changes how often collectors sample.
func (m *Metrics) SetScrapeInterval(d time.Duration) {
	if m == nil || d <= 0 {
		return
	}
	m.scrapeInterval = d
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []collector{
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.apiReqTotal,
		m.apiReqError,
		m.contactOps,
		m.avatarProbe,
		m.avatarLat,
		m.eventPublish,
		m.sqlStats,
		m.redisUp,
		m.redisPing,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
	m.apiReqTotal.Inc()
	if isServerErrorStatus(status) {
		m.apiReqError.Inc()
	}
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// IncContactOp counts a service-level contact operation, e.g. ("create", "conflict").
func (m *Metrics) IncContactOp(op, result string) {
	if m == nil {
		return
	}
	if result == "" {
		result = "ok"
	}
	m.contactOps.Inc(op, result)
}

func (m *Metrics) ObserveAvatarProbe(outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	switch outcome {
	case ProbeHit, ProbeMiss, ProbeError:
	default:
		outcome = ProbeError
	}
	m.avatarProbe.Inc(outcome)
	m.avatarLat.Observe(dur.Seconds(), outcome)
}

func (m *Metrics) IncEventPublished(eventType string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.eventPublish.Inc(eventType, status)
}

func isServerErrorStatus(status string) bool {
	status = strings.TrimSpace(status)
	if len(status) < 3 {
		return false
	}
	return status[0] == '5'
}

// AvatarProbes reports how many probes ended with outcome.
func (m *Metrics) AvatarProbes(outcome string) float64 {
	if m == nil {
		return 0
	}
	return m.avatarProbe.Value(outcome)
}

// ContactOps reports how many (op, result) operations were counted.
func (m *Metrics) ContactOps(op, result string) float64 {
	if m == nil {
		return 0
	}
	return m.contactOps.Value(op, result)
}
