package observability

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cory-johannsen/dicesim/internal/session"
)

const metricsNamespace = "dicesim"

// Run outcomes recorded by Metrics.RunFinished. RunFailed marks a run whose
// source produced an outcome outside the pool.
const (
	RunCompleted = "completed"
	RunCancelled = "cancelled"
	RunRejected  = "rejected"
	RunFailed    = "failed"
)

// Metrics holds the Prometheus collectors for simulation runs and queries.
// It satisfies session.Observer.
type Metrics struct {
	registry        *prometheus.Registry
	trialsTotal     prometheus.Counter
	runsTotal       *prometheus.CounterVec
	samplingSeconds prometheus.Histogram
	queriesTotal    *prometheus.CounterVec
	rejectedTotal   *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance registered on its own registry.
//
// Postcondition: Every collector is registered; Registry() returns that registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		trialsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "trials_total",
			Help:      "Total number of dice-pool trials rolled",
		}),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "runs_total",
			Help:      "Simulation runs by result",
		}, []string{"result"}),
		samplingSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "sampling_seconds",
			Help:      "Wall time spent sampling and accumulating one run",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "queries_total",
			Help:      "Probability queries answered by kind",
		}, []string{"kind"}),
		rejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "query_rejections_total",
			Help:      "Rejected session inputs by reason",
		}, []string{"reason"}),
	}
	m.registry.MustRegister(m.trialsTotal, m.runsTotal, m.samplingSeconds, m.queriesTotal, m.rejectedTotal)
	return m
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// AddTrials adds n completed trials.
func (m *Metrics) AddTrials(n int64) { m.trialsTotal.Add(float64(n)) }

// ObserveSampling records the duration of a sampling phase.
func (m *Metrics) ObserveSampling(d time.Duration) { m.samplingSeconds.Observe(d.Seconds()) }

// RunFinished counts one run with the given result.
func (m *Metrics) RunFinished(result string) { m.runsTotal.WithLabelValues(result).Inc() }

// QueryAnswered implements session.Observer.
func (m *Metrics) QueryAnswered(kind session.Kind) {
	m.queriesTotal.WithLabelValues(kind.String()).Inc()
}

// QueryRejected implements session.Observer.
func (m *Metrics) QueryRejected(reason string) {
	m.rejectedTotal.WithLabelValues(reason).Inc()
}

// MetricsServer exposes a Metrics registry over HTTP at /metrics.
type MetricsServer struct {
	srv *http.Server
	ln  net.Listener
}

// NewMetricsServer binds addr and prepares the /metrics handler.
//
// Precondition: addr must be a valid "host:port" listen address.
// Postcondition: Returns a bound server or a non-nil error.
func NewMetricsServer(addr string, m *Metrics) (*MetricsServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{}))
	return &MetricsServer{
		srv: &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:  ln,
	}, nil
}

// Addr returns the bound listen address.
func (s *MetricsServer) Addr() string { return s.ln.Addr().String() }

// Serve blocks serving requests until Stop is called.
func (s *MetricsServer) Serve() error {
	if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the server down, waiting up to two seconds for in-flight requests.
func (s *MetricsServer) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.srv.Shutdown(ctx)
}
