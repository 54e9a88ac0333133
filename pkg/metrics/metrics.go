package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sidkik/pushsync/pkg/errors"
)

const namespace = "pushsync"

// Outcome label values for Metrics.Files.
const (
	OutcomeTransferred = "transferred"
	OutcomeSkipped     = "skipped"
	OutcomeFailed      = "failed"
)

// Metrics contains the Prometheus metrics for the sync loop.
var Metrics = struct {
	PassDuration  *prometheus.HistogramVec
	Files         *prometheus.CounterVec
	ListingErrors prometheus.Counter
	RemoteEntries prometheus.Gauge
	LastPassTime  prometheus.Gauge
}{
	PassDuration: prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Help:      "Distribution of durations of reconciliation passes",
			Namespace: namespace,
			Name:      "pass_duration_seconds",
		},
		// status: success, error
		[]string{"status"},
	),
	Files: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Total number of local files considered, by outcome",
			Namespace: namespace,
			Name:      "files_total",
		},
		// outcome: transferred, skipped, failed
		[]string{"outcome"},
	),
	ListingErrors: prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Total number of remote listings that failed and fell back to an empty snapshot",
			Namespace: namespace,
			Name:      "listing_errors_total",
		}),
	RemoteEntries: prometheus.NewGauge(
		prometheus.GaugeOpts{
			Help:      "Number of files in the most recent remote snapshot",
			Namespace: namespace,
			Name:      "remote_entries",
		}),
	LastPassTime: prometheus.NewGauge(
		prometheus.GaugeOpts{
			Help:      "Unix time at which the most recent pass completed",
			Namespace: namespace,
			Name:      "last_pass_timestamp_seconds",
		}),
}

func init() {
	prometheus.MustRegister(
		Metrics.PassDuration,
		Metrics.Files,
		Metrics.ListingErrors,
		Metrics.RemoteEntries,
		Metrics.LastPassTime,
	)
}

// StatusLabel returns the status label value for a pass that returned `err`.
func StatusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// Serve exposes the metrics on `addr` until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return errors.WithContext(err, "serve metrics")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
