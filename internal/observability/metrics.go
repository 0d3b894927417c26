package observability

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/danmuck/mpdwire/internal/protocol"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	registerOnce sync.Once

	decodedRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mpdwire",
			Subsystem: "decode",
			Name:      "records_total",
			Help:      "Records decoded from protocol responses.",
		},
		[]string{"record", "outcome"},
	)
	decodeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mpdwire",
			Subsystem: "decode",
			Name:      "errors_total",
			Help:      "Decode failures by error kind.",
		},
		[]string{"record", "kind"},
	)
	commandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mpdwire",
			Subsystem: "transport",
			Name:      "command_duration_seconds",
			Help:      "Round trip time of MPD commands, including decoding.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"command", "success"},
	)
	reconnects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mpdwire",
			Subsystem: "transport",
			Name:      "reconnects_total",
			Help:      "Connections re-established after a transport failure.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(decodedRecords, decodeErrors, commandDuration, reconnects)
	})
}

// RecordDecode counts one decoded record (or n records of a list) and, on
// failure, the error kind.
func RecordDecode(record string, n int, err error) {
	RegisterMetrics()
	if err != nil {
		decodedRecords.WithLabelValues(record, "error").Inc()
		decodeErrors.WithLabelValues(record, protocol.KindOf(err).String()).Inc()
		return
	}
	decodedRecords.WithLabelValues(record, "ok").Add(float64(n))
}

func RecordCommand(command string, duration time.Duration, err error) {
	RegisterMetrics()
	success := "true"
	if err != nil {
		success = "false"
	}
	commandDuration.WithLabelValues(command, success).Observe(duration.Seconds())
}

func RecordReconnect() {
	RegisterMetrics()
	reconnects.Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	RegisterMetrics()
	return promhttp.Handler()
}

// Serve exposes /metrics on addr until the server fails or is closed.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()
	return srv
}
