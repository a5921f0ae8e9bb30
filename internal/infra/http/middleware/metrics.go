package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	salesImportRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sales_import_rows_total",
			Help: "Rows processed by sales imports, by outcome",
		},
		[]string{"outcome"},
	)

	salesImports = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sales_imports_total",
			Help: "Total number of sales file imports",
		},
	)

	leadsSynced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_synced_total",
			Help: "Leads seen by the chatbot sync, by outcome",
		},
		[]string{"outcome"},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// routePattern usa o padrão do chi ("/sales/{saleId}") para não explodir
// a cardinalidade do label path.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// Recorder liga os contadores de domínio aos use cases.
type Recorder struct{}

func (Recorder) RecordSalesImport(imported, skipped, rejected int) {
	salesImports.Inc()
	salesImportRows.WithLabelValues("imported").Add(float64(imported))
	salesImportRows.WithLabelValues("skipped_duplicate").Add(float64(skipped))
	salesImportRows.WithLabelValues("rejected").Add(float64(rejected))
}

func (Recorder) RecordLeadSync(fetched, inserted int, err error) {
	if err != nil {
		RecordIntegrationError("chatbot")
		return
	}
	leadsSynced.WithLabelValues("inserted").Add(float64(inserted))
	leadsSynced.WithLabelValues("duplicate").Add(float64(fetched - inserted))
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
