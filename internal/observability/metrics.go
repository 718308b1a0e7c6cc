package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Metrics tracks operational counters for the scraper.
type Metrics struct {
	// Fetch metrics
	PagesFetched atomic.Int64
	FetchErrors  atomic.Int64

	// Extraction metrics
	RecordsExtracted atomic.Int64
	ExtractErrors    atomic.Int64

	// Discovery metrics
	URLsDiscovered atomic.Int64

	// Aggregates across scraped records
	TotalViews      atomic.Int64
	TotalLikes      atomic.Int64
	BytesDownloaded atomic.Int64

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		value int64
	}{
		{"tokmeter_pages_fetched_total", "Total pages fetched", m.PagesFetched.Load()},
		{"tokmeter_fetch_errors_total", "Total fetch failures", m.FetchErrors.Load()},
		{"tokmeter_records_extracted_total", "Total video records extracted", m.RecordsExtracted.Load()},
		{"tokmeter_extract_errors_total", "Total extraction failures", m.ExtractErrors.Load()},
		{"tokmeter_urls_discovered_total", "Total video URLs discovered", m.URLsDiscovered.Load()},
		{"tokmeter_views_total", "Sum of views across scraped records", m.TotalViews.Load()},
		{"tokmeter_likes_total", "Sum of likes across scraped records", m.TotalLikes.Load()},
		{"tokmeter_bytes_downloaded_total", "Total bytes downloaded", m.BytesDownloaded.Load()},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", metric.name)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// StartServer starts the metrics HTTP server.
func (m *Metrics) StartServer(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, m)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	m.logger.Info("metrics server starting", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			m.logger.Error("metrics server error", "error", err)
		}
	}()

	return nil
}

// Snapshot returns all counters as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"pages_fetched":     m.PagesFetched.Load(),
		"fetch_errors":      m.FetchErrors.Load(),
		"records_extracted": m.RecordsExtracted.Load(),
		"extract_errors":    m.ExtractErrors.Load(),
		"urls_discovered":   m.URLsDiscovered.Load(),
		"views_total":       m.TotalViews.Load(),
		"likes_total":       m.TotalLikes.Load(),
		"bytes_downloaded":  m.BytesDownloaded.Load(),
	}
}
