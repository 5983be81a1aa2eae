package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Spok95/nutrition-calc/internal/infra/metrics"
)

type Server struct {
	srv *http.Server
}

func New(addr string, exposeMetrics bool, h *Handler) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("POST /calculate", h.Calculate)
	mux.HandleFunc("GET /foods", h.Foods)
	mux.HandleFunc("GET /foods.xlsx", h.FoodsExcel)

	if exposeMetrics {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	return &Server{srv: &http.Server{
		Addr:              addr,
		Handler:           withObservability(h.log, h.metrics, mux),
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

func (s *Server) Handler() http.Handler { return s.srv.Handler }

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func withObservability(log *slog.Logger, m *metrics.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}

		next.ServeHTTP(rec, r)

		// r.Pattern заполняет ServeMux; пусто — маршрут не найден
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		d := time.Since(start)
		m.ObserveRequest(route, rec.code, d)
		log.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"code", rec.code,
			"duration", d,
		)
	})
}
