// Package api реализует HTTP/JSON интерфейс калькулятора.
package api

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/srivastav-asutosh/SIP-Calculator/internal/calculations"
	"github.com/srivastav-asutosh/SIP-Calculator/internal/config"
	"github.com/srivastav-asutosh/SIP-Calculator/internal/store"
	"github.com/srivastav-asutosh/SIP-Calculator/internal/validators"
)

//go:embed static
var staticFiles embed.FS

// persistTimeout ограничивает время сохранения истории в рамках запроса
const persistTimeout = 2 * time.Second

// Server обслуживает эндпоинты калькулятора
type Server struct {
	cfg       *config.Config
	engine    *calculations.Engine
	validator *validators.Validator
	recorder  store.Recorder
	tracer    trace.Tracer
	limiter   *rateLimiter
}

// NewServer создает сервер. recorder может быть NoopRecorder.
func NewServer(cfg *config.Config, recorder store.Recorder, tracer trace.Tracer) *Server {
	if recorder == nil {
		recorder = store.NewNoopRecorder()
	}
	return &Server{
		cfg:       cfg,
		engine:    calculations.NewEngine(cfg),
		validator: validators.New(cfg),
		recorder:  recorder,
		tracer:    tracer,
		limiter:   newRateLimiter(cfg.RateLimitPerHour),
	}
}

// Handler собирает маршруты и цепочку middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/calculate", s.handle("calculate", http.MethodPost, s.calculate))
	mux.HandleFunc("/api/breakdown", s.handle("breakdown", http.MethodPost, s.breakdown))
	mux.HandleFunc("/api/goal-planning", s.handle("goal-planning", http.MethodPost, s.goalPlanning))
	mux.HandleFunc("/api/comparison", s.handle("comparison", http.MethodPost, s.comparison))
	mux.HandleFunc("/api/calculations/{id}", s.handle("calculation", http.MethodGet, s.findCalculation))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/", s.index)

	var h http.Handler = mux
	h = bodyLimit(s.cfg.MaxBodyBytes, h)
	h = s.limiter.middleware(h)
	h = cors(s.cfg.CORSOrigins, h)
	h = requestLogger(h)
	h = recoverer(h)
	return h
}

// index отдает страницу дашборда, остальные пути - 404
func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, errTypeNotFound, "Endpoint not found")
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, errTypeMethodNotAllowed, "Method not allowed")
		return
	}

	page, err := fs.ReadFile(staticFiles, "static/index.html")
	if err != nil {
		writeError(w, http.StatusInternalServerError, errTypeServer, "An unexpected error occurred")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// Close освобождает хранилище
func (s *Server) Close() error {
	return s.recorder.Close()
}
