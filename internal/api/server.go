package api

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/lanesim/internal/db"
	"github.com/banshee-data/lanesim/internal/httputil"
	"github.com/banshee-data/lanesim/internal/monitoring"
	"github.com/banshee-data/lanesim/internal/sweep"
	"github.com/banshee-data/lanesim/internal/units"
	"github.com/banshee-data/lanesim/internal/version"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server ties the live simulation, the sweep runner, and the results store
// to the HTTP surface. Any of runner and db may be nil; the matching
// endpoints then answer 503.
type Server struct {
	host   *SimHost
	runner *sweep.Runner
	db     *db.DB
	units  string
}

// ServerConfig contains the dependencies for a Server.
type ServerConfig struct {
	SimHost *SimHost
	Runner  *sweep.Runner
	DB      *db.DB
	Units   string
}

// NewServer creates an API server from the provided dependencies.
func NewServer(cfg ServerConfig) *Server {
	targetUnits := cfg.Units
	if !units.IsValid(targetUnits) {
		targetUnits = units.KPH
	}
	s := &Server{
		host:   cfg.SimHost,
		runner: cfg.Runner,
		db:     cfg.DB,
		units:  targetUnits,
	}
	if s.runner != nil && s.db != nil {
		// Completed sweeps land in the store as soon as the runner
		// finishes, so /api/sweeps lists them without a save step.
		s.runner.OnResult(func(res *sweep.Result) {
			id, err := s.db.SaveSweepResult(res)
			if err != nil {
				monitoring.Logf("[api] ERROR: save sweep result: %v", err)
				return
			}
			monitoring.Logf("[api] saved sweep run %d (%d ratios)", id, len(res.Ratios))
		})
	}
	return s
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400 && statusCode < 500:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 500:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

// ServeMux registers every API, chart, and page route on a fresh mux.
// Debug routes are attached separately by the caller so tests can run
// without a database.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleDashboard)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/config", s.showConfig)
	mux.HandleFunc("/api/sim", s.showSim)
	mux.HandleFunc("/api/sim/cars", s.listCars)
	mux.HandleFunc("/api/sim/step", s.stepSim)
	mux.HandleFunc("/api/sim/reset", s.resetSim)
	mux.HandleFunc("/api/sweep/start", s.handleSweepStart)
	mux.HandleFunc("/api/sweep/status", s.handleSweepStatus)
	mux.HandleFunc("/api/sweep/stop", s.handleSweepStop)
	mux.HandleFunc("/api/sweeps", s.listSweepRuns)
	mux.HandleFunc("/api/sweeps/", s.showSweepRun)
	mux.HandleFunc("/charts/highway", s.handleHighwayChart)
	mux.HandleFunc("/charts/jam-probability", s.handleJamProbabilityChart)
	return mux
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	httputil.WriteJSON(w, status, data)
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	httputil.WriteJSONError(w, status, msg)
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status": "ok", "service": "lanesim", "version": %q, "timestamp": "%s"}`,
		version.Version, time.Now().UTC().Format(time.RFC3339))
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	config := map[string]interface{}{
		"units":   s.units,
		"version": version.String(),
	}
	if s.host != nil {
		config["sim"] = s.host.State().Config
	}

	s.writeJSON(w, http.StatusOK, config)
}
