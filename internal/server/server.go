package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/planbiir/gpxalyzer/internal/analysis"
	"github.com/planbiir/gpxalyzer/internal/config"
	"github.com/planbiir/gpxalyzer/internal/export"
	"github.com/planbiir/gpxalyzer/internal/gpx"
	"github.com/planbiir/gpxalyzer/internal/metrics"
	"github.com/planbiir/gpxalyzer/internal/track"
)

// requestTimeout bounds a single analysis request.
const requestTimeout = 60 * time.Second

// Server exposes the analysis pipeline over HTTP.
type Server struct {
	log       *slog.Logger
	cfg       track.Config
	workers   int
	maxUpload int64
	metrics   *metrics.Metrics
	gatherer  prometheus.Gatherer
}

// New creates a Server. gatherer backs the /metrics endpoint.
func New(log *slog.Logger, cfg *config.Config, m *metrics.Metrics, gatherer prometheus.Gatherer) *Server {
	return &Server{
		log:       log,
		cfg:       cfg.Track(),
		workers:   cfg.Workers,
		maxUpload: cfg.MaxUploadBytes,
		metrics:   m,
		gatherer:  gatherer,
	}
}

// Routes configures the HTTP routes of the service.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(s.log),
		middleware.Recoverer,
		middleware.Timeout(requestTimeout),
	)

	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", s.analyze)
		r.Post("/stats", s.stats)
	})
	return r
}

type errorResponse struct {
	ID    string `json:"id,omitempty"`
	Error string `json:"error"`
	Class string `json:"class,omitempty"`
}

type statsResponse struct {
	Points    int     `json:"points"`
	Tracks    int     `json:"tracks"`
	Segments  int     `json:"segments"`
	DurationS float64 `json:"duration_s"`
	DistanceM float64 `json:"distance_m"`
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	s.log.DebugContext(r.Context(), "Performing health checks...")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		s.log.ErrorContext(r.Context(), "failed to write reply", "error", err)
	}
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	status := http.StatusOK
	s.metrics.InFlight.Inc()
	defer func() {
		s.metrics.InFlight.Dec()
		s.metrics.RequestSeconds.WithLabelValues(strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	}()

	cfg := s.cfg
	if raw := r.URL.Query().Get("window"); raw != "" {
		window, err := strconv.Atoi(raw)
		if err != nil || window <= 0 {
			status = http.StatusBadRequest
			writeError(w, status, errorResponse{Error: "window must be a positive integer"})
			return
		}
		cfg.Window = window
	}

	doc, ok := s.readDocument(w, r, &status)
	if !ok {
		return
	}

	analyzer, err := analysis.NewAnalyzer(s.log, cfg, s.workers)
	if err != nil {
		status = http.StatusBadRequest
		writeError(w, status, errorResponse{Error: err.Error(), Class: track.Classify(err).String()})
		return
	}

	refs := doc.Segments()
	segments := make([]*track.Segment, len(refs))
	for i, ref := range refs {
		segments[i] = ref.Segment
	}

	id := uuid.NewString()
	results, err := analyzer.Analyze(ctx, segments)
	if err != nil {
		s.log.WarnContext(ctx, "Analysis aborted", "id", id, "error", err)
		status = http.StatusServiceUnavailable
		writeError(w, status, errorResponse{ID: id, Error: "analysis aborted"})
		return
	}
	s.metrics.ObserveResults(cfg.Window, results)

	if err := failure(results); err != nil {
		status = http.StatusUnprocessableEntity
		class := track.Classify(err)
		s.log.InfoContext(ctx, "Nothing to analyze", "id", id, "class", class.String(), "error", err)
		writeError(w, status, errorResponse{ID: id, Error: err.Error(), Class: class.String()})
		return
	}

	entries := make([]export.Entry, len(results))
	for i, res := range results {
		entries[i] = export.Entry{Track: refs[i].TrackIdx, Segment: refs[i].SegIdx, Result: res}
	}
	report := export.NewReport(cfg, entries)
	report.ID = id

	s.log.InfoContext(ctx, "Analysis completed",
		"id", id,
		"request_id", middleware.GetReqID(ctx),
		"segments", len(results),
		"window", cfg.Window,
	)
	writeJSON(w, status, report)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	doc, ok := s.readDocument(w, r, &status)
	if !ok {
		return
	}

	points, tracks, segments, duration, distance := doc.Stats()
	writeJSON(w, status, statsResponse{
		Points:    points,
		Tracks:    tracks,
		Segments:  segments,
		DurationS: duration.Seconds(),
		DistanceM: distance,
	})
}

// readDocument parses the request body as GPX. On failure it writes the
// response, stores its status and returns false.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request, status *int) (*gpx.Document, bool) {
	body := http.MaxBytesReader(w, r.Body, s.maxUpload)
	defer body.Close()

	doc, err := gpx.ParseReader(body)
	if err == nil {
		return doc, true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		*status = http.StatusRequestEntityTooLarge
		writeError(w, *status, errorResponse{Error: "upload exceeds " + strconv.FormatInt(tooLarge.Limit, 10) + " bytes"})
		return nil, false
	}

	s.metrics.ParseErrors.Inc()
	s.log.InfoContext(r.Context(), "Rejected upload", "error", err)
	*status = http.StatusBadRequest
	writeError(w, *status, errorResponse{Error: "malformed GPX document"})
	return nil, false
}

// failure returns the error to report when no segment could be analyzed. A
// document without segments counts as empty data.
func failure(results []analysis.Result) error {
	if len(results) == 0 {
		return track.ErrEmptySegment
	}
	for _, res := range results {
		if res.Err == nil {
			return nil
		}
	}
	return results[0].Err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, resp errorResponse) {
	writeJSON(w, status, resp)
}
