// Package server implements the streamlytics dashboard HTTP API.
//
// The server exposes listening-history analytics as JSON and accepts
// poster generation requests; finished posters are served from the
// output directory. Routing uses chi, responses are plain encoding/json.
package server

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/streamlytics/streamlytics/pkg/buildinfo"
	"github.com/streamlytics/streamlytics/pkg/errors"
	"github.com/streamlytics/streamlytics/pkg/history"
	"github.com/streamlytics/streamlytics/pkg/poster"
)

// Server serves the dashboard API.
type Server struct {
	store     history.Store
	outputDir string
	logger    *log.Logger
	router    chi.Router
}

// New creates a Server backed by the given history store. Generated
// posters land in outputDir and are served under /outputs/.
func New(store history.Store, outputDir string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		store:     store,
		outputDir: outputDir,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/stats/top-artists", s.handleTopArtists)
		r.Get("/stats/top-tracks", s.handleTopTracks)
		r.Get("/stats/listening-clock", s.handleListeningClock)
		r.Post("/posters", s.handleCreatePoster)
	})
	r.Handle("/outputs/*", http.StripPrefix("/outputs/",
		http.FileServer(http.Dir(outputDir))))

	s.router = r
	return s
}

// Handler returns the HTTP handler for mounting or serving.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server on addr until it fails.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Infof("Dashboard listening on %s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleTopArtists(w http.ResponseWriter, r *http.Request) {
	s.handleRanking(w, r, history.TopArtists)
}

func (s *Server) handleTopTracks(w http.ResponseWriter, r *http.Request) {
	s.handleRanking(w, r, history.TopTracks)
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request, rank func([]history.Record, int) []history.Count) {
	records, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	limit := intQuery(r, "limit", 10)
	counts := rank(records, limit)
	if counts == nil {
		counts = []history.Count{}
	}
	writeJSON(w, http.StatusOK, counts)
}

func (s *Server) handleListeningClock(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	clock := history.ListeningClock(records)
	writeJSON(w, http.StatusOK, clock[:])
}

// posterRequest is the body of POST /api/posters.
type posterRequest struct {
	Mode     string `json:"mode"` // grid, billboard, collage, or textfill
	Folder   string `json:"folder"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Text     string `json:"text"` // textfill only
	Columns  int    `json:"columns"`
	Effect   string `json:"effect"`
}

// posterResponse names the generated file and its URL path.
type posterResponse struct {
	File string `json:"file"`
	URL  string `json:"url"`
}

func (s *Server) handleCreatePoster(w http.ResponseWriter, r *http.Request) {
	var req posterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode poster request"))
		return
	}
	if req.Folder == "" {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "poster request needs a folder"))
		return
	}

	name := req.Mode + "_" + uuid.NewString() + ".jpg"
	outPath := filepath.Join(s.outputDir, name)

	var err error
	switch req.Mode {
	case "grid":
		cfg := poster.DefaultConfig()
		cfg.Title = req.Title
		cfg.Subtitle = req.Subtitle
		cfg.Columns = req.Columns
		_, err = poster.Grid(req.Folder, outPath, cfg)
	case "billboard":
		cfg := poster.DefaultBillboardConfig()
		cfg.Title = req.Title
		cfg.Subtitle = req.Subtitle
		if req.Effect != "" {
			cfg.Effect = poster.Effect(req.Effect)
		}
		_, err = poster.Billboard(req.Folder, outPath, cfg)
	case "collage":
		_, err = poster.Collage(req.Folder, outPath, poster.DefaultConfig())
	case "textfill":
		cfg := poster.DefaultTextFillConfig()
		cfg.Text = req.Text
		_, err = poster.TextFill(req.Folder, outPath, cfg)
	default:
		err = errors.New(errors.ErrCodeInvalidInput, "unknown poster mode %q", req.Mode)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Infof("Generated %s", name)
	writeJSON(w, http.StatusCreated, posterResponse{
		File: name,
		URL:  "/outputs/" + name,
	})
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps structured error codes to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeNoImages,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidColor,
		errors.ErrCodeFontNotFound, errors.ErrCodeInsufficientSpace,
		errors.ErrCodeImageDecode:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case errors.ErrCodeRateLimited:
		status = http.StatusTooManyRequests
	}

	if status == http.StatusInternalServerError {
		s.logger.Errorf("Request failed: %v", err)
	}
	writeJSON(w, status, errorResponse{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func intQuery(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
