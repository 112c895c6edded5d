package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/combcal/combcal/internal/combine"
	"github.com/combcal/combcal/internal/config"
	"github.com/combcal/combcal/internal/utils"
)

// Server exposes the combined calendar feed over HTTP. It is a thin
// adapter: it turns the request into a source selection, hands the
// core the configured source descriptors, and writes back either the
// serialized calendar or a plain-text error.
type Server struct {
	cfg     config.Application
	fetcher combine.SourceFetcher
	clock   utils.Clock
	router  *mux.Router
}

// NewServer constructs the HTTP server around the given fetcher and
// clock.
func NewServer(cfg config.Application, fetcher combine.SourceFetcher, clock utils.Clock) *Server {
	s := &Server{
		cfg:     cfg,
		fetcher: fetcher,
		clock:   clock,
		router:  mux.NewRouter(),
	}
	s.router.Use(requestLogging)
	s.router.HandleFunc("/calendar", s.handleCalendar).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	return s
}

// Handler returns the router for mounting into an http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleCalendar serves the combined feed. Optional show / hide query
// parameters carry comma-separated source ids; supplying both is a
// client error.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	req := combine.Request{
		Show: splitList(r.URL.Query().Get("show")),
		Hide: splitList(r.URL.Query().Get("hide")),
	}
	opts := combine.Options{
		Sources:     s.cfg.Calendar.ModelSources(),
		Name:        s.cfg.Calendar.Name,
		DaysHistory: s.cfg.Calendar.DaysHistory,
	}

	body, err := combine.Combine(r.Context(), s.fetcher, s.clock, opts, req)
	if err != nil {
		status := http.StatusInternalServerError
		var cerr *combine.Error
		if errors.As(err, &cerr) {
			status = cerr.HTTPStatus()
		}
		log.WithError(err).WithField("status", status).Warn("combine request failed")
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// splitList parses a comma-separated id list. An absent or empty
// parameter yields nil, which the core reads as "no restriction".
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Debug("request handled")
	})
}
