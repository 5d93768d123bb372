package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	statsService "github.com/mraprguild/guardbot/internal/modules/stats/service"
	"github.com/mraprguild/guardbot/internal/shared/config"
	sloghttp "github.com/samber/slog-http"
)

// Server exposes the read-only dashboard endpoints
type Server struct {
	cfg    *config.Config
	stats  *statsService.Service
	logger *slog.Logger
}

// New creates a new HTTP server
func New(cfg *config.Config, stats *statsService.Service) *Server {
	return &Server{
		cfg:    cfg,
		stats:  stats,
		logger: slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Start starts the HTTP server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /feed", s.handleFeed)
	mux.HandleFunc("GET /", s.handleRoot)

	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("Dashboard server starting", "addr", addr)

	// Use slog-http middleware with recovery
	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.stats.GetStats()); err != nil {
		s.logger.Error("Error encoding stats", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.stats.GetHealth()

	w.Header().Set("Content-Type", "application/json")
	if !health.StorageReachable {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(health); err != nil {
		s.logger.Error("Error encoding health", "error", err)
	}
}

// handleFeed renders the recent block events as an RSS audit feed for admins
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	events, err := s.stats.RecentEvents(50)
	if err != nil {
		s.logger.Error("Error loading block events", "error", err)
		http.Error(w, "Failed to load events", http.StatusInternalServerError)
		return
	}

	baseURL := fmt.Sprintf("%s://%s", getScheme(r), r.Host)
	feed := &feeds.Feed{
		Title:       "Moderation activity",
		Link:        &feeds.Link{Href: baseURL + "/feed"},
		Description: "Recently blocked messages across managed channels",
		Updated:     time.Now(),
	}

	for _, e := range events {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          e.ID,
			Title:       fmt.Sprintf("Blocked message in channel %d", e.ChannelID),
			Link:        &feeds.Link{Href: baseURL + "/stats"},
			Description: fmt.Sprintf("Rule %q matched", e.Pattern),
			Created:     e.At,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		s.logger.Error("Error converting feed to RSS", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write([]byte(rss))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	html := `<!DOCTYPE html>
<html>
<head>
    <title>Guard Bot</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .info { background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0; }
        code { background: #e8e8e8; padding: 2px 6px; border-radius: 3px; }
    </style>
</head>
<body>
    <h1>Guard Bot</h1>
    <div class="info">
        <p>Moderation and channel administration bot.</p>
        <p>Endpoints: <code>/stats</code>, <code>/health</code>, <code>/feed</code></p>
    </div>
    <p><a href="/health">Health Check</a></p>
</body>
</html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
