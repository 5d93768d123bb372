package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Service shortens URLs through the configured external service. Every
// failure path falls back to the original URL so callers never lose a link.
type Service struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// New creates a new shortener service
func New(baseURL, apiKey string) *Service {
	return &Service{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type shortenRequest struct {
	URL        string `json:"url"`
	ExpiryDays int    `json:"expiry_days"`
}

type shortenResponse struct {
	ShortenedURL string `json:"shortened_url"`
}

// Shorten returns the shortened URL and true, or the original URL and false
// when the service is not configured or the request fails.
func (s *Service) Shorten(ctx context.Context, longURL string) (string, bool) {
	if s.baseURL == "" || s.apiKey == "" {
		return longURL, false
	}

	body, err := json.Marshal(shortenRequest{URL: longURL, ExpiryDays: 365})
	if err != nil {
		return longURL, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/shorten", bytes.NewReader(body))
	if err != nil {
		return longURL, false
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Error("URL shortening request failed", "error", err)
		return longURL, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Error("URL shortening failed", "status", resp.StatusCode)
		return longURL, false
	}

	var out shortenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.ShortenedURL == "" {
		slog.Error("URL shortening returned an unusable response", "error", err)
		return longURL, false
	}

	return out.ShortenedURL, true
}
