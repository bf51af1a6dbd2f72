// Package plan calls the Gemini API on the user's behalf. The API key
// stays server-side; pages only ever see the generated text.
package plan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Errors
var (
	ErrNotConfigured = errors.New("planner is not configured")
	ErrEmptyPrompt   = errors.New("must provide a destination or theme")
	ErrUpstream      = errors.New("planner service unavailable")
)

const maxPromptLength = 2000

// Config holds the Gemini integration settings
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Service is a thin client for the Gemini generateContent endpoint
type Service struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// New creates a new planner Service. An empty API key is allowed; Plan
// then fails with ErrNotConfigured rather than at startup.
func New(cfg Config, logger *slog.Logger) *Service {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	return &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Configured reports whether an API key is present, so the page can say
// up front that the planner is disabled.
func (s *Service) Configured() bool {
	return s.cfg.APIKey != ""
}

// Request/response shapes for the generateContent endpoint

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Plan asks Gemini for a fiction-themed travel itinerary and returns the
// generated text.
func (s *Service) Plan(ctx context.Context, prompt string) (string, error) {
	if !s.Configured() {
		return "", ErrNotConfigured
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyPrompt
	}
	if len(prompt) > maxPromptLength {
		prompt = prompt[:maxPromptLength]
	}

	reqBody := generateRequest{
		Contents: []content{{
			Parts: []part{{
				Text: "You are an adventure planner for fans of fiction. " +
					"Suggest a short real-world itinerary of places tied to works of fiction. " +
					"Request: " + prompt,
			}},
		}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", s.cfg.BaseURL, s.cfg.Model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// The key travels in a header, never in a rendered page or a URL
	// that could end up in logs.
	req.Header.Set("x-goog-api-key", s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("gemini request failed", slog.String("error", err.Error()))
		return "", ErrUpstream
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("gemini returned error",
			slog.Int("status", resp.StatusCode),
		)
		return "", ErrUpstream
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrUpstream
	}

	var out strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		out.WriteString(p.Text)
	}
	return out.String(), nil
}
