package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// WhisperResult is the backend's completion payload. The recognized-text
// field may legitimately be absent; callers treat that as recoverable.
type WhisperResult struct {
	Status     string `json:"status"`
	Extraction *struct {
		ResultText *string `json:"result_text"`
	} `json:"extraction"`
}

// WhisperBackend lets tests stub the remote extraction service.
type WhisperBackend interface {
	Whisper(ctx context.Context, pdfPath string) (*WhisperResult, error)
}

type whisperClient struct {
	baseURL string
	apiKey  string
	wait    time.Duration
	http    *http.Client
	logger  *slog.Logger
}

func newWhisperClient(baseURL, apiKey string, wait time.Duration, logger *slog.Logger) *whisperClient {
	return &whisperClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		wait:    wait,
		// allow a little transport slack beyond the backend-side wait
		http:   &http.Client{Timeout: wait + 30*time.Second},
		logger: logger,
	}
}

// Whisper submits a PDF and blocks until the backend completes or the
// bounded wait expires server-side.
func (c *whisperClient) Whisper(ctx context.Context, pdfPath string) (*WhisperResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("whisperer: no API key configured")
	}

	doc, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	q := url.Values{}
	q.Set("mode", "form")
	q.Set("output_mode", "layout_preserving")
	q.Set("wait_for_completion", "true")
	q.Set("wait_timeout", strconv.Itoa(int(c.wait.Seconds())))
	endpoint := c.baseURL + "/whisper?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("build whisper request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("unstract-key", c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper call: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	c.logger.Debug("ocr.whisper.response",
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("whisper status %d: %s", resp.StatusCode, truncate(string(raw), 512))
	}

	var res WhisperResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode whisper response: %w", err)
	}
	return &res, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
