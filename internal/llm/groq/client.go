package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aienergy/invoice-analyzer/internal/llm"
)

// Complete implements llm.ChatClient over the chat/completions endpoint.
func (c *Client) Complete(ctx context.Context, req llm.ChatRequest) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("groq.complete.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", req.Temperature,
		"prompt_len", len(req.User),
	)

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": req.Temperature,
		"messages": []map[string]string{
			{"role": "system", "content": req.System},
			{"role": "user", "content": req.User},
		},
	}
	if req.MaxTokens > 0 {
		body["max_tokens"] = req.MaxTokens
	}

	raw, status, err := c.postJSON(ctx, rid, "/chat/completions", body)
	if err != nil {
		c.logger.Error("groq.complete.http_error",
			"req_id", rid, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("groq completion: %w", err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("groq.complete.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("decode groq response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("groq.complete.no_choices",
			"req_id", rid, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("no choices in groq response")
	}

	content := strings.TrimSpace(cc.Choices[0].Message.Content)
	c.logger.Info("groq.complete.ok",
		"req_id", rid,
		"content_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

// postJSON posts a JSON body to an API path with bearer auth and returns the
// raw response. Non-2xx responses return the body alongside the error so the
// caller can log the backend's message.
func (c *Client) postJSON(ctx context.Context, rid, path string, body any) ([]byte, int, error) {
	bs, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("encode request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bs))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	c.logger.Debug("groq.http.request", "req_id", rid, "url", url, "content_length", len(bs))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	c.logger.Debug("groq.http.response", "req_id", rid, "status", resp.StatusCode, "bytes", len(raw))

	if resp.StatusCode/100 != 2 {
		return raw, resp.StatusCode, fmt.Errorf("non-2xx status: %d", resp.StatusCode)
	}
	return raw, resp.StatusCode, nil
}

var _ llm.ChatClient = (*Client)(nil)
