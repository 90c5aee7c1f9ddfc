package groq

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aienergy/invoice-analyzer/internal/common"
)

// Config for the Groq client. The API is OpenAI-compatible chat/completions.
type Config struct {
	APIKey  string
	BaseURL string        // default https://api.groq.com/openai/v1
	Model   string        // e.g. "llama3-70b-8192"
	Timeout time.Duration // http client timeout; bounds every generation call
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient builds a client. It is fail-closed: a missing API key is an
// error here, never a silently-functioning default credential.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, common.WrapError(common.ErrBackendUnavailable, "groq: no API key configured")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3-70b-8192"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}, nil
}
