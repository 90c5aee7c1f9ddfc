package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	OCR    OCRConfig
	LLM    LLMConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr    string
	UploadDir   string
	MaxUploadMB int64
}

// StoreConfig holds result-store configuration
type StoreConfig struct {
	DataDir string
}

// OCRConfig holds text-extraction configuration
type OCRConfig struct {
	WhispererBaseURL string
	WhispererAPIKey  string
	WaitTimeout      time.Duration
	TempDir          string

	// Image enhancement applied before image->PDF conversion.
	// Percent deltas relative to the source image.
	Brightness float64
	Contrast   float64
	Sharpness  float64
}

// LLMConfig holds generation-backend configuration
type LLMConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:    getEnv("HTTP_ADDR", ":5000"),
			UploadDir:   getEnv("UPLOAD_DIR", "./static/uploads"),
			MaxUploadMB: int64(getEnvAsInt("MAX_UPLOAD_MB", 16)),
		},
		Store: StoreConfig{
			DataDir: getEnv("DATA_DIR", "./static/data"),
		},
		OCR: OCRConfig{
			WhispererBaseURL: getEnv("LLMWHISPERER_BASE_URL", "https://llmwhisperer-api.us-central.unstract.com/api/v2"),
			WhispererAPIKey:  getEnv("LLMWHISPERER_API_KEY", ""),
			WaitTimeout:      getEnvAsDuration("LLMWHISPERER_WAIT_TIMEOUT", 200*time.Second),
			TempDir:          getEnv("OCR_TEMP_DIR", ""),
			Brightness:       getEnvAsFloat("OCR_ENHANCE_BRIGHTNESS", 20),
			Contrast:         getEnvAsFloat("OCR_ENHANCE_CONTRAST", 50),
			Sharpness:        getEnvAsFloat("OCR_ENHANCE_SHARPNESS", 50),
		},
		LLM: LLMConfig{
			BaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			APIKey:  getEnv("GROQ_API_KEY", ""),
			Model:   getEnv("GROQ_MODEL", "llama3-70b-8192"),
			Timeout: getEnvAsDuration("GROQ_TIMEOUT", 90*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration. Credentials are fail-closed:
// a missing generation key is a startup error, never a baked-in default.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "GROQ_API_KEY is required", ErrBackendUnavailable)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	if c.Store.DataDir == "" {
		return NewAppError("CONFIG_ERROR", "DATA_DIR is required", ErrInvalidInput)
	}
	return nil
}
