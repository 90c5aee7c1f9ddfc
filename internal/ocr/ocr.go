package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aienergy/invoice-analyzer/constants"
	"github.com/aienergy/invoice-analyzer/internal/common"
)

type Config struct {
	BaseURL     string        // extraction backend base URL
	APIKey      string        // extraction backend key; empty disables the primary path
	WaitTimeout time.Duration // bounded wait for synchronous backend completion
	TempDir     string        // scratch dir for converted PDFs; "" = system temp

	// Enhancement applied to images before PDF conversion, in percent.
	Brightness float64
	Contrast   float64
	Sharpness  float64
}

// Extractor converts an input document (image or PDF) into plain text.
// The primary path is a remote whisper-style backend tuned for PDFs; a
// local, lower-accuracy PDF text extractor covers backend failures.
type Extractor struct {
	cfg     Config
	backend WhisperBackend
	logger  *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = 200 * time.Second
	}
	if cfg.Brightness == 0 {
		cfg.Brightness = 20
	}
	if cfg.Contrast == 0 {
		cfg.Contrast = 50
	}
	if cfg.Sharpness == 0 {
		cfg.Sharpness = 50
	}
	return &Extractor{
		cfg:     cfg,
		backend: newWhisperClient(cfg.BaseURL, cfg.APIKey, cfg.WaitTimeout, logger),
		logger:  logger,
	}
}

// ExtractText picks a strategy based on file extension. Unrecognized
// extensions fail before any I/O. Images are normalized into a single-page
// PDF first because the primary backend's accuracy is tuned for PDF input.
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	start := time.Now()
	e.logger.Debug("ocr.extract.start", "path", path, "ext", ext)

	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		text, err := e.extractPDF(ctx, path)
		if err != nil {
			return "", err
		}
		e.logger.Info("ocr.extract.ok", "path", path, "bytes", len(text), "elapsed_ms", time.Since(start).Milliseconds())
		return text, nil
	case constants.IMAGE:
		pdfPath, cleanup, err := e.imageToPDF(path)
		if err != nil {
			return "", fmt.Errorf("normalize image: %w: %w", common.ErrExtractionFailed, err)
		}
		defer cleanup()
		text, err := e.extractPDF(ctx, pdfPath)
		if err != nil {
			return "", err
		}
		e.logger.Info("ocr.extract.ok", "path", path, "bytes", len(text), "elapsed_ms", time.Since(start).Milliseconds())
		return text, nil
	default:
		e.logger.Error("ocr.unsupported_extension", "ext", ext, "path", path)
		return "", fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, ext)
	}
}

// extractPDF tries the remote backend first and falls back to local page
// text extraction when the backend errors out or returns no text field.
// A fallback failure is fatal; there is nothing further to try.
func (e *Extractor) extractPDF(ctx context.Context, path string) (string, error) {
	res, err := e.backend.Whisper(ctx, path)
	if err != nil {
		e.logger.Warn("ocr.backend.failed_falling_back", "path", path, "error", err)
		return e.localPDFText(path)
	}
	if res.Extraction == nil || res.Extraction.ResultText == nil {
		e.logger.Warn("ocr.backend.missing_result_text_falling_back", "path", path)
		return e.localPDFText(path)
	}
	return *res.Extraction.ResultText, nil
}

func (e *Extractor) localPDFText(path string) (string, error) {
	text, err := pdfPageText(path)
	if err != nil {
		e.logger.Error("ocr.fallback.failed", "path", path, "error", err)
		return "", fmt.Errorf("%w: fallback: %w", common.ErrExtractionFailed, err)
	}
	return text, nil
}
