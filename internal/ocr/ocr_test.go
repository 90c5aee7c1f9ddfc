package ocr

import (
	"context"
	"errors"
	"image/color"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"

	"github.com/aienergy/invoice-analyzer/internal/common"
)

type fakeBackend struct {
	res   *WhisperResult
	err   error
	calls int
}

func (f *fakeBackend) Whisper(_ context.Context, _ string) (*WhisperResult, error) {
	f.calls++
	return f.res, f.err
}

func testExtractor(backend WhisperBackend) *Extractor {
	e := NewExtractor(Config{}, slog.Default())
	e.backend = backend
	return e
}

// writePDF builds a small real PDF so the local fallback has something to read.
func writePDF(t *testing.T, text string) string {
	t.Helper()
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(40, 10, text)
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	return path
}

func writeJPEG(t *testing.T) string {
	t.Helper()
	img := imaging.New(120, 160, color.NRGBA{R: 240, G: 240, B: 240, A: 255})
	path := filepath.Join(t.TempDir(), "scan.jpg")
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("write jpeg: %v", err)
	}
	return path
}

func TestExtractText_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	e := testExtractor(backend)
	_, err := e.ExtractText(context.Background(), "/tmp/notes.docx")
	if !errors.Is(err, common.ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
	if backend.calls != 0 {
		t.Errorf("backend called %d times for unsupported extension", backend.calls)
	}
}

func TestExtractText_BackendResult(t *testing.T) {
	t.Parallel()

	text := "FACTURE D'ELECTRICITE"
	res := &WhisperResult{Status: "processed"}
	res.Extraction = &struct {
		ResultText *string `json:"result_text"`
	}{ResultText: &text}

	e := testExtractor(&fakeBackend{res: res})
	got, err := e.ExtractText(context.Background(), writePDF(t, "ignored"))
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != text {
		t.Errorf("text = %q, want %q", got, text)
	}
}

func TestExtractText_BackendErrorFallsBack(t *testing.T) {
	t.Parallel()

	e := testExtractor(&fakeBackend{err: errors.New("backend down")})
	got, err := e.ExtractText(context.Background(), writePDF(t, "TOTAL 150.75"))
	if err != nil {
		t.Fatalf("fallback failed: %v", err)
	}
	if !strings.Contains(got, "150.75") {
		t.Errorf("fallback text = %q, want amount preserved", got)
	}
}

func TestExtractText_MissingResultTextFallsBack(t *testing.T) {
	t.Parallel()

	e := testExtractor(&fakeBackend{res: &WhisperResult{Status: "processed"}})
	got, err := e.ExtractText(context.Background(), writePDF(t, "TOTAL 150.75"))
	if err != nil {
		t.Fatalf("fallback failed: %v", err)
	}
	if got == "" {
		t.Error("fallback returned empty text")
	}
}

func TestExtractText_FallbackFailureIsExtractionFailed(t *testing.T) {
	t.Parallel()

	notPDF := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(notPDF, []byte("not a pdf"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	e := testExtractor(&fakeBackend{err: errors.New("backend down")})
	_, err := e.ExtractText(context.Background(), notPDF)
	if !errors.Is(err, common.ErrExtractionFailed) {
		t.Fatalf("err = %v, want ErrExtractionFailed", err)
	}
}

func TestWhisperClient_RequestShape(t *testing.T) {
	t.Parallel()

	var gotKey, gotWait, gotCompletion string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("unstract-key")
		gotWait = r.URL.Query().Get("wait_timeout")
		gotCompletion = r.URL.Query().Get("wait_for_completion")
		_, _ = w.Write([]byte(`{"status": "processed", "extraction": {"result_text": "hello"}}`))
	}))
	defer srv.Close()

	c := newWhisperClient(srv.URL, "secret", 200*time.Second, slog.Default())
	res, err := c.Whisper(context.Background(), writePDF(t, "x"))
	if err != nil {
		t.Fatalf("Whisper: %v", err)
	}
	if res.Extraction == nil || res.Extraction.ResultText == nil || *res.Extraction.ResultText != "hello" {
		t.Errorf("result = %+v", res)
	}
	if gotKey != "secret" {
		t.Errorf("unstract-key = %q", gotKey)
	}
	if gotCompletion != "true" || gotWait != "200" {
		t.Errorf("wait params = %q/%q", gotCompletion, gotWait)
	}
}

func TestWhisperClient_Non2xx(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	c := newWhisperClient(srv.URL, "secret", time.Second, slog.Default())
	_, err := c.Whisper(context.Background(), writePDF(t, "x"))
	if err == nil || !strings.Contains(err.Error(), "402") {
		t.Fatalf("err = %v, want status 402 error", err)
	}
}

func TestWhisperClient_NoKey(t *testing.T) {
	t.Parallel()

	c := newWhisperClient("http://unused", "", time.Second, slog.Default())
	if _, err := c.Whisper(context.Background(), "/tmp/x.pdf"); err == nil {
		t.Fatal("expected error without API key")
	}
}

func TestImageToPDF_CleansUpTempFiles(t *testing.T) {
	t.Parallel()

	img := writeJPEG(t)
	e := NewExtractor(Config{}, slog.Default())

	pdfPath, cleanup, err := e.imageToPDF(img)
	if err != nil {
		t.Fatalf("imageToPDF: %v", err)
	}
	if _, err := os.Stat(pdfPath); err != nil {
		t.Fatalf("converted pdf missing: %v", err)
	}

	cleanup()
	if _, err := os.Stat(pdfPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("temp pdf survived cleanup: %v", err)
	}
}
