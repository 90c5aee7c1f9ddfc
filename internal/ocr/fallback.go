package ocr

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfPageText extracts plain text from a PDF page by page. It is the local
// fallback when the remote backend is unreachable; layout fidelity is lower
// but the field names and amounts survive.
func pdfPageText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		if s := strings.TrimSpace(text); s != "" {
			pages = append(pages, s)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}
