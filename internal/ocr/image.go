package ocr

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
)

// A4 content box in mm after a 10mm margin on every side.
const (
	pageContentW = 190.0
	pageContentH = 277.0
	pageMargin   = 10.0
)

// imageToPDF enhances a scanned image for OCR legibility and wraps it in a
// single-page PDF. The returned cleanup removes every temp file; callers
// must invoke it on all paths.
func (e *Extractor) imageToPDF(src string) (string, func(), error) {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", nil, fmt.Errorf("open image: %w", err)
	}

	img = imaging.AdjustBrightness(img, e.cfg.Brightness)
	img = imaging.AdjustContrast(img, e.cfg.Contrast)
	img = imaging.Sharpen(img, e.cfg.Sharpness/50)

	tmpDir, err := os.MkdirTemp(e.cfg.TempDir, "ocr-convert-")
	if err != nil {
		return "", nil, fmt.Errorf("temp dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(tmpDir) }

	enhanced := filepath.Join(tmpDir, "enhanced.jpg")
	if err := imaging.Save(img, enhanced, imaging.JPEGQuality(95)); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("save enhanced image: %w", err)
	}

	out := filepath.Join(tmpDir, "converted.pdf")
	if err := writeImagePDF(enhanced, img.Bounds().Dx(), img.Bounds().Dy(), out); err != nil {
		cleanup()
		return "", nil, err
	}

	e.logger.Debug("ocr.image.converted", "src", src, "pdf", out)
	return out, cleanup, nil
}

// writeImagePDF places the image on an A4 page, aspect-fit and centered.
func writeImagePDF(imgPath string, pxW, pxH int, out string) error {
	w, h := fitBox(float64(pxW), float64(pxH), pageContentW, pageContentH)
	x := pageMargin + (pageContentW-w)/2
	y := pageMargin + (pageContentH-h)/2

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.ImageOptions(imgPath, x, y, w, h, false, gofpdf.ImageOptions{ImageType: "JPG"}, 0, "")
	if err := pdf.OutputFileAndClose(out); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// fitBox scales (w,h) down (or up) to the largest size fitting (maxW,maxH)
// while preserving aspect ratio.
func fitBox(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	scale := maxW / w
	if s := maxH / h; s < scale {
		scale = s
	}
	return w * scale, h * scale
}
