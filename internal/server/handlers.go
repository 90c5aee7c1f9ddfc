package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aienergy/invoice-analyzer/constants"
	"github.com/aienergy/invoice-analyzer/internal/common"
)

// handleUpload accepts one document, runs the pipeline synchronously and
// returns the full stage triple. Validation failures are 400s before any
// file is written; pipeline failures are 500s and leave no artifacts.
func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file part in request"})
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no selected file"})
		return
	}
	if !constants.IsAllowedFilename(file.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file type not allowed"})
		return
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		s.logger.Error("upload.mkdir_failed", "dir", s.cfg.UploadDir, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store upload"})
		return
	}

	// uuid prefix keeps concurrent uploads of identically named files apart
	name := uuid.New().String() + "_" + filepath.Base(file.Filename)
	dst := filepath.Join(s.cfg.UploadDir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		s.logger.Error("upload.save_failed", "dst", dst, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store upload"})
		return
	}

	start := time.Now()
	full, err := s.proc.Process(c.Request.Context(), dst)
	if err != nil {
		s.logger.Error("upload.pipeline_failed", "file", name, "error", err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	s.logger.Info("upload.ok",
		"id", full.Invoice.ID,
		"file", name,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	c.JSON(http.StatusOK, full)
}

func (s *Server) handleListInvoices(c *gin.Context) {
	summaries, err := s.proc.ListInvoices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (s *Server) handleGetInvoice(c *gin.Context) {
	inv, err := s.proc.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (s *Server) handleGetAnalysis(c *gin.Context) {
	an, err := s.proc.GetAnalysis(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, an)
}

func (s *Server) handleGetRecommendations(c *gin.Context) {
	rec, err := s.proc.GetRecommendations(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleGetFullResult(c *gin.Context) {
	full, err := s.proc.GetFullResult(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, full)
}

func (s *Server) handleListFullResults(c *gin.Context) {
	results, err := s.proc.ListFullResults(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) handleReport(c *gin.Context) {
	data, err := s.export.ExportInvoicesXLSX(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="invoices_report.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// statusFor maps pipeline error kinds onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrUnsupportedFormat), errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
