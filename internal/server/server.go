// Package server exposes the pipeline over HTTP.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aienergy/invoice-analyzer/internal/common"
	"github.com/aienergy/invoice-analyzer/internal/export"
	"github.com/aienergy/invoice-analyzer/internal/pipeline"
)

type Server struct {
	cfg    common.ServerConfig
	proc   *pipeline.Processor
	export *export.Service
	logger *slog.Logger
}

func NewServer(cfg common.ServerConfig, proc *pipeline.Processor, exp *export.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, proc: proc, export: exp, logger: logger}
}

// Router builds the gin engine with all routes mounted. Uploads are
// processed synchronously; the response carries the full stage triple.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog(), corsMiddleware())
	r.MaxMultipartMemory = s.cfg.MaxUploadMB << 20

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/upload", s.handleUpload)
		api.GET("/invoices", s.handleListInvoices)
		api.GET("/invoices/:id", s.handleGetInvoice)
		api.GET("/analysis/:id", s.handleGetAnalysis)
		api.GET("/recommendations/:id", s.handleGetRecommendations)
		api.GET("/invoice_full/:id", s.handleGetFullResult)
		api.GET("/invoices_all", s.handleListFullResults)
		api.GET("/report", s.handleReport)
	}
	return r
}

func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.Router(),
	}
	s.logger.Info("server.listen", "addr", s.cfg.HTTPAddr)
	return srv.ListenAndServe()
}

// HTTPServer returns a configured http.Server so callers control shutdown.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:    s.cfg.HTTPAddr,
		Handler: s.Router(),
	}
}
