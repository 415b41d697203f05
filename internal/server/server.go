// Package server exposes parsing and analysis over an HTTP JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ccollicutt/babylog/pkg/analyzer"
	"github.com/ccollicutt/babylog/pkg/output"
	"github.com/ccollicutt/babylog/pkg/parser"
	"github.com/ccollicutt/babylog/pkg/store"
)

// shutdownTimeout bounds graceful shutdown in Run.
const shutdownTimeout = 10 * time.Second

// Server serves the API. The most recent analysis is cached and shared by
// the /api/analysis endpoints until the next parse replaces the records.
type Server struct {
	store        store.Store
	input        string
	corsOrigins  []string
	parseOpts    []parser.Option
	analyzerOpts []analyzer.Option
	logger       *slog.Logger

	mu       sync.RWMutex
	analysis *analysis
}

// analysis is one cached analyzer run.
type analysis struct {
	result  *analyzer.Result
	report  *output.Report
	defects int
}

// Option configures a Server.
type Option func(*Server)

// WithInput sets the log file parsed when a request names none.
func WithInput(path string) Option {
	return func(s *Server) {
		s.input = path
	}
}

// WithCORSOrigins sets the allowed CORS origins. "*" allows any origin.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// WithParserOptions passes options to every parse.
func WithParserOptions(opts ...parser.Option) Option {
	return func(s *Server) {
		s.parseOpts = append(s.parseOpts, opts...)
	}
}

// WithAnalyzerOptions passes options to every analysis.
func WithAnalyzerOptions(opts ...analyzer.Option) Option {
	return func(s *Server) {
		s.analyzerOpts = append(s.analyzerOpts, opts...)
	}
}

// WithLogger sets the request and error logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a server backed by st.
func New(st store.Store, opts ...Option) *Server {
	s := &Server{
		store:       st,
		corsOrigins: []string{"*"},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the gin engine with every route registered.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	r.Use(cors.New(s.corsConfig()))

	api := r.Group("/api")
	{
		api.GET("/health", s.handleHealth)
		api.POST("/parse", s.handleParse)
		api.GET("/analyze", s.handleAnalyze)
		api.POST("/process", s.handleProcess)

		api.GET("/events", s.handleEvents)
		api.GET("/summary/daily", s.handleDailySummary)
		api.GET("/growth", s.handleGrowth)
		api.GET("/data/csv/:filename", s.handleCSV)
	}

	analysis := api.Group("/analysis")
	{
		analysis.GET("/vomit-correlation", s.handleVomitCorrelation)
		analysis.GET("/sleep-patterns", s.handleSleepPatterns)
		analysis.GET("/feeding-patterns", s.handleFeedingPatterns)
		analysis.GET("/comprehensive", s.handleComprehensive)
	}

	return r
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range s.corsOrigins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = s.corsOrigins
	return cfg
}

// requestLogger logs one line per request through slog.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// cached returns the cached analysis, if any.
func (s *Server) cached() *analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analysis
}

func (s *Server) setCached(a *analysis) {
	s.mu.Lock()
	s.analysis = a
	s.mu.Unlock()
}

// analyze loads the stored records, analyzes them and refreshes the cache.
func (s *Server) analyze(ctx context.Context, source string, defects int) (*analysis, error) {
	set, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	result := analyzer.Analyze(set, s.analyzerOpts...)
	report := output.NewReport(result, source)
	report.Metadata.Defects = defects

	a := &analysis{result: result, report: report, defects: defects}
	s.setCached(a)
	return a, nil
}

// current returns the cached analysis, computing it from the store on a miss.
func (s *Server) current(ctx context.Context) (*analysis, error) {
	if a := s.cached(); a != nil {
		return a, nil
	}
	return s.analyze(ctx, "store", 0)
}
