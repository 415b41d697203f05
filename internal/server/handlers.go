package server

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ccollicutt/babylog/pkg/parser"
	"github.com/ccollicutt/babylog/pkg/record"
	"github.com/ccollicutt/babylog/pkg/store"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ListResponse is the envelope of record listings.
type ListResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Data   any    `json:"data"`
}

// ParseRequest selects what POST /api/parse and /api/process read. Content
// wins over FilePath; with neither, the configured input file is used.
type ParseRequest struct {
	FilePath string `json:"file_path"`
	Content  string `json:"content"`
}

// ParseSummary reports the size of a parsed record set.
type ParseSummary struct {
	Events        int `json:"events_count"`
	Days          int `json:"days_count"`
	GrowthRecords int `json:"growth_records"`
	Defects       int `json:"defects"`
}

var (
	errBadRequest = errors.New("bad request")
	errNoInput    = fmt.Errorf("%w: no file_path or content given and no default input configured", errBadRequest)
)

func (s *Server) fail(c *gin.Context, status int, msg string, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error(msg, "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, Response{Status: "error", Message: fmt.Sprintf("%s: %v", msg, err)})
}

// failFor picks a status code from the error kind.
func (s *Server) failFor(c *gin.Context, msg string, err error) {
	var pe *parser.ParseError
	switch {
	case errors.Is(err, errBadRequest):
		s.fail(c, http.StatusBadRequest, msg, err)
	case errors.As(err, &pe):
		s.fail(c, http.StatusUnprocessableEntity, msg, err)
	case errors.Is(err, store.ErrEmpty), errors.Is(err, fs.ErrNotExist):
		s.fail(c, http.StatusNotFound, msg, err)
	default:
		s.fail(c, http.StatusInternalServerError, msg, err)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// parseAndSave parses the requested source and replaces the stored records.
func (s *Server) parseAndSave(c *gin.Context) (*parser.Result, string, error) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		return nil, "", fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}

	ctx := c.Request.Context()
	var (
		res    *parser.Result
		source string
		err    error
	)
	switch {
	case req.Content != "":
		source = "request"
		res, err = parser.Parse(req.Content, s.parseOpts...)
	case req.FilePath != "" || s.input != "":
		source = req.FilePath
		if source == "" {
			source = s.input
		}
		res, err = parser.ParseFile(ctx, source, s.parseOpts...)
	default:
		return nil, "", errNoInput
	}
	if err != nil {
		return nil, "", err
	}

	if err := s.store.Save(ctx, res.Set); err != nil {
		return nil, "", fmt.Errorf("saving records: %w", err)
	}
	s.setCached(nil)
	return res, source, nil
}

func summarize(res *parser.Result) ParseSummary {
	return ParseSummary{
		Events:        len(res.Events),
		Days:          len(res.Summaries),
		GrowthRecords: len(res.Growth),
		Defects:       len(res.Defects),
	}
}

func (s *Server) handleParse(c *gin.Context) {
	res, _, err := s.parseAndSave(c)
	if err != nil {
		s.failFor(c, "parse failed", err)
		return
	}
	c.JSON(http.StatusOK, Response{
		Status:  "success",
		Message: "parse complete",
		Data:    summarize(res),
	})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	a, err := s.analyze(c.Request.Context(), "store", 0)
	if err != nil {
		s.failFor(c, "analysis failed", err)
		return
	}
	c.JSON(http.StatusOK, Response{Status: "success", Message: "analysis complete", Data: a.report})
}

func (s *Server) handleProcess(c *gin.Context) {
	res, source, err := s.parseAndSave(c)
	if err != nil {
		s.failFor(c, "processing failed", err)
		return
	}
	a, err := s.analyze(c.Request.Context(), source, len(res.Defects))
	if err != nil {
		s.failFor(c, "processing failed", err)
		return
	}
	c.JSON(http.StatusOK, Response{
		Status:  "success",
		Message: "processing complete",
		Data: struct {
			ParseSummary
			Analysis any `json:"analysis"`
		}{summarize(res), a.report},
	})
}

// dateRange reads optional start_date and end_date query parameters.
func dateRange(c *gin.Context) (start, end time.Time, err error) {
	if v := c.Query("start_date"); v != "" {
		if start, err = time.Parse(record.DateLayout, v); err != nil {
			return start, end, fmt.Errorf("start_date: %w", err)
		}
	}
	if v := c.Query("end_date"); v != "" {
		if end, err = time.Parse(record.DateLayout, v); err != nil {
			return start, end, fmt.Errorf("end_date: %w", err)
		}
	}
	return start, end, nil
}

func inRange(d, start, end time.Time) bool {
	if !start.IsZero() && d.Before(start) {
		return false
	}
	if !end.IsZero() && d.After(end) {
		return false
	}
	return true
}

func (s *Server) handleEvents(c *gin.Context) {
	var category record.Category
	if v := c.Query("category"); v != "" {
		var err error
		if category, err = record.ParseCategory(v); err != nil {
			s.fail(c, http.StatusBadRequest, "invalid query", err)
			return
		}
	}
	start, end, err := dateRange(c)
	if err != nil {
		s.fail(c, http.StatusBadRequest, "invalid query", err)
		return
	}

	set, err := s.store.Load(c.Request.Context())
	if err != nil {
		s.failFor(c, "loading events failed", err)
		return
	}

	events := []record.Event{}
	for _, ev := range set.Events {
		if category != "" && ev.Category != category {
			continue
		}
		if inRange(ev.Date, start, end) {
			events = append(events, ev)
		}
	}
	c.JSON(http.StatusOK, ListResponse{Status: "success", Count: len(events), Data: events})
}

func (s *Server) handleDailySummary(c *gin.Context) {
	start, end, err := dateRange(c)
	if err != nil {
		s.fail(c, http.StatusBadRequest, "invalid query", err)
		return
	}

	set, err := s.store.Load(c.Request.Context())
	if err != nil {
		s.failFor(c, "loading daily summaries failed", err)
		return
	}

	days := []record.DailySummary{}
	for _, d := range set.Summaries {
		if inRange(d.Date, start, end) {
			days = append(days, d)
		}
	}
	c.JSON(http.StatusOK, ListResponse{Status: "success", Count: len(days), Data: days})
}

func (s *Server) handleGrowth(c *gin.Context) {
	typ := record.GrowthType(c.Query("type"))
	switch typ {
	case "", record.GrowthWeight, record.GrowthHeight, record.GrowthTemperature:
	default:
		s.fail(c, http.StatusBadRequest, "invalid query", fmt.Errorf("unknown growth type %q", typ))
		return
	}

	set, err := s.store.Load(c.Request.Context())
	if err != nil {
		s.failFor(c, "loading growth records failed", err)
		return
	}

	growth := []record.GrowthRecord{}
	for _, g := range set.Growth {
		if typ == "" || g.Type == typ {
			growth = append(growth, g)
		}
	}
	c.JSON(http.StatusOK, ListResponse{Status: "success", Count: len(growth), Data: growth})
}

func (s *Server) handleCSV(c *gin.Context) {
	name := c.Param("filename")
	if !slices.Contains(store.Files, name) {
		s.fail(c, http.StatusBadRequest, "invalid file name", fmt.Errorf("%q is not one of %v", name, store.Files))
		return
	}

	set, err := s.store.Load(c.Request.Context())
	if err != nil {
		s.failFor(c, "loading records failed", err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Status(http.StatusOK)
	if err := store.WriteCSV(c.Writer, name, set); err != nil {
		s.logger.Error("writing csv", "file", name, "error", err)
	}
}

// serveAnalysis replies with one section of the current analysis.
func (s *Server) serveAnalysis(c *gin.Context, section func(*analysis) any) {
	a, err := s.current(c.Request.Context())
	if err != nil {
		s.failFor(c, "analysis unavailable", err)
		return
	}
	c.JSON(http.StatusOK, Response{Status: "success", Data: section(a)})
}

func (s *Server) handleVomitCorrelation(c *gin.Context) {
	s.serveAnalysis(c, func(a *analysis) any { return a.result.VomitCorrelation })
}

func (s *Server) handleSleepPatterns(c *gin.Context) {
	s.serveAnalysis(c, func(a *analysis) any { return a.result.SleepPatterns })
}

func (s *Server) handleFeedingPatterns(c *gin.Context) {
	s.serveAnalysis(c, func(a *analysis) any { return a.result.FeedingPatterns })
}

func (s *Server) handleComprehensive(c *gin.Context) {
	s.serveAnalysis(c, func(a *analysis) any { return a.report })
}
