package parser

import (
	"log/slog"
	"sync"

	"github.com/ccollicutt/babylog/pkg/record"
)

// Option configures a parse pass.
type Option func(*options)

type options struct {
	workers int
	logger  *slog.Logger
}

// WithWorkers parses day-blocks on n goroutines. Output order is always the
// source order. Values below 1 mean sequential parsing.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger sets the logger that receives a warning per defect.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Parse converts a whole log document into record sets. Malformed blocks and
// lines are skipped and reported in Result.Defects; a *ParseError is returned
// only when no day-block is recognized.
func Parse(raw string, opts ...Option) (*Result, error) {
	o := options{workers: 1, logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	var blocks []block
	for _, b := range splitBlocks(Normalize(raw)) {
		if !b.blank() {
			blocks = append(blocks, b)
		}
	}

	results := parseBlocks(blocks, o.workers)

	res := &Result{}
	for _, br := range results {
		res.Defects = append(res.Defects, br.defects...)
		if !br.ok {
			continue
		}
		res.Days++
		res.Events = append(res.Events, br.events...)
		res.Summaries = append(res.Summaries, br.summary)
		res.Growth = append(res.Growth, br.growth...)
	}

	for _, d := range res.Defects {
		o.logger.Warn("skipped input",
			"kind", d.Kind,
			"line", d.Line,
			"date", d.Date,
			"reason", d.Reason,
		)
	}

	if res.Days == 0 {
		return nil, &ParseError{Candidates: len(blocks), Defects: res.Defects}
	}

	if res.Events == nil {
		res.Events = []record.Event{}
	}
	if res.Growth == nil {
		res.Growth = []record.GrowthRecord{}
	}
	return res, nil
}

// parseBlocks parses every block and returns results indexed by block
// position.
func parseBlocks(blocks []block, workers int) []blockResult {
	results := make([]blockResult, len(blocks))

	if workers <= 1 || len(blocks) < 2 {
		for i, b := range blocks {
			results[i] = parseBlock(b)
		}
		return results
	}

	if workers > len(blocks) {
		workers = len(blocks)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = parseBlock(blocks[i])
			}
		}()
	}
	for i := range blocks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
