package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"trustlens/internal/model"
)

// Analyzer runs a full document analysis for one source (file path or URL)
type Analyzer interface {
	Analyze(ctx context.Context, source string) (*model.DocumentReport, error)
}

// AnalyzeJob analyzes one source
type AnalyzeJob struct {
	Source   string
	Analyzer Analyzer
}

// Execute runs the analysis
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	report, err := j.Analyzer.Analyze(ctx, j.Source)
	return &AnalyzeResult{
		Source: j.Source,
		Report: report,
		Err:    err,
	}
}

// AnalyzeResult is the outcome of one source analysis
type AnalyzeResult struct {
	Source string
	Report *model.DocumentReport
	Err    error
}

// GetError returns the analysis error, if any
func (r *AnalyzeResult) GetError() error {
	return r.Err
}

// BatchProcessor analyzes multiple sources concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// Process analyzes all sources concurrently and returns per-source results
func (b *BatchProcessor) Process(ctx context.Context, sources []string) []*AnalyzeResult {
	if len(sources) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, source := range sources {
		pool.Submit(&AnalyzeJob{Source: source, Analyzer: b.analyzer})
	}

	results := pool.Wait()

	out := make([]*AnalyzeResult, len(results))
	for i, result := range results {
		out[i] = result.(*AnalyzeResult)
	}
	return out
}

// ProcessFile reads sources from a file (one per line) and analyzes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*AnalyzeResult, error) {
	sources, err := ReadSourcesFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}
	return b.Process(ctx, sources), nil
}

// ReadSourcesFromFile reads one source per line, skipping blanks, comments,
// and duplicates.
func ReadSourcesFromFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sources, nil
}
