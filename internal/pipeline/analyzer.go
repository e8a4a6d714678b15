package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"trustlens/internal/model"
)

// SourceAnalyzer dispatches a source string (URL or local file) through the
// fetcher and pipeline. It satisfies the batch worker's Analyzer interface.
type SourceAnalyzer struct {
	pipeline *Pipeline
	fetcher  *Fetcher
}

// NewSourceAnalyzer creates a source analyzer
func NewSourceAnalyzer(p *Pipeline, f *Fetcher) *SourceAnalyzer {
	return &SourceAnalyzer{pipeline: p, fetcher: f}
}

// Analyze resolves the source and runs the full pipeline on it. URLs are
// fetched; anything else is read as a local file, treated as HTML when the
// extension says so.
func (a *SourceAnalyzer) Analyze(ctx context.Context, source string) (*model.DocumentReport, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		fetched, err := a.fetcher.Fetch(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", source, err)
		}
		return a.pipeline.AnalyzeHTML(ctx, fetched.HTML, fetched.Domain, fetched.FinalURL)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}

	ext := strings.ToLower(filepath.Ext(source))
	if ext == ".html" || ext == ".htm" {
		return a.pipeline.AnalyzeHTML(ctx, string(data), "", source)
	}
	return a.pipeline.AnalyzeText(ctx, string(data), "", source)
}
