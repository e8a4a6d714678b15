package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"trustlens/internal/cache"
	"trustlens/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze multiple sources from a file in parallel",
	Long: `Batch processes multiple sources concurrently:
- Read sources from an input file (one URL or file path per line)
- Analyze sources in parallel with a configurable worker count
- Write an individual JSON and Markdown report per source

Example:
  trustlens batch sources.txt
  trustlens batch sources.txt --concurrency 8 --output-dir ./reports
  trustlens batch sources.txt --timeout 10m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./trustlens-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	batchCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent override")
	batchCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	batchCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "disk cache directory (empty: memory only)")
	batchCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	batchCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	batchCmd.Flags().BoolVar(&hybrid, "hybrid", false, "escalate low-confidence extraction to the external classifier")
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable external classifier calls")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cfg)

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	analyzer, err := buildAnalyzer(cfg, logger)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Batch: %s (%d workers, output %s)\n", file, concurrency, outputDir)

	processor := worker.NewBatchProcessor(analyzer, concurrency)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := newRenderer()
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Source, result.Err)
			continue
		}

		slug := sanitizeFilename(result.Source)
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(result.Report, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: write JSON: %v\n", result.Source, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Report, mdPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: write Markdown: %v\n", result.Source, err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s: %d claims\n", result.Source, len(result.Report.Claims))
	}

	fmt.Fprintf(os.Stderr, "\nBatch complete: %d total, %d ok, %d failed\n",
		len(results), successCount, failureCount)
	return nil
}

// sanitizeFilename turns a source URL or path into a safe report filename
func sanitizeFilename(source string) string {
	s := strings.TrimPrefix(source, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimSuffix(s, "/")

	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", " ", "-",
	)
	s = replacer.Replace(s)

	if len(s) > 100 {
		// Keep names distinct after truncation
		s = s[:100] + "-" + cache.HashText(source)
	}
	if s == "" {
		s = "report"
	}
	return s
}
