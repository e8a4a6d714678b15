package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"trustlens/internal/llm"
	"trustlens/internal/model"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noRobots    bool
	noFooter    bool
	hybrid      bool
	cacheDir    string
	httpProxy   string
	httpsProxy  string
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <url-or-file>",
	Short: "Analyze one article and score its claims",
	Long: `Analyze extracts checkable claims from an article and scores each
one against the evidence sources:
- Segment the text and rank claim candidates by factual signals
- Normalize claims and extract entities and search queries
- Score each claim via fact-check, scholarly, credibility, and
  coherence channels in parallel
- Check the authoritative-domain allowlist for overrides

Example:
  trustlens analyze https://example.com/article
  trustlens analyze article.html --json report.json --md report.md
  trustlens analyze article.txt --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent override")
	analyzeCmd.Flags().Int64Var(&maxBytes, "max-bytes", 0, "max response bytes to read")
	analyzeCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")
	analyzeCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	analyzeCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	analyzeCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "disk cache directory (empty: memory only)")

	analyzeCmd.Flags().BoolVar(&hybrid, "hybrid", false, "escalate low-confidence extraction to the external classifier")
	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable external classifier calls")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	source := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
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

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", source)
	}

	report, err := analyzer.Analyze(ctx, source)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	renderer := newRenderer()
	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(report, outMD); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}

	renderer.RenderSummary(report)
	return nil
}

// applyFlags overlays command-line flags onto the loaded configuration
func applyFlags(cfg *model.Config) {
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	if maxBytes > 0 {
		cfg.HTTP.MaxBodyBytes = maxBytes
	}
	if noRobots {
		cfg.HTTP.RespectRobots = false
	}
	if httpProxy != "" {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if httpsProxy != "" {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}
	if cacheDir != "" {
		cfg.Cache.Dir = cacheDir
	}
	if hybrid {
		cfg.Extraction.Hybrid = true
	}
	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}
	}
}

// newLLMClient builds the external collaborator client, resolving API keys
// from the environment when the config omits them.
func newLLMClient(cfg *model.Config) (llm.Client, error) {
	switch cfg.LLM.Provider {
	case "openai":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
	return llm.NewClient(cfg.LLM)
}
