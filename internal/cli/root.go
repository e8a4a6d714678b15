// Package cli wires the trustlens commands.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"trustlens/internal/cache"
	"trustlens/internal/logging"
	"trustlens/internal/model"
	"trustlens/internal/pipeline"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "trustlens",
	Short: "Trustlens - per-claim trust scoring for news articles",
	Long: `Trustlens extracts checkable factual claims from article text and
scores each one on a 0-10 trust scale.

Every claim is normalized, then checked against independent evidence
channels: fact-check verdicts, scholarly evidence, source credibility,
and content coherence. A small allowlist of authoritative domains can
override the aggregate when a directly relevant match is found.

Scores are heuristic estimates with explicit confidence bands, not
verdicts of truth.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("trustlens v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.trustlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig locates the config file and reads TRUSTLENS_* env vars
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.trustlens")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("TRUSTLENS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig layers the discovered config file over the built-in defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if key := viper.GetString("openai_api_key"); key != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = key
	}
	return cfg, nil
}

// newLogger builds the process logger from config and the verbose flag
func newLogger(cfg *model.Config) (*zap.Logger, error) {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	return logging.New(level)
}

// newCache builds the score/normalization cache from config. An empty dir
// keeps everything in memory.
func newCache(cfg *model.Config) cache.Cache {
	memoryTTL := time.Duration(cfg.Cache.MemoryTTLMin) * time.Minute
	sweep := time.Duration(cfg.Cache.SweepMin) * time.Minute

	if cfg.Cache.Dir == "" {
		return cache.NewMemoryCache(memoryTTL, sweep)
	}
	diskTTL := time.Duration(cfg.Cache.DiskTTLHours) * time.Hour
	return cache.NewLayeredCache(memoryTTL, sweep, cfg.Cache.Dir, diskTTL)
}

// buildAnalyzer wires the pipeline and fetcher for the analyze and batch
// commands.
func buildAnalyzer(cfg *model.Config, logger *zap.Logger) (*pipeline.SourceAnalyzer, error) {
	client, err := newLLMClient(cfg)
	if err != nil {
		return nil, err
	}

	p := pipeline.New(cfg, pipeline.Deps{
		LLM:    client,
		Cache:  newCache(cfg),
		Logger: logger,
	})
	f := pipeline.NewFetcher(cfg.HTTP, logger)
	return pipeline.NewSourceAnalyzer(p, f), nil
}

func newRenderer() *pipeline.Renderer {
	return pipeline.NewRenderer(!noFooter)
}
