package model

// Config is the full trustlens configuration tree.
// Loaded from ~/.trustlens/config.yaml, TRUSTLENS_* env vars, and flags.
type Config struct {
	Extraction    ExtractionConfig    `yaml:"extraction"`
	Normalization NormalizationConfig `yaml:"normalization"`
	Sources       SourcesConfig       `yaml:"sources"`
	Override      OverrideConfig      `yaml:"override"`
	Batch         BatchConfig         `yaml:"batch"`
	Retry         RetryConfig         `yaml:"retry"`
	Cache         CacheConfig         `yaml:"cache"`
	LLM           LLMConfig           `yaml:"llm"`
	HTTP          HTTPConfig          `yaml:"http"`
	Log           LogConfig           `yaml:"log"`
}

// ExtractionConfig tunes the segmenter, candidate scorer, and extractor.
// Weights are tunable; only their relative ordering is load-bearing.
type ExtractionConfig struct {
	MinSentenceLength int     `yaml:"min_sentence_length"` // Shorter fragments are discarded
	MaxClaims         int     `yaml:"max_claims"`          // Ranked list truncation
	AcceptanceFloor   float64 `yaml:"acceptance_floor"`    // Minimum normalized confidence
	OpinionPenalty    float64 `yaml:"opinion_penalty"`     // Multiplicative, hedged language
	Hybrid            bool    `yaml:"hybrid"`              // Escalate to external classifier
	HybridThreshold   float64 `yaml:"hybrid_threshold"`    // Escalate below this aggregate confidence
	ExcerptLimit      int     `yaml:"excerpt_limit"`       // Max chars sent to the classifier
	DedupeSimilarity  float64 `yaml:"dedupe_similarity"`   // Jaccard threshold for merge dedupe

	Weights SignalWeights `yaml:"weights"`
}

// SignalWeights are the candidate scorer's signal weights, strongest first
type SignalWeights struct {
	FactualVerb float64 `yaml:"factual_verb"`
	ClaimMarker float64 `yaml:"claim_marker"`
	Percentage  float64 `yaml:"percentage"`
	NamedEntity float64 `yaml:"named_entity"`
	Date        float64 `yaml:"date"`
	Quote       float64 `yaml:"quote"`
	Structure   float64 `yaml:"structure"`
}

// NormalizationConfig tunes the claim normalizer
type NormalizationConfig struct {
	EscalationConfidence float64 `yaml:"escalation_confidence"` // Escalate below this heuristic confidence
	MaxQueries           int     `yaml:"max_queries"`
}

// SourcesConfig controls the evidence source adapters and aggregation
type SourcesConfig struct {
	Enabled        map[string]bool    `yaml:"enabled"`
	Weights        map[string]float64 `yaml:"weights"`
	TimeoutSeconds int                `yaml:"timeout_seconds"` // Per adapter call
	CacheTTLHours  int                `yaml:"cache_ttl_hours"`
}

// OverrideConfig controls the authoritative-source override evaluator
type OverrideConfig struct {
	Domains        []string `yaml:"domains"`         // Authoritative domain allowlist
	RelevanceFloor float64  `yaml:"relevance_floor"` // Discard matches below this Jaccard
	ValidFloor     float64  `yaml:"valid_floor"`     // Heuristic fallback validity threshold
	SupportsFloor  float64  `yaml:"supports_floor"`  // Heuristic fallback supports threshold
}

// BatchConfig bounds per-document claim concurrency
type BatchConfig struct {
	Size int `yaml:"size"`
}

// RetryConfig controls transient-failure retries for adapter calls
type RetryConfig struct {
	MaxAttempts  int `yaml:"max_attempts"`
	BaseDelayMs  int `yaml:"base_delay_ms"`
	MaxDelayMs   int `yaml:"max_delay_ms"`
	BreakerTrips int `yaml:"breaker_trips"` // Consecutive failures before the breaker opens, 0 disables
	BreakerCoolS int `yaml:"breaker_cooldown_seconds"`
}

// CacheConfig controls memoization
type CacheConfig struct {
	Dir           string `yaml:"dir"` // Empty disables the disk layer
	MemoryTTLMin  int    `yaml:"memory_ttl_minutes"`
	SweepMin      int    `yaml:"sweep_minutes"`
	DiskTTLHours  int    `yaml:"disk_ttl_hours"`
	NormTTLHours  int    `yaml:"normalization_ttl_hours"`
	ScoreTTLHours int    `yaml:"score_ttl_hours"`
}

// LLMConfig configures the external collaborator client
type LLMConfig struct {
	Provider  string `yaml:"provider"` // "openai", "ollama", "" (disabled)
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	Timeout   int    `yaml:"timeout"` // Seconds
	MaxTokens int    `yaml:"max_tokens"`
}

// HTTPConfig configures the host-side article fetcher
type HTTPConfig struct {
	Timeout           int     `yaml:"timeout"` // Seconds
	UserAgent         string  `yaml:"user_agent"`
	MaxBodyBytes      int64   `yaml:"max_body_bytes"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	RespectRobots     bool    `yaml:"respect_robots"`
	HTTPProxy         string  `yaml:"http_proxy,omitempty"`
	HTTPSProxy        string  `yaml:"https_proxy,omitempty"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Level string `yaml:"level"`
}

// Source adapter names used in config maps and report components
const (
	SourceFactChecker = "fact_checker"
	SourceScholarly   = "scholarly"
	SourceCredibility = "credibility"
	SourceCoherence   = "coherence"
)

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			MinSentenceLength: 15,
			MaxClaims:         50,
			AcceptanceFloor:   0.2,
			OpinionPenalty:    0.7,
			Hybrid:            false,
			HybridThreshold:   0.5,
			ExcerptLimit:      4000,
			DedupeSimilarity:  0.8,
			Weights: SignalWeights{
				FactualVerb: 0.30,
				ClaimMarker: 0.25,
				Percentage:  0.15,
				NamedEntity: 0.10,
				Date:        0.08,
				Quote:       0.07,
				Structure:   0.05,
			},
		},
		Normalization: NormalizationConfig{
			EscalationConfidence: 0.7,
			MaxQueries:           3,
		},
		Sources: SourcesConfig{
			Enabled: map[string]bool{
				SourceFactChecker: true,
				SourceScholarly:   true,
				SourceCredibility: true,
				SourceCoherence:   true,
			},
			Weights: map[string]float64{
				SourceFactChecker: 0.35,
				SourceScholarly:   0.30,
				SourceCredibility: 0.20,
				SourceCoherence:   0.15,
			},
			TimeoutSeconds: 10,
			CacheTTLHours:  6,
		},
		Override: OverrideConfig{
			Domains: []string{
				"who.int",
				"cdc.gov",
				"nih.gov",
				"nasa.gov",
				"noaa.gov",
				"britannica.com",
				"nature.com",
			},
			RelevanceFloor: 0.5,
			ValidFloor:     0.7,
			SupportsFloor:  0.8,
		},
		Batch: BatchConfig{
			Size: 5,
		},
		Retry: RetryConfig{
			MaxAttempts:  3,
			BaseDelayMs:  500,
			MaxDelayMs:   8000,
			BreakerTrips: 0,
			BreakerCoolS: 30,
		},
		Cache: CacheConfig{
			Dir:           "",
			MemoryTTLMin:  60,
			SweepMin:      10,
			DiskTTLHours:  24,
			NormTTLHours:  24,
			ScoreTTLHours: 6,
		},
		LLM: LLMConfig{
			Provider:  "",
			Timeout:   30,
			MaxTokens: 1000,
		},
		HTTP: HTTPConfig{
			Timeout:           15,
			UserAgent:         "trustlens/0.1 (+https://github.com/trustlens)",
			MaxBodyBytes:      2 << 20,
			RequestsPerSecond: 1,
			Burst:             3,
			RespectRobots:     true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
