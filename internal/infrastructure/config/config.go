package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/greenstack/ecoswitch/internal/domain/models"
)

// Config represents the application configuration.
type Config struct {
	Server     ServerConfig              `yaml:"server"`
	Providers  map[string]ProviderConfig `yaml:"providers"`
	Models     []models.ModelDescriptor  `yaml:"models"`
	Classifier ClassifierConfig          `yaml:"classifier"`
	Carbon     CarbonConfig              `yaml:"carbon"`
	Router     RouterConfig              `yaml:"router"`
	History    HistoryConfig             `yaml:"history"`
	Logging    LoggingConfig             `yaml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// ProviderConfig contains LLM provider settings.
type ProviderConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
}

// ClassifierConfig tunes the complexity classifier. Keyword lists and
// thresholds are static data, not logic: they can be changed here without
// touching the scoring algorithm.
type ClassifierConfig struct {
	// TokenDivisor converts character length to an estimated token count
	// (tokens = ceil(len/divisor)).
	TokenDivisor int `yaml:"token_divisor"`

	// Token-length score contribution: estimates above LongQueryTokens add
	// +3, above MediumQueryTokens add +2, anything shorter adds +1.
	LongQueryTokens   int `yaml:"long_query_tokens"`
	MediumQueryTokens int `yaml:"medium_query_tokens"`

	// Composite-score thresholds: >= ComplexScore is complex/large,
	// >= ModerateScore is moderate/medium, below is simple/small.
	ComplexScore  int `yaml:"complex_score"`
	ModerateScore int `yaml:"moderate_score"`

	// ComplexKeywords and SimpleKeywords are disjoint sets matched
	// case-insensitively as substrings, counted once per list entry.
	ComplexKeywords []string `yaml:"complex_keywords"`
	SimpleKeywords  []string `yaml:"simple_keywords"`
}

// RouterConfig tunes the model selection policies. The accuracy preference
// deliberately re-derives size from the raw score with its own thresholds
// instead of reusing the classifier's, so it biases toward larger models.
type RouterConfig struct {
	AccuracyLargeScore  int `yaml:"accuracy_large_score"`
	AccuracyMediumScore int `yaml:"accuracy_medium_score"`
}

// CarbonConfig holds the fixed reference constants (all kg CO2) that turn a
// gram figure into everyday equivalents.
type CarbonConfig struct {
	CarMileKg     float64 `yaml:"car_mile_kg"`
	PhoneChargeKg float64 `yaml:"phone_charge_kg"`
	SearchKg      float64 `yaml:"search_kg"`
	EmailKg       float64 `yaml:"email_kg"`
	TreeKgPerYear float64 `yaml:"tree_kg_per_year"`
}

// HistoryConfig bounds the in-memory usage ledger.
type HistoryConfig struct {
	Capacity int `yaml:"capacity"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Output string `yaml:"output"`
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.SetDefaults()

	return &cfg, nil
}

// Validate checks if the configuration is valid. A failure here is a fatal
// startup condition, never a per-query error.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if len(c.Models) == 0 {
		return fmt.Errorf("model catalog cannot be empty")
	}

	seen := make(map[string]bool, len(c.Models))
	classCount := make(map[models.SizeClass]int)
	worstCase := 0
	fastSmall := false

	for _, m := range c.Models {
		if m.Key == "" {
			return fmt.Errorf("model with empty key in catalog")
		}
		if seen[m.Key] {
			return fmt.Errorf("duplicate model key: %s", m.Key)
		}
		seen[m.Key] = true

		if !m.Size.Valid() {
			return fmt.Errorf("model %s: invalid size class %q", m.Key, m.Size)
		}
		if !m.Speed.Valid() {
			return fmt.Errorf("model %s: invalid speed tier %q", m.Key, m.Speed)
		}
		if m.CarbonFactor <= 0 {
			return fmt.Errorf("model %s: carbon factor must be > 0, got %g", m.Key, m.CarbonFactor)
		}

		provider, ok := c.Providers[m.Provider]
		if !ok {
			return fmt.Errorf("model %s: unknown provider %q", m.Key, m.Provider)
		}
		if !provider.Enabled {
			return fmt.Errorf("model %s: provider %q is disabled", m.Key, m.Provider)
		}

		classCount[m.Size]++
		if m.Size == models.SizeSmall && m.Speed == models.SpeedFast {
			fastSmall = true
		}
		if m.WorstCase {
			worstCase++
		}
	}

	for _, class := range models.SizeClasses {
		if classCount[class] == 0 {
			return fmt.Errorf("catalog has no %s model", class)
		}
	}
	if !fastSmall {
		return fmt.Errorf("catalog needs at least one fast small model for the speed preference")
	}
	if worstCase != 1 {
		return fmt.Errorf("exactly one model must be flagged worst_case, got %d", worstCase)
	}

	return nil
}

// SetDefaults sets default values for optional fields.
func (c *Config) SetDefaults() {
	// Server defaults
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 5001
	}

	// Provider defaults
	for name, provider := range c.Providers {
		if provider.Timeout == 0 {
			provider.Timeout = 30 * time.Second
		}
		c.Providers[name] = provider
	}

	// Classifier defaults
	if c.Classifier.TokenDivisor == 0 {
		c.Classifier.TokenDivisor = 4
	}
	if c.Classifier.LongQueryTokens == 0 {
		c.Classifier.LongQueryTokens = 200
	}
	if c.Classifier.MediumQueryTokens == 0 {
		c.Classifier.MediumQueryTokens = 50
	}
	if c.Classifier.ComplexScore == 0 {
		c.Classifier.ComplexScore = 5
	}
	if c.Classifier.ModerateScore == 0 {
		c.Classifier.ModerateScore = 2
	}
	if len(c.Classifier.ComplexKeywords) == 0 {
		c.Classifier.ComplexKeywords = defaultComplexKeywords()
	}
	if len(c.Classifier.SimpleKeywords) == 0 {
		c.Classifier.SimpleKeywords = defaultSimpleKeywords()
	}

	// Router defaults
	if c.Router.AccuracyLargeScore == 0 {
		c.Router.AccuracyLargeScore = 3
	}
	if c.Router.AccuracyMediumScore == 0 {
		c.Router.AccuracyMediumScore = 1
	}

	// Carbon reference constants
	if c.Carbon.CarMileKg == 0 {
		c.Carbon.CarMileKg = 0.411
	}
	if c.Carbon.PhoneChargeKg == 0 {
		c.Carbon.PhoneChargeKg = 0.0008
	}
	if c.Carbon.SearchKg == 0 {
		c.Carbon.SearchKg = 0.0002
	}
	if c.Carbon.EmailKg == 0 {
		c.Carbon.EmailKg = 0.000004
	}
	if c.Carbon.TreeKgPerYear == 0 {
		c.Carbon.TreeKgPerYear = 22
	}

	// History defaults
	if c.History.Capacity == 0 {
		c.History.Capacity = 100
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

// expandEnvVars replaces ${VAR} and $VAR with environment variable values.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		return os.Getenv(key)
	})
}

// defaultComplexKeywords lists technical, analytical, creative and
// problem-solving terms that raise the complexity score.
func defaultComplexKeywords() []string {
	return []string{
		"analyze", "explain", "compare", "contrast", "evaluate", "critique", "discuss",
		"algorithm", "function", "code", "programming", "technical",
		"scientific", "research", "optimize", "architecture", "debug",
		"refactor", "implement", "design", "trade-off", "tradeoff",
		"write", "create", "generate", "compose", "imagine",
		"story", "poem", "essay", "solve", "calculate", "compute",
		"formula", "equation", "statistics", "probability",
		"comprehensive", "detailed", "step-by-step", "strategy",
	}
}

// defaultSimpleKeywords lists definitional and factual terms that lower the
// complexity score. Kept disjoint from the complex set.
func defaultSimpleKeywords() []string {
	return []string{
		"what is", "who is", "where is", "when was", "when did",
		"define", "definition", "meaning of", "capital of",
		"how many", "how much", "list of", "name the", "yes or no",
	}
}
