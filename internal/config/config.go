package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"StrideCoach/internal/calculator"
)

// Providers accepted in llm.provider.
const (
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	LLM struct {
		Provider        string        `yaml:"provider"`
		APIKey          string        `yaml:"api_key"`
		Model           string        `yaml:"model"`
		Temperature     float32       `yaml:"temperature"`
		MaxOutputTokens int32         `yaml:"max_output_tokens"`
		Timeout         time.Duration `yaml:"timeout"`
	} `yaml:"llm"`
	Orchestrator struct {
		Timeout           time.Duration `yaml:"timeout"`
		EnableFull        *bool         `yaml:"enable_full"`
		EnrichmentBudget  time.Duration `yaml:"enrichment_budget"`
		SingleAgentBudget time.Duration `yaml:"single_agent_budget"`
		IndexTimeout      time.Duration `yaml:"index_timeout"`
	} `yaml:"orchestrator"`
	Thresholds calculator.Thresholds `yaml:"thresholds"`
	Retrieval  struct {
		PerCategory int            `yaml:"per_category"`
		Limits      map[string]int `yaml:"limits"`
		MinScore    float64        `yaml:"min_score"`
	} `yaml:"retrieval"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Profiles struct {
		File    string `yaml:"file"`
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"profiles"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Delivery struct {
		StateFile  string `yaml:"state_file"`
		MaxRetries int    `yaml:"max_retries"`
	} `yaml:"delivery"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("ORCHESTRATOR_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ORCHESTRATOR_TIMEOUT: %w", err)
		}
		c.Orchestrator.Timeout = d
	}
	if v := os.Getenv("PROFILES_FILE"); v != "" {
		c.Profiles.File = v
	}
	if v := os.Getenv("PROFILES_BASE_URL"); v != "" {
		c.Profiles.BaseURL = v
	}
	if v := os.Getenv("PROFILES_API_KEY"); v != "" {
		c.Profiles.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		c.Schedule.DailyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderGemini
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gemini-2.5-flash"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.5
	}
	if c.LLM.MaxOutputTokens == 0 {
		c.LLM.MaxOutputTokens = 256
	}
	if c.Orchestrator.Timeout == 0 {
		c.Orchestrator.Timeout = 5 * time.Second
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = c.Orchestrator.Timeout
	}
	if c.Orchestrator.EnrichmentBudget == 0 {
		c.Orchestrator.EnrichmentBudget = 1500 * time.Millisecond
	}
	if c.Orchestrator.SingleAgentBudget == 0 {
		c.Orchestrator.SingleAgentBudget = time.Second
	}
	if c.Orchestrator.IndexTimeout == 0 {
		c.Orchestrator.IndexTimeout = 3 * time.Second
	}
	c.Thresholds = c.Thresholds.WithDefaults()
	if c.Retrieval.PerCategory == 0 {
		c.Retrieval.PerCategory = 2
	}
	if c.Schedule.DailyCron == "" {
		c.Schedule.DailyCron = "0 0 8 * * *"
	}
	if c.Profiles.File == "" && c.Profiles.BaseURL == "" {
		c.Profiles.File = "configs/profiles.yaml"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/stride_coach.db"
	}
	if c.Delivery.StateFile == "" {
		c.Delivery.StateFile = "data/delivery_state.json"
	}
	if c.Delivery.MaxRetries == 0 {
		c.Delivery.MaxRetries = 3
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// FullEnabled reports whether the full pipeline is allowed. Absent means yes.
func (c *Config) FullEnabled() bool {
	return c.Orchestrator.EnableFull == nil || *c.Orchestrator.EnableFull
}

// ValidateCore checks the settings every command needs.
func (c *Config) ValidateCore() error {
	switch c.LLM.Provider {
	case ProviderGemini, ProviderNone:
	default:
		return fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be within [0, 2]")
	}
	if c.Orchestrator.Timeout < 0 {
		return fmt.Errorf("orchestrator.timeout must be positive")
	}
	// Steps after the race deadline run one after another, each capped by the
	// race timeout, so a run ends within 4x orchestrator.timeout.
	limit := c.Orchestrator.Timeout
	if c.LLM.Timeout > limit {
		return fmt.Errorf("llm.timeout %s exceeds orchestrator.timeout %s", c.LLM.Timeout, limit)
	}
	if c.Orchestrator.EnrichmentBudget > limit {
		return fmt.Errorf("orchestrator.enrichment_budget %s exceeds orchestrator.timeout %s", c.Orchestrator.EnrichmentBudget, limit)
	}
	if c.Orchestrator.SingleAgentBudget > limit {
		return fmt.Errorf("orchestrator.single_agent_budget %s exceeds orchestrator.timeout %s", c.Orchestrator.SingleAgentBudget, limit)
	}
	th := c.Thresholds
	if th.LowProgress >= th.HighProgress {
		return fmt.Errorf("thresholds.low_progress must be below thresholds.high_progress")
	}
	if th.LowEnergy > th.DebtEnergy {
		return fmt.Errorf("thresholds.low_energy must not exceed thresholds.debt_energy")
	}
	if th.ComebackHigh <= th.DebtEnergy {
		return fmt.Errorf("thresholds.comeback_high must be above thresholds.debt_energy")
	}
	if c.Retrieval.MinScore < 0 {
		return fmt.Errorf("retrieval.min_score must not be negative")
	}
	return nil
}

// Validate checks that all fields the daemon needs are set.
func (c *Config) Validate() error {
	if err := c.ValidateCore(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}
