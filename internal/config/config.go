package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/morning-briefing/internal/briefing"
	"github.com/eugenenazirov/morning-briefing/internal/mailer"
	"github.com/eugenenazirov/morning-briefing/internal/news"
	"github.com/eugenenazirov/morning-briefing/internal/tasks"
	"github.com/eugenenazirov/morning-briefing/internal/weather"
)

const (
	defaultEnvFile        = ".env"
	defaultRequestTimeout = 30 * time.Second
	defaultRateLimitRPS   = 2.0
	defaultRateLimitBurst = 1
	defaultLogLevel       = "info"
	maxNewsLimit          = 100
)

// Secrets are the credentials read from the environment file.
// Any of them may be empty; the affected step then degrades at runtime.
type Secrets struct {
	NewsAPIKey    string `envconfig:"NEWS_API_KEY"`
	TodoistAPIKey string `envconfig:"TODOIST_API_KEY"`
	WeatherAPIKey string `envconfig:"WEATHER_API_KEY"`
	EmailSender   string `envconfig:"EMAIL_SENDER"`
	EmailPassword string `envconfig:"EMAIL_PASSWORD"`
}

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	EnvFile string

	NewsEndpoint  string
	NewsKeywords  string
	NewsLanguages string
	NewsSort      string
	NewsLimit     int

	WeatherEndpoint string
	City            string
	Country         string

	TasksEndpoint string
	IncludeTasks  bool

	SMTPHost string
	SMTPPort int
	Subject  string

	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int

	LogLevel string
	DryRun   bool

	Secrets Secrets
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	News           yamlNews    `yaml:"news"`
	Weather        yamlWeather `yaml:"weather"`
	Tasks          yamlTasks   `yaml:"tasks"`
	SMTP           yamlSMTP    `yaml:"smtp"`
	RequestTimeout string      `yaml:"request_timeout"`
	RateLimit      *yamlRate   `yaml:"rate_limit"`
	LogLevel       string      `yaml:"log_level"`
}

type yamlNews struct {
	Endpoint  string `yaml:"endpoint"`
	Keywords  string `yaml:"keywords"`
	Languages string `yaml:"languages"`
	Sort      string `yaml:"sort"`
	Limit     int    `yaml:"limit"`
}

type yamlWeather struct {
	Endpoint string `yaml:"endpoint"`
	City     string `yaml:"city"`
	Country  string `yaml:"country"`
}

type yamlTasks struct {
	Endpoint string `yaml:"endpoint"`
	Enabled  *bool  `yaml:"enabled"`
}

type yamlSMTP struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Subject string `yaml:"subject"`
}

type yamlRate struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// envConfig holds the non-secret overrides read from BRIEFING_* variables.
type envConfig struct {
	City           string        `split_words:"true"`
	Country        string        `split_words:"true"`
	NewsKeywords   string        `split_words:"true"`
	NewsLanguages  string        `split_words:"true"`
	NewsLimit      int           `split_words:"true"`
	IncludeTasks   *bool         `split_words:"true"`
	SMTPHost       string        `split_words:"true"`
	SMTPPort       int           `split_words:"true"`
	RequestTimeout time.Duration `split_words:"true"`
	LogLevel       string        `split_words:"true"`
}

const envPrefix = "BRIEFING"

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile   string
	EnvFile      string
	City         *string
	Country      *string
	IncludeTasks *bool
	LogLevel     *string
	DryRun       bool
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
// The environment file is loaded into the process environment first.
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	if overrides != nil && overrides.EnvFile != "" {
		cfg.EnvFile = overrides.EnvFile
	}
	if err := loadEnvFile(cfg.EnvFile); err != nil {
		return Config{}, err
	}

	// Apply environment variables (lowest explicit source)
	if err := applyEnvConfig(&cfg); err != nil {
		return Config{}, err
	}

	// Load from YAML file if specified (overrides environment)
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := envconfig.Process("", &cfg.Secrets); err != nil {
		return Config{}, fmt.Errorf("read secrets: %w", err)
	}

	// Validate final configuration
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	q := news.DefaultQuery()
	return Config{
		EnvFile:         defaultEnvFile,
		NewsEndpoint:    news.DefaultEndpoint,
		NewsKeywords:    q.Keywords,
		NewsLanguages:   q.Languages,
		NewsSort:        q.Sort,
		NewsLimit:       q.Limit,
		WeatherEndpoint: weather.DefaultEndpoint,
		City:            weather.DefaultCity,
		Country:         weather.DefaultCountry,
		TasksEndpoint:   tasks.DefaultEndpoint,
		IncludeTasks:    false,
		SMTPHost:        mailer.DefaultHost,
		SMTPPort:        mailer.DefaultPort,
		Subject:         briefing.DefaultSubject,
		RequestTimeout:  defaultRequestTimeout,
		RateLimitRPS:    defaultRateLimitRPS,
		RateLimitBurst:  defaultRateLimitBurst,
		LogLevel:        defaultLogLevel,
	}
}

// loadEnvFile copies the environment file into the process environment
// without overriding variables that are already set. A missing file is fine.
func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	setString(&cfg.NewsEndpoint, yamlCfg.News.Endpoint)
	setString(&cfg.NewsKeywords, yamlCfg.News.Keywords)
	setString(&cfg.NewsLanguages, yamlCfg.News.Languages)
	setString(&cfg.NewsSort, yamlCfg.News.Sort)
	if yamlCfg.News.Limit != 0 {
		cfg.NewsLimit = yamlCfg.News.Limit
	}

	setString(&cfg.WeatherEndpoint, yamlCfg.Weather.Endpoint)
	setString(&cfg.City, yamlCfg.Weather.City)
	setString(&cfg.Country, yamlCfg.Weather.Country)

	setString(&cfg.TasksEndpoint, yamlCfg.Tasks.Endpoint)
	if yamlCfg.Tasks.Enabled != nil {
		cfg.IncludeTasks = *yamlCfg.Tasks.Enabled
	}

	setString(&cfg.SMTPHost, yamlCfg.SMTP.Host)
	if yamlCfg.SMTP.Port != 0 {
		cfg.SMTPPort = yamlCfg.SMTP.Port
	}
	setString(&cfg.Subject, yamlCfg.SMTP.Subject)

	if yamlCfg.RequestTimeout != "" {
		d, err := time.ParseDuration(yamlCfg.RequestTimeout)
		if err != nil {
			return fmt.Errorf("parse request_timeout: %w", err)
		}
		cfg.RequestTimeout = d
	}

	if yamlCfg.RateLimit != nil {
		cfg.RateLimitRPS = yamlCfg.RateLimit.RPS
		cfg.RateLimitBurst = yamlCfg.RateLimit.Burst
	}

	setString(&cfg.LogLevel, yamlCfg.LogLevel)
	return nil
}

// applyEnvConfig applies BRIEFING_* environment variables.
func applyEnvConfig(cfg *Config) error {
	var env envConfig
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	setString(&cfg.City, env.City)
	setString(&cfg.Country, env.Country)
	setString(&cfg.NewsKeywords, env.NewsKeywords)
	setString(&cfg.NewsLanguages, env.NewsLanguages)
	if env.NewsLimit != 0 {
		cfg.NewsLimit = env.NewsLimit
	}
	if env.IncludeTasks != nil {
		cfg.IncludeTasks = *env.IncludeTasks
	}
	setString(&cfg.SMTPHost, env.SMTPHost)
	if env.SMTPPort != 0 {
		cfg.SMTPPort = env.SMTPPort
	}
	if env.RequestTimeout != 0 {
		cfg.RequestTimeout = env.RequestTimeout
	}
	setString(&cfg.LogLevel, env.LogLevel)
	return nil
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.City != nil {
		setString(&cfg.City, *overrides.City)
	}
	if overrides.Country != nil {
		setString(&cfg.Country, *overrides.Country)
	}
	if overrides.IncludeTasks != nil {
		cfg.IncludeTasks = *overrides.IncludeTasks
	}
	if overrides.LogLevel != nil {
		setString(&cfg.LogLevel, *overrides.LogLevel)
	}
	cfg.DryRun = overrides.DryRun
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.NewsLimit < 1 || cfg.NewsLimit > maxNewsLimit {
		return fmt.Errorf("news limit must be between 1 and %d, got %d", maxNewsLimit, cfg.NewsLimit)
	}
	if cfg.SMTPPort < 1 || cfg.SMTPPort > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535, got %d", cfg.SMTPPort)
	}
	if cfg.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must be >= 0")
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("rate limit rps must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit burst must be >= 0")
	}
	if cfg.City == "" || cfg.Country == "" {
		return fmt.Errorf("city and country cannot be empty")
	}
	return nil
}

func setString(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}
