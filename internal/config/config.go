// Package config centralises configuration parsing for the FitCoach API.
// Secrets come from the environment (or a .env file); everything else may be
// overridden by a YAML file named in FITCOACH_CONFIG.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"gopkg.in/yaml.v3"
)

// Config captures runtime configuration values for the API and CLI.
type Config struct {
	Port        int    `yaml:"port"`
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"`
	DatabaseURL string `yaml:"-"`

	// ProviderTimeout bounds a single image or speech provider round-trip.
	ProviderTimeout time.Duration `yaml:"provider_timeout"`

	// WriteTimeout is the HTTP server's response deadline.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// PlanBudget caps a plan or quote generation, retries included. It must
	// end before WriteTimeout so the fallback still reaches the client.
	PlanBudget time.Duration `yaml:"plan_budget"`

	// TrustedProxies lists CIDR ranges whose X-Forwarded-For is believed.
	// Empty means client IPs are taken from the TCP peer only.
	TrustedProxies []string `yaml:"trusted_proxies"`

	// PlaceholderBaseURL is where the bundled placeholder images are served.
	PlaceholderBaseURL string `yaml:"placeholder_base_url"`

	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Pexels     PexelsConfig     `yaml:"pexels"`
	ElevenLabs ElevenLabsConfig `yaml:"elevenlabs"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
}

type GeminiConfig struct {
	APIKey     string        `yaml:"-"`
	BaseURL    string        `yaml:"base_url"`
	Model      string        `yaml:"model"`
	MaxRetries int           `yaml:"max_retries"`
	Timeout    time.Duration `yaml:"timeout"`
}

type OpenRouterConfig struct {
	APIKey   string `yaml:"-"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	AppURL   string `yaml:"app_url"`
	AppTitle string `yaml:"app_title"`
}

type PexelsConfig struct {
	APIKey  string `yaml:"-"`
	BaseURL string `yaml:"base_url"`
}

type ElevenLabsConfig struct {
	APIKey          string  `yaml:"-"`
	BaseURL         string  `yaml:"base_url"`
	VoiceID         string  `yaml:"voice_id"`
	ModelID         string  `yaml:"model_id"`
	Stability       float64 `yaml:"stability"`
	SimilarityBoost float64 `yaml:"similarity_boost"`
}

type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port:               8080,
		LogLevel:           "info",
		LogFormat:          "json",
		ProviderTimeout:    20 * time.Second,
		WriteTimeout:       90 * time.Second,
		PlanBudget:         60 * time.Second,
		PlaceholderBaseURL: "/static/placeholders",
		Gemini: GeminiConfig{
			BaseURL:    "https://generativelanguage.googleapis.com/v1beta",
			Model:      "gemini-2.0-flash",
			MaxRetries: 2,
			Timeout:    45 * time.Second,
		},
		OpenRouter: OpenRouterConfig{
			BaseURL:  "https://openrouter.ai/api/v1",
			Model:    "openai/gpt-4-vision-preview",
			AppURL:   "http://localhost:3000",
			AppTitle: "AI Fitness Coach",
		},
		Pexels: PexelsConfig{
			BaseURL: "https://api.pexels.com/v1",
		},
		ElevenLabs: ElevenLabsConfig{
			BaseURL:         "https://api.elevenlabs.io/v1",
			VoiceID:         "WrjxnKxK0m1uiaH0uteU",
			ModelID:         "eleven_multilingual_v2",
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
		RateLimit: RateLimitConfig{
			Requests: 30,
			Window:   time.Minute,
		},
	}
}

// Load builds the configuration: defaults, then the optional YAML file, then
// environment variables. Secrets are only ever read from the environment.
func Load() (Config, error) {
	cfg := Default()

	if path := getEnv("FITCOACH_CONFIG", ""); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getIntEnv("PORT", c.Port)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.ProviderTimeout = getDurationEnv("PROVIDER_TIMEOUT", c.ProviderTimeout)
	c.WriteTimeout = getDurationEnv("WRITE_TIMEOUT", c.WriteTimeout)
	c.PlanBudget = getDurationEnv("PLAN_BUDGET", c.PlanBudget)
	if proxies := getEnv("TRUSTED_PROXIES", ""); proxies != "" {
		c.TrustedProxies = splitList(proxies)
	}
	c.PlaceholderBaseURL = strings.TrimRight(getEnv("PLACEHOLDER_BASE_URL", c.PlaceholderBaseURL), "/")

	c.Gemini.APIKey = getEnv("GEMINI_API_KEY", "")
	c.Gemini.BaseURL = getEnv("GEMINI_BASE_URL", c.Gemini.BaseURL)
	c.Gemini.Model = getEnv("GEMINI_MODEL", c.Gemini.Model)
	c.Gemini.MaxRetries = getIntEnv("GEMINI_MAX_RETRIES", c.Gemini.MaxRetries)
	c.Gemini.Timeout = getDurationEnv("GEMINI_TIMEOUT", c.Gemini.Timeout)

	c.OpenRouter.APIKey = getEnv("OPENROUTER_API_KEY", "")
	c.OpenRouter.BaseURL = getEnv("OPENROUTER_BASE_URL", c.OpenRouter.BaseURL)
	c.OpenRouter.Model = getEnv("OPENROUTER_MODEL", c.OpenRouter.Model)
	c.OpenRouter.AppURL = getEnv("APP_URL", c.OpenRouter.AppURL)
	c.OpenRouter.AppTitle = getEnv("APP_TITLE", c.OpenRouter.AppTitle)

	c.Pexels.APIKey = getEnv("PEXELS_API_KEY", "")
	c.Pexels.BaseURL = getEnv("PEXELS_BASE_URL", c.Pexels.BaseURL)

	c.ElevenLabs.APIKey = getEnv("ELEVENLABS_API_KEY", "")
	c.ElevenLabs.BaseURL = getEnv("ELEVENLABS_BASE_URL", c.ElevenLabs.BaseURL)
	c.ElevenLabs.VoiceID = getEnv("ELEVENLABS_VOICE_ID", c.ElevenLabs.VoiceID)
	c.ElevenLabs.ModelID = getEnv("ELEVENLABS_MODEL_ID", c.ElevenLabs.ModelID)

	c.RateLimit.Requests = getIntEnv("RATE_LIMIT_REQUESTS", c.RateLimit.Requests)
	c.RateLimit.Window = getDurationEnv("RATE_LIMIT_WINDOW", c.RateLimit.Window)
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.Gemini.MaxRetries < 0 {
		errs = append(errs, errors.New("gemini.max_retries must not be negative"))
	}
	if c.Gemini.Timeout <= 0 || c.ProviderTimeout <= 0 {
		errs = append(errs, errors.New("timeouts must be positive"))
	}
	if c.WriteTimeout <= 0 || c.PlanBudget <= 0 {
		errs = append(errs, errors.New("write_timeout and plan_budget must be positive"))
	} else if c.PlanBudget >= c.WriteTimeout {
		errs = append(errs, fmt.Errorf("plan_budget %s must be shorter than write_timeout %s", c.PlanBudget, c.WriteTimeout))
	}
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			errs = append(errs, fmt.Errorf("trusted_proxies: %w", err))
		}
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("rate_limit.requests and rate_limit.window must be positive"))
	}
	if !unitInterval(c.ElevenLabs.Stability) || !unitInterval(c.ElevenLabs.SimilarityBoost) {
		errs = append(errs, errors.New("elevenlabs voice settings must be within [0, 1]"))
	}
	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func unitInterval(v float64) bool {
	return v >= 0 && v <= 1
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
