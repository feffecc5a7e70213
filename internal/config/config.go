package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "EDTECH_DIGEST_CONFIG"
	apiKeyEnv       = "ANTHROPIC_API_KEY"
	modelEnv        = "ANTHROPIC_MODEL"
	mailPasswordEnv = "GMAIL_APP_PASSWORD"
	mailFromEnv     = "DIGEST_MAIL_FROM"
	mailToEnv       = "DIGEST_MAIL_TO"
	logLevelEnv     = "DIGEST_LOG_LEVEL"
)

// Secret holds a credential. It never prints its value.
type Secret string

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[redacted]"
}

// LogValue keeps secrets out of structured logs.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(s.String())
}

// Reveal returns the raw credential for the client that needs it.
func (s Secret) Reveal() string {
	return string(s)
}

// Config is built once at startup and handed to every component that needs it.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Mail       MailConfig       `yaml:"mail"`
	Validation ValidationConfig `yaml:"validation"`
	Articles   []string         `yaml:"articles"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// AnthropicConfig defines how to contact the Messages API.
type AnthropicConfig struct {
	APIKey         Secret        `yaml:"-"`
	BaseURL        string        `yaml:"baseUrl"`
	Model          string        `yaml:"model"`
	MaxTokens      int           `yaml:"maxTokens"`
	ThemeMaxTokens int           `yaml:"themeMaxTokens"`
	Timeout        time.Duration `yaml:"timeout"`
}

// FetchConfig tunes article downloads.
type FetchConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"userAgent"`
	MaxChars  int           `yaml:"maxChars"`
}

// MailConfig wires the SMTP relay and the fixed addresses.
type MailConfig struct {
	Host          string        `yaml:"host"`
	Port          int           `yaml:"port"`
	Username      string        `yaml:"username"`
	Password      Secret        `yaml:"-"`
	From          string        `yaml:"from"`
	To            string        `yaml:"to"`
	SubjectPrefix string        `yaml:"subjectPrefix"`
	Timeout       time.Duration `yaml:"timeout"`
}

// ValidationConfig holds the digest quality thresholds.
type ValidationConfig struct {
	MinWords     int      `yaml:"minWords"`
	MaxWords     int      `yaml:"maxWords"`
	MinCitations int      `yaml:"minCitations"`
	Placeholders []string `yaml:"placeholders"`
	// SourceAliases maps a publication name to its domain, e.g. "Education Week": "edweek.org".
	SourceAliases         map[string]string `yaml:"sourceAliases"`
	RepeatedSentenceWords int               `yaml:"repeatedSentenceWords"`
}

// Load reads .env, the optional YAML file and environment overrides.
// path takes precedence over EDTECH_DIGEST_CONFIG.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Articles) == 0 {
		cfg.Articles = defaultConfig().Articles
	}
	if cfg.Mail.Username == "" {
		cfg.Mail.Username = cfg.Mail.From
	}

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(apiKeyEnv); v != "" {
		c.Anthropic.APIKey = Secret(v)
	}

	if v := os.Getenv(modelEnv); v != "" {
		c.Anthropic.Model = v
	}

	if v := os.Getenv(mailPasswordEnv); v != "" {
		c.Mail.Password = Secret(v)
	}

	if v := os.Getenv(mailFromEnv); v != "" {
		c.Mail.From = v
	}

	if v := os.Getenv(mailToEnv); v != "" {
		c.Mail.To = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks what every run needs. The mail password is only required
// when a send is attempted, so it is not checked here.
func (c Config) Validate() error {
	var errs []error

	if c.Anthropic.APIKey == "" {
		errs = append(errs, fmt.Errorf("%s is not set", apiKeyEnv))
	}
	if strings.TrimSpace(c.Anthropic.Model) == "" {
		errs = append(errs, errors.New("anthropic.model is empty"))
	}
	if c.Mail.Host == "" || c.Mail.Port <= 0 {
		errs = append(errs, errors.New("mail.host and mail.port are required"))
	}
	if c.Mail.From == "" || c.Mail.To == "" {
		errs = append(errs, errors.New("mail.from and mail.to are required"))
	}
	if c.Validation.MinWords < 0 || c.Validation.MaxWords < c.Validation.MinWords {
		errs = append(errs, fmt.Errorf("validation word band %d-%d is invalid",
			c.Validation.MinWords, c.Validation.MaxWords))
	}
	if c.Fetch.Timeout <= 0 {
		errs = append(errs, errors.New("fetch.timeout must be positive"))
	}

	return errors.Join(errs...)
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Anthropic: AnthropicConfig{
			Model:          "claude-sonnet-4-20250514",
			MaxTokens:      1500,
			ThemeMaxTokens: 50,
			Timeout:        60 * time.Second,
		},
		Fetch: FetchConfig{
			Timeout:   10 * time.Second,
			UserAgent: "Mozilla/5.0 (compatible; EdTechDigestBot/1.0)",
			MaxChars:  5000,
		},
		Mail: MailConfig{
			Host:          "smtp.gmail.com",
			Port:          465,
			From:          "digest@example.com",
			To:            "reader@example.com",
			SubjectPrefix: "Weekly EdTech Digest",
			Timeout:       30 * time.Second,
		},
		Validation: ValidationConfig{
			MinWords:     350,
			MaxWords:     650,
			MinCitations: 3,
			Placeholders: []string{
				"lorem ipsum",
				"dolor sit amet",
				"placeholder",
				"insert here",
				"your name here",
				"as an ai language model",
			},
			SourceAliases: map[string]string{
				"Education Week": "edweek.org",
				"EdWeek":         "edweek.org",
				"Market Brief":   "edweek.org",
				"EdSurge":        "edsurge.com",
				"TechCrunch":     "techcrunch.com",
			},
			RepeatedSentenceWords: 6,
		},
		Articles: []string{
			"https://marketbrief.edweek.org/product-development/as-ai-moves-quickly-lego-education-bets-on-foundations-over-fomo/2026/02",
			"https://marketbrief.edweek.org/strategy-operations/longtime-ed-tech-veteran-on-new-role-urgent-literary-needs-in-k-12/2026/01",
			"https://www.edweek.org/technology/not-meant-for-children-adults-favor-age-restrictions-on-social-media-ai/2026/02",
			"https://www.edweek.org/technology/microsoft-joins-other-companies-in-trying-to-fill-ai-training-gap-in-schools/2026/02",
			"https://www.edsurge.com/news/2026-02-06-new-report-card-grades-states-on-laws-banning-phones-in-schools",
			"https://techcrunch.com/2026/01/21/language-learning-marketplace-preplys-unicorn-status-embodies-ukrainian-resilience/",
			"https://techcrunch.com/2025/12/17/coursera-and-udemy-enter-a-merger-agreement-valued-at-around-2-5b/",
		},
	}
}
