// Package config loads the service configuration from the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Default endpoints, used unless overridden for testing or self-hosted proxies.
const (
	DefaultNotionAPIURL   = "https://api.notion.com/v1"
	DefaultNotionAuthURL  = "https://api.notion.com/v1/oauth/authorize"
	DefaultNotionTokenURL = "https://api.notion.com/v1/oauth/token"
	DefaultSlackAuthURL   = "https://slack.com/oauth/v2/authorize"
	DefaultPublicURL      = "https://ptn.potapov.dev"
)

// Config is built once at startup and passed to every component that needs it.
type Config struct {
	Host        string
	Port        string
	DatabaseDSN string
	PublicURL   string // front-end the OAuth flows return to
	LogLevel    string
	LogFormat   string

	Telegram TelegramConfig
	Notion   NotionConfig
	Slack    SlackConfig
}

type TelegramConfig struct {
	BotToken   string
	WebhookURL string
}

type NotionConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	APIURL       string
	AuthURL      string
	TokenURL     string
}

type SlackConfig struct {
	ClientID          string
	ClientSecret      string
	RedirectURI       string
	VerificationToken string
	AuthURL           string
	Scopes            []string
	UserScopes        []string
}

// Load reads envFile (if it exists) into the environment without overriding
// variables that are already set, then builds a Config. An empty envFile means ".env".
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the current environment.
func FromEnv() *Config {
	return &Config{
		Host:        getEnvDefault("HOST", "127.0.0.1"),
		Port:        getEnvDefault("PORT", "8080"),
		DatabaseDSN: getEnvDefault("DATABASE_DSN", "ptn.db"),
		PublicURL:   getEnvDefault("PTN_PUBLIC_URL", DefaultPublicURL),
		LogLevel:    getEnvDefault("LOG_LEVEL", "info"),
		LogFormat:   getEnvDefault("LOG_FORMAT", "text"),
		Telegram: TelegramConfig{
			BotToken:   env("TELEGRAM_BOT_TOKEN"),
			WebhookURL: env("TELEGRAM_WEBHOOK_URL"),
		},
		Notion: NotionConfig{
			ClientID:     env("NOTION_OAUTH_CLIENT_ID"),
			ClientSecret: env("NOTION_OAUTH_SECRET"),
			RedirectURI:  env("NOTION_OAUTH_REDIRECT_URI"),
			APIURL:       getEnvDefault("NOTION_API_URL", DefaultNotionAPIURL),
			AuthURL:      getEnvDefault("NOTION_OAUTH_AUTH_URL", DefaultNotionAuthURL),
			TokenURL:     getEnvDefault("NOTION_OAUTH_TOKEN_URL", DefaultNotionTokenURL),
		},
		Slack: SlackConfig{
			ClientID:          env("SLACK_OAUTH_CLIENT_ID"),
			ClientSecret:      env("SLACK_OAUTH_SECRET"),
			RedirectURI:       env("SLACK_OAUTH_REDIRECT_URI"),
			VerificationToken: env("SLACK_VERIFICATION_TOKEN"),
			AuthURL:           getEnvDefault("SLACK_OAUTH_AUTH_URL", DefaultSlackAuthURL),
			Scopes:            splitList(getEnvDefault("SLACK_OAUTH_SCOPES", "app_mentions:read,channels:history,chat:write,commands,im:history")),
			UserScopes:        splitList(env("SLACK_OAUTH_USER_SCOPES")),
		},
	}
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// Validate reports every missing credential at once.
func (c *Config) Validate() error {
	required := []struct {
		key   string
		value string
	}{
		{"TELEGRAM_BOT_TOKEN", c.Telegram.BotToken},
		{"NOTION_OAUTH_CLIENT_ID", c.Notion.ClientID},
		{"NOTION_OAUTH_SECRET", c.Notion.ClientSecret},
		{"NOTION_OAUTH_REDIRECT_URI", c.Notion.RedirectURI},
		{"SLACK_OAUTH_CLIENT_ID", c.Slack.ClientID},
		{"SLACK_OAUTH_SECRET", c.Slack.ClientSecret},
		{"SLACK_OAUTH_REDIRECT_URI", c.Slack.RedirectURI},
		{"SLACK_VERIFICATION_TOKEN", c.Slack.VerificationToken},
	}

	var errs []error
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("missing required env var: %s", r.key))
		}
	}
	return errors.Join(errs...)
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func getEnvDefault(key, def string) string {
	if v := env(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
