package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	ShutdownPeriod time.Duration `mapstructure:"shutdown_period"`
}

// UpstreamConfig locates the clinic API the console fronts. ImageBaseURL
// resolves the relative image paths the API returns into absolute URLs.
type UpstreamConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	ImageBaseURL string        `mapstructure:"image_base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type SessionConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	CookieName string        `mapstructure:"cookie_name"`
	RedisURL   string        `mapstructure:"redis_url"`
}

type ListConfig struct {
	DefaultLimit   int           `mapstructure:"default_limit"`
	SearchDebounce time.Duration `mapstructure:"search_debounce"`
	StatsTTL       time.Duration `mapstructure:"stats_ttl"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool   `mapstructure:"prometheus_enabled"`
	MetricsPrefix     string `mapstructure:"metrics_prefix"`
}

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Upstream   UpstreamConfig   `mapstructure:"upstream"`
	Session    SessionConfig    `mapstructure:"session"`
	List       ListConfig       `mapstructure:"list"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// envOverrides maps environment variables onto config values after the file
// is read, so deployments can tweak settings without shipping a new file.
type envOverrides struct {
	Port            int           `envconfig:"PORT"`
	UpstreamBaseURL string        `envconfig:"UPSTREAM_BASE_URL"`
	ImageBaseURL    string        `envconfig:"IMAGE_BASE_URL"`
	RedisURL        string        `envconfig:"SESSION_REDIS_URL"`
	SessionTTL      time.Duration `envconfig:"SESSION_TTL"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/app")
	viper.AddConfigPath("/app/config")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var env envOverrides
	if err := envconfig.Process("console", &env); err != nil {
		return nil, fmt.Errorf("failed to read env overrides: %w", err)
	}
	if env.Port != 0 {
		config.Server.Port = env.Port
	}
	if env.UpstreamBaseURL != "" {
		config.Upstream.BaseURL = env.UpstreamBaseURL
	}
	if env.ImageBaseURL != "" {
		config.Upstream.ImageBaseURL = env.ImageBaseURL
	}
	if env.RedisURL != "" {
		config.Session.RedisURL = env.RedisURL
	}
	if env.SessionTTL != 0 {
		config.Session.TTL = env.SessionTTL
	}

	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 8090
	}
	if c.Server.ShutdownPeriod == 0 {
		c.Server.ShutdownPeriod = 5 * time.Second
	}
	if c.Upstream.Timeout == 0 {
		c.Upstream.Timeout = 15 * time.Second
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 12 * time.Hour
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "console_session"
	}
	if c.List.DefaultLimit == 0 {
		c.List.DefaultLimit = 20
	}
	if c.List.SearchDebounce == 0 {
		c.List.SearchDebounce = 300 * time.Millisecond
	}
	if c.List.StatsTTL == 0 {
		c.List.StatsTTL = 30 * time.Second
	}
	if c.Monitoring.MetricsPrefix == "" {
		c.Monitoring.MetricsPrefix = "admin_console"
	}
}
