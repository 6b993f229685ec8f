package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// HTTP server
	Server ServerConfig `mapstructure:"server"`

	// Admin gate
	Admin AdminConfig `mapstructure:"admin"`

	// Key-value store backend for analytics and saved applications
	KV KVConfig `mapstructure:"kv"`

	// Redis
	Redis RedisConfig `mapstructure:"redis"`

	// NATS
	NATS NATSConfig `mapstructure:"nats"`

	// Contact queue
	Contact ContactConfig `mapstructure:"contact"`

	// Outbound mail
	Mail MailConfig `mapstructure:"mail"`

	// PostgreSQL (delivery ledger)
	Postgres PostgresConfig `mapstructure:"postgres"`

	// Prometheus
	Prometheus PrometheusConfig `mapstructure:"prometheus"`

	// Public site
	Site SiteConfig `mapstructure:"site"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port       int    `mapstructure:"port"`
	Env        string `mapstructure:"env"`
	CORSOrigin string `mapstructure:"cors_origin"`
}

// Addr returns the listen address, defaulting to :8080.
func (s ServerConfig) Addr() string {
	port := s.Port
	if port == 0 {
		port = 8080
	}
	return fmt.Sprintf(":%d", port)
}

// IsProduction reports whether the server runs with production defaults.
func (s ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Env, "production")
}

type AdminConfig struct {
	PIN string `mapstructure:"pin"`
}

const (
	KVDriverRedis  = "redis"
	KVDriverMemory = "memory"
)

type KVConfig struct {
	Driver string `mapstructure:"driver"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type NATSConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	MonitorPort int    `mapstructure:"monitor_port"`
}

type ContactConfig struct {
	Stream     string        `mapstructure:"stream"`
	Subject    string        `mapstructure:"subject"`
	Durable    string        `mapstructure:"durable"`
	BatchSize  int           `mapstructure:"batch_size"`
	FetchWait  time.Duration `mapstructure:"fetch_wait"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	MaxDeliver int           `mapstructure:"max_deliver"`
	PendingTTL time.Duration `mapstructure:"pending_ttl"`
}

type MailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
	SiteName string `mapstructure:"site_name"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	Database          string `mapstructure:"database"`
	Port              int    `mapstructure:"port"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   string `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   string `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod string `mapstructure:"health_check_period"`
}

// Enabled reports whether a ledger database was configured.
func (p PostgresConfig) Enabled() bool {
	return p.Host != "" && p.Database != ""
}

type PrometheusConfig struct {
	Port int `mapstructure:"port"`
}

type SiteConfig struct {
	StaticDir string     `mapstructure:"static_dir"`
	Pages     []SitePage `mapstructure:"pages"`
}

// SitePage is one sitemap entry.
type SitePage struct {
	Path       string `mapstructure:"path"`
	Priority   string `mapstructure:"priority"`
	ChangeFreq string `mapstructure:"changefreq"`
}

type RateLimitConfig struct {
	ContactMax    int           `mapstructure:"contact_max"`
	ContactWindow time.Duration `mapstructure:"contact_window"`
}

func Load() (*Config, error) {
	// Load local .env for development (ignored when missing).
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	// Search for config/config.yaml (plus root for overrides).
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Allow environment variables to override YAML entries.
	v.SetEnvPrefix("")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Preserve legacy env variable names.
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origin", "*")
	v.SetDefault("kv.driver", KVDriverRedis)

	v.SetDefault("contact.stream", "CONTACT")
	v.SetDefault("contact.subject", "contact.messages")
	v.SetDefault("contact.durable", "contact-mailer")
	v.SetDefault("contact.batch_size", 10)
	v.SetDefault("contact.fetch_wait", 5*time.Second)
	v.SetDefault("contact.retry_delay", 30*time.Second)
	v.SetDefault("contact.max_deliver", 5)
	v.SetDefault("contact.pending_ttl", 10*time.Minute)

	v.SetDefault("mail.smtp_port", 587)
	v.SetDefault("mail.from", "noreply@suwityarat.me")
	v.SetDefault("mail.to", "jobs@suwityarat.com")
	v.SetDefault("mail.site_name", "suwityarat.me")

	v.SetDefault("site.static_dir", "./public")
	v.SetDefault("site.pages", []map[string]string{
		{"path": "", "priority": "1.0", "changefreq": "weekly"},
		{"path": "/about", "priority": "0.9", "changefreq": "monthly"},
		{"path": "/portfolio", "priority": "0.9", "changefreq": "weekly"},
		{"path": "/contact", "priority": "0.8", "changefreq": "monthly"},
		{"path": "/resume-pdf", "priority": "0.6", "changefreq": "monthly"},
	})

	v.SetDefault("rate_limit.contact_max", 5)
	v.SetDefault("rate_limit.contact_window", time.Minute)
}

func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.env", "APP_ENV")
	v.BindEnv("server.cors_origin", "CORS_ORIGIN")

	// Admin
	v.BindEnv("admin.pin", "ADMIN_PIN")

	// KV
	v.BindEnv("kv.driver", "KV_DRIVER")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")

	// NATS
	v.BindEnv("nats.host", "NATS_HOST")
	v.BindEnv("nats.port", "NATS_PORT")
	v.BindEnv("nats.user", "NATS_USER")
	v.BindEnv("nats.password", "NATS_PASSWORD")
	v.BindEnv("nats.monitor_port", "NATS_MONITOR_PORT")

	// Mail
	v.BindEnv("mail.enabled", "MAIL_ENABLED")
	v.BindEnv("mail.smtp_host", "SMTP_HOST")
	v.BindEnv("mail.smtp_port", "SMTP_PORT")
	v.BindEnv("mail.username", "SMTP_USER")
	v.BindEnv("mail.password", "SMTP_PASS")
	v.BindEnv("mail.from", "MAIL_FROM")
	v.BindEnv("mail.to", "TO_EMAIL")

	// PostgreSQL
	v.BindEnv("postgres.host", "PG_HOST")
	v.BindEnv("postgres.user", "PG_USER")
	v.BindEnv("postgres.password", "PG_PASSWORD")
	v.BindEnv("postgres.database", "PG_DB")
	v.BindEnv("postgres.port", "PG_PORT")
	v.BindEnv("postgres.sslmode", "PG_SSLMODE")

	// Prometheus
	v.BindEnv("prometheus.port", "PROM_PORT")
}
