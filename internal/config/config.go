package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrInvalidConfig               = errors.New("invalid configuration")
)

const (
	DataSourceFile     = "file"
	DataSourcePostgres = "postgres"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string   `mapstructure:"env"`      // current application environment (local, dev, production etc)
	TelegramAPIToken string   `mapstructure:"-"`        // Telegram API token loaded from environment
	Quran            Quran    `mapstructure:"quran"`    // upstream content API
	Data             Data     `mapstructure:"data"`     // static mushaf tables
	DB               DB       `mapstructure:"database"` // database configuration section
	HTTP             HTTP     `mapstructure:"http"`     // HTTP API server
	Telegram         Telegram `mapstructure:"telegram"` // bot polling options
}

// Quran contains the upstream API and OAuth2 client settings.
type Quran struct {
	APIBaseURL     string        `mapstructure:"api_base_url"`    // content API root, without trailing slash
	TokenURL       string        `mapstructure:"token_url"`       // OAuth2 token endpoint
	Scope          string        `mapstructure:"scope"`           // requested OAuth2 scope
	SafetyMargin   time.Duration `mapstructure:"safety_margin"`   // refresh tokens this long before expiry
	RequestTimeout time.Duration `mapstructure:"request_timeout"` // per request timeout
	ClientID       string        `mapstructure:"-"`               // loaded from environment
	ClientSecret   string        `mapstructure:"-"`               // loaded from environment
}

// Data points at the precomputed juz and page tables.
type Data struct {
	Source       string `mapstructure:"source"`        // "file" or "postgres"
	JuzPath      string `mapstructure:"juz_path"`      // juz -> page range JSON
	PagesPath    string `mapstructure:"pages_path"`    // page -> verse keys JSON
	ChaptersPath string `mapstructure:"chapters_path"` // 114 surah names and lengths
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

type HTTP struct {
	Addr           string   `mapstructure:"addr"`            // listen address, empty disables the server
	AllowedOrigins []string `mapstructure:"allowed_origins"` // CORS origins
}

type Telegram struct {
	Debug         bool `mapstructure:"debug"`
	UpdateTimeout int  `mapstructure:"update_timeout"` // long polling timeout, seconds
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Scopes returns the configured scope as an OAuth2 scope list.
func (q Quran) Scopes() []string {
	return strings.Fields(q.Scope)
}

// Load reads configuration for the bot. The Telegram token is required.
func Load() (*Config, error) {
	cfg, err := LoadWithoutBot()
	if err != nil {
		return nil, err
	}

	if cfg.TelegramAPIToken == "" {
		return nil, fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}

	return cfg, nil
}

// LoadWithoutBot reads configuration from .env, config files and environment
// variables without requiring the Telegram token. Tools that only talk to
// the content API use it.
func LoadWithoutBot() (*Config, error) {
	// A missing .env is fine; real environment variables take precedence.
	_ = godotenv.Load()

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("quran.api_base_url", "https://apis.quran.foundation/content/api/v4")
	v.SetDefault("quran.token_url", "https://oauth2.quran.foundation/oauth2/token")
	v.SetDefault("quran.scope", "content")
	v.SetDefault("quran.safety_margin", "30s")
	v.SetDefault("quran.request_timeout", "10s")
	v.SetDefault("data.source", DataSourceFile)
	v.SetDefault("data.juz_path", "assets/data/juz.json")
	v.SetDefault("data.pages_path", "assets/data/pages.json")
	v.SetDefault("data.chapters_path", "assets/data/chapters.json")
	v.SetDefault("database.max_connections", 5)
	v.SetDefault("database.max_conn_lifetime", "30m")
	v.SetDefault("http.addr", ":5000")
	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("telegram.debug", false)
	v.SetDefault("telegram.update_timeout", 60)

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("client_id", "CLIENT_ID")
	_ = v.BindEnv("client_secret", "CLIENT_SECRET")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")
	_ = v.BindEnv("http.addr", "HTTP_ADDR", "PORT")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.Quran.ClientID = v.GetString("client_id")
	cfg.Quran.ClientSecret = v.GetString("client_secret")
	cfg.DB.URL = v.GetString("database_url")

	if cfg.Quran.ClientID == "" || cfg.Quran.ClientSecret == "" {
		return nil, fmt.Errorf("%w: CLIENT_ID, CLIENT_SECRET", ErrMissingEnvironmentVariables)
	}

	// A bare port, as PaaS platforms set it, becomes a listen address.
	if cfg.HTTP.Addr != "" && !strings.Contains(cfg.HTTP.Addr, ":") {
		cfg.HTTP.Addr = ":" + cfg.HTTP.Addr
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Data.Source {
	case DataSourceFile:
	case DataSourcePostgres:
		if c.DB.URL == "" {
			return fmt.Errorf("%w: DATABASE_URL is required for data.source=postgres", ErrMissingEnvironmentVariables)
		}
	default:
		return fmt.Errorf("%w: unknown data.source %q", ErrInvalidConfig, c.Data.Source)
	}

	if c.Quran.SafetyMargin < 0 {
		return fmt.Errorf("%w: negative quran.safety_margin", ErrInvalidConfig)
	}

	return nil
}
