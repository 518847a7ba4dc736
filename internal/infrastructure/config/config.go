package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Log        LogConfig
	HTTP       HTTPConfig
	JWT        JWTConfig
	QuickBooks QuickBooksConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// JWTConfig holds admin API token settings
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// QuickBooksConfig holds the web-connector facing settings
type QuickBooksConfig struct {
	// ServerVersion is echoed to the client on serverVersion calls
	ServerVersion string
	// AppName through QBType feed the generated .qwc file
	AppName    string
	AppURL     string
	AppSupport string
	Username   string
	OwnerID    string
	FileID     string
	QBType     string
	// PriorityOrder lists job type names in dequeue preference order;
	// empty means oldest-pending-of-any-type
	PriorityOrder []string
	// Exportables toggles job enqueuing per type name
	Exportables map[string]bool
}

// ExportableEnabled reports whether jobs of the named type should be enqueued.
// Types absent from the map default to enabled.
func (q QuickBooksConfig) ExportableEnabled(name string) bool {
	if q.Exportables == nil {
		return true
	}
	enabled, ok := q.Exportables[name]
	if !ok {
		return true
	}
	return enabled
}

// exportableToggles coerces the raw viper map to per-type booleans; TOML
// files carry real bools but env overrides arrive as strings
func exportableToggles(raw map[string]interface{}) map[string]bool {
	if len(raw) == 0 {
		return nil
	}
	toggles := make(map[string]bool, len(raw))
	for name, value := range raw {
		toggles[name] = cast.ToBool(value)
	}
	return toggles
}

// DSN returns the PostgreSQL connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// URL returns the database URL form used by the migration tool
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with QBGW_ prefix (e.g., QBGW_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("QBGW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
			IdleTimeout:  v.GetDuration("http.idle_timeout"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			Expiration: v.GetDuration("jwt.expiration"),
			Issuer:     v.GetString("jwt.issuer"),
		},
		QuickBooks: QuickBooksConfig{
			ServerVersion: v.GetString("quickbooks.server_version"),
			AppName:       v.GetString("quickbooks.app_name"),
			AppURL:        v.GetString("quickbooks.app_url"),
			AppSupport:    v.GetString("quickbooks.app_support"),
			Username:      v.GetString("quickbooks.username"),
			OwnerID:       v.GetString("quickbooks.owner_id"),
			FileID:        v.GetString("quickbooks.file_id"),
			QBType:        v.GetString("quickbooks.qb_type"),
			PriorityOrder: v.GetStringSlice("quickbooks.priority_order"),
			Exportables:   exportableToggles(v.GetStringMap("quickbooks.exportables")),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "qb-export-gateway"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "qbgateway"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 10
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		if cfg.App.Env == "production" {
			cfg.Log.Format = "json"
		} else {
			cfg.Log.Format = "console"
		}
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 30 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 120 * time.Second
	}
	if cfg.JWT.Expiration == 0 {
		cfg.JWT.Expiration = 24 * time.Hour
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = cfg.App.Name
	}
	if cfg.QuickBooks.ServerVersion == "" {
		cfg.QuickBooks.ServerVersion = "1.0"
	}
	if cfg.QuickBooks.AppName == "" {
		cfg.QuickBooks.AppName = "Commerce QuickBooks Gateway"
	}
	if cfg.QuickBooks.AppURL == "" {
		cfg.QuickBooks.AppURL = fmt.Sprintf("http://localhost:%s/qbwc", cfg.App.Port)
	}
	if cfg.QuickBooks.AppSupport == "" {
		cfg.QuickBooks.AppSupport = cfg.QuickBooks.AppURL
	}
	if cfg.QuickBooks.OwnerID == "" {
		cfg.QuickBooks.OwnerID = "{57F3B9B1-86F1-4fcc-B1EE-566DE1813D20}"
	}
	if cfg.QuickBooks.FileID == "" {
		cfg.QuickBooks.FileID = "{90A44FB5-33D9-4815-AC85-BC87A7E7D1EB}"
	}
	if cfg.QuickBooks.QBType == "" {
		cfg.QuickBooks.QBType = "QBFS"
	}
}

// validate checks configuration invariants that defaults cannot repair
func (c *Config) validate() error {
	if c.App.Env == "production" && c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required in production")
	}
	if c.JWT.Secret == "" {
		c.JWT.Secret = "development-secret-do-not-use-in-production"
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("database.port %d is out of range", c.Database.Port)
	}
	return nil
}
