package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is prepended to every environment override, e.g. EQUIPBOT_POSTGRES_HOST.
const envPrefix = "EQUIPBOT"

// ErrMissingToken is returned by RequireToken when no Telegram token is configured.
var ErrMissingToken = errors.New("telegram.token is required")

// DefaultCategories is the recommended category list offered by the bot.
var DefaultCategories = []string{
	"Компьютеры и ноутбуки",
	"Серверное оборудование",
	"Сетевое оборудование",
	"Принтеры и МФУ",
	"Мониторы и дисплеи",
	"Комплектующие",
	"Периферия",
	"Другое",
}

// Config holds the configuration settings for the application.
// It is built once at startup and passed explicitly into constructors.
type Config struct {
	Env        string           `mapstructure:"env"`        // Env is the current environment: local, development, production.
	Telegram   TelegramConfig   `mapstructure:"telegram"`   // Telegram holds the bot settings
	Database   PostgresConfig   `mapstructure:"postgres"`   // Database holds the postgres database configuration
	Admin      HTTPConfig       `mapstructure:"admin"`      // Admin is the listen address of the administration API
	Monitoring MonitoringConfig `mapstructure:"monitoring"` // Monitoring is the health and metrics server
	Catalog    CatalogConfig    `mapstructure:"catalog"`    // Catalog tunes the catalog service
}

// TelegramConfig holds the bot token, poller timeout and bootstrap admin.
type TelegramConfig struct {
	Token   string        `mapstructure:"token"`    // Token is an unique telegram bot token
	Timeout time.Duration `mapstructure:"timeout"`  // Timeout is the long polling timeout
	AdminID int64         `mapstructure:"admin_id"` // AdminID is granted the admin flag at startup, 0 disables it
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`     // Host is the database server address.
	Port     string `mapstructure:"port"`     // Port is the database server port.
	User     string `mapstructure:"user"`     // User is the database user.
	Password string `mapstructure:"password"` // Password is the database user's password.
	Name     string `mapstructure:"db_name"`  // Name is the name of the database.
	SSLMode  string `mapstructure:"sslmode"`  // SSLMode is passed to libpq as is.

	MinConns          int32         `mapstructure:"min_conns"`           // MinConns is kept open while idle.
	MaxConns          int32         `mapstructure:"max_conns"`           // MaxConns caps the pool, 0 keeps the pgx default.
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time"`  // MaxConnIdleTime closes idle connections.
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"` // HealthCheckPeriod between pool health checks.
	ConnectTimeout    time.Duration `mapstructure:"connect_timeout"`     // ConnectTimeout bounds the initial connect and ping.
}

// URL returns the connection string with the credentials escaped.
func (p PostgresConfig) URL() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, p.Port),
		Path:     "/" + p.Name,
		RawQuery: url.Values{"sslmode": []string{p.SSLMode}}.Encode(),
	}
	return dsn.String()
}

// HTTPConfig is a listen address.
type HTTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns the host:port form of the address.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// MonitoringConfig holds the port of the health and metrics server.
type MonitoringConfig struct {
	Port int `mapstructure:"port"`
}

// CatalogConfig holds the catalog service settings.
type CatalogConfig struct {
	Categories      []string `mapstructure:"categories"`       // Recommended categories, not enforced
	DefaultCurrency string   `mapstructure:"default_currency"` // Applied when create omits the currency
	PageSize        int      `mapstructure:"page_size"`        // Used when a caller passes no limit
	MaxPageSize     int      `mapstructure:"max_page_size"`    // Upper bound for any limit
}

// Load reads the configuration from defaults, the optional YAML file named by CONFIG_PATH
// and EQUIPBOT_* environment variables, in increasing order of precedence.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configPath)
		}

		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// RequireToken reports an error when the bot cannot be started with this configuration.
func (c *Config) RequireToken() error {
	if strings.TrimSpace(c.Telegram.Token) == "" {
		return ErrMissingToken
	}
	return nil
}

func (c *Config) validate() error {
	if c.Database.MinConns < 0 || c.Database.MaxConns < 0 {
		return errors.New("postgres connection limits must not be negative")
	}
	if c.Database.MaxConns > 0 && c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("postgres.min_conns %d is above postgres.max_conns %d",
			c.Database.MinConns, c.Database.MaxConns)
	}
	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("catalog.page_size must be positive, got %d", c.Catalog.PageSize)
	}
	if c.Catalog.MaxPageSize < c.Catalog.PageSize {
		return fmt.Errorf("catalog.max_page_size %d is below catalog.page_size %d",
			c.Catalog.MaxPageSize, c.Catalog.PageSize)
	}
	if strings.TrimSpace(c.Catalog.DefaultCurrency) == "" {
		return errors.New("catalog.default_currency must not be empty")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	const (
		defPollerTimeout  = 10 * time.Second
		defMinConns       = 2
		defIdleTime       = 30 * time.Second
		defHealthCheck    = 30 * time.Second
		defConnectTimeout = 5 * time.Second
		defAdminPort      = 8000
		defMonitoringPort = 8080
		defPageSize       = 10
		defMaxPageSize    = 100
	)

	v.SetDefault("env", "production")
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.timeout", defPollerTimeout)
	v.SetDefault("telegram.admin_id", 0)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db_name", "")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.min_conns", defMinConns)
	v.SetDefault("postgres.max_conns", 0)
	v.SetDefault("postgres.max_conn_idle_time", defIdleTime)
	v.SetDefault("postgres.health_check_period", defHealthCheck)
	v.SetDefault("postgres.connect_timeout", defConnectTimeout)
	v.SetDefault("admin.host", "127.0.0.1")
	v.SetDefault("admin.port", defAdminPort)
	v.SetDefault("monitoring.port", defMonitoringPort)
	v.SetDefault("catalog.categories", DefaultCategories)
	v.SetDefault("catalog.default_currency", "RUB")
	v.SetDefault("catalog.page_size", defPageSize)
	v.SetDefault("catalog.max_page_size", defMaxPageSize)
}
