package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/propfi-txbuilder/internal/domain"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	SubjectPrefix  string        `mapstructure:"subject_prefix"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
}

// Enabled reports whether events should be published
func (c *NATSConfig) Enabled() bool {
	return c.URL != ""
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // in seconds
	IdleTimeout  int    `mapstructure:"idle_timeout"`  // in seconds

	// CORSAllowedOrigins restricts browser origins, empty allows all
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string   `mapstructure:"jwt_public_key"`
	APIKeys      []string `mapstructure:"api_keys"`
}

// LedgerConfig holds the ledger interaction service configuration
type LedgerConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	APIKey  string        `mapstructure:"api_key"`
	// APIKeyHeader is the header carrying APIKey
	APIKeyHeader string `mapstructure:"api_key_header"`
}

// Headers returns the headers sent with every ledger request
func (c *LedgerConfig) Headers() map[string]string {
	if c.APIKey == "" {
		return map[string]string{}
	}
	return map[string]string{c.APIKeyHeader: c.APIKey}
}

// ContractsConfig holds the compiled validator blueprint location
type ContractsConfig struct {
	BlueprintPath string `mapstructure:"blueprint_path"`
	// Mode is strict or permissive
	Mode string `mapstructure:"mode"`
}

// StablecoinConfig describes an accepted stablecoin
type StablecoinConfig struct {
	Name      string `mapstructure:"name"`
	PolicyID  string `mapstructure:"policy_id"`
	AssetName string `mapstructure:"asset_name"`
	Decimals  int    `mapstructure:"decimals"`
}

// ProtocolConfig holds the on-chain protocol constants
type ProtocolConfig struct {
	Network           domain.Network     `mapstructure:"network"`
	ReferenceLabel    string             `mapstructure:"reference_label"`
	UserLabel         string             `mapstructure:"user_label"`
	MinUserLovelace   int64              `mapstructure:"min_user_lovelace"`
	MinScriptLovelace int64              `mapstructure:"min_script_lovelace"`
	Stablecoins       []StablecoinConfig `mapstructure:"stablecoins"`
}

// AcceptedStablecoins converts the configured stablecoins to domain values
func (c *ProtocolConfig) AcceptedStablecoins() ([]domain.Stablecoin, error) {
	coins := make([]domain.Stablecoin, 0, len(c.Stablecoins))
	for _, s := range c.Stablecoins {
		asset := domain.AssetRef{
			PolicyID:  domain.PolicyID(strings.ToLower(s.PolicyID)),
			AssetName: domain.AssetName(strings.ToLower(s.AssetName)),
		}
		if s.Name == "" {
			return nil, fmt.Errorf("stablecoin %s has no name", asset.Unit())
		}
		if asset.IsLovelace() {
			return nil, fmt.Errorf("stablecoin %s has no policy id", s.Name)
		}
		if err := asset.Validate(); err != nil {
			return nil, fmt.Errorf("stablecoin %s: %w", s.Name, err)
		}
		coins = append(coins, domain.Stablecoin{Name: s.Name, Asset: asset, Decimals: s.Decimals})
	}
	return coins, nil
}

// ComposerConfig bounds concurrent ledger reads
type ComposerConfig struct {
	FetchWorkers   int `mapstructure:"fetch_workers"`
	FetchQueueSize int `mapstructure:"fetch_queue_size"`
}

// RateLimitConfig bounds how fast a single client may request transactions
type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	IdleTTL           time.Duration `mapstructure:"idle_ttl"` // Forget clients idle for longer than this
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig    `mapstructure:"server"`
	Database   DatabaseConfig  `mapstructure:"database"`
	NATS       NATSConfig      `mapstructure:"nats"`
	Auth       AuthConfig      `mapstructure:"auth"`
	Ledger     LedgerConfig    `mapstructure:"ledger"`
	Contracts  ContractsConfig `mapstructure:"contracts"`
	Protocol   ProtocolConfig  `mapstructure:"protocol"`
	Composer   ComposerConfig  `mapstructure:"composer"`
	RateLimit  RateLimitConfig `mapstructure:"rate_limit"`
}

// LoadAPIConfig loads configuration for API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
	v.SetDefault("nats.stream_name", "PROPFI_TRANSACTIONS")
	v.SetDefault("nats.subject_prefix", "propfi.transactions")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.connection_name", "propfi-api")
	v.SetDefault("ledger.base_url", "http://localhost:3030")
	v.SetDefault("ledger.timeout", "15s")
	v.SetDefault("ledger.api_key_header", "X-API-Key")
	v.SetDefault("contracts.blueprint_path", "contracts/plutus.json")
	v.SetDefault("contracts.mode", "permissive")
	v.SetDefault("protocol.network", string(domain.NetworkPreprod))
	v.SetDefault("protocol.reference_label", domain.DEFAULT_REFERENCE_LABEL)
	v.SetDefault("protocol.user_label", domain.DEFAULT_USER_LABEL)
	v.SetDefault("protocol.min_user_lovelace", domain.DEFAULT_MIN_USER_LOVELACE)
	v.SetDefault("protocol.min_script_lovelace", domain.DEFAULT_MIN_SCRIPT_LOVELACE)
	v.SetDefault("protocol.stablecoins", []map[string]interface{}{
		{
			"name":       "USDM",
			"policy_id":  "c48cbb3d5e57ed56e276bc45f99ab39abe94e6cd7ac39fb402da47ad",
			"asset_name": "5553444d",
			"decimals":   6,
		},
		{
			"name":       "iUSD",
			"policy_id":  "f66d78b4a3cb3d37afa0ec36461e51ecbde00f26c8f0a68f94b69880",
			"asset_name": "69555344",
			"decimals":   6,
		},
	})
	v.SetDefault("composer.fetch_workers", 4)
	v.SetDefault("composer.fetch_queue_size", 0)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 2)
	v.SetDefault("rate_limit.burst", 10)
	v.SetDefault("rate_limit.idle_ttl", "10m")

	if err := v.ReadInConfig(); err != nil {
		var error viper.ConfigFileNotFoundError
		if errors.As(err, &error) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate protocol settings
	if !domain.IsValidNetwork(config.Protocol.Network) {
		return nil, fmt.Errorf("unsupported network: %s", config.Protocol.Network)
	}
	if config.Protocol.MinUserLovelace <= 0 || config.Protocol.MinScriptLovelace <= 0 {
		return nil, errors.New("protocol minimum lovelace must be positive")
	}
	if config.RateLimit.Enabled && (config.RateLimit.RequestsPerSecond <= 0 || config.RateLimit.Burst <= 0) {
		return nil, errors.New("rate limit requests per second and burst must be positive")
	}

	return &config, nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/api/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("PROPFI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.subject_prefix",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.cors_allowed_origins",
		// Auth
		"auth.jwt_public_key",
		"auth.api_keys",
		// Ledger
		"ledger.base_url",
		"ledger.timeout",
		"ledger.api_key",
		"ledger.api_key_header",
		// Contracts
		"contracts.blueprint_path",
		"contracts.mode",
		// Protocol
		"protocol.network",
		"protocol.reference_label",
		"protocol.user_label",
		"protocol.min_user_lovelace",
		"protocol.min_script_lovelace",
		// Composer
		"composer.fetch_workers",
		"composer.fetch_queue_size",
		// Rate limit
		"rate_limit.enabled",
		"rate_limit.requests_per_second",
		"rate_limit.burst",
		"rate_limit.idle_ttl",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
