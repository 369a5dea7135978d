package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Marketplace MarketplaceConfig
	Blockchain  BlockchainConfig
	Events      EventsConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// MarketplaceConfig seeds the escrow engine on first start
type MarketplaceConfig struct {
	OwnerAddress      string
	EscrowAddress     string
	DefaultFeePercent int
}

// BlockchainConfig holds the chain used to verify custody deposits.
// An empty RPCURL disables on-chain deposits.
type BlockchainConfig struct {
	RPCURL           string
	CustodyAddress   string
	MinConfirmations int
}

// EventsConfig holds market event relay settings
type EventsConfig struct {
	Channel       string
	RelayInterval time.Duration
	RelayEnabled  bool
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "hgigs"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "change-this-in-production"),
			Expiry: getEnvAsDuration("JWT_EXPIRY", 24*time.Hour),
		},
		Marketplace: MarketplaceConfig{
			OwnerAddress:      getEnv("MARKET_OWNER_ADDRESS", ""),
			EscrowAddress:     getEnv("MARKET_ESCROW_ADDRESS", ""),
			DefaultFeePercent: getEnvAsInt("MARKET_DEFAULT_FEE_PERCENT", 5),
		},
		Blockchain: BlockchainConfig{
			RPCURL:           getEnv("CHAIN_RPC_URL", ""),
			CustodyAddress:   getEnv("CHAIN_CUSTODY_ADDRESS", ""),
			MinConfirmations: getEnvAsInt("CHAIN_MIN_CONFIRMATIONS", 3),
		},
		Events: EventsConfig{
			Channel:       getEnv("EVENTS_CHANNEL", "hgigs:market-events"),
			RelayInterval: getEnvAsDuration("EVENTS_RELAY_INTERVAL", 2*time.Second),
			RelayEnabled:  getEnvAsBool("EVENTS_RELAY_ENABLED", true),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
