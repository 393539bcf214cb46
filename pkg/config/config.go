package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Geocoding  GeocodingConfig
	OpenAI     OpenAIConfig
	SerpAPI    SerpAPIConfig
	Reddit     RedditConfig
	Eventbrite EventbriteConfig
	Cache      CacheConfig
	OTEL       OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host        string
	Port        int
	Environment string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// GeocodingConfig holds geocoding provider configuration
type GeocodingConfig struct {
	Provider string
	APIKey   string
}

// OpenAIConfig holds OpenAI configuration
type OpenAIConfig struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	RateLimitRPM   int
	RateLimitBurst int
}

// SerpAPIConfig holds SERP API configuration
type SerpAPIConfig struct {
	APIKey string
}

// RedditConfig holds Reddit search configuration
type RedditConfig struct {
	UserAgent string
}

// EventbriteConfig holds Eventbrite configuration
type EventbriteConfig struct {
	Token string
}

// CacheConfig holds cache TTL configuration
type CacheConfig struct {
	SearchResultsTTL time.Duration
	LocationTTL      time.Duration
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "underfoot"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Geocoding: GeocodingConfig{
			Provider: getEnv("GEOCODING_PROVIDER", "mock"),
			APIKey:   getEnv("GOOGLE_MAPS_API_KEY", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			EmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-ada-002"),
			RateLimitRPM:   getEnvAsInt("OPENAI_RATE_LIMIT_RPM", 60),
			RateLimitBurst: getEnvAsInt("OPENAI_RATE_LIMIT_BURST", 5),
		},
		SerpAPI: SerpAPIConfig{
			APIKey: getEnv("SERPAPI_KEY", ""),
		},
		Reddit: RedditConfig{
			UserAgent: getEnv("REDDIT_USER_AGENT", "Underfoot/1.0"),
		},
		Eventbrite: EventbriteConfig{
			Token: getEnv("EVENTBRITE_TOKEN", ""),
		},
		Cache: CacheConfig{
			SearchResultsTTL: time.Duration(getEnvAsInt("SEARCH_CACHE_TTL_MINUTES", 30)) * time.Minute,
			LocationTTL:      time.Duration(getEnvAsInt("LOCATION_CACHE_TTL_HOURS", 24)) * time.Hour,
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "underfoot"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "0.1.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ServerAddr returns the server listen address
func (c *ServerConfig) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
