// Package config handles configuration loading for the directory API.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all configuration for the directory API.
type Config struct {
	MongoHost     string
	MongoPort     string
	MongoUser     string
	MongoPassword string
	MongoDBName   string

	JWTSecret   string
	TokenExpiry time.Duration
	BcryptCost  int

	RedisHost       string
	RedisPort       string
	RedisPassword   string
	RateLimitWindow time.Duration
	RateLimitMax    int

	Port        string
	Environment string
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		MongoHost:     getEnv("MONGO_HOST", "database"),
		MongoPort:     getEnv("MONGO_PORT", "27017"),
		MongoUser:     getEnv("API_MONGO_USERNAME", "api-user"),
		MongoPassword: getEnv("API_MONGO_PASSWORD", "somepass"),
		MongoDBName:   getEnv("MONGO_DATABASE_NAME", "my-database"),

		JWTSecret:   getEnvRequired("JWT_SECRET"),
		TokenExpiry: getEnvAsDuration("TOKEN_EXPIRY", 24*time.Hour),
		BcryptCost:  getEnvAsInt("BCRYPT_COST", 8),

		RedisHost:       getEnv("REDIS_HOST", ""),
		RedisPort:       getEnv("REDIS_PORT", "6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RateLimitWindow: getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
		RateLimitMax:    getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 10),

		Port:        getEnv("PORT", "8000"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}
}

// MongoURI builds the connection string for the document store.
func (c *Config) MongoURI() string {
	return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s",
		c.MongoUser, c.MongoPassword, c.MongoHost, c.MongoPort, c.MongoDBName)
}

// RedisAddr returns the redis host:port pair.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// RedisEnabled reports whether a redis instance is configured. Login rate
// limiting is skipped entirely when it is not.
func (c *Config) RedisEnabled() bool {
	return c.RedisHost != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		logrus.Fatalf("required environment variable %s is not set", key)
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
