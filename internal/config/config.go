package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig holds everything the server reads from the environment.
type AppConfig struct {
	ServerPort string
	GinMode    string
	LogLevel   string

	JWTSecret          string
	JWTExpirationHours int64

	// Reporting timezone as a fixed offset east of UTC, in minutes.
	ReportTZOffsetMinutes int
	ReportCacheTTL        time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	CORSAllowedOrigins []string

	// Budget alerts are published only when AMQPURL is set.
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string
}

// Load reads the application configuration, applying defaults for unset keys.
func Load() *AppConfig {
	return &AppConfig{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		GinMode:    getEnv("GIN_MODE", "debug"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		JWTSecret:          os.Getenv("JWT_SECRET_KEY"),
		JWTExpirationHours: int64(getEnvInt("JWT_EXPIRATION_HOURS", 24)),

		ReportTZOffsetMinutes: getEnvInt("REPORT_TZ_OFFSET_MINUTES", 330),
		ReportCacheTTL:        getEnvDuration("REPORT_CACHE_TTL", 30*time.Minute),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 30),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		AMQPURL:        os.Getenv("AMQP_URL"),
		AMQPExchange:   getEnv("AMQP_EXCHANGE", "finance"),
		AMQPRoutingKey: getEnv("AMQP_ROUTING_KEY", "budget.alerts"),
	}
}

// Validate returns every configuration problem at once.
func (c *AppConfig) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.ServerPort); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid SERVER_PORT %q: must be a number between 1 and 65535", c.ServerPort))
	}
	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET_KEY not set in environment")
	}
	if c.JWTExpirationHours < 1 {
		problems = append(problems, fmt.Sprintf("invalid JWT_EXPIRATION_HOURS %d: must be at least 1", c.JWTExpirationHours))
	}
	// Real-world offsets span UTC-12:00 to UTC+14:00.
	if c.ReportTZOffsetMinutes < -12*60 || c.ReportTZOffsetMinutes > 14*60 {
		problems = append(problems, fmt.Sprintf("invalid REPORT_TZ_OFFSET_MINUTES %d: must be between -720 and 840", c.ReportTZOffsetMinutes))
	}
	if c.ReportCacheTTL <= 0 {
		problems = append(problems, "REPORT_CACHE_TTL must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		problems = append(problems, "RATE_LIMIT_RPS must be positive and RATE_LIMIT_BURST at least 1")
	}
	for _, origin := range c.CORSAllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			problems = append(problems, fmt.Sprintf("invalid CORS_ALLOWED_ORIGINS entry %q: must be * or an http(s) origin", origin))
		}
	}
	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP_URL: %v", err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP_URL scheme %q: must be amqp or amqps", u.Scheme))
		}
		if c.AMQPExchange == "" || c.AMQPRoutingKey == "" {
			problems = append(problems, "AMQP_EXCHANGE and AMQP_ROUTING_KEY are required when AMQP_URL is set")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var list []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
