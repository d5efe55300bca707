package config

import (
	"os"
	"strconv"
	"time"
)

// Config is read once from the environment at startup.
type Config struct {
	Port string

	BackendBaseURL string
	BackendTimeout time.Duration

	// RequestTimeout bounds whole inbound requests and must outlast
	// BackendTimeout so a slow backend call fails on its own deadline
	// instead of racing the router's.
	RequestTimeout time.Duration

	RedisAddr     string
	RedisPassword string

	OperatorEmpID    string
	OperatorUsername string

	SessionTTL      time.Duration
	ShutdownTimeout time.Duration
}

func Load() Config {
	return Config{
		Port:             getEnv("POS_PORT", "8080"),
		BackendBaseURL:   getEnv("POS_BACKEND_URL", "http://localhost:5000"),
		BackendTimeout:   getDuration("POS_BACKEND_TIMEOUT", 15*time.Second),
		RequestTimeout:   getDuration("POS_REQUEST_TIMEOUT", 30*time.Second),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		OperatorEmpID:    getEnv("POS_OPERATOR_EMPID", "POS_USER"),
		OperatorUsername: getEnv("POS_OPERATOR_USERNAME", "POS Operator"),
		SessionTTL:       getDuration("POS_SESSION_TTL", 30*time.Minute),
		ShutdownTimeout:  getDuration("POS_SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
