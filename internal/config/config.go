// Package config reads runtime settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// REST API location. With APIDiscovery "consul" the base URL is looked
	// up by APIServiceName and APIBaseURL is the fallback.
	APIBaseURL      string
	APIDiscovery    string
	ConsulAddr      string
	APIServiceName  string
	APIBreaker      bool
	BreakerFailures uint32
	BreakerCooldown time.Duration

	FlashSecret   string
	FlashCookie   string
	SecureCookies bool

	ViewStore     string
	RedisAddr     string
	DBDSN         string
	ViewTTL       time.Duration
	RedirectDelay time.Duration

	LogLevel string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func boolenv(key string, def bool) bool {
	switch strings.ToLower(getenv(key, "")) {
	case "1", "true", "on", "yes":
		return true
	case "0", "false", "off", "no":
		return false
	default:
		return def
	}
}

func durenvms(key string, defMs int) time.Duration {
	return time.Duration(atoienv(key, defMs)) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	return time.Duration(atoienv(key, defSec)) * time.Second
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 10),

		APIBaseURL:      strings.TrimRight(getenv("API_BASE_URL", "http://localhost:8000"), "/"),
		APIDiscovery:    getenv("API_DISCOVERY", ""),
		ConsulAddr:      getenv("CONSUL_ADDR", "localhost:8500"),
		APIServiceName:  getenv("API_SERVICE_NAME", "crud-api"),
		APIBreaker:      boolenv("API_BREAKER", false),
		BreakerFailures: uint32(max(atoienv("API_BREAKER_FAILURES", 5), 1)),
		BreakerCooldown: durenvs("API_BREAKER_COOLDOWN", 30),

		FlashSecret:   getenv("FLASH_SECRET", "dev-flash-secret-change-me"),
		FlashCookie:   getenv("FLASH_COOKIE", "flash"),
		SecureCookies: boolenv("COOKIE_SECURE", false),

		ViewStore:     getenv("VIEW_STORE", "memory"),
		RedisAddr:     getenv("REDIS_ADDR", ""),
		DBDSN:         getenv("DB_DSN", ""),
		ViewTTL:       time.Duration(atoienv("VIEW_TTL_MIN", 30)) * time.Minute,
		RedirectDelay: durenvms("REDIRECT_DELAY_MS", 1000),

		LogLevel: getenv("LOG_LEVEL", "info"),
	}
}
