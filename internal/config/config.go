// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the HTTP server, the OTP payment
// flow, and mail delivery.
type Config struct {
	ServiceName     string
	Env             string
	HTTPAddr        string
	ShutdownTimeout time.Duration

	OTPTTL time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
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

func durenvs(key string, defSec int) time.Duration {
	return time.Duration(atoienv(key, defSec)) * time.Second
}

// Load collects configuration from environment with defaults.
func Load() Config {
	cfg := Config{
		ServiceName:     getenv("SERVICE_NAME", "campusbazaar"),
		Env:             getenv("ENV", "dev"),
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 10),
		OTPTTL:          durenvs("OTP_TTL", 300),
		SMTPHost:        getenv("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:        atoienv("SMTP_PORT", 587),
		SMTPUsername:    getenv("EMAIL_USER", ""),
		SMTPPassword:    getenv("EMAIL_PASSWORD", ""),
	}
	cfg.SMTPFrom = getenv("EMAIL_FROM", cfg.SMTPUsername)
	return cfg
}
