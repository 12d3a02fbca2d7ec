package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	JWTSecret string

	AdminEmail string
	BaseURL    string

	// DriverTokenTTL bounds how long a mailed driver link stays valid.
	// Zero means the token never expires.
	DriverTokenTTL time.Duration

	// LocationHistoryKeep caps the per-booking live location log.
	LocationHistoryKeep int
}

func LoadEnv() Env {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	return Env{
		AppAddr: envStr("APP_ADDR", ":8080"),
		GinMode: strings.TrimSpace(os.Getenv("GIN_MODE")),

		DBUser: envStr("DB_USER", "root"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: envStr("DB_HOST", "127.0.0.1:3306"),
		DBName: envStr("DB_NAME", "catdump"),

		JWTSecret: envStr("JWT_SECRET", "super-secret-key-change-me"),

		AdminEmail: envStr("ADMIN_EMAIL", "admin@catdump.com"),
		BaseURL:    envStr("BASE_URL", "https://catdump.com"),

		DriverTokenTTL:      envDur("DRIVER_TOKEN_TTL", 0),
		LocationHistoryKeep: envInt("LOCATION_HISTORY_KEEP", 500),
	}
}

func envStr(k, d string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
