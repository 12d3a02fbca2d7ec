package handlers

import (
	"time"

	intconfig "github.com/designarthur/catdump/internal/config"
	"github.com/designarthur/catdump/internal/mail"
)

// Package-level wiring set once at startup; handlers construct services per
// request on top of these.
var (
	jwtSecret      = []byte("super-secret-key-change-me")
	adminEmail     string
	baseURL        string
	driverTokenTTL time.Duration
	locationKeep   int
	mailer         mail.Sender = mail.LogSender{}
)

// Init applies environment configuration to the handlers package.
func Init(env intconfig.Env) {
	jwtSecret = []byte(env.JWTSecret)
	adminEmail = env.AdminEmail
	driverTokenTTL = env.DriverTokenTTL
	locationKeep = env.LocationHistoryKeep
	baseURL = env.BaseURL
}

// JWTSecret exposes the signing key for the auth middleware.
func JWTSecret() []byte {
	return jwtSecret
}

// SetMailer swaps the outbound mail sender (tests, real delivery backends).
func SetMailer(m mail.Sender) {
	if m != nil {
		mailer = m
	}
}
