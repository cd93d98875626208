package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string

	// Web Server
	WebBind string

	// Session
	JWTSecret string

	// Identity provider (OAuth2)
	OAuthClientID     string
	OAuthClientSecret string
	OAuthRedirectURI  string
	OAuthAuthURL      string
	OAuthTokenURL     string
	OAuthUserInfoURL  string
}

func Load() (*Config, error) {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		WebBind:           getEnvDefault("WEB_BIND", "0.0.0.0:3000"),
		JWTSecret:         getEnvDefault("JWT_SECRET", "dev-only-change-me"),
		OAuthClientID:     os.Getenv("OAUTH_CLIENT_ID"),
		OAuthClientSecret: os.Getenv("OAUTH_CLIENT_SECRET"),
		OAuthRedirectURI:  getEnvDefault("OAUTH_REDIRECT_URI", "http://localhost:3000/api/auth/callback"),
		OAuthAuthURL:      os.Getenv("OAUTH_AUTH_URL"),
		OAuthTokenURL:     os.Getenv("OAUTH_TOKEN_URL"),
		OAuthUserInfoURL:  os.Getenv("OAUTH_USERINFO_URL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.OAuthClientID == "" {
		return nil, fmt.Errorf("OAUTH_CLIENT_ID is required")
	}
	if cfg.OAuthClientSecret == "" {
		return nil, fmt.Errorf("OAUTH_CLIENT_SECRET is required")
	}
	if cfg.OAuthAuthURL == "" || cfg.OAuthTokenURL == "" || cfg.OAuthUserInfoURL == "" {
		return nil, fmt.Errorf("OAUTH_AUTH_URL, OAUTH_TOKEN_URL and OAUTH_USERINFO_URL are required")
	}

	return cfg, nil
}

func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
