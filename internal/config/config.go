// Package config loads runtime settings from the environment.
package config

import "os"

type Config struct {
	ServiceName string
	Env         string
	Port        string

	// DatabaseURL selects the Postgres store. When empty the server falls
	// back to in-memory repositories (local development only).
	DatabaseURL string

	// RedisURL selects the Redis-backed rate limiter. When empty a
	// process-local fixed window is used.
	RedisURL string

	JWTSecret string

	RazorpayKeyID     string
	RazorpayKeySecret string
	// RazorpayAPIURL overrides the provider endpoint, mainly for tests.
	RazorpayAPIURL string

	ClientURL string
}

func Load() Config {
	return Config{
		ServiceName:       getenvDefault("SERVICE_NAME", "storefront"),
		Env:               getenvDefault("ENV", "dev"),
		Port:              getenvDefault("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		JWTSecret:         getenvDefault("JWT_SECRET", "dev-secret"),
		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		RazorpayAPIURL:    getenvDefault("RAZORPAY_API_URL", "https://api.razorpay.com/v1"),
		ClientURL:         getenvDefault("CLIENT_URL", "http://localhost:5173"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
