package config

import (
	"os"
)

type Config struct {
	AppEnv   string
	LogLevel string
	Theme    string

	Store     string
	DataPath  string
	Catalog   string
	RedisAddr string
	RedisPass string
	RedisPfx  string

	HTTPAddr string
}

// Load reads the environment. Root flags override these afterwards.
func Load() Config {
	return Config{
		AppEnv:    getEnv("APP_ENV", "dev"),
		LogLevel:  getEnv("LOG_LEVEL", "warn"),
		Theme:     getEnv("GOMARKETPLACE_THEME", "classic"),
		Store:     getEnv("GOMARKETPLACE_STORE", "file"),
		DataPath:  getEnv("GOMARKETPLACE_DATA", ""),
		Catalog:   getEnv("GOMARKETPLACE_CATALOG", ""),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass: getEnv("REDIS_PASSWORD", ""),
		RedisPfx:  getEnv("REDIS_PREFIX", ""),
		HTTPAddr:  getEnv("HTTP_ADDR", ":8080"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
