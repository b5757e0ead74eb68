package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	EnableWebsocket bool

	// Maintenance endpoints (the ticket reconciliation sweep) are gated by
	// API key so an external scheduler can call them without a session.
	APIKeyRequired bool
	APIKeys        []string

	DBPath string

	JWTSecret string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Advertencia: archivo .env no encontrado")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),

		EnableWebsocket: getBoolEnv("ENABLE_WEBSOCKET", true),

		APIKeyRequired: getBoolEnv("API_KEY_REQUIRED", false),
		APIKeys:        getStringSliceEnv("API_KEYS", []string{}),

		DBPath: getEnv("DB_PATH", "nexa.db"),

		JWTSecret: getEnv("JWT_SECRET", "clave-jwt-de-desarrollo-cambiar-en-produccion"),
	}

	return config
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getBoolEnv(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return boolValue
}

func getStringSliceEnv(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	return strings.Split(value, ",")
}
