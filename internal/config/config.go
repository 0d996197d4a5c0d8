package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DBDSN         string
	MediaDir      string
	LogFile       string
	BaseURL       string // public origin used to build proof file URLs
	StorePhone    string // WhatsApp number orders are handed off to
	RatePrimary   string // JPY->IDR exchange endpoint
	RateSecondary string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file, relying on environment")
	}

	cfg := Config{
		Port:          getenv("PORT", "8080"),
		DBDSN:         getenv("DB_DSN", "warungjp.db"),
		MediaDir:      getenv("MEDIA_DIR", "./web/media"),
		LogFile:       getenv("LOG_FILE", "./warungjp.log"),
		BaseURL:       getenv("BASE_URL", "http://localhost:8080"),
		StorePhone:    getenv("STORE_PHONE", "+817084894699"),
		RatePrimary:   getenv("RATE_PRIMARY_URL", "https://api.exchangerate.host/convert?from=JPY&to=IDR"),
		RateSecondary: getenv("RATE_SECONDARY_URL", "https://open.er-api.com/v6/latest/JPY"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s MEDIA_DIR=%s BASE_URL=%s", cfg.Port, cfg.DBDSN, cfg.MediaDir, cfg.BaseURL)
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
