package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	Port           string
	DBDSN          string
	LogFile        string
	JWTSecret      string
	MaxImportBytes int
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "storefront.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./storefront.log"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-only-secret"
		log.Println("[config] JWT_SECRET not set, using dev default")
	}
	maxImport := 2 << 20 // 2 MiB upload cap for catalog files
	if v := os.Getenv("MAX_IMPORT_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxImport = n
		}
	}

	cfg := Config{Port: port, DBDSN: dsn, LogFile: logFile, JWTSecret: secret, MaxImportBytes: maxImport}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s MAX_IMPORT_BYTES=%d", cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.MaxImportBytes)
	return cfg
}
