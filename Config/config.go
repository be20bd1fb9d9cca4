package Config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// AppConfig holds the runtime settings of the invoicing service. Every
// field has a working default so the app runs with no .env at all.
type AppConfig struct {
	ListenAddr        string
	DatabasePath      string
	DocumentDir       string
	LogoPath          string
	FontPath          string
	AllowResave       bool
	DocRetentionDays  int
	RetentionSchedule string
}

// Load reads .env when present and falls back to defaults otherwise.
func Load() AppConfig {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using defaults")
	}

	return AppConfig{
		ListenAddr:        getEnv("LISTEN_ADDR", ":3001"),
		DatabasePath:      getEnv("DB_PATH", "invoices_database.db"),
		DocumentDir:       getEnv("DOCUMENT_DIR", "documents"),
		LogoPath:          getEnv("LOGO_PATH", "logo.png"),
		FontPath:          getEnv("FONT_PATH", ""),
		AllowResave:       getEnvBool("ALLOW_RESAVE", true),
		DocRetentionDays:  getEnvInt("DOC_RETENTION_DAYS", 0),
		RetentionSchedule: getEnv("RETENTION_SCHEDULE", "0 0 3 * * *"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid value %q for %s, using default", value, key)
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid value %q for %s, using default", value, key)
		return fallback
	}
	return parsed
}
