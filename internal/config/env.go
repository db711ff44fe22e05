package config

import (
	"os"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()
}

type Config struct {
	// Local calendar store
	DBPath  string
	ICSFile string

	// User settings
	Timezone string // IANA id, e.g. "America/Los_Angeles"
	Culture  string // recognizer culture

	// Google Calendar (optional; the local store is used when unset)
	GoogleCredentialsFile string
	GoogleTokenFile       string
	GoogleCalendarID      string
}

func LoadFromEnv() *Config {
	return &Config{
		DBPath:  getEnvOrDefault("WHENISH_DB_PATH", "./whenish.db"),
		ICSFile: os.Getenv("WHENISH_ICS_FILE"),

		Timezone: getEnvOrDefault("WHENISH_TIMEZONE", "UTC"),
		Culture:  getEnvOrDefault("WHENISH_CULTURE", "en-us"),

		GoogleCredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		GoogleTokenFile:       getEnvOrDefault("GOOGLE_TOKEN_FILE", "./token.json"),
		GoogleCalendarID:      getEnvOrDefault("WHENISH_CALENDAR_ID", "primary"),
	}
}

// UseGoogleCalendar reports whether Google Calendar credentials are
// configured; without them the local sqlite store serves queries.
func (c *Config) UseGoogleCalendar() bool {
	return c.GoogleCredentialsFile != "" || os.Getenv("GOOGLE_CREDENTIALS_JSON") != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
