package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by CREDENCE_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("CREDENCE_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// StorageDriver returns the history store driver.
// Valid values: postgres, sqlite. Defaults to "postgres".
func StorageDriver() string {
	d := os.Getenv("STORAGE_DRIVER")
	if d == "" {
		return "postgres"
	}
	return d
}

func SQLitePath() string {
	p := os.Getenv("SQLITE_PATH")
	if p == "" {
		return "data/credence.db"
	}
	return p
}

// ScoringProvider returns the configured scoring backend.
// Valid values: inference, mock. Defaults to "inference".
func ScoringProvider() string {
	p := os.Getenv("SCORING_PROVIDER")
	if p == "" {
		return "inference"
	}
	return p
}

// ScoringURL is the base URL of the model inference sidecar.
func ScoringURL() string {
	u := os.Getenv("SCORING_URL")
	if u == "" {
		return "http://localhost:8500"
	}
	return u
}

// NatsURL returns the NATS server URL for risk alerts.
// Empty means alert publishing is disabled.
func NatsURL() string {
	return os.Getenv("NATS_URL")
}

// RiskAlertThreshold returns the minimum risk score that triggers an alert
// event. Defaults to 0.75.
func RiskAlertThreshold() float64 {
	t, err := strconv.ParseFloat(os.Getenv("RISK_ALERT_THRESHOLD"), 64)
	if err != nil || t <= 0 || t > 1 {
		return 0.75
	}
	return t
}

// BotUserID returns the reserved user id of the automated participant.
// Defaults to 1.
func BotUserID() int64 {
	id, err := strconv.ParseInt(os.Getenv("BOT_USER_ID"), 10, 64)
	if err != nil {
		return 1
	}
	return id
}

// BeliefCategories returns the belief taxonomy, overridable as a
// comma-separated list. Downstream teams should align this with a validated
// taxonomy (e.g. Schwartz Values, Moral Foundations) when they have one.
func BeliefCategories() []string {
	return envList("BELIEF_CATEGORIES", []string{
		"self_efficacy",
		"core_values",
		"social_beliefs",
		"institutional_trust",
		"technology_stance",
	})
}

// RiskCategories returns the risk taxonomy used for multi-label scoring.
func RiskCategories() []string {
	return envList("RISK_CATEGORIES", []string{
		"self_harm",
		"violence",
		"depression",
	})
}

// SelfCategory returns the belief category treated as self-assessment by the
// value attribution view.
func SelfCategory() string {
	if c := os.Getenv("SELF_CATEGORY"); c != "" {
		return c
	}
	return "self_efficacy"
}

// BeliefMarkers returns the marker phrases used to detect explicit belief
// statements, overridable as a comma-separated list. The defaults only catch
// explicit markers; implicit beliefs are missed.
func BeliefMarkers() []string {
	return envList("BELIEF_MARKERS", []string{
		"i believe",
		"i feel",
		"i think",
		"i value",
		"i'm worried",
		"i firmly believe",
		"i've come to believe",
		"we've become",
		"we are",
	})
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

func envList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
