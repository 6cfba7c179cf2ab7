package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	// Clear any env vars that might be set on the host.
	for _, key := range []string{
		"SERVER_PORT", "STORAGE_DRIVER", "SCORING_PROVIDER", "BOT_USER_ID",
		"RISK_ALERT_THRESHOLD", "SELF_CATEGORY", "BELIEF_CATEGORIES",
		"RISK_CATEGORIES", "BELIEF_MARKERS",
	} {
		t.Setenv(key, "")
	}

	assert.Equal(t, 8080, ServerPort())
	assert.Equal(t, ":8080", ServerAddr())
	assert.Equal(t, "postgres", StorageDriver())
	assert.Equal(t, "inference", ScoringProvider())
	assert.Equal(t, int64(1), BotUserID())
	assert.Equal(t, 0.75, RiskAlertThreshold())
	assert.Equal(t, "self_efficacy", SelfCategory())
	assert.Len(t, BeliefCategories(), 5)
	assert.Len(t, RiskCategories(), 3)
	assert.Len(t, BeliefMarkers(), 9)
}

func TestOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("BOT_USER_ID", "99")
	t.Setenv("RISK_ALERT_THRESHOLD", "0.5")
	t.Setenv("BELIEF_CATEGORIES", "optimism, skepticism")

	assert.Equal(t, 9000, ServerPort())
	assert.Equal(t, "sqlite", StorageDriver())
	assert.Equal(t, int64(99), BotUserID())
	assert.Equal(t, 0.5, RiskAlertThreshold())
	assert.Equal(t, []string{"optimism", "skepticism"}, BeliefCategories())
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	t.Setenv("RISK_ALERT_THRESHOLD", "7")
	t.Setenv("RISK_CATEGORIES", " , ,")

	assert.Equal(t, 8080, ServerPort())
	assert.Equal(t, 0.75, RiskAlertThreshold())
	assert.Len(t, RiskCategories(), 3)
}
