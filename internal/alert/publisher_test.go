package alert

import (
	"testing"

	"github.com/attune-labs/credence/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRiskAlertBelowThreshold(t *testing.T) {
	record := domain.RiskRecord{
		RiskScores: map[string]float64{"self_harm": 0.2, "violence": 0.1, "depression": 0.4},
	}

	_, flagged := BuildRiskAlert("42", record, 0.75)

	assert.False(t, flagged)
}

func TestBuildRiskAlertFlagsTopCategory(t *testing.T) {
	record := domain.RiskRecord{
		Timestamp:          "2024-03-01T10:00:00Z",
		ConversationID:     7,
		SourceMessageIndex: 3,
		RiskScores:         map[string]float64{"self_harm": 0.1, "violence": 0.2, "depression": 0.9},
	}

	a, flagged := BuildRiskAlert("42", record, 0.75)

	require.True(t, flagged)
	assert.Equal(t, "42", a.SubjectKey)
	assert.Equal(t, "depression", a.TopCategory)
	assert.Equal(t, 0.9, a.TopScore)
	assert.Equal(t, int64(7), a.ConversationID)
	assert.Equal(t, 3, a.SourceMessageIndex)
	assert.Equal(t, record.RiskScores, a.RiskScores)
}

func TestBuildRiskAlertTieBreaksLexically(t *testing.T) {
	record := domain.RiskRecord{
		RiskScores: map[string]float64{"violence": 0.8, "depression": 0.8},
	}

	a, flagged := BuildRiskAlert("42", record, 0.75)

	require.True(t, flagged)
	assert.Equal(t, "depression", a.TopCategory)
}

func TestBuildRiskAlertEmptyScores(t *testing.T) {
	_, flagged := BuildRiskAlert("42", domain.RiskRecord{}, 0.75)
	assert.False(t, flagged)
}
