package service

import (
	"testing"

	"github.com/attune-labs/credence/internal/domain"
	"github.com/stretchr/testify/assert"
)

func defaultMarkers() []string {
	return []string{
		"i believe",
		"i feel",
		"i think",
		"i value",
		"i'm worried",
		"i firmly believe",
		"i've come to believe",
		"we've become",
		"we are",
	}
}

func TestFilterParticipantMessages(t *testing.T) {
	e := NewExtractor(1, defaultMarkers())

	messages := []domain.Message{
		{UserID: 1, Text: "Hi, how can I help?"},
		{UserID: 42, Text: "I believe in climate action."},
		{UserID: 1, Text: "Tell me more."},
		{UserID: 42, Text: "It started years ago."},
	}

	filtered := e.FilterParticipantMessages(messages)

	assert.Len(t, filtered, 2)
	assert.Equal(t, "I believe in climate action.", filtered[0].Text)
	assert.Equal(t, "It started years ago.", filtered[1].Text)
}

func TestFilterParticipantMessagesAllBot(t *testing.T) {
	e := NewExtractor(1, defaultMarkers())

	filtered := e.FilterParticipantMessages([]domain.Message{
		{UserID: 1, Text: "Hi"},
		{UserID: 1, Text: "Still here?"},
	})

	assert.Empty(t, filtered)
}

func TestBeliefSentences(t *testing.T) {
	e := NewExtractor(1, defaultMarkers())

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "marker sentence kept, others dropped",
			text: "I believe technology is complex. It's frustrating.",
			want: []string{"I believe technology is complex"},
		},
		{
			name: "multiple markers in one text",
			text: "I think we should talk. The weather is nice! I feel hopeful today.",
			want: []string{"I think we should talk", "I feel hopeful today"},
		},
		{
			name: "case insensitive",
			text: "i FIRMLY BELIEVE in second chances.",
			want: []string{"i FIRMLY BELIEVE in second chances"},
		},
		{
			name: "no terminal punctuation is one sentence",
			text: "I value honesty above all",
			want: []string{"I value honesty above all"},
		},
		{
			name: "consecutive boundary characters act as one delimiter",
			text: "I'm worried about them!!! Really?!",
			want: []string{"I'm worried about them"},
		},
		{
			name: "no marker yields nothing",
			text: "I'm too old to learn new tricks.",
			want: nil,
		},
		{
			name: "no partial word matches",
			text: "Naive algorithms disbelieve nothing.",
			want: nil,
		},
		{
			name: "literal false positive is accepted",
			text: "We are out of milk.",
			want: []string{"We are out of milk"},
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
		{
			name: "whitespace only",
			text: "   \n\t  ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.BeliefSentences(tt.text))
		})
	}
}

func TestBeliefSentencesIdempotent(t *testing.T) {
	e := NewExtractor(1, defaultMarkers())
	text := "I believe in rigor. I feel strongly. Unrelated trailer."

	first := e.BeliefSentences(text)
	second := e.BeliefSentences(text)

	assert.Equal(t, first, second)
}

func TestExtractorCustomMarkers(t *testing.T) {
	e := NewExtractor(1, []string{"my view is"})

	got := e.BeliefSentences("My view is that tests matter. I believe this too.")

	assert.Equal(t, []string{"My view is that tests matter"}, got)
}
