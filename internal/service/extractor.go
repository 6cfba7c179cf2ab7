package service

import (
	"regexp"
	"strings"

	"github.com/attune-labs/credence/internal/domain"
)

// sentenceBoundary splits text on runs of sentence-ending punctuation.
var sentenceBoundary = regexp.MustCompile(`[.!?]+`)

// Extractor filters conversations down to one participant's turns and pulls
// out sentences carrying an explicit belief marker. The marker heuristic
// favors recall: it misses implicit beliefs and can false-positive on
// literal phrasing ("we are out of milk").
type Extractor struct {
	botUserID int64
	markers   *regexp.Regexp
}

// NewExtractor builds an extractor for the given automated-participant id
// and marker phrases. Markers match case-insensitively and only at word
// boundaries, never inside a longer word.
func NewExtractor(botUserID int64, markers []string) *Extractor {
	quoted := make([]string, len(markers))
	for i, m := range markers {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(m))
	}
	pattern := `(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`
	return &Extractor{
		botUserID: botUserID,
		markers:   regexp.MustCompile(pattern),
	}
}

// FilterParticipantMessages returns the ordered sub-sequence of messages not
// authored by the automated participant. Messages pass through unmodified.
func (e *Extractor) FilterParticipantMessages(messages []domain.Message) []domain.Message {
	var filtered []domain.Message
	for _, m := range messages {
		if m.UserID != e.botUserID {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// BeliefSentences splits text into candidate sentences and keeps those
// containing a belief marker. A text without sentence-ending punctuation is
// one candidate spanning the whole text.
func (e *Extractor) BeliefSentences(text string) []string {
	var sentences []string
	for _, s := range sentenceBoundary.Split(text, -1) {
		s = strings.TrimSpace(s)
		if s != "" && e.markers.MatchString(s) {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
