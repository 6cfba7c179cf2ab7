package domain

import (
	"encoding/json"
	"time"
)

// Message is one conversational turn as received on the wire.
// Field names match the upstream chat export format.
type Message struct {
	ConversationID int64  `json:"ref_conversation_id"`
	UserID         int64  `json:"ref_user_id"`
	Timestamp      string `json:"transaction_datetime_utc"`
	ScreenName     string `json:"screen_name"`
	Text           string `json:"message"`
}

// Conversation is the payload of one analysis request.
type Conversation struct {
	Messages []Message `json:"messages_list"`
}

// BeliefRecord is one detected belief sentence with its classification and
// embedding. SourceMessageIndex refers to the filtered (non-bot) message
// sequence of the conversation it was extracted from.
type BeliefRecord struct {
	Text               string             `json:"text"`
	Category           string             `json:"category"`
	CategoryConfidence float64            `json:"category_confidence"`
	CategoryScores     map[string]float64 `json:"category_scores"`
	Embedding          []float32          `json:"embedding"`
	SourceMessageIndex int                `json:"source_message_index"`
	Timestamp          string             `json:"timestamp"`
}

// SentimentRecord is one sentiment score for a filtered message.
type SentimentRecord struct {
	Timestamp          string  `json:"timestamp"`
	Sentiment          float64 `json:"sentiment"`
	SourceMessageIndex int     `json:"source_message_index"`
	ConversationID     int64   `json:"ref_conversation_id"`
}

// RiskRecord holds independent multi-label risk scores for a filtered message.
type RiskRecord struct {
	Timestamp          string             `json:"timestamp"`
	RiskScores         map[string]float64 `json:"risk_scores"`
	SourceMessageIndex int                `json:"source_message_index"`
	ConversationID     int64              `json:"ref_conversation_id"`
}

// HistoryEntry is one immutable batch of records appended for a subject at
// one analysis call. Records keeps the payload opaque at the storage layer.
type HistoryEntry struct {
	CapturedAt time.Time       `json:"captured_at"`
	Records    json.RawMessage `json:"records"`
}

// SimilarBelief is a previously indexed belief with its similarity to a query.
type SimilarBelief struct {
	SubjectKey string  `json:"subject_key"`
	Text       string  `json:"text"`
	Category   string  `json:"category"`
	Score      float64 `json:"score"`
}

// ValueAttributionView lists beliefs in the self-assessment category.
type ValueAttributionView struct {
	SelfBeliefs     []SelfBelief `json:"self_beliefs"`
	SelfBeliefCount int          `json:"self_belief_count"`
}

type SelfBelief struct {
	Text string `json:"text"`
}

// StorybotView summarizes the thematic spread of the current belief batch.
// DominantTheme is nil when the batch contains no beliefs.
type StorybotView struct {
	DominantTheme *string  `json:"dominant_theme"`
	Themes        []string `json:"themes"`
}

// ContentRecommendationView reuses the distinct categories as topic affinities.
type ContentRecommendationView struct {
	TopicAffinities []string `json:"topic_affinities"`
}

// DownstreamViews is recomputed on every analysis call and never persisted.
type DownstreamViews struct {
	ValueAttribution      ValueAttributionView      `json:"value_attribution"`
	Storybot              StorybotView              `json:"storybot"`
	ContentRecommendation ContentRecommendationView `json:"content_recommendation"`
}

// AnalysisResult is the unified output of one conversation analysis.
// UserID is nil when the conversation contained no non-bot messages.
type AnalysisResult struct {
	ConversationID    int64           `json:"conversation_id"`
	UserID            *int64          `json:"user_id"`
	Beliefs           []BeliefRecord  `json:"beliefs"`
	BeliefCount       int             `json:"belief_count"`
	HistoricalEntries int             `json:"historical_entries"`
	DownstreamOutputs DownstreamViews `json:"downstream_outputs"`
}
