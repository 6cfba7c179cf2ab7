package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/attune-labs/credence/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrInvalidConversation = errors.New("invalid conversation payload")
	ErrUnknownStore        = errors.New("unknown history store")
)

// RiskAlerter publishes alert events for high-risk messages. Publishing is
// best-effort: the analyzer logs failures and carries on.
type RiskAlerter interface {
	PublishRiskAlerts(ctx context.Context, subjectKey string, records []domain.RiskRecord) error
}

// Analyzer orchestrates one conversation analysis: belief extraction and
// classification, the sentiment and risk passes, persistence into the three
// history stores, and the downstream views.
//
// Stages run strictly in sequence. Each stage's write commits independently;
// a failure aborts the remaining stages but earlier writes in the same
// request are not rolled back. The analyzer takes no per-subject lock, so
// two concurrent analyses for one subject may interleave their history
// reads and appends; per-key serialization is the store's concern.
type Analyzer struct {
	backend          domain.ScoringBackend
	extractor        *Extractor
	beliefStore      domain.HistoryStore
	sentimentStore   domain.HistoryStore
	riskStore        domain.HistoryStore
	beliefCategories []string
	riskCategories   []string
	selfCategory     string
	beliefIndex      domain.BeliefIndex
	alerter          RiskAlerter
	logger           *zap.Logger
}

func NewAnalyzer(
	backend domain.ScoringBackend,
	extractor *Extractor,
	beliefStore, sentimentStore, riskStore domain.HistoryStore,
	beliefCategories, riskCategories []string,
	selfCategory string,
	logger *zap.Logger,
) *Analyzer {
	return &Analyzer{
		backend:          backend,
		extractor:        extractor,
		beliefStore:      beliefStore,
		sentimentStore:   sentimentStore,
		riskStore:        riskStore,
		beliefCategories: beliefCategories,
		riskCategories:   riskCategories,
		selfCategory:     selfCategory,
		logger:           logger,
	}
}

// SetBeliefIndex wires the optional vector index; every persisted belief is
// also indexed for similarity lookups.
func (a *Analyzer) SetBeliefIndex(idx domain.BeliefIndex) {
	a.beliefIndex = idx
}

// SetRiskAlerter wires the optional alert publisher.
func (a *Analyzer) SetRiskAlerter(ra RiskAlerter) {
	a.alerter = ra
}

// Analyze runs the full pipeline over one conversation. A conversation with
// no non-bot messages short-circuits: empty belief list, nil user id, no
// scoring calls, no writes.
func (a *Analyzer) Analyze(ctx context.Context, conv domain.Conversation) (*domain.AnalysisResult, error) {
	if err := validateConversation(conv); err != nil {
		return nil, err
	}

	start := time.Now()

	filtered := a.extractor.FilterParticipantMessages(conv.Messages)
	if len(filtered) == 0 {
		return &domain.AnalysisResult{
			Beliefs:           []domain.BeliefRecord{},
			DownstreamOutputs: FormatDownstream(nil, nil, a.selfCategory),
		}, nil
	}

	userID := filtered[0].UserID
	conversationID := filtered[0].ConversationID
	subjectKey := strconv.FormatInt(userID, 10)

	beliefs := []domain.BeliefRecord{}
	for i, msg := range filtered {
		for _, sentence := range a.extractor.BeliefSentences(msg.Text) {
			belief, err := a.classifyBelief(ctx, sentence)
			if err != nil {
				return nil, err
			}
			belief.SourceMessageIndex = i
			belief.Timestamp = msg.Timestamp
			beliefs = append(beliefs, *belief)
		}
	}

	// Read before write: the history in the result reflects state strictly
	// prior to this call.
	history, err := a.beliefStore.ReadAll(ctx, subjectKey)
	if err != nil {
		return nil, fmt.Errorf("read belief history: %w", err)
	}

	if err := a.beliefStore.Append(ctx, subjectKey, beliefs); err != nil {
		return nil, fmt.Errorf("append belief history: %w", err)
	}

	if a.beliefIndex != nil {
		for _, b := range beliefs {
			if err := a.beliefIndex.Index(ctx, subjectKey, b); err != nil {
				return nil, fmt.Errorf("index belief: %w", err)
			}
		}
	}

	sentiments, err := a.sentimentPass(ctx, filtered)
	if err != nil {
		return nil, err
	}
	if err := a.sentimentStore.Append(ctx, subjectKey, sentiments); err != nil {
		return nil, fmt.Errorf("append sentiment history: %w", err)
	}

	risks, err := a.riskPass(ctx, filtered)
	if err != nil {
		return nil, err
	}
	if err := a.riskStore.Append(ctx, subjectKey, risks); err != nil {
		return nil, fmt.Errorf("append risk history: %w", err)
	}

	if a.alerter != nil {
		if err := a.alerter.PublishRiskAlerts(ctx, subjectKey, risks); err != nil {
			a.logger.Warn("risk alert publish failed", zap.String("subject", subjectKey), zap.Error(err))
		}
	}

	a.logger.Info("conversation analyzed",
		zap.Int64("conversation_id", conversationID),
		zap.String("subject", subjectKey),
		zap.Int("messages", len(filtered)),
		zap.Int("beliefs", len(beliefs)),
		zap.Int("prior_entries", len(history)),
		zap.Duration("duration", time.Since(start)),
	)

	return &domain.AnalysisResult{
		ConversationID:    conversationID,
		UserID:            &userID,
		Beliefs:           beliefs,
		BeliefCount:       len(beliefs),
		HistoricalEntries: len(history),
		DownstreamOutputs: FormatDownstream(beliefs, history, a.selfCategory),
	}, nil
}

// classifyBelief runs the classification and embedding calls for one belief
// sentence. Positional tags are attached by the caller.
func (a *Analyzer) classifyBelief(ctx context.Context, sentence string) (*domain.BeliefRecord, error) {
	classification, err := a.backend.Classify(ctx, sentence, a.beliefCategories, false)
	if err != nil {
		return nil, fmt.Errorf("classify belief: %w", err)
	}

	embedding, err := a.backend.Embed(ctx, sentence)
	if err != nil {
		return nil, fmt.Errorf("embed belief: %w", err)
	}

	return &domain.BeliefRecord{
		Text:               sentence,
		Category:           classification.Label,
		CategoryConfidence: classification.Score,
		CategoryScores:     classification.Scores,
		Embedding:          embedding,
	}, nil
}

// sentimentPass scores every filtered message, not only belief sentences.
func (a *Analyzer) sentimentPass(ctx context.Context, filtered []domain.Message) ([]domain.SentimentRecord, error) {
	records := make([]domain.SentimentRecord, 0, len(filtered))
	for i, msg := range filtered {
		score, err := a.backend.ScoreSentiment(ctx, msg.Text)
		if err != nil {
			return nil, fmt.Errorf("score sentiment: %w", err)
		}
		records = append(records, domain.SentimentRecord{
			Timestamp:          msg.Timestamp,
			Sentiment:          score,
			SourceMessageIndex: i,
			ConversationID:     msg.ConversationID,
		})
	}
	return records, nil
}

// riskPass classifies every filtered message against the risk taxonomy with
// independent multi-label scores.
func (a *Analyzer) riskPass(ctx context.Context, filtered []domain.Message) ([]domain.RiskRecord, error) {
	records := make([]domain.RiskRecord, 0, len(filtered))
	for i, msg := range filtered {
		classification, err := a.backend.Classify(ctx, msg.Text, a.riskCategories, true)
		if err != nil {
			return nil, fmt.Errorf("classify risk: %w", err)
		}
		records = append(records, domain.RiskRecord{
			Timestamp:          msg.Timestamp,
			RiskScores:         classification.Scores,
			SourceMessageIndex: i,
			ConversationID:     msg.ConversationID,
		})
	}
	return records, nil
}

func validateConversation(conv domain.Conversation) error {
	for i, m := range conv.Messages {
		switch {
		case m.UserID == 0:
			return fmt.Errorf("%w: message %d missing ref_user_id", ErrInvalidConversation, i)
		case m.ConversationID == 0:
			return fmt.Errorf("%w: message %d missing ref_conversation_id", ErrInvalidConversation, i)
		case m.Timestamp == "":
			return fmt.Errorf("%w: message %d missing transaction_datetime_utc", ErrInvalidConversation, i)
		}
	}
	return nil
}
