package alert

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/attune-labs/credence/internal/domain"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// SubjectRiskFlagged is the NATS subject for high-risk message events.
const SubjectRiskFlagged = "beliefs.risk.flagged"

// RiskAlert is emitted for each analyzed message whose highest risk score
// meets the configured threshold, so the monitoring dashboard can surface
// high-risk cases without polling history.
type RiskAlert struct {
	SubjectKey         string             `json:"subject_key"`
	ConversationID     int64              `json:"ref_conversation_id"`
	SourceMessageIndex int                `json:"source_message_index"`
	TopCategory        string             `json:"top_category"`
	TopScore           float64            `json:"top_score"`
	RiskScores         map[string]float64 `json:"risk_scores"`
	Timestamp          string             `json:"timestamp"`
	FlaggedAt          time.Time          `json:"flagged_at"`
}

// Publisher publishes risk alert events to NATS.
type Publisher struct {
	conn      *nats.Conn
	threshold float64
	logger    *zap.Logger
}

func NewPublisher(url string, threshold float64, logger *zap.Logger) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	return &Publisher{conn: conn, threshold: threshold, logger: logger}, nil
}

// Close drains the connection.
func (p *Publisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn("nats drain failed", zap.Error(err))
	}
}

// PublishRiskAlerts emits one event per record at or above the threshold.
func (p *Publisher) PublishRiskAlerts(ctx context.Context, subjectKey string, records []domain.RiskRecord) error {
	for _, r := range records {
		a, flagged := BuildRiskAlert(subjectKey, r, p.threshold)
		if !flagged {
			continue
		}

		payload, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("marshal risk alert: %w", err)
		}
		if err := p.conn.Publish(SubjectRiskFlagged, payload); err != nil {
			return fmt.Errorf("publish risk alert: %w", err)
		}

		p.logger.Info("risk alert published",
			zap.String("subject", subjectKey),
			zap.String("category", a.TopCategory),
			zap.Float64("score", a.TopScore),
		)
	}
	return nil
}

// BuildRiskAlert converts a risk record into an alert event. The second
// return is false when no score reaches the threshold. The top category is
// the highest-scoring one, ties broken lexically so repeated runs flag the
// same category.
func BuildRiskAlert(subjectKey string, r domain.RiskRecord, threshold float64) (RiskAlert, bool) {
	var topCategory string
	var topScore float64
	for category, score := range r.RiskScores {
		if score > topScore || (score == topScore && (topCategory == "" || category < topCategory)) {
			topCategory = category
			topScore = score
		}
	}

	if topCategory == "" || topScore < threshold {
		return RiskAlert{}, false
	}

	return RiskAlert{
		SubjectKey:         subjectKey,
		ConversationID:     r.ConversationID,
		SourceMessageIndex: r.SourceMessageIndex,
		TopCategory:        topCategory,
		TopScore:           topScore,
		RiskScores:         r.RiskScores,
		Timestamp:          r.Timestamp,
		FlaggedAt:          time.Now().UTC(),
	}, true
}
