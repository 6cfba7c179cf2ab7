package scoring

import (
	"fmt"

	"github.com/attune-labs/credence/internal/domain"
)

// Provider constants
const (
	ProviderInference = "inference"
	ProviderMock      = "mock"
)

// NewClient creates a scoring backend based on the provider name.
// Returns an error if the provider is unknown or the base URL is empty
// (except for mock).
func NewClient(provider, baseURL string) (domain.ScoringBackend, error) {
	switch provider {
	case ProviderInference:
		if baseURL == "" {
			return nil, fmt.Errorf("SCORING_URL is required for the inference scoring provider")
		}
		return NewHTTPClient(baseURL), nil

	case ProviderMock:
		return NewMockClient(), nil

	default:
		return nil, fmt.Errorf("unknown scoring provider: %s (valid options: inference, mock)", provider)
	}
}
