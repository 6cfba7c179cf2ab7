package service

import "github.com/attune-labs/credence/internal/domain"

// FormatDownstream derives the three consumer views from the current belief
// batch and the subject's prior history. It is a pure function; the views
// are recomputed on every analysis call and never persisted.
//
// The dominant theme is the most frequent category in the batch. Ties break
// by first occurrence in batch order, and the theme/affinity sets are also
// emitted in first-occurrence order, so the same batch always produces the
// same views.
func FormatDownstream(beliefs []domain.BeliefRecord, history []domain.HistoryEntry, selfCategory string) domain.DownstreamViews {
	counts := make(map[string]int)
	var distinct []string
	for _, b := range beliefs {
		if counts[b.Category] == 0 {
			distinct = append(distinct, b.Category)
		}
		counts[b.Category]++
	}

	var dominant *string
	for _, c := range distinct {
		if dominant == nil || counts[c] > counts[*dominant] {
			c := c
			dominant = &c
		}
	}

	selfBeliefs := []domain.SelfBelief{}
	for _, b := range beliefs {
		if b.Category == selfCategory {
			selfBeliefs = append(selfBeliefs, domain.SelfBelief{Text: b.Text})
		}
	}

	themes := distinct
	if themes == nil {
		themes = []string{}
	}

	return domain.DownstreamViews{
		ValueAttribution: domain.ValueAttributionView{
			SelfBeliefs:     selfBeliefs,
			SelfBeliefCount: len(selfBeliefs),
		},
		Storybot: domain.StorybotView{
			DominantTheme: dominant,
			Themes:        themes,
		},
		ContentRecommendation: domain.ContentRecommendationView{
			TopicAffinities: themes,
		},
	}
}
