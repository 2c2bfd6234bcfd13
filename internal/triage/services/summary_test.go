package services

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/triage/internal/triage/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	analyzer := NewAnalyzer(neutralScorer)
	outcomes, err := analyzer.AnalyzeBatch(context.Background(), []string{
		"The server is down and all our customers are unable to access the website. EMERGENCY!",
		"Please refund my payment",
		"",
		"Thanks!",
	})
	require.NoError(t, err)

	summary := Summarize(outcomes)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 3, summary.Analyzed)
	assert.Equal(t, 1, summary.Rejected)
	assert.Equal(t, 1, summary.ByUrgency[domain.UrgencyCritical])
	assert.Equal(t, 2, summary.ByUrgency[domain.UrgencyLow])
	assert.Equal(t, 3, summary.BySentiment[domain.SentimentNeutral])
	assert.Equal(t, 1, summary.ByCategory[domain.CategoryBilling])
}

func TestFilterByMinimumUrgency(t *testing.T) {
	analyzer := NewAnalyzer(neutralScorer)
	outcomes, err := analyzer.AnalyzeBatch(context.Background(), []string{
		"How do I reset my password?",
		"The system crashed - EMERGENCY!",
		"",
		"The upload failed with a failure notice",
	})
	require.NoError(t, err)

	urgent := FilterByMinimumUrgency(outcomes, domain.UrgencyHigh)
	require.Len(t, urgent, 2)
	assert.Equal(t, "The system crashed - EMERGENCY!", urgent[0].TicketText)
	assert.Equal(t, "The upload failed with a failure notice", urgent[1].TicketText)

	all := FilterByMinimumUrgency(outcomes, domain.UrgencyLow)
	assert.Len(t, all, 3)
}
