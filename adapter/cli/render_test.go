package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/felixgeelhaar/triage/internal/triage/domain"
	"github.com/felixgeelhaar/triage/internal/triage/services"
	"github.com/stretchr/testify/assert"
)

func TestFormatScore(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{1, "1.0"},
		{-1, "-1.0"},
		{0.5, "0.5"},
		{-0.375, "-0.375"},
		{0.667, "0.667"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatScore(tt.in))
	}
}

func TestWriteSummary_Ordering(t *testing.T) {
	summary := services.Summary{
		Total:    6,
		Analyzed: 5,
		Rejected: 1,
		ByUrgency: map[domain.UrgencyLevel]int{
			domain.UrgencyCritical: 2,
			domain.UrgencyLow:      3,
		},
		BySentiment: map[domain.SentimentLabel]int{
			domain.SentimentPositive: 1,
			domain.SentimentNegative: 4,
		},
		ByCategory: map[domain.Category]int{
			domain.CategoryGeneralInquiry: 1,
			domain.CategoryBilling:        3,
			domain.CategoryTechnical:      1,
		},
	}

	var buf bytes.Buffer
	writeSummary(&buf, summary)
	out := buf.String()

	assertOrder(t, out, "  • LOW: 3", "  • CRITICAL: 2")
	assertOrder(t, out, "  • NEGATIVE: 4", "  • POSITIVE: 1")
	// Count descending, ties keep category table order.
	assertOrder(t, out, "  • BILLING: 3", "  • TECHNICAL: 1")
	assertOrder(t, out, "  • TECHNICAL: 1", "  • GENERAL_INQUIRY: 1")
	assert.Contains(t, out, "Rejected tickets: 1 of 6")
	assert.NotContains(t, out, "MEDIUM")
}

func TestWriteOutcome_Error(t *testing.T) {
	var buf bytes.Buffer
	writeOutcome(&buf, "TICKET #4", domain.NewErrorOutcome(&domain.EmptyInputError{}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "TICKET #4\n"+strings.Repeat("-", 80)))
	assert.Contains(t, out, "Error: Empty ticket text provided")
	assert.NotContains(t, out, "SENTIMENT ANALYSIS")
}

func assertOrder(t *testing.T, out, first, second string) {
	t.Helper()
	i, j := strings.Index(out, first), strings.Index(out, second)
	if assert.NotEqual(t, -1, i, first) && assert.NotEqual(t, -1, j, second) {
		assert.Less(t, i, j)
	}
}
