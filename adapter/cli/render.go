package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/felixgeelhaar/triage/internal/triage/domain"
	"github.com/felixgeelhaar/triage/internal/triage/services"
)

const ruleWidth = 80

func writeSeparator(w io.Writer) {
	fmt.Fprintf(w, "\n%s\n\n", strings.Repeat("=", ruleWidth))
}

func writeHeading(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
}

// writeOutcome prints the full report of one ticket.
func writeOutcome(w io.Writer, title string, outcome domain.Outcome) {
	writeHeading(w, title)

	analysis, ok := outcome.Analysis()
	if !ok {
		fmt.Fprintf(w, "Error: %v\n\n", outcome.Err())
		return
	}

	fmt.Fprintf(w, "Text: %s\n\n", analysis.TicketText)

	fmt.Fprintln(w, "SENTIMENT ANALYSIS:")
	fmt.Fprintf(w, "  • Sentiment: %s\n", upper(analysis.Sentiment.Sentiment))
	fmt.Fprintf(w, "  • Polarity: %s (range: -1 to 1)\n", formatScore(analysis.Sentiment.Polarity))
	fmt.Fprintf(w, "  • Subjectivity: %s (range: 0 to 1)\n\n", formatScore(analysis.Sentiment.Subjectivity))

	fmt.Fprintln(w, "URGENCY DETECTION:")
	fmt.Fprintf(w, "  • Urgency Level: %s\n", upper(analysis.Urgency.Level))
	fmt.Fprintf(w, "  • Urgency Score: %d\n", analysis.Urgency.Score)
	fmt.Fprintf(w, "  • Urgent Keywords Found: %d\n\n", analysis.Urgency.KeywordsFound)

	fmt.Fprintln(w, "CATEGORY CLASSIFICATION:")
	fmt.Fprintf(w, "  • Primary Category: %s\n", upper(analysis.Category.Category))
	fmt.Fprintf(w, "  • Confidence: %d\n", analysis.Category.Confidence)
	fmt.Fprintf(w, "  • Category Scores: %s\n\n", formatCategoryScores(analysis.Category.Scores))

	fmt.Fprintln(w, "PRIORITY RECOMMENDATION:")
	fmt.Fprintf(w, "  • %s\n\n", analysis.PriorityRecommendation)
}

// writeOutcomeLine prints the one-line form used by batch output.
func writeOutcomeLine(w io.Writer, n int, text string, outcome domain.Outcome) {
	fmt.Fprintf(w, "\n%d. %s\n", n, services.DisplayText(text))
	analysis, ok := outcome.Analysis()
	if !ok {
		fmt.Fprintf(w, "   → rejected: %v\n", outcome.Err())
		return
	}
	fmt.Fprintf(w, "   → %s urgency | %s category | %s\n",
		analysis.Urgency.Level, analysis.Category.Category, analysis.Sentiment.Sentiment)
}

// writeSummary prints counts by urgency (least to most urgent), sentiment
// (alphabetical) and category (most frequent first).
func writeSummary(w io.Writer, summary services.Summary) {
	writeHeading(w, "SUMMARY STATISTICS")

	fmt.Fprintln(w, "\nTickets by Urgency Level:")
	for _, level := range domain.UrgencyLevels {
		if count, ok := summary.ByUrgency[level]; ok {
			fmt.Fprintf(w, "  • %s: %d\n", upper(level), count)
		}
	}

	fmt.Fprintln(w, "\nTickets by Sentiment:")
	sentiments := make([]domain.SentimentLabel, 0, len(summary.BySentiment))
	for label := range summary.BySentiment {
		sentiments = append(sentiments, label)
	}
	slices.Sort(sentiments)
	for _, label := range sentiments {
		fmt.Fprintf(w, "  • %s: %d\n", upper(label), summary.BySentiment[label])
	}

	fmt.Fprintln(w, "\nTickets by Category:")
	var categories []domain.Category
	for _, category := range domain.Categories() {
		if _, ok := summary.ByCategory[category]; ok {
			categories = append(categories, category)
		}
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return summary.ByCategory[categories[i]] > summary.ByCategory[categories[j]]
	})
	for _, category := range categories {
		fmt.Fprintf(w, "  • %s: %d\n", upper(category), summary.ByCategory[category])
	}

	if summary.Rejected > 0 {
		fmt.Fprintf(w, "\nRejected tickets: %d of %d\n", summary.Rejected, summary.Total)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func upper[S ~string](s S) string {
	return strings.ToUpper(string(s))
}

// formatScore prints a rounded score with at least one decimal place.
func formatScore(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func formatCategoryScores(scores domain.CategoryScores) string {
	parts := make([]string, 0, len(scores))
	for _, score := range scores.Ordered() {
		parts = append(parts, fmt.Sprintf("%s: %d", score.Category, score.Score))
	}
	return strings.Join(parts, ", ")
}
