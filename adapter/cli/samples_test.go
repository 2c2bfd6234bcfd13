package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleTickets(t *testing.T) {
	tickets, err := sampleTickets()
	require.NoError(t, err)

	require.Len(t, tickets, 10)
	assert.Equal(t, "1", tickets[0].Ref)
	assert.Equal(t, "10", tickets[9].Ref)
	assert.Equal(t, "samples", tickets[0].Source)
	assert.True(t, strings.HasPrefix(tickets[0].Text, "URGENT: My account is locked"))
}

func TestSamplesCommand(t *testing.T) {
	setupApp(t)
	t.Cleanup(func() { samplesJSON = false })

	out, err := runCommand(t, samplesCmd, "")
	require.NoError(t, err)

	assert.Contains(t, out, "CUSTOMER SUPPORT TICKET ANALYZER")
	assert.Contains(t, out, "Sentiment engine: triage.sentiment.lexicon")
	assert.Contains(t, out, "Analyzing 10 sample tickets...")
	assert.Equal(t, 10, strings.Count(out, "TICKET #"))
	assert.Contains(t, out, "TICKET #10")
	assert.Contains(t, out, "Tickets by Urgency Level:")
	assert.Contains(t, out, "Tickets by Sentiment:")
	assert.Contains(t, out, "Tickets by Category:")
	assert.Contains(t, out, "Analysis complete! ✓")
	assert.NotContains(t, out, "Rejected tickets")

	// Reports appear in input order.
	assert.Less(t, strings.Index(out, "TICKET #2\n"), strings.Index(out, "TICKET #3\n"))
}

func TestSamplesCommand_JSON(t *testing.T) {
	setupApp(t)
	samplesJSON = true
	t.Cleanup(func() { samplesJSON = false })

	out, err := runCommand(t, samplesCmd, "")
	require.NoError(t, err)

	var report struct {
		Results []struct {
			Ref string `json:"ref"`
		} `json:"results"`
		Summary struct {
			Total int `json:"total"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Results, 10)
	assert.Equal(t, "3", report.Results[2].Ref)
	assert.Equal(t, 10, report.Summary.Total)
}
