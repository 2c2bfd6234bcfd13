package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetAnalyzeFlags(t *testing.T) {
	t.Cleanup(func() {
		analyzeJSON = false
		analyzeSource = "cli"
	})
}

func TestAnalyzeCommand_Text(t *testing.T) {
	setupApp(t)
	resetAnalyzeFlags(t)

	out, err := runCommand(t, analyzeCmd, "", "URGENT:", "Cannot login to my account!", "This is critical!")
	require.NoError(t, err)

	assert.Contains(t, out, "Text: URGENT: Cannot login to my account! This is critical!")
	assert.Contains(t, out, "SENTIMENT ANALYSIS:")
	assert.Contains(t, out, "  • Urgency Level: CRITICAL")
	assert.Contains(t, out, "  • Urgent Keywords Found: 3")
	assert.Contains(t, out, "  • Primary Category: ACCOUNT")
	assert.Contains(t, out, "technical: 0, billing: 0, account: 2, feature_request: 0, general_inquiry: 0")
	assert.Contains(t, out, "PRIORITY RECOMMENDATION:")
}

func TestAnalyzeCommand_JSONFromStdin(t *testing.T) {
	setupApp(t)
	resetAnalyzeFlags(t)
	analyzeJSON = true

	out, err := runCommand(t, analyzeCmd, "My invoice shows the wrong billing amount\n")
	require.NoError(t, err)

	var decoded struct {
		TicketText string `json:"ticket_text"`
		Category   struct {
			Category string `json:"category"`
		} `json:"category"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "My invoice shows the wrong billing amount", decoded.TicketText)
	assert.Equal(t, "billing", decoded.Category.Category)
}

func TestAnalyzeCommand_BlankTicket(t *testing.T) {
	setupApp(t)
	resetAnalyzeFlags(t)

	out, err := runCommand(t, analyzeCmd, "", "   ")
	require.NoError(t, err)
	assert.Contains(t, out, "Error: Empty ticket text provided")

	analyzeJSON = true
	out, err = runCommand(t, analyzeCmd, "", "   ")
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"Empty ticket text provided"}`, out)
}
