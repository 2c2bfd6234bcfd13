package cli

import (
	"encoding/json"
	"testing"

	"github.com/felixgeelhaar/triage/internal/engine/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineListCommand(t *testing.T) {
	setupApp(t)
	t.Cleanup(func() { engineListJSON = false })

	out, err := runCommand(t, engineListCmd, "")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "triage.sentiment.lexicon *")
	assert.Contains(t, out, "built-in")
	assert.Contains(t, out, "Total: 1 engine(s)")

	engineListJSON = true
	out, err = runCommand(t, engineListCmd, "")
	require.NoError(t, err)

	var infos []engineInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "triage.sentiment.lexicon", infos[0].ID)
	assert.True(t, infos[0].Builtin)
	assert.True(t, infos[0].Default)
	assert.Equal(t, "sentiment", infos[0].Type)
}

func TestEngineHealthCommand(t *testing.T) {
	setupApp(t)

	out, err := runCommand(t, engineHealthCmd, "", "triage.sentiment.lexicon")
	require.NoError(t, err)
	assert.Contains(t, out, "triage.sentiment.lexicon: HEALTHY")

	out, err = runCommand(t, engineHealthCmd, "")
	require.NoError(t, err)
	assert.Contains(t, out, "triage.sentiment.lexicon: HEALTHY")
	assert.Contains(t, out, "Overall: healthy")

	_, err = runCommand(t, engineHealthCmd, "", "triage.sentiment.missing")
	assert.ErrorIs(t, err, sdk.ErrEngineNotFound)
}
