package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTickets(t *testing.T) {
	tests := []struct {
		name    string
		ext     string
		data    string
		texts   []string
		refs    []string
		sources []string
	}{
		{
			name:    "yaml list of records",
			ext:     ".yaml",
			data:    "- id: 7\n  text: first\n  source: email\n- text: second\n",
			texts:   []string{"first", "second"},
			refs:    []string{"7", ""},
			sources: []string{"email", "batch"},
		},
		{
			name:    "yml object with strings",
			ext:     ".YML",
			data:    "tickets:\n  - first\n  - second\n",
			texts:   []string{"first", "second"},
			refs:    []string{"", ""},
			sources: []string{"batch", "batch"},
		},
		{
			name:    "json array mixed",
			ext:     ".json",
			data:    `["first", {"id": 2, "text": "second", "source": "chat"}]`,
			texts:   []string{"first", "second"},
			refs:    []string{"", "2"},
			sources: []string{"batch", "chat"},
		},
		{
			name:    "json object",
			ext:     ".json",
			data:    `{"tickets": [{"id": "T-9", "text": "only"}]}`,
			texts:   []string{"only"},
			refs:    []string{"T-9"},
			sources: []string{"batch"},
		},
		{
			name:    "text lines",
			ext:     ".txt",
			data:    "first\r\n\n   \nsecond\n",
			texts:   []string{"first", "second"},
			refs:    []string{"", ""},
			sources: []string{"batch", "batch"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tickets, err := decodeTickets([]byte(tt.data), tt.ext, "batch")
			require.NoError(t, err)
			require.Len(t, tickets, len(tt.texts))

			for i, ticket := range tickets {
				assert.Equal(t, tt.texts[i], ticket.Text)
				assert.Equal(t, tt.refs[i], ticket.Ref)
				assert.Equal(t, tt.sources[i], ticket.Source)
				assert.NotEqual(t, ticket.ID.String(), "00000000-0000-0000-0000-000000000000")
			}
		})
	}
}

func TestDecodeTickets_Errors(t *testing.T) {
	_, err := decodeTickets([]byte("a,b"), ".csv", "batch")
	assert.ErrorContains(t, err, "unsupported ticket file type")

	_, err = decodeTickets([]byte("tickets: [: bad"), ".yaml", "batch")
	assert.ErrorContains(t, err, "invalid YAML ticket file")

	_, err = decodeTickets([]byte(`{"tickets": 3}`), ".json", "batch")
	assert.ErrorContains(t, err, "invalid JSON ticket file")
}

func TestReadTicketText(t *testing.T) {
	text, err := readTicketText(strings.NewReader("ignored"), []string{"my", "printer", "is", "broken"})
	require.NoError(t, err)
	assert.Equal(t, "my printer is broken", text)

	text, err = readTicketText(strings.NewReader("from stdin\r\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, "from stdin", text)
}
