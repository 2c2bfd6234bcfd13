package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/triage/internal/triage/domain"
	"gopkg.in/yaml.v3"
)

// ticketRecord is one ticket in a batch file. A bare string is accepted as
// the ticket text.
type ticketRecord struct {
	ID     any    `json:"id" yaml:"id"`
	Text   string `json:"text" yaml:"text"`
	Source string `json:"source" yaml:"source"`
}

func (r *ticketRecord) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		r.Text = text
		return nil
	}
	type plain ticketRecord
	return json.Unmarshal(data, (*plain)(r))
}

func (r *ticketRecord) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		r.Text = node.Value
		return nil
	}
	type plain ticketRecord
	return node.Decode((*plain)(r))
}

// ticketFile is the object form of a batch file: {"tickets": [...]}.
type ticketFile struct {
	Tickets []ticketRecord `json:"tickets" yaml:"tickets"`
}

// readTicketFile loads tickets from a .yaml, .yml, .json or .txt file.
// Text files hold one ticket per line; blank lines are skipped.
func readTicketFile(path string) ([]domain.Ticket, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ticket file: %w", err)
	}
	return decodeTickets(data, filepath.Ext(path), filepath.Base(path))
}

func decodeTickets(data []byte, ext, source string) ([]domain.Ticket, error) {
	var (
		records []ticketRecord
		err     error
	)
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		records, err = decodeYAMLRecords(data)
	case ".json":
		records, err = decodeJSONRecords(data)
	case ".txt":
		records, err = decodeLineRecords(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported ticket file type %q (use .yaml, .yml, .json or .txt)", ext)
	}
	if err != nil {
		return nil, err
	}

	tickets := make([]domain.Ticket, 0, len(records))
	for _, record := range records {
		tickets = append(tickets, record.ticket(source))
	}
	return tickets, nil
}

func decodeYAMLRecords(data []byte) ([]ticketRecord, error) {
	var records []ticketRecord
	if err := yaml.Unmarshal(data, &records); err == nil {
		return records, nil
	}
	var file ticketFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid YAML ticket file: %w", err)
	}
	return file.Tickets, nil
}

func decodeJSONRecords(data []byte) ([]ticketRecord, error) {
	var records []ticketRecord
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}
	var file ticketFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid JSON ticket file: %w", err)
	}
	return file.Tickets, nil
}

func decodeLineRecords(r io.Reader) ([]ticketRecord, error) {
	var records []ticketRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, ticketRecord{Text: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ticket lines: %w", err)
	}
	return records, nil
}

func (r ticketRecord) ticket(defaultSource string) domain.Ticket {
	source := r.Source
	if source == "" {
		source = defaultSource
	}
	t := domain.NewTicket(r.Text, source)
	if r.ID != nil {
		t.Ref = fmt.Sprint(r.ID)
	}
	return t
}

// readTicketText joins args, or reads all of in when there are none.
func readTicketText(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read ticket from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
