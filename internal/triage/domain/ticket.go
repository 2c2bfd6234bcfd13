package domain

import (
	"time"

	"github.com/google/uuid"
)

// Ticket is a support ticket submitted for triage.
type Ticket struct {
	ID         uuid.UUID `json:"id" yaml:"-"`
	Ref        string    `json:"ref,omitempty" yaml:"id,omitempty"`
	Text       string    `json:"text" yaml:"text"`
	Source     string    `json:"source,omitempty" yaml:"source,omitempty"`
	ReceivedAt time.Time `json:"received_at" yaml:"-"`
}

// NewTicket creates a ticket with a fresh ID.
func NewTicket(text, source string) Ticket {
	return Ticket{
		ID:         uuid.New(),
		Text:       text,
		Source:     source,
		ReceivedAt: time.Now().UTC(),
	}
}
