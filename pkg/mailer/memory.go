package mailer

import (
	"context"
	"sync"
)

// Memory records messages instead of sending them. Used in development
// when no SMTP host is configured, and in tests.
type Memory struct {
	mu       sync.Mutex
	from     string
	Sent     []Message
	FailWith error
}

func NewMemory(from string) *Memory {
	return &Memory{from: from}
}

func (m *Memory) From() string {
	return m.from
}

func (m *Memory) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if msg.From == "" {
		msg.From = m.from
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// Last returns the most recent message, or the zero Message.
func (m *Memory) Last() Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return Message{}
	}
	return m.Sent[len(m.Sent)-1]
}

func (m *Memory) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}
