// Package history keeps the process-lifetime log of posted messages.
package history

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// MaxTextLength is the longest accepted message text, in characters.
const MaxTextLength = 1000

// Message is immutable once created.
type Message struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	Timestamp float64 `json:"timestamp"`
}

// Store is an append-only, unbounded sequence of messages in insertion order.
// It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	messages []Message
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// Create builds a message for text, appends it and returns it. The timestamp
// never goes below the previous message's, even if the wall clock steps back.
func (s *Store) Create(text string) Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := Message{
		ID:        uuid.NewString(),
		Text:      text,
		Timestamp: unixSeconds(s.now()),
	}
	if n := len(s.messages); n > 0 && msg.Timestamp < s.messages[n-1].Timestamp {
		msg.Timestamp = s.messages[n-1].Timestamp
	}
	s.messages = append(s.messages, msg)
	return msg
}

// Append adds an already built message to the end of the sequence.
func (s *Store) Append(msg Message) {
	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.mu.Unlock()
}

// List returns a newest-first snapshot. Later appends do not show up in it.
func (s *Store) List() []Message {
	s.mu.RLock()
	snapshot := slices.Clone(s.messages)
	s.mu.RUnlock()

	if snapshot == nil {
		return []Message{}
	}
	return lo.Reverse(snapshot)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
