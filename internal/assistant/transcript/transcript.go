// internal/assistant/transcript/transcript.go
package transcript

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"finassist/internal/models"
)

// Transcript is the append-only conversation history for one session.
// Safe for concurrent use.
type Transcript struct {
	mu       sync.RWMutex
	messages []models.Message
}

func New() *Transcript {
	return &Transcript{}
}

// Append records a message and returns its assigned ID.
func (t *Transcript) Append(role, text string) string {
	msg := models.Message{
		ID:   uuid.New().String(),
		Role: role,
		Text: text,
		Time: time.Now().UTC(),
	}

	t.mu.Lock()
	t.messages = append(t.messages, msg)
	t.mu.Unlock()

	return msg.ID
}

// Messages returns a copy of the history in append order.
func (t *Transcript) Messages() []models.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]models.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len reports the number of recorded messages.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Clear drops the history.
func (t *Transcript) Clear() {
	t.mu.Lock()
	t.messages = nil
	t.mu.Unlock()
}
