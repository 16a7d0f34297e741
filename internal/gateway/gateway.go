// Package gateway delivers outbound messages to recipients.
package gateway

import (
	"context"
	"sync"
)

// Gateway sends a text message to a recipient. Delivery is best-effort:
// implementations report success with the returned bool and never bubble
// transport errors to the caller.
type Gateway interface {
	Send(ctx context.Context, recipient, text string) bool
}

// Recorder is a Gateway that captures sends for tests.
type Recorder struct {
	mu    sync.Mutex
	sends []RecordedSend
	// Fail makes every Send report failure.
	Fail bool
}

// RecordedSend is one captured outbound message.
type RecordedSend struct {
	Recipient string
	Text      string
}

func (r *Recorder) Send(_ context.Context, recipient, text string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sends = append(r.sends, RecordedSend{Recipient: recipient, Text: text})
	return !r.Fail
}

// Sends returns a copy of everything sent so far.
func (r *Recorder) Sends() []RecordedSend {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RecordedSend, len(r.sends))
	copy(out, r.sends)
	return out
}

// SentTo returns the message bodies sent to one recipient.
func (r *Recorder) SentTo(recipient string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, s := range r.sends {
		if s.Recipient == recipient {
			out = append(out, s.Text)
		}
	}
	return out
}

// Reset clears captured sends.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sends = nil
}
