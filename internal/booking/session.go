package booking

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/vishudhGupta/salon-management-api/internal/models"
)

// Registration steps, strictly sequential.
const (
	regStepName     = "name"
	regStepEmail    = "email"
	regStepAddress  = "address"
	regStepPassword = "password"
)

// RegistrationDraft holds partial registration fields; it exists only
// while the session is in StateRegistration.
type RegistrationDraft struct {
	Name     string
	Email    string
	Address  string
	Password string
	Step     string
}

// CartItem is one fully specified, not-yet-persisted booking.
type CartItem struct {
	Salon      models.Salon
	Service    models.Service
	Expert     models.Expert
	Date       string // YYYY-MM-DD
	TimeBucket int
}

// maxCartItems bounds the number of bookings accumulated in one
// conversation.
const maxCartItems = 5

// Session is the complete in-memory record of one recipient's in-progress
// conversation. All access is serialized by the owning shard's lock.
type Session struct {
	RecipientID    string
	State          State
	LastActivityAt time.Time

	UserID   string
	UserName string

	Registration *RegistrationDraft

	// Options shown at the most recent selection prompt. Each list is
	// replaced wholesale when (re)presented; a selection index is valid
	// only against the list for the current state.
	SalonOptions   []models.Salon
	ServiceOptions []models.Service
	ExpertOptions  []models.Expert
	DateOptions    []string
	TimeOptions    []int // bucket indexes

	SelectedSalon   models.Salon
	SelectedService models.Service
	SelectedExpert  models.Expert
	SelectedDate    string
	SelectedTime    int

	Cart []CartItem

	// FeedbackAppointmentID is set only for feedback sessions.
	FeedbackAppointmentID string
}

// sessionShard owns a slice of the keyspace. Its mutex is held for the
// whole of HandleMessage, which serializes messages per recipient while
// letting recipients on other shards proceed.
type sessionShard struct {
	mu       sync.Mutex
	sessions map[string]*Session
	retries  map[string]int
}

func (sh *sessionShard) destroy(recipientID string) {
	delete(sh.sessions, recipientID)
	delete(sh.retries, recipientID)
}

func (sh *sessionShard) resetRetries(recipientID string) {
	delete(sh.retries, recipientID)
}

// bumpRetry increments the consecutive-invalid-input count and reports
// whether the budget is exhausted.
func (sh *sessionShard) bumpRetry(recipientID string, budget int) bool {
	sh.retries[recipientID]++
	return sh.retries[recipientID] >= budget
}

const shardCount = 64

// SessionStore is a sharded map of recipient identity to session state.
// It is owned exclusively by the engine.
type SessionStore struct {
	shards [shardCount]*sessionShard
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	s := &SessionStore{}
	for i := range s.shards {
		s.shards[i] = &sessionShard{
			sessions: make(map[string]*Session),
			retries:  make(map[string]int),
		}
	}
	return s
}

func (s *SessionStore) shardFor(recipientID string) *sessionShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(recipientID))
	return s.shards[h.Sum32()%shardCount]
}

// Snapshot returns a copy of the session for a recipient, or nil. Intended
// for tests and introspection; the engine works on the live session under
// the shard lock.
func (s *SessionStore) Snapshot(recipientID string) *Session {
	sh := s.shardFor(recipientID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sess, ok := sh.sessions[recipientID]
	if !ok {
		return nil
	}
	cp := *sess
	return &cp
}

// Retries returns the current retry count for a recipient.
func (s *SessionStore) Retries(recipientID string) int {
	sh := s.shardFor(recipientID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.retries[recipientID]
}

// Len counts live sessions across all shards.
func (s *SessionStore) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.sessions)
		sh.mu.Unlock()
	}
	return n
}
