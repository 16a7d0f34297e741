package booking

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vishudhGupta/salon-management-api/internal/events"
	"github.com/vishudhGupta/salon-management-api/internal/metrics"
)

// Outcome summarizes how an inbound message was handled.
type Outcome string

const (
	// OutcomeAdvanced: the session moved to a new state (or completed).
	OutcomeAdvanced Outcome = "advanced"
	// OutcomeReprompted: invalid input, the current prompt was resent.
	OutcomeReprompted Outcome = "reprompted"
	// OutcomeFailed: the session was destroyed and a generic failure sent.
	OutcomeFailed Outcome = "failed"
	// OutcomeCancelled: the recipient cancelled the conversation.
	OutcomeCancelled Outcome = "cancelled"
	// OutcomeRestarted: a fresh welcome session replaced whatever existed.
	OutcomeRestarted Outcome = "restarted"
)

// Config tunes the engine's timing and retry policy.
type Config struct {
	// SessionTimeout is the idle window after which a session is lazily
	// replaced on the next inbound message.
	SessionTimeout time.Duration
	// CollaboratorTimeout bounds every directory and gateway call.
	CollaboratorTimeout time.Duration
	// RetryBudget is the number of consecutive invalid inputs tolerated
	// in one state before the session is destroyed.
	RetryBudget int
}

func (c Config) withDefaults() Config {
	if c.SessionTimeout <= 0 {
		c.SessionTimeout = 30 * time.Minute
	}
	if c.CollaboratorTimeout <= 0 {
		c.CollaboratorTimeout = 5 * time.Second
	}
	if c.RetryBudget <= 0 {
		c.RetryBudget = 3
	}
	return c
}

// Engine consumes inbound messages one at a time per recipient and drives
// the booking conversation.
type Engine struct {
	dir    Directory
	sender Sender
	store  *SessionStore
	fsm    *FSM
	bus    *events.Bus
	logger *zerolog.Logger
	cfg    Config

	now func() time.Time
}

// NewEngine wires the engine. bus may be nil.
func NewEngine(dir Directory, sender Sender, bus *events.Bus, cfg Config, logger *zerolog.Logger) *Engine {
	return &Engine{
		dir:    dir,
		sender: sender,
		store:  NewSessionStore(),
		fsm:    NewFSM(),
		bus:    bus,
		logger: logger,
		cfg:    cfg.withDefaults(),
		now:    time.Now,
	}
}

// Store exposes the session store for probes and tests.
func (e *Engine) Store() *SessionStore { return e.store }

var greetings = map[string]bool{"hi": true, "hello": true, "hey": true, "start": true}

// HandleMessage applies one inbound message to the recipient's session.
// Messages from the same recipient are serialized; recipients on other
// shards proceed concurrently.
func (e *Engine) HandleMessage(ctx context.Context, recipientID, body string) Outcome {
	recipientID = normalizeRecipient(recipientID)
	text := strings.TrimSpace(body)

	sh := e.store.shardFor(recipientID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	outcome := e.handleLocked(ctx, sh, recipientID, text)
	metrics.IncMessagesProcessed(string(outcome))
	return outcome
}

func (e *Engine) handleLocked(ctx context.Context, sh *sessionShard, recipientID, text string) Outcome {
	lower := strings.ToLower(text)

	// Greeting restarts the machine from anywhere; it is the only way back
	// in after a failed or completed conversation.
	if greetings[lower] {
		return e.startFresh(ctx, sh, recipientID)
	}

	// Cancel destroys unconditionally; idempotent when no session exists.
	if lower == "cancel" {
		sh.destroy(recipientID)
		e.send(ctx, recipientID, msgCancelled)
		return OutcomeCancelled
	}

	sess, ok := sh.sessions[recipientID]
	if !ok {
		// Unrecognized first contact behaves like a greeting.
		return e.startFresh(ctx, sh, recipientID)
	}

	// Lazy expiry: the triggering message is not reprocessed in the
	// replacement session.
	if e.now().Sub(sess.LastActivityAt) > e.cfg.SessionTimeout {
		metrics.IncSessionsExpired()
		e.publish(events.TypeSessionExpired, recipientID, nil)
		return e.startFresh(ctx, sh, recipientID)
	}

	sess.LastActivityAt = e.now()
	return e.dispatch(ctx, sh, sess, text)
}

// startFresh destroys any existing session, binds the recipient to a known
// user when possible (best-effort) and sends the welcome prompt.
func (e *Engine) startFresh(ctx context.Context, sh *sessionShard, recipientID string) Outcome {
	sh.destroy(recipientID)

	sess := &Session{
		RecipientID:    recipientID,
		State:          StateWelcome,
		LastActivityAt: e.now(),
	}
	cctx, cancel := e.callCtx(ctx)
	user, err := e.dir.FindUserByRecipient(cctx, recipientID)
	cancel()
	if err == nil && user != nil {
		sess.UserID = user.UserID
		sess.UserName = user.Name
	}

	sh.sessions[recipientID] = sess
	metrics.IncSessionsStarted()
	e.send(ctx, recipientID, msgWelcome)
	return OutcomeRestarted
}

func (e *Engine) dispatch(ctx context.Context, sh *sessionShard, sess *Session, text string) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error().
				Interface("panic", r).
				Str("recipient", sess.RecipientID).
				Str("state", string(sess.State)).
				Msg("handler panicked")
			outcome = e.failHard(ctx, sh, sess, msgGenericError)
		}
	}()

	switch sess.State {
	case StateWelcome:
		return e.handleWelcome(ctx, sh, sess, text)
	case StateRegistration:
		return e.handleRegistration(ctx, sh, sess, text)
	case StateSalonSelection:
		return e.handleSalonSelection(ctx, sh, sess, text)
	case StateServiceSelection:
		return e.handleServiceSelection(ctx, sh, sess, text)
	case StateExpertSelection:
		return e.handleExpertSelection(ctx, sh, sess, text)
	case StateDateSelection:
		return e.handleDateSelection(ctx, sh, sess, text)
	case StateTimeSelection:
		return e.handleTimeSelection(ctx, sh, sess, text)
	case StateConfirmation:
		return e.handleConfirmation(ctx, sh, sess, text)
	case StateFeedback:
		return e.handleFeedback(ctx, sh, sess, text)
	default:
		// A session in an untabled state is an engine defect.
		e.logger.Error().
			Str("recipient", sess.RecipientID).
			Str("state", string(sess.State)).
			Msg("session in unknown state")
		return e.failHard(ctx, sh, sess, msgGenericError)
	}
}

func (e *Engine) handleWelcome(ctx context.Context, sh *sessionShard, sess *Session, text string) Outcome {
	switch strings.ToUpper(text) {
	case "LOGIN":
		cctx, cancel := e.callCtx(ctx)
		user, err := e.dir.FindUserByRecipient(cctx, sess.RecipientID)
		cancel()
		switch {
		case err == nil && user != nil:
			sess.UserID = user.UserID
			sess.UserName = user.Name
			if !e.advanceTo(sh, sess, StateSalonSelection) {
				return e.failHard(ctx, sh, sess, msgGenericError)
			}
			e.send(ctx, sess.RecipientID, msgLoginWelcomeBack(user.Name))
			return e.showSalons(ctx, sh, sess)
		case isNotFound(err):
			return e.beginRegistration(ctx, sh, sess)
		default:
			return e.failHard(ctx, sh, sess, msgLoginError)
		}
	case "REGISTER":
		return e.beginRegistration(ctx, sh, sess)
	default:
		// No retry budget at welcome; just repeat the options.
		e.send(ctx, sess.RecipientID, msgWelcome)
		return OutcomeReprompted
	}
}

// advanceTo performs a table-checked transition and resets the retry
// budget. A false return means the transition is untabled.
func (e *Engine) advanceTo(sh *sessionShard, sess *Session, to State) bool {
	if !e.fsm.Transition(sess, to) {
		e.logger.Error().
			Str("recipient", sess.RecipientID).
			Str("from", string(sess.State)).
			Str("to", string(to)).
			Msg("illegal state transition attempted")
		return false
	}
	sh.resetRetries(sess.RecipientID)
	return true
}

// reprompt charges one retry and either resends the given correction or,
// once the budget is spent, destroys the session.
func (e *Engine) reprompt(ctx context.Context, sh *sessionShard, sess *Session, correction string) Outcome {
	if sh.bumpRetry(sess.RecipientID, e.cfg.RetryBudget) {
		metrics.IncRetriesExhausted(string(sess.State))
		return e.failHard(ctx, sh, sess, msgTooManyAttempts)
	}
	e.send(ctx, sess.RecipientID, correction)
	return OutcomeReprompted
}

// failHard destroys the session and tells the recipient how to restart.
// Raw error detail never reaches the recipient.
func (e *Engine) failHard(ctx context.Context, sh *sessionShard, sess *Session, message string) Outcome {
	state := string(sess.State)
	sh.destroy(sess.RecipientID)
	e.send(ctx, sess.RecipientID, message)
	e.publish(events.TypeSessionFailed, sess.RecipientID, map[string]any{"state": state})
	return OutcomeFailed
}

func (e *Engine) send(ctx context.Context, recipient, text string) {
	if !e.sender.Send(ctx, recipient, text) {
		metrics.IncSendFailure()
	}
}

func (e *Engine) publish(eventType, recipient string, payload map[string]any) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(events.Event{Type: eventType, Recipient: recipient, Payload: payload})
}

func (e *Engine) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.cfg.CollaboratorTimeout)
}

func normalizeRecipient(recipientID string) string {
	return strings.TrimSpace(strings.TrimPrefix(recipientID, "whatsapp:"))
}
