// Package booking implements the conversational booking engine: a
// per-recipient state machine driven by inbound free-text messages.
package booking

// State identifies the current step of a conversation.
type State string

const (
	StateWelcome          State = "welcome"
	StateRegistration     State = "registration"
	StateSalonSelection   State = "salon_selection"
	StateServiceSelection State = "service_selection"
	StateExpertSelection  State = "expert_selection"
	StateDateSelection    State = "date_selection"
	StateTimeSelection    State = "time_selection"
	StateConfirmation     State = "confirmation"
	StateFeedback         State = "feedback"
)

// FSM holds the legal transition table. The table is the single source of
// truth for state changes: every mutation goes through Transition, and a
// rejected transition is treated as an engine defect by the caller.
//
// Forward edges follow the booking flow. The backward edges
// (service->salon, expert->service, time->date) exist only for empty
// option lists; confirmation->service_selection is the "add more" path and
// confirmation->salon_selection starts a fresh booking after completion.
// The feedback state is an island seeded directly by RequestFeedback.
type FSM struct {
	transitions map[State][]State
}

// NewFSM creates the FSM with the booking dialog's transitions.
func NewFSM() *FSM {
	return &FSM{
		transitions: map[State][]State{
			StateWelcome:          {StateRegistration, StateSalonSelection},
			StateRegistration:     {StateSalonSelection},
			StateSalonSelection:   {StateServiceSelection},
			StateServiceSelection: {StateExpertSelection, StateSalonSelection},
			StateExpertSelection:  {StateDateSelection, StateServiceSelection},
			StateDateSelection:    {StateTimeSelection},
			StateTimeSelection:    {StateConfirmation, StateDateSelection},
			StateConfirmation:     {StateServiceSelection, StateSalonSelection},
			StateFeedback:         {},
		},
	}
}

// CanTransition reports whether from -> to is in the table.
func (f *FSM) CanTransition(from, to State) bool {
	for _, s := range f.transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition moves the session to the target state if the table allows it.
func (f *FSM) Transition(session *Session, to State) bool {
	if !f.CanTransition(session.State, to) {
		return false
	}
	session.State = to
	return true
}
