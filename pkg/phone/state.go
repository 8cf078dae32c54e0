package phone

// CallState is the call model state. Exactly one value is current,
// owned by the Phone's state machine and mutated only through the
// defined events.
type CallState string

const (
	// StateIdle - handset on the cradle, nothing in progress.
	StateIdle CallState = "idle"
	// StateDialing - handset lifted, dial tone playing, pulses counted.
	StateDialing CallState = "dialing"
	// StateAnswering - number complete, prompt then recording.
	StateAnswering CallState = "answering"
)

func (s CallState) String() string {
	return string(s)
}

// Events accepted by the state machine. Any other (state, event) pair
// is rejected without touching the state.
const (
	// EventPickup moves Idle to Dialing when the handset is lifted.
	EventPickup = "pickup"
	// EventDial moves Dialing to Answering, carrying the dialed number.
	EventDial = "dial"
	// EventAnswer moves Answering to Idle. No input triggers it in the
	// current hardware; it stays valid machine surface.
	EventAnswer = "answer"
	// EventHangUp moves any state to Idle, including Idle itself.
	EventHangUp = "hang_up"
)
