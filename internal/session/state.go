package session

// State is where the session lifecycle currently stands.
type State int

const (
	// Unknown is the state at process start, before Restore settles.
	Unknown State = iota
	Anonymous
	Authenticated
)

func (s State) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "invalid"
	}
}

// Change describes one state transition, handed to observers.
type Change struct {
	From   State
	To     State
	Reason string
	// UserID is the identity that logged in, or the one that was logged out.
	UserID int64
}

// Reasons reported in Change.
const (
	ReasonLogin    = "login"
	ReasonRegister = "register"
	ReasonRestored = "restored"
	ReasonNoToken  = "no_token"
	ReasonRejected = "token_rejected"
	ReasonLogout   = "logout"
	ReasonForced   = "forced_logout"
)
