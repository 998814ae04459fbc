package view

import "buget/internal/session"

// Outcome is what the presentation layer should do for a requested view.
type Outcome int

const (
	// Loading means the session is not settled yet; show a loader.
	Loading Outcome = iota
	// Redirect means show Decision.View instead of the requested one.
	Redirect
	Render
)

func (o Outcome) String() string {
	switch o {
	case Loading:
		return "loading"
	case Redirect:
		return "redirect"
	case Render:
		return "render"
	default:
		return "invalid"
	}
}

type Decision struct {
	Outcome Outcome
	View    View
}

// Guard decides whether requested can be shown in state. Nothing is
// rendered before the session settles, and protected views redirect to the
// login view without a session. Public views always render.
func Guard(requested View, state session.State) Decision {
	if state == session.Unknown {
		return Decision{Outcome: Loading}
	}
	if requested.Protected() && state != session.Authenticated {
		return Decision{Outcome: Redirect, View: Login{}}
	}
	return Decision{Outcome: Render, View: requested}
}
