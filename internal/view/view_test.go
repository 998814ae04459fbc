package view

import (
	"testing"

	"buget/internal/core"
	"buget/internal/session"
)

func TestParse(t *testing.T) {
	cases := map[string]View{
		"/":                 Dashboard{Period: core.PeriodCurrent},
		"":                  Dashboard{Period: core.PeriodCurrent},
		"/dashboard":        Dashboard{Period: core.PeriodCurrent},
		"/dashboard/next/":  Dashboard{Period: core.PeriodNext},
		"/login":            Login{},
		"register":          Register{},
		"/Incomes":          Incomes{},
		"/debts?sort=due":   Debts{},
		"/transactions#top": Transactions{},
		"/settings":         Dashboard{Period: core.PeriodCurrent},
	}
	for path, want := range cases {
		if got := Parse(path); got != want {
			t.Errorf("Parse(%q) = %#v, want %#v", path, got, want)
		}
	}
}

func TestPathRoundTrip(t *testing.T) {
	views := []View{
		Login{}, Register{}, Incomes{}, Debts{}, Transactions{},
		Dashboard{Period: core.PeriodCurrent}, Dashboard{Period: core.PeriodNext},
	}
	for _, v := range views {
		if got := Parse(v.Path()); got != v {
			t.Errorf("Parse(%q) = %#v, want %#v", v.Path(), got, v)
		}
	}
}

func TestGuard(t *testing.T) {
	cases := []struct {
		name    string
		view    View
		state   session.State
		outcome Outcome
		shown   View
	}{
		{"unsettled protected", Debts{}, session.Unknown, Loading, nil},
		{"unsettled public", Login{}, session.Unknown, Loading, nil},
		{"anonymous protected", Dashboard{}, session.Anonymous, Redirect, Login{}},
		{"anonymous public", Register{}, session.Anonymous, Render, Register{}},
		{"authenticated protected", Transactions{}, session.Authenticated, Render, Transactions{}},
		{"authenticated public", Login{}, session.Authenticated, Render, Login{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Guard(tc.view, tc.state)
			if d.Outcome != tc.outcome || d.View != tc.shown {
				t.Errorf("Guard() = %v %#v, want %v %#v", d.Outcome, d.View, tc.outcome, tc.shown)
			}
		})
	}
}

type nameVisitor struct{}

func (nameVisitor) Login(Login) string               { return "login" }
func (nameVisitor) Register(Register) string         { return "register" }
func (nameVisitor) Dashboard(d Dashboard) string     { return "dashboard:" + string(d.Period) }
func (nameVisitor) Incomes(Incomes) string           { return "incomes" }
func (nameVisitor) Debts(Debts) string               { return "debts" }
func (nameVisitor) Transactions(Transactions) string { return "transactions" }

func TestVisit(t *testing.T) {
	cases := map[View]string{
		Login{}:                            "login",
		Register{}:                         "register",
		Dashboard{Period: core.PeriodNext}: "dashboard:next",
		Incomes{}:                          "incomes",
		Debts{}:                            "debts",
		Transactions{}:                     "transactions",
	}
	for v, want := range cases {
		if got := Visit[string](v, nameVisitor{}); got != want {
			t.Errorf("Visit(%#v) = %q, want %q", v, got, want)
		}
	}
}
