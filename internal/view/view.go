// Package view is the closed set of screens the client can show and the
// rule deciding which one is shown for a given session state.
package view

import (
	"strings"

	"buget/internal/core"
)

// View is one screen. The set is closed: only this package can add cases.
type View interface {
	Path() string
	// Protected views need an authenticated session.
	Protected() bool
	isView()
}

type (
	Login        struct{}
	Register     struct{}
	Dashboard    struct{ Period core.Period }
	Incomes      struct{}
	Debts        struct{}
	Transactions struct{}
)

func (Login) Path() string        { return "/login" }
func (Register) Path() string     { return "/register" }
func (Incomes) Path() string      { return "/incomes" }
func (Debts) Path() string        { return "/debts" }
func (Transactions) Path() string { return "/transactions" }

func (d Dashboard) Path() string {
	if d.Period == core.PeriodNext {
		return "/dashboard/next"
	}
	return "/dashboard"
}

func (Login) Protected() bool        { return false }
func (Register) Protected() bool     { return false }
func (Dashboard) Protected() bool    { return true }
func (Incomes) Protected() bool      { return true }
func (Debts) Protected() bool        { return true }
func (Transactions) Protected() bool { return true }

func (Login) isView()        {}
func (Register) isView()     {}
func (Dashboard) isView()    {}
func (Incomes) isView()      {}
func (Debts) isView()        {}
func (Transactions) isView() {}

// Visitor handles every view. Adding a view breaks every Visitor until it
// handles the new case.
type Visitor[R any] interface {
	Login(Login) R
	Register(Register) R
	Dashboard(Dashboard) R
	Incomes(Incomes) R
	Debts(Debts) R
	Transactions(Transactions) R
}

// Visit dispatches v to the matching Visitor method.
func Visit[R any](v View, vis Visitor[R]) R {
	switch v := v.(type) {
	case Login:
		return vis.Login(v)
	case Register:
		return vis.Register(v)
	case Dashboard:
		return vis.Dashboard(v)
	case Incomes:
		return vis.Incomes(v)
	case Debts:
		return vis.Debts(v)
	case Transactions:
		return vis.Transactions(v)
	default:
		// unreachable: View is sealed
		return vis.Dashboard(Dashboard{Period: core.PeriodCurrent})
	}
}

// Parse maps a route to a view. Unknown routes fall back to the dashboard.
func Parse(path string) View {
	p := strings.ToLower(strings.TrimSpace(path))
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = "/" + strings.Trim(p, "/")

	switch p {
	case "/login":
		return Login{}
	case "/register":
		return Register{}
	case "/incomes":
		return Incomes{}
	case "/debts":
		return Debts{}
	case "/transactions":
		return Transactions{}
	case "/dashboard/next":
		return Dashboard{Period: core.PeriodNext}
	default:
		return Dashboard{Period: core.PeriodCurrent}
	}
}
