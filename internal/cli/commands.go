package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"buget/internal/core"
	"buget/internal/metrics"
	"buget/internal/session"
	"buget/internal/sheets"
	"buget/internal/view"
)

// ErrUsage marks a malformed command line.
var ErrUsage = errors.New("usage")

// ErrSignedOut is returned when a protected screen was requested without a
// session.
var ErrSignedOut = errors.New("not signed in: run `buget login` first")

const usage = `usage: buget <command> [flags]

session:
  login --email E [--password P]        sign in (password read from stdin if omitted)
  register --email E --password P --confirm P
  logout
  whoami

screens:
  dashboard [current|next]
  debts | incomes | transactions
  open PATH                             e.g. /dashboard/next

changes:
  debt-add --name N --amount A --due YYYY-MM-DD [--category C] [--recurring]
  debt-pay ID
  debt-status ID pending|paid|overdue
  debt-delete ID
  income-add --amount A [--description D] [--date YYYY-MM-DD] [--recurring]
  income-delete ID
  transaction-add --amount A [--date YYYY-MM-DD] [--note N] [--debt ID]

export:
  export [current|next] [--dry-run]`

type command func(ctx context.Context, a *App, args []string, in io.Reader) error

var commands = map[string]command{
	"login":           runLogin,
	"register":        runRegister,
	"logout":          runLogout,
	"whoami":          runWhoami,
	"dashboard":       runDashboard,
	"debts":           screen(view.Debts{}),
	"incomes":         screen(view.Incomes{}),
	"transactions":    screen(view.Transactions{}),
	"open":            runOpen,
	"debt-add":        runDebtAdd,
	"debt-pay":        runDebtPay,
	"debt-status":     runDebtStatus,
	"debt-delete":     runDebtDelete,
	"income-add":      runIncomeAdd,
	"income-delete":   runIncomeDelete,
	"transaction-add": runTransactionAdd,
	"export":          runExport,
}

// Run settles the session, then executes one command. Errors are rendered
// before being returned.
func Run(ctx context.Context, a *App, args []string, in io.Reader) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		return a.renderer.Notice(usage)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		err := fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
		a.renderer.Error(err)
		a.renderer.Notice(usage)
		return err
	}
	if err := a.Restore(ctx); err != nil {
		return err
	}
	_, before := a.sessions.Current()
	if err := cmd(ctx, a, args[1:], in); err != nil {
		a.renderer.Error(err)
		if _, after := a.sessions.Current(); core.IsAuth(err) && before == session.Authenticated && after == session.Anonymous {
			a.renderer.Warn("Session expired, sign in again: buget login")
		}
		return err
	}
	return nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUsage, fs.Name(), err)
	}
	return nil
}

func parseID(resource, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, &core.ValidationError{Field: resource, Reason: "id must be a positive integer"}
	}
	return id, nil
}

func oneArg(name string, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: %s takes exactly one argument", ErrUsage, name)
	}
	return args[0], nil
}

// dateOrToday parses s, defaulting to the local calendar date.
func (a *App) dateOrToday(field, s string) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return core.DateOf(a.localNow()), nil
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return core.Date{}, &core.ValidationError{Field: field, Reason: err.Error()}
	}
	return d, nil
}

func readSecret(in io.Reader) string {
	if in == nil {
		return ""
	}
	line, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

func runLogin(ctx context.Context, a *App, args []string, in io.Reader) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *password == "" {
		*password = readSecret(in)
	}
	s, err := a.sessions.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	return a.renderer.Session(s)
}

func runRegister(ctx context.Context, a *App, args []string, _ io.Reader) error {
	fs := newFlagSet("register")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	confirm := fs.String("confirm", "", "password confirmation")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := core.ValidateRegistration(*email, *password, *confirm); err != nil {
		return err
	}
	s, err := a.sessions.Register(ctx, *email, *password)
	if err != nil {
		return err
	}
	return a.renderer.Session(s)
}

func runLogout(ctx context.Context, a *App, _ []string, _ io.Reader) error {
	if err := a.sessions.Logout(ctx); err != nil {
		return err
	}
	return a.renderer.Notice("Signed out.")
}

func runWhoami(_ context.Context, a *App, _ []string, _ io.Reader) error {
	s, _ := a.sessions.Current()
	return a.renderer.Session(s)
}

func runDashboard(ctx context.Context, a *App, args []string, _ io.Reader) error {
	period := core.PeriodCurrent
	if len(args) > 0 {
		period = core.Period(strings.ToLower(args[0]))
		if !period.Valid() {
			return &core.ValidationError{Field: "period", Reason: "must be current or next"}
		}
	}
	return show(ctx, a, view.Dashboard{Period: period})
}

func runOpen(ctx context.Context, a *App, args []string, _ io.Reader) error {
	path, err := oneArg("open", args)
	if err != nil {
		return err
	}
	return show(ctx, a, view.Parse(path))
}

func screen(v view.View) command {
	return func(ctx context.Context, a *App, _ []string, _ io.Reader) error {
		return show(ctx, a, v)
	}
}

// show routes v through the session guard before rendering it.
func show(ctx context.Context, a *App, v view.View) error {
	_, state := a.sessions.Current()
	d := view.Guard(v, state)
	switch d.Outcome {
	case view.Loading:
		return a.renderer.Loading()
	case view.Redirect:
		a.logger.Debug("Redirecting protected view", "from", v.Path(), "to", d.View.Path())
		return ErrSignedOut
	default:
		return view.Visit[error](d.View, screens{ctx: ctx, app: a})
	}
}

// screens renders each view from live data.
type screens struct {
	ctx context.Context
	app *App
}

func (s screens) Login(view.Login) error {
	return s.app.renderer.Notice("Sign in with: buget login --email you@example.com")
}

func (s screens) Register(view.Register) error {
	return s.app.renderer.Notice("Create an account with: buget register --email E --password P --confirm P")
}

func (s screens) Dashboard(v view.Dashboard) error {
	cur, next, err := s.app.finance.Dashboard(s.ctx)
	if err != nil {
		return err
	}
	d := cur
	if v.Period == core.PeriodNext {
		d = next
	}
	return s.app.renderer.Dashboard(d, s.app.localNow())
}

func (s screens) Incomes(view.Incomes) error {
	incomes, err := s.app.finance.Incomes(s.ctx)
	if err != nil {
		return err
	}
	return s.app.renderer.Incomes(incomes)
}

func (s screens) Debts(view.Debts) error {
	debts, err := s.app.finance.Debts(s.ctx)
	if err != nil {
		return err
	}
	return s.app.renderer.Debts(debts, s.app.localNow())
}

func (s screens) Transactions(view.Transactions) error {
	txs, err := s.app.finance.Transactions(s.ctx)
	if err != nil {
		return err
	}
	// Debt names are cosmetic; a failed lookup falls back to plain labels.
	debts, err := s.app.finance.Debts(s.ctx)
	if err != nil {
		if core.IsAuth(err) {
			return err
		}
		debts = nil
		if werr := s.app.renderer.Warn("Debt names unavailable (" + err.Error() + "); linked payments show as unknown."); werr != nil {
			return werr
		}
	}
	return s.app.renderer.Transactions(txs, debts)
}

func runDebtAdd(ctx context.Context, a *App, args []string, _ io.Reader) error {
	fs := newFlagSet("debt-add")
	name := fs.String("name", "", "debt name")
	amount := fs.String("amount", "", "amount")
	due := fs.String("due", "", "due date YYYY-MM-DD")
	category := fs.String("category", string(core.CategoryOther), "rent|utilities|installment|loan|other")
	recurring := fs.Bool("recurring", false, "repeats monthly")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	amt, err := core.ParseAmount(*amount)
	if err != nil {
		return err
	}
	dueDate, err := a.dateOrToday("due date", *due)
	if err != nil {
		return err
	}
	err = a.finance.CreateDebt(ctx, core.NewDebt{
		Amount:      amt,
		Name:        strings.TrimSpace(*name),
		DueDate:     dueDate,
		IsRecurring: *recurring,
		Category:    core.DebtCategory(strings.ToLower(*category)),
	})
	if err != nil {
		return err
	}
	return a.renderer.Notice(fmt.Sprintf("Added debt %q of %s due %s.", strings.TrimSpace(*name), core.FormatRON(amt), dueDate))
}

func runDebtPay(ctx context.Context, a *App, args []string, _ io.Reader) error {
	arg, err := oneArg("debt-pay", args)
	if err != nil {
		return err
	}
	id, err := parseID("debt", arg)
	if err != nil {
		return err
	}
	if err := a.finance.MarkDebtPaid(ctx, id); err != nil {
		return err
	}
	return a.renderer.Notice(fmt.Sprintf("Debt %d marked paid.", id))
}

func runDebtStatus(ctx context.Context, a *App, args []string, _ io.Reader) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: debt-status takes ID and STATUS", ErrUsage)
	}
	id, err := parseID("debt", args[0])
	if err != nil {
		return err
	}
	status := core.DebtStatus(strings.ToLower(args[1]))
	if err := a.finance.SetDebtStatus(ctx, id, status); err != nil {
		return err
	}
	return a.renderer.Notice(fmt.Sprintf("Debt %d is now %s.", id, metrics.StatusLabel(status).Label))
}

func runDebtDelete(ctx context.Context, a *App, args []string, _ io.Reader) error {
	return deleteByID(ctx, a, "debt", args, a.finance.DeleteDebt)
}

func runIncomeDelete(ctx context.Context, a *App, args []string, _ io.Reader) error {
	return deleteByID(ctx, a, "income", args, a.finance.DeleteIncome)
}

func deleteByID(ctx context.Context, a *App, resource string, args []string, del func(context.Context, int64) error) error {
	arg, err := oneArg(resource+"-delete", args)
	if err != nil {
		return err
	}
	id, err := parseID(resource, arg)
	if err != nil {
		return err
	}
	if err := del(ctx, id); err != nil {
		return err
	}
	return a.renderer.Notice(fmt.Sprintf("Deleted %s %d.", resource, id))
}

func runIncomeAdd(ctx context.Context, a *App, args []string, _ io.Reader) error {
	fs := newFlagSet("income-add")
	amount := fs.String("amount", "", "amount")
	description := fs.String("description", "", "description")
	date := fs.String("date", "", "date YYYY-MM-DD (default today)")
	recurring := fs.Bool("recurring", false, "repeats monthly")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	amt, err := core.ParseAmount(*amount)
	if err != nil {
		return err
	}
	d, err := a.dateOrToday("date", *date)
	if err != nil {
		return err
	}
	err = a.finance.CreateIncome(ctx, core.NewIncome{
		Amount:      amt,
		Description: strings.TrimSpace(*description),
		Date:        d,
		IsRecurring: *recurring,
	})
	if err != nil {
		return err
	}
	return a.renderer.Notice(fmt.Sprintf("Added income of %s on %s.", core.FormatRON(amt), d))
}

func runTransactionAdd(ctx context.Context, a *App, args []string, _ io.Reader) error {
	fs := newFlagSet("transaction-add")
	amount := fs.String("amount", "", "amount")
	date := fs.String("date", "", "date YYYY-MM-DD (default today)")
	note := fs.String("note", "", "note")
	debt := fs.String("debt", "", "debt id this payment settles")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	amt, err := core.ParseAmount(*amount)
	if err != nil {
		return err
	}
	d, err := a.dateOrToday("date", *date)
	if err != nil {
		return err
	}
	tx := core.NewTransaction{Amount: amt, Date: d, Note: strings.TrimSpace(*note)}
	if *debt != "" {
		id, err := parseID("debt", *debt)
		if err != nil {
			return err
		}
		tx.DebtID = &id
	}
	if err := a.finance.CreateTransaction(ctx, tx); err != nil {
		return err
	}
	return a.renderer.Notice(fmt.Sprintf("Recorded payment of %s on %s.", core.FormatRON(amt), d))
}

func runExport(ctx context.Context, a *App, args []string, _ io.Reader) error {
	fs := newFlagSet("export")
	dryRun := fs.Bool("dry-run", false, "print the row instead of writing it")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	period := core.PeriodCurrent
	if fs.NArg() > 0 {
		period = core.Period(strings.ToLower(fs.Arg(0)))
		if !period.Valid() {
			return &core.ValidationError{Field: "period", Reason: "must be current or next"}
		}
	}

	s, state := a.sessions.Current()
	if state != session.Authenticated || s == nil {
		return ErrSignedOut
	}
	exporter, preview, err := a.dashboardExporter(ctx, *dryRun)
	if err != nil {
		return err
	}
	cur, next, err := a.finance.Dashboard(ctx)
	if err != nil {
		return err
	}
	d := cur
	if period == core.PeriodNext {
		d = next
	}
	ref, err := exporter.ExportDashboard(ctx, sheets.Export{
		Email:      s.Identity.Email,
		ExportedAt: a.localNow(),
		Dashboard:  d,
	})
	if err != nil {
		return fmt.Errorf("export dashboard: %w", err)
	}
	if preview != nil {
		return a.renderer.Notice(formatRows(preview.Rows()))
	}
	a.finance.ExportEvent(ctx, period, ref)
	return a.renderer.Notice("Exported " + d.MonthLabel + " to " + ref + ".")
}

func formatRows(rows [][]any) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = fmt.Sprint(c)
		}
		lines = append(lines, strings.Join(cells, " | "))
	}
	return strings.Join(lines, "\n")
}
