package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"buget/internal/amqp"
	"buget/internal/cache"
	"buget/internal/config"
	"buget/internal/core"
	"buget/internal/gateway"
	"buget/internal/log"
	"buget/internal/render"
	"buget/internal/services"
	"buget/internal/session"
	"buget/internal/sheets"
	gsheet "buget/internal/sheets/google"
	"buget/internal/sheets/memory"
	"buget/internal/tokenstore"
)

// App is one run of the client with every collaborator wired.
type App struct {
	cfg      *config.Config
	logger   *log.Logger
	sessions *session.Manager
	finance  *services.FinanceService
	gateway  *gateway.Client
	renderer *render.Renderer
	now      func() time.Time
	exporter sheets.DashboardExporter
	cache    *cache.LRUCache[any]

	cleanups []func() error
}

// Deps overrides collaborators, for tests. Zero fields use the defaults.
type Deps struct {
	TokenStore session.TokenStore
	Publisher  services.Publisher
	Exporter   sheets.DashboardExporter
	Now        func() time.Time
}

// NewApp wires an App from cfg. Output goes to out.
func NewApp(ctx context.Context, cfg *config.Config, logger *log.Logger, out io.Writer, deps Deps) (*App, error) {
	if logger == nil {
		logger = log.Discard()
	}
	a := &App{
		cfg:      cfg,
		logger:   logger,
		renderer: render.New(out),
		now:      deps.Now,
		exporter: deps.Exporter,
	}
	if a.now == nil {
		a.now = time.Now
	}

	store := deps.TokenStore
	if store == nil {
		res, err := tokenstore.Open(cfg, logger)
		if err != nil {
			return nil, err
		}
		store = res.Store
		a.cleanups = append(a.cleanups, res.Cleanup)
		logger.Debug("Token store ready", "kind", res.Kind)
	}

	publisher := deps.Publisher
	if publisher == nil && cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, logger)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			publisher = client
			a.cleanups = append(a.cleanups, client.Close)
		}
	}

	a.gateway = gateway.New(cfg.APIBaseURL, cfg.HTTPTimeout, logger)
	a.cache = cache.NewLRUCache[any](cfg.CacheSize, cfg.CacheTTL)

	// The finance service observes the manager it also reads from.
	var finance *services.FinanceService
	a.sessions = session.NewManager(a.gateway, store, logger,
		session.WithClock(a.now),
		session.WithObserver(func(ctx context.Context, c session.Change) {
			if finance != nil {
				finance.OnSessionChange(ctx, c)
			}
		}))
	finance = services.NewFinanceService(a.gateway, a.sessions, a.cache, publisher, logger)
	a.finance = finance

	return a, nil
}

// Close logs cache usage and releases the token store and the AMQP
// connection.
func (a *App) Close() error {
	st := a.cache.Stats()
	a.logger.WithComponent(log.ComponentCache).Debug("Response cache usage",
		"hits", st.Hits,
		"misses", st.Misses,
		"evictions", st.Evictions)

	var errs []error
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		if err := a.cleanups[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Restore settles the session before any command runs.
func (a *App) Restore(ctx context.Context) error {
	if _, err := a.sessions.Restore(ctx); err != nil {
		a.logger.Warn("Session restore incomplete", log.FieldError, err)
	}
	select {
	case <-a.sessions.Ready():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// localNow is the current time in the configured calendar.
func (a *App) localNow() time.Time {
	return a.now().In(a.cfg.Location())
}

func (a *App) dashboardExporter(ctx context.Context, dryRun bool) (sheets.DashboardExporter, *memory.Store, error) {
	if dryRun {
		store := memory.New(a.cfg.GoogleSheetName)
		return store, store, nil
	}
	if a.exporter != nil {
		return a.exporter, nil, nil
	}
	if !a.cfg.SheetsEnabled() {
		return nil, nil, &core.ValidationError{Field: "export", Reason: "GOOGLE_SPREADSHEET_ID is not set (use --dry-run to preview)"}
	}
	client, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   a.cfg.GoogleSpreadsheetID,
		SheetName:       a.cfg.GoogleSheetName,
		CredentialsJSON: a.cfg.GoogleServiceAccountJSON,
		CredentialsFile: a.cfg.GoogleServiceAccountFile,
		Logger:          a.logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}
	a.exporter = client
	return client, nil, nil
}
