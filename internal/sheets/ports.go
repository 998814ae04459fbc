package sheets

import (
	"context"
	"time"

	"buget/internal/metrics"
)

// Export is one dashboard snapshot to be written as a spreadsheet row.
type Export struct {
	Email      string
	ExportedAt time.Time
	Dashboard  metrics.Dashboard
}

// DashboardExporter writes dashboard snapshots somewhere outside the client.
type DashboardExporter interface {
	// ExportDashboard appends one row and returns a reference to it.
	ExportDashboard(ctx context.Context, e Export) (rowRef string, err error)
}
