// Package metrics turns raw income, debt and transaction records into the
// values the dashboard displays.
//
// Every function here is pure and total: empty collections, zero totals and
// dangling references resolve to defined sentinel values instead of errors.
package metrics
