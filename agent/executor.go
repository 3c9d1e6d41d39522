package agent

import (
	"context"
	"strings"

	"github.com/smallnest/retailcopilot/log"
	"github.com/smallnest/retailcopilot/store"
)

// maxAttempts caps store submissions per query: the original attempt plus up
// to two repaired resubmissions.
const maxAttempts = 3

// Executor submits generated queries to the relational store and applies a
// bounded sequence of deterministic textual repairs on failure. It never
// returns a Go error: execution failures are captured in ExecResult.Err.
type Executor struct {
	store store.Store
}

// NewExecutor creates an Executor over the given store
func NewExecutor(st store.Store) *Executor {
	return &Executor{store: st}
}

// ExecuteWithRepair runs the query, repairing and resubmitting on failure up
// to the attempt cap. An attempt is counted even when a repair leaves the
// query text unchanged.
func (e *Executor) ExecuteWithRepair(ctx context.Context, query string) ExecResult {
	current := query
	lastErr := ""

	for attempt := 0; attempt < maxAttempts; attempt++ {
		columns, rows, err := e.store.Execute(ctx, current)
		if err == nil {
			return ExecResult{Columns: columns, Rows: rows}
		}

		lastErr = err.Error()
		log.Warn("query attempt %d failed: %v", attempt+1, err)

		current = repairQuery(current)
	}

	if lastErr == "" {
		lastErr = "failed after repairs"
	}
	return ExecResult{Err: lastErr}
}

// repairQuery applies the repair transformations in priority order: first
// normalize the quoting convention; if that changes nothing, substitute
// alternate identifiers the store may know the tables under.
func repairQuery(query string) string {
	if repaired := repairQuoting(query); repaired != query {
		return repaired
	}
	return repairAlternateNames(query)
}

// repairQuoting converts double-quoted identifiers to the single-quote
// convention and strips any residual double quotes
func repairQuoting(query string) string {
	repaired := strings.ReplaceAll(query, `"Order Details"`, "'Order Details'")
	return strings.ReplaceAll(repaired, `"`, "")
}

// repairAlternateNames substitutes table names assumed to exist under
// different identifiers. Whether the alternates exist is up to the store; if
// they do not, the attempt cap still bounds the loop.
func repairAlternateNames(query string) string {
	repaired := strings.ReplaceAll(query, `"Order Details"`, "order_items")
	repaired = strings.ReplaceAll(repaired, "'Order Details'", "order_items")
	return strings.ReplaceAll(repaired, "Orders", "orders")
}
