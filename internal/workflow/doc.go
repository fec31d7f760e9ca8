// Package workflow runs the daemon's reconciliation loops. A sync loop
// refreshes the calendar meeting snapshot on a cron schedule, a dispatch
// loop hands due scheduled sessions to the bot provider, and a poll loop
// reconciles in-flight sessions against the provider's reported state.
package workflow
