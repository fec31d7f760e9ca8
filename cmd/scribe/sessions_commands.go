package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scribe/internal/ipc"
)

func newSessionsCommand(ctx *commandContext) *cobra.Command {
	sessionsCmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and maintain bot sessions",
	}

	sessionsCmd.AddCommand(newSessionsListCommand(ctx))
	sessionsCmd.AddCommand(newSessionsClearCommand(ctx))
	sessionsCmd.AddCommand(newSessionsHealthCommand(ctx))

	return sessionsCmd
}

func newSessionsListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bot sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SessionList(listStatuses)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp)
				}
				out := cmd.OutOrStdout()
				if len(resp.Sessions) == 0 {
					fmt.Fprintln(out, "No sessions recorded")
					return nil
				}
				table := renderTable(
					[]string{"ID", "Event", "Status", "Created", "Error"},
					buildSessionRows(resp.Sessions),
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprint(out, table)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by session status (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newSessionsClearCommand(ctx *commandContext) *cobra.Command {
	var clearCompleted bool
	var clearFailed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove terminal sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if clearCompleted == clearFailed {
				return errors.New("specify exactly one of --completed or --failed")
			}
			return ctx.withClient(func(client *ipc.Client) error {
				out := cmd.OutOrStdout()
				if clearCompleted {
					resp, err := client.SessionsClearCompleted()
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Cleared %d completed sessions\n", resp.Removed)
					return nil
				}
				resp, err := client.SessionsClearFailed()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Cleared %d failed sessions\n", resp.Removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clearCompleted, "completed", false, "Remove completed sessions")
	cmd.Flags().BoolVar(&clearFailed, "failed", false, "Remove failed sessions")
	return cmd
}

func newSessionsHealthCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show session counts and database diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				health, err := client.SessionsHealth()
				if err != nil {
					return err
				}
				db, err := client.DatabaseHealth()
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, map[string]any{"sessions": health, "database": db})
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				for _, line := range renderSectionHeader("Sessions", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("Total", statusInfo, fmt.Sprintf("%d", health.Total), colorize))
				fmt.Fprintln(out, renderStatusLine("Scheduled", statusInfo, fmt.Sprintf("%d", health.Scheduled), colorize))
				fmt.Fprintln(out, renderStatusLine("In Flight", statusInfo, fmt.Sprintf("%d", health.InFlight), colorize))
				fmt.Fprintln(out, renderStatusLine("Pending Consent", pendingKind(health.PendingConsent), fmt.Sprintf("%d", health.PendingConsent), colorize))
				fmt.Fprintln(out, renderStatusLine("Completed", statusOK, fmt.Sprintf("%d", health.Completed), colorize))
				fmt.Fprintln(out, renderStatusLine("Failed", failedKind(health.Failed), fmt.Sprintf("%d", health.Failed), colorize))
				fmt.Fprintln(out)

				for _, line := range renderSectionHeader("Database", colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintln(out, renderStatusLine("Path", statusInfo, db.DBPath, colorize))
				fmt.Fprintln(out, renderStatusLine("Exists", boolKind(db.DatabaseExists), yesNo(db.DatabaseExists), colorize))
				fmt.Fprintln(out, renderStatusLine("Readable", boolKind(db.DatabaseReadable), yesNo(db.DatabaseReadable), colorize))
				fmt.Fprintln(out, renderStatusLine("Schema", boolKind(db.TableExists && len(db.MissingColumns) == 0), schemaDetail(db), colorize))
				fmt.Fprintln(out, renderStatusLine("Integrity", boolKind(db.IntegrityCheck), yesNo(db.IntegrityCheck), colorize))
				if strings.TrimSpace(db.Error) != "" {
					fmt.Fprintln(out, renderStatusLine("Error", statusError, db.Error, colorize))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")
	return cmd
}

func schemaDetail(db *ipc.DatabaseHealthResponse) string {
	if !db.TableExists {
		return "sessions table missing"
	}
	if len(db.MissingColumns) > 0 {
		return "missing columns: " + strings.Join(db.MissingColumns, ", ")
	}
	return "ok"
}

func boolKind(ok bool) statusKind {
	if ok {
		return statusOK
	}
	return statusError
}

func pendingKind(count int) statusKind {
	if count > 0 {
		return statusWarn
	}
	return statusInfo
}

func failedKind(count int) statusKind {
	if count > 0 {
		return statusError
	}
	return statusOK
}
