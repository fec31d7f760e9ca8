package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scribe/internal/ipc"
)

func newMeetingsCommand(ctx *commandContext) *cobra.Command {
	meetingsCmd := &cobra.Command{
		Use:   "meetings",
		Short: "Browse calendar meetings and their bot status",
	}

	meetingsCmd.AddCommand(newMeetingsListCommand(ctx))

	return meetingsCmd
}

func newMeetingsListCommand(ctx *commandContext) *cobra.Command {
	var statusFilter string
	var periodFilter string
	var page int
	var pageSize int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List meetings in the sync window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.MeetingList(ipc.MeetingListRequest{
					Status:   statusFilter,
					Period:   periodFilter,
					Page:     page,
					PageSize: pageSize,
				})
				if err != nil {
					return err
				}

				if asJSON {
					return writeJSON(cmd, resp.Page)
				}

				out := cmd.OutOrStdout()
				if len(resp.Page.Meetings) == 0 {
					fmt.Fprintln(out, "No meetings found")
					return nil
				}

				table := renderTable(
					[]string{"Event ID", "Title", "Start", "Bot Status", "Session"},
					buildMeetingRows(resp.Page.Meetings),
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(out, table)
				fmt.Fprintf(out, "Page %d of %d (%d meetings)\n", resp.Page.CurrentPage, resp.Page.TotalPages, resp.Page.Total)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&statusFilter, "status", "s", "", "Filter by bot status (all, with_bot, without_bot, pending_consent, active, failed)")
	cmd.Flags().StringVarP(&periodFilter, "period", "p", "", "Filter by period (upcoming, past)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-indexed)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Meetings per page (0 uses configured default)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}
