package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"scribe/internal/api"
	"scribe/internal/ipc"
)

func newBotCommand(ctx *commandContext) *cobra.Command {
	botCmd := &cobra.Command{
		Use:   "bot",
		Short: "Schedule and manage recording bots",
	}

	botCmd.AddCommand(newBotAddCommand(ctx))
	botCmd.AddCommand(newBotRemoveCommand(ctx))
	botCmd.AddCommand(newBotUpdateCommand(ctx))
	botCmd.AddCommand(newBotShowCommand(ctx))

	return botCmd
}

func newBotAddCommand(ctx *commandContext) *cobra.Command {
	var title string
	var meetingURL string
	var startValue string
	var projectID string
	var organizationID string
	var userID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "add <event-id>",
		Short: "Schedule a recording bot for a calendar event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID := strings.TrimSpace(args[0])
			if eventID == "" {
				return errors.New("event id is required")
			}

			var start time.Time
			if value := strings.TrimSpace(startValue); value != "" {
				parsed, err := time.Parse(time.RFC3339, value)
				if err != nil {
					return fmt.Errorf("parse --start %q: %w", value, err)
				}
				start = parsed
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.BotSchedule(ipc.BotScheduleRequest{
					EventID:        eventID,
					MeetingTitle:   strings.TrimSpace(title),
					MeetingURL:     strings.TrimSpace(meetingURL),
					Start:          start,
					ProjectID:      strings.TrimSpace(projectID),
					OrganizationID: strings.TrimSpace(organizationID),
					UserID:         strings.TrimSpace(userID),
				})
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp.Session)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Bot scheduled for event %s (session %s)\n", eventID, resp.Session.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Meeting title for notifications")
	cmd.Flags().StringVar(&meetingURL, "url", "", "Meeting join URL")
	cmd.Flags().StringVar(&startValue, "start", "", "Meeting start time (RFC3339)")
	cmd.Flags().StringVar(&projectID, "project", "", "Project to attach the recording to")
	cmd.Flags().StringVar(&organizationID, "org", "", "Organization owning the session")
	cmd.Flags().StringVar(&userID, "user", "", "Requesting user id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")
	return cmd
}

func newBotRemoveCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "remove <session-id> [session-id...]",
		Short: "Remove bots from sessions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]string, 0, len(args))
			for _, arg := range args {
				if id := strings.TrimSpace(arg); id != "" {
					ids = append(ids, id)
				}
			}
			if len(ids) == 0 {
				return errors.New("at least one session id is required")
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.BotRemove(ids)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp)
				}
				out := cmd.OutOrStdout()
				for _, item := range resp.Sessions {
					switch item.Outcome {
					case api.RemoveSessionNotFound:
						fmt.Fprintf(out, "Session %s not found\n", item.ID)
					case api.RemoveSessionRemoved:
						fmt.Fprintf(out, "Session %s bot removed\n", item.ID)
					}
				}
				fmt.Fprintf(out, "Removed %d bot(s)\n", resp.RemovedCount)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")
	return cmd
}

func newBotUpdateCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "update <session-id>",
		Short: "Update editable fields of a scheduled session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if id == "" {
				return errors.New("session id is required")
			}

			req := ipc.BotUpdateRequest{ID: id}
			if cmd.Flags().Changed("url") {
				value, _ := cmd.Flags().GetString("url")
				req.MeetingURL = &value
			}
			if cmd.Flags().Changed("project") {
				value, _ := cmd.Flags().GetString("project")
				req.ProjectID = &value
			}
			if req.MeetingURL == nil && req.ProjectID == nil {
				return errors.New("specify at least one of --url or --project")
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.BotUpdate(req)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp.Session)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Session %s updated\n", resp.Session.ID)
				return nil
			})
		},
	}

	cmd.Flags().String("url", "", "New meeting join URL")
	cmd.Flags().String("project", "", "New project id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")
	return cmd
}

func newBotShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show one session in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if id == "" {
				return errors.New("session id is required")
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SessionDescribe(id)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp.Session)
				}
				printSessionDetail(cmd, resp.Session)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")
	return cmd
}

func printSessionDetail(cmd *cobra.Command, sess api.SessionView) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	for _, line := range renderSectionHeader("Session "+sess.ID, colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, renderStatusLine("Status", sessionStatusKind(sess.Status), formatStatusLabel(sess.Status), colorize))
	fmt.Fprintln(out, renderStatusLine("Event", statusInfo, sess.CalendarEventID, colorize))
	if sess.ProviderID != "" {
		fmt.Fprintln(out, renderStatusLine("Provider", statusInfo, sess.ProviderID, colorize))
	}
	if sess.MeetingURL != "" {
		fmt.Fprintln(out, renderStatusLine("Meeting URL", statusInfo, sess.MeetingURL, colorize))
	}
	if sess.ProjectID != "" {
		fmt.Fprintln(out, renderStatusLine("Project", statusInfo, sess.ProjectID, colorize))
	}
	if sess.OrganizationID != "" {
		fmt.Fprintln(out, renderStatusLine("Organization", statusInfo, sess.OrganizationID, colorize))
	}
	if sess.RecordingID != "" {
		fmt.Fprintln(out, renderStatusLine("Recording", statusOK, sess.RecordingID, colorize))
	}
	if sess.ErrorMessage != "" {
		fmt.Fprintln(out, renderStatusLine("Error", statusError, sess.ErrorMessage, colorize))
	}
	if sess.CreatedAt != "" {
		fmt.Fprintln(out, renderStatusLine("Created", statusInfo, formatDisplayTime(sess.CreatedAt), colorize))
	}
	if sess.UpdatedAt != "" {
		fmt.Fprintln(out, renderStatusLine("Updated", statusInfo, formatDisplayTime(sess.UpdatedAt), colorize))
	}
}

func sessionStatusKind(status string) statusKind {
	switch status {
	case "completed", "active":
		return statusOK
	case "failed":
		return statusError
	case "pending_consent":
		return statusWarn
	default:
		return statusInfo
	}
}
