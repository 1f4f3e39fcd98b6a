package client

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// NewSessionCommand constructs the `session` command group and subcommands.
func NewSessionCommand(baseURL BaseURLFunc) *cobra.Command {
	sessionCmd := &cobra.Command{Use: "session", Short: "Session operations"}

	sessionCmd.AddCommand(
		newSessionCreateCommand(baseURL),
		newSessionCloseCommand(baseURL),
		newSessionListCommand(baseURL),
		newSessionShowCommand(baseURL),
		newSessionHistoryCommand(baseURL),
	)

	return sessionCmd
}

// newSessionCreateCommand constructs the `session create` subcommand.
func newSessionCreateCommand(baseURL BaseURLFunc) *cobra.Command {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetString("id")
			name, _ := cmd.Flags().GetString("name")
			typ, _ := cmd.Flags().GetString("type")
			at, _ := cmd.Flags().GetInt64("scheduled-at")
			maxAtt, _ := cmd.Flags().GetInt("max-attending")
			maxStby, _ := cmd.Flags().GetInt("max-standby")
			out, err := postJSON(baseURL()+"/v1/sessions/create", map[string]any{
				"sessionId":    id,
				"name":         name,
				"type":         typ,
				"scheduledAt":  at,
				"maxAttending": maxAtt,
				"maxStandby":   maxStby,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	createCmd.Flags().String("id", "", "Session id (default: generated)")
	createCmd.Flags().String("name", "", "Session name")
	createCmd.Flags().String("type", "", "Session type")
	createCmd.Flags().Int64("scheduled-at", 0, "Scheduled time (unix ms)")
	createCmd.Flags().Int("max-attending", 0, "Attending capacity (default: server config)")
	createCmd.Flags().Int("max-standby", 0, "Standby capacity (default: server config)")
	return createCmd
}

// newSessionCloseCommand constructs the `session close` subcommand.
func newSessionCloseCommand(baseURL BaseURLFunc) *cobra.Command {
	closeCmd := &cobra.Command{
		Use:   "close",
		Short: "Close a session and settle attendance",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetString("id")
			if id == "" {
				return fmt.Errorf("--id is required")
			}
			out, err := postJSON(baseURL()+"/v1/sessions/close", map[string]any{"sessionId": id})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	closeCmd.Flags().String("id", "", "Session id")
	return closeCmd
}

// newSessionListCommand constructs the `session list` subcommand.
func newSessionListCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List live sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := getJSON(baseURL() + "/v1/sessions")
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

// newSessionShowCommand constructs the `session show` subcommand.
func newSessionShowCommand(baseURL BaseURLFunc) *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show a session's roster (live or archived)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetString("id")
			if id == "" {
				return fmt.Errorf("--id is required")
			}
			out, err := getJSON(baseURL() + "/v1/sessions/roster?id=" + url.QueryEscape(id))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	showCmd.Flags().String("id", "", "Session id")
	return showCmd
}

// newSessionHistoryCommand constructs the `session history` subcommand.
func newSessionHistoryCommand(baseURL BaseURLFunc) *cobra.Command {
	histCmd := &cobra.Command{
		Use:   "history",
		Short: "List closed sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			out, err := getJSON(fmt.Sprintf("%s/v1/sessions/archived?limit=%d", baseURL(), limit))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	histCmd.Flags().Int("limit", 100, "Max sessions to return")
	return histCmd
}
