package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewActCommand constructs the `act` command group. Each subcommand maps to
// one roster action endpoint.
func NewActCommand(baseURL BaseURLFunc) *cobra.Command {
	actCmd := &cobra.Command{Use: "act", Short: "Roster actions"}

	actCmd.AddCommand(
		newActionCommand(baseURL, "join", "Join a session (attending, or standby when full)"),
		newActionCommand(baseURL, "leave-attending", "Give up an attending slot"),
		newActionCommand(baseURL, "leave-standby", "Leave the standby queue"),
		newActionCommand(baseURL, "decline", "Decline a session"),
		newActionCommand(baseURL, "checkin", "Check in to a session"),
		newRelieveCommand(baseURL),
	)

	return actCmd
}

func newActionCommand(baseURL BaseURLFunc, name, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, _ := cmd.Flags().GetString("session")
			user, _ := cmd.Flags().GetString("user")
			if session == "" || user == "" {
				return fmt.Errorf("--session and --user are required")
			}
			out, err := postJSON(baseURL()+"/v1/actions/"+name, map[string]any{
				"sessionId": session,
				"user":      user,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringP("session", "s", "", "Session id")
	cmd.Flags().StringP("user", "u", "", "User id")
	return cmd
}

// newRelieveCommand constructs the `act relieve` subcommand: hand an
// attending slot to a named standby user.
func newRelieveCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relieve",
		Short: "Hand an attending slot to a standby user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, _ := cmd.Flags().GetString("session")
			user, _ := cmd.Flags().GetString("user")
			target, _ := cmd.Flags().GetString("target")
			if session == "" || user == "" || target == "" {
				return fmt.Errorf("--session, --user, and --target are required")
			}
			out, err := postJSON(baseURL()+"/v1/actions/relieve", map[string]any{
				"sessionId": session,
				"user":      user,
				"target":    target,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringP("session", "s", "", "Session id")
	cmd.Flags().StringP("user", "u", "", "User giving up the slot")
	cmd.Flags().StringP("target", "t", "", "Standby user receiving the slot")
	return cmd
}
