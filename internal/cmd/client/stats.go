package client

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// NewStatsCommand constructs the `stats` command group.
func NewStatsCommand(baseURL BaseURLFunc) *cobra.Command {
	statsCmd := &cobra.Command{Use: "stats", Short: "Attendance stats"}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show a user's attendance record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, _ := cmd.Flags().GetString("user")
			if user == "" {
				return fmt.Errorf("--user is required")
			}
			out, err := getJSON(baseURL() + "/v1/stats?user=" + url.QueryEscape(user))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	showCmd.Flags().StringP("user", "u", "", "User id")
	statsCmd.AddCommand(showCmd)
	return statsCmd
}
