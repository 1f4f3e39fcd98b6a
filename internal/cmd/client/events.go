package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

// NewEventsCommand constructs the `events` command group.
func NewEventsCommand(baseURL BaseURLFunc) *cobra.Command {
	eventsCmd := &cobra.Command{Use: "events", Short: "Event feed operations"}
	eventsCmd.AddCommand(newEventsListCommand(baseURL), newEventsFollowCommand(baseURL))
	return eventsCmd
}

// newEventsListCommand constructs the `events list` subcommand.
func newEventsListCommand(baseURL BaseURLFunc) *cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Read a page of feed events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			after, _ := cmd.Flags().GetUint64("after")
			limit, _ := cmd.Flags().GetInt("limit")
			out, err := getJSON(fmt.Sprintf("%s/v1/events?after=%d&limit=%d", baseURL(), after, limit))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	listCmd.Flags().Uint64("after", 0, "Resume after this sequence number")
	listCmd.Flags().Int("limit", 100, "Max events to return")
	return listCmd
}

// newEventsFollowCommand constructs the `events follow` subcommand. It
// consumes the SSE stream and prints one JSON event per line.
func newEventsFollowCommand(baseURL BaseURLFunc) *cobra.Command {
	followCmd := &cobra.Command{
		Use:   "follow",
		Short: "Follow the event feed (SSE)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			after, _ := cmd.Flags().GetUint64("after")
			limit, _ := cmd.Flags().GetInt("limit")
			filter, _ := cmd.Flags().GetString("filter")

			u := fmt.Sprintf("%s/v1/events/subscribe?after=%d", baseURL(), after)
			if filter != "" {
				u += "&filter=" + url.QueryEscape(filter)
			}
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, u, nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer func() { _ = resp.Body.Close() }()
			if resp.StatusCode >= 300 {
				return fmt.Errorf("http error: %s", resp.Status)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			sc := bufio.NewScanner(resp.Body)
			n := 0
			for sc.Scan() {
				line := sc.Text()
				if !strings.HasPrefix(line, "data: ") {
					continue
				}
				var ev map[string]any
				if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev); err != nil {
					return err
				}
				if err := enc.Encode(ev); err != nil {
					return err
				}
				n++
				if limit > 0 && n >= limit {
					return nil
				}
			}
			return sc.Err()
		},
	}
	followCmd.Flags().Uint64("after", 0, "Resume after this sequence number")
	followCmd.Flags().Int("limit", 0, "Stop after N events (0 = infinite)")
	followCmd.Flags().String("filter", "", "CEL filter (server-side)")
	return followCmd
}
