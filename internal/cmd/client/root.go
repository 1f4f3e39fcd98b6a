package client

import (
	"github.com/spf13/cobra"
)

// BaseURLFunc provides the base HTTP API URL (e.g., from env or flag).
type BaseURLFunc func() string

// NewRoot constructs a root Cobra command for the attend client.
// It registers the session, act, events, and stats command groups.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "attend",
		Short: "Attend client commands",
	}
	root.AddCommand(NewSessionCommand(baseURL))
	root.AddCommand(NewActCommand(baseURL))
	root.AddCommand(NewEventsCommand(baseURL))
	root.AddCommand(NewStatsCommand(baseURL))
	return root
}
