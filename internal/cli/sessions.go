package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/synapsechat/synapsechat/internal/gateway"
	"github.com/synapsechat/synapsechat/pkg/logger"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage chat sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chat sessions, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		gw := newGateway()
		sessions := gw.FetchSessions(cmd.Context(), cfg.UserID)
		if len(sessions) == 0 {
			fmt.Println("No sessions found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SESSION ID\tTITLE\tMESSAGES\tUPDATED")
		for _, s := range sessions {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
				s.SessionID, s.Title, s.MessageCount, s.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a chat session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gw := newGateway()
		if !gw.DeleteSession(cmd.Context(), args[0], cfg.UserID) {
			return fmt.Errorf("failed to delete session %s", args[0])
		}
		fmt.Printf("Deleted session %s\n", args[0])
		return nil
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd, sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}

// newGateway builds a backend client for one-shot commands. Diagnostics
// go to stderr since no terminal UI is running.
func newGateway() *gateway.Client {
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		log = logger.NewNop()
	}
	return gateway.New(cfg.BackendURL, cfg.HTTPTimeout, log)
}
