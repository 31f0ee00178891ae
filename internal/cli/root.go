// Package cli wires the synapsechat commands together.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/synapsechat/synapsechat/internal/config"
)

var (
	// Version is set at build time.
	Version = "dev"

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "synapsechat",
	Short: "Terminal client for the SynapseChat neurosurgery assistant",
	Long: `synapsechat is a terminal client for the SynapseChat backend.

It provides an interactive chat interface, session management,
document library access and transcript export. Configure the
backend location with SYNAPSE_BACKEND_URL (default http://localhost:8001).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		if userID != "" {
			cfg.UserID = userID
		}
	},
}

var userID string

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVar(&userID, "user", "", "user id sent to the backend (default from SYNAPSE_USER_ID)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
