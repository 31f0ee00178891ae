package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/synapsechat/synapsechat/internal/config"
	"github.com/synapsechat/synapsechat/internal/controller"
	"github.com/synapsechat/synapsechat/internal/gateway"
	"github.com/synapsechat/synapsechat/internal/store"
	"github.com/synapsechat/synapsechat/internal/tui"
	"github.com/synapsechat/synapsechat/pkg/logger"
	"github.com/synapsechat/synapsechat/pkg/tracing"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	// Stderr belongs to the terminal UI, so logs go to a file or nowhere.
	log := logger.NewNop()
	if cfg.LogFile != "" {
		fileLog, err := logger.NewFile(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		log = fileLog
	}
	defer log.Sync()

	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(cmd.Context(), "synapsechat-client", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("tracing disabled", zap.Error(err))
		} else {
			defer tracing.Shutdown(context.Background(), tp)
		}
	}

	dir, err := config.Dir()
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}

	gw := gateway.New(cfg.BackendURL, cfg.HTTPTimeout, log)
	ctrl := controller.New(gw, store.New(dir), cfg.UserID, log)

	p := tea.NewProgram(tui.New(ctrl), tea.WithAltScreen())
	ctrl.SetOnChange(func() {
		p.Send(tui.StateChangedMsg{})
	})
	ctrl.SetNotifier(func(n controller.Notification) {
		p.Send(tui.NotificationMsg{Notification: n})
	})

	_, err = p.Run()
	return err
}
