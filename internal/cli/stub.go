package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/synapsechat/synapsechat/internal/stub"
	"github.com/synapsechat/synapsechat/pkg/logger"
	"github.com/synapsechat/synapsechat/pkg/tracing"
)

var stubCmd = &cobra.Command{
	Use:   "serve-stub",
	Short: "Run a local stand-in for the SynapseChat backend",
	Long: `serve-stub runs an in-memory implementation of the backend HTTP API
with canned answers. It is useful for developing and demoing the client
without a real backend.`,
	RunE: runStub,
}

func init() {
	rootCmd.AddCommand(stubCmd)
}

func runStub(cmd *cobra.Command, args []string) error {
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(cmd.Context(), "synapsechat-stub", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("tracing disabled", zap.Error(err))
		} else {
			defer tracing.Shutdown(context.Background(), tp)
		}
	}

	srv := stub.New(log)
	server := &http.Server{
		Addr: ":" + cfg.StubPort,
		Handler: srv.Router(stub.Options{
			RateLimit:       cfg.StubRateLimit,
			RateLimitWindow: cfg.StubRateLimitWindow,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("stub backend listening", zap.String("port", cfg.StubPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info("shutting down stub backend")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("stub backend stopped")
	return nil
}
