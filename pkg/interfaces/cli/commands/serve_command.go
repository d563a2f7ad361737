package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsinha/rateio/pkg/application/services/rateio"
	"github.com/vsinha/rateio/pkg/infrastructure/config"
	"github.com/vsinha/rateio/pkg/infrastructure/logger"
	"github.com/vsinha/rateio/pkg/interfaces/http/handler"
	"github.com/vsinha/rateio/pkg/interfaces/http/router"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve rateio runs over HTTP",
		Long: `serve answers POST /data with the rateio of the configured data directory,
POST /data/upload with the rateio of uploaded documents, and /health.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync(log)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			listener, err := net.Listen("tcp", cfg.Server.Addr())
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Addr(), err)
			}
			return Serve(ctx, cfg, listener, log)
		},
	}
}

// NewServer builds the HTTP server of cfg
func NewServer(cfg *config.Config, log *zap.Logger) *http.Server {
	service := rateio.NewServiceWithConfig(rateio.ServiceConfig{Workers: cfg.Data.Workers}, log)

	engine := router.NewEngine(cfg.Server, log)
	router.NewRouter(engine).
		Register(handler.NewRateioHandler(service, cfg.Data.Path, cfg.Data.Pattern)).
		Setup()

	return &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

// Serve answers requests on listener until ctx is done, then shuts the
// server down gracefully
func Serve(ctx context.Context, cfg *config.Config, listener net.Listener, log *zap.Logger) error {
	srv := NewServer(cfg, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", listener.Addr().String()),
			zap.String("data_path", cfg.Data.Path),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	<-errCh
	return nil
}
