package serve

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nakamasato/chatboat/config"
	"github.com/nakamasato/chatboat/internal/chat"
	"github.com/nakamasato/chatboat/internal/session"
	"github.com/nakamasato/chatboat/internal/web"
	"github.com/spf13/cobra"
)

const (
	readTimeout     = 10 * time.Second
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 20 * time.Second
	sweepInterval   = time.Minute
)

var addr string

// Command creates the serve command.
func Command() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the chat web server",
		RunE:  runServe,
	}

	serveCmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (overrides server.addr)")

	return serveCmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()
	if addr != "" {
		cfg.Server.Addr = addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := chat.NewFromConfig(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	stylesheet, err := web.LoadStylesheet(cfg.Server.Stylesheet)
	if err != nil {
		return err
	}

	store := session.NewStore(
		session.WithIdleTTL(cfg.Session.IdleTTL),
		session.WithRateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst),
	)
	go store.Sweep(ctx, sweepInterval)

	api := http.Server{
		Addr: cfg.Server.Addr,
		Handler: web.WebAPI(web.Config{
			Chat:       svc,
			Store:      store,
			Stylesheet: stylesheet,
		}),
		ReadTimeout:  readTimeout,
		WriteTimeout: cfg.Model.Timeout + readTimeout,
		IdleTimeout:  idleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("[serve] listening on %s", api.Addr)
		serverErrors <- api.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		log.Printf("[serve] shutdown started")
		defer log.Printf("[serve] shutdown complete")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := api.Shutdown(sctx); err != nil {
			api.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}
