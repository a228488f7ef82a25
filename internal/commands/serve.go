package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/coffer-dev/coffer/internal/ledger"
	"github.com/coffer-dev/coffer/internal/server"
	"github.com/coffer-dev/coffer/internal/settings"
)

func newServeCommand(env *settings.Settings) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ledger over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd)
			if err != nil {
				return err
			}
			return runServe(w, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", env.ListenAddr, "listen address")

	return cmd
}

// gitSaver persists snapshots through the workspace store and auto-commits
// each one, so API mutations hit git the same way CLI mutations do.
type gitSaver struct {
	w *workspace
}

func (g gitSaver) Save(b ledger.Bank) error {
	if err := g.w.store.Save(b); err != nil {
		return err
	}
	g.w.autoCommit("api: update ledger")
	return nil
}

func runServe(w *workspace, addr string) error {
	logger := slog.Default()
	srv := server.New(w.bank, gitSaver{w: w}, w.cfg, w.dir, logger)

	httpSrv := &http.Server{
		Addr:    addr,
		Handler: srv.NewRouter(),
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("serving ledger", "addr", addr, "dir", w.dir)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		return fmt.Errorf("serving: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
