// vaultd serves the local vault API on a loopback address.
// Usage: VAULT_STORE_PATH=~/.local-vault/vault.json go run ./cmd/vaultd
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexZinkM/local-vault/internal/api"
	"github.com/AlexZinkM/local-vault/internal/config"
	"github.com/AlexZinkM/local-vault/internal/recovery"
	"github.com/AlexZinkM/local-vault/internal/securestore"
	"github.com/AlexZinkM/local-vault/internal/storage"
	"github.com/AlexZinkM/local-vault/internal/vault"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := config.NewLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	if err := requireLoopback(cfg.Addr); err != nil {
		return err
	}

	store, err := storage.New(cfg.StoreType, cfg.StorePath)
	if err != nil {
		return err
	}
	defer store.Close()

	secure := securestore.New(store, cfg.ClientEnv,
		securestore.WithIterations(cfg.PBKDF2Iterations),
		securestore.WithLogger(log),
	)
	router := api.SetupRouter(api.Services{
		Addr:     cfg.Addr,
		Vault:    vault.New(store, vault.WithIterations(cfg.PBKDF2Iterations), vault.WithLogger(log)),
		Recovery: recovery.NewStore(store, log),
		Accounts: securestore.NewAccounts(secure),
		Log:      log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("store", cfg.StoreType).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requireLoopback refuses to bind anything but a loopback address.
// The API operates on secrets and has no authentication layer.
func requireLoopback(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid VAULT_ADDR %q: %w", addr, err)
	}
	if host == "localhost" {
		return nil
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		return nil
	}
	return fmt.Errorf("VAULT_ADDR %q is not a loopback address", addr)
}
