package api

import (
	"net"
	"net/http"
	"strings"
	"time"

	_ "github.com/AlexZinkM/local-vault/docs" // registers the swagger document
	"github.com/AlexZinkM/local-vault/internal/handler"
	"github.com/AlexZinkM/local-vault/internal/recovery"
	"github.com/AlexZinkM/local-vault/internal/securestore"
	"github.com/AlexZinkM/local-vault/internal/vault"

	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Services are the core components the HTTP surface is built on.
// Addr is the listen address; requests naming any other host are refused.
type Services struct {
	Addr     string
	Vault    *vault.Vault
	Recovery *recovery.Store
	Accounts *securestore.Accounts
	Log      zerolog.Logger
}

// SetupRouter sets up router with handlers
func SetupRouter(s Services) http.Handler {
	vaultHandler := handler.NewVaultHandler(s.Vault, s.Recovery, s.Log)
	recoveryHandler := handler.NewRecoveryHandler(s.Recovery, s.Vault, s.Log)
	sessionHandler := handler.NewSessionHandler(s.Accounts, s.Log)

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Vault endpoints
	mux.HandleFunc("/vault", vaultHandler.Clear)
	mux.HandleFunc("/vault/setup", vaultHandler.Setup)
	mux.HandleFunc("/vault/status", vaultHandler.Status)
	mux.HandleFunc("/vault/verify", vaultHandler.Verify)
	mux.HandleFunc("/vault/password", vaultHandler.ChangePassword)
	mux.HandleFunc("/vault/export", vaultHandler.Export)
	mux.HandleFunc("/vault/import", vaultHandler.Import)

	// Recovery endpoints
	mux.HandleFunc("/recovery", recoveryHandler.Clear)
	mux.HandleFunc("/recovery/catalog", recoveryHandler.Catalog)
	mux.HandleFunc("/recovery/answers", recoveryHandler.Answers)
	mux.HandleFunc("/recovery/verify", recoveryHandler.Verify)
	mux.HandleFunc("/recovery/questions", recoveryHandler.Questions)
	mux.HandleFunc("/recovery/reset", recoveryHandler.Reset)

	// Session endpoints
	mux.HandleFunc("/session/account", sessionHandler.Account)

	// Cross-site browser writes are rejected before they reach a handler
	protected := http.NewCrossOriginProtection().Handler(mux)

	return logRequests(s.Log, allowHosts(s.Addr, protected))
}

// loopbackHosts lists the Host header values a local client can send to addr.
func loopbackHosts(addr string) map[string]struct{} {
	hosts := map[string]struct{}{strings.ToLower(addr): {}}
	if _, port, err := net.SplitHostPort(addr); err == nil {
		for _, h := range []string{"127.0.0.1", "localhost", "::1"} {
			hosts[net.JoinHostPort(h, port)] = struct{}{}
		}
	}
	return hosts
}

// allowHosts refuses requests whose Host is not a loopback name for addr,
// which stops DNS-rebound pages from reading responses.
func allowHosts(addr string, next http.Handler) http.Handler {
	hosts := loopbackHosts(addr)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := hosts[strings.ToLower(r.Host)]; !ok {
			http.Error(w, "invalid Host header", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests logs method, path, status and latency. Bodies are never logged.
func logRequests(log zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("latency", time.Since(start)).
			Msg("request")
	})
}
