package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AlexZinkM/local-vault/internal/model"
	"github.com/AlexZinkM/local-vault/internal/recovery"
	"github.com/AlexZinkM/local-vault/internal/securestore"
	"github.com/AlexZinkM/local-vault/internal/storage"
	"github.com/AlexZinkM/local-vault/internal/vault"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testAddr       = "127.0.0.1:8080"
	testIterations = 1000
)

func newTestRouter(t *testing.T, logOut io.Writer) (http.Handler, *vault.Vault) {
	t.Helper()
	mem := storage.NewMemoryStore()
	log := zerolog.New(logOut)
	v := vault.New(mem, vault.WithIterations(testIterations))
	return SetupRouter(Services{
		Addr:     testAddr,
		Vault:    v,
		Recovery: recovery.NewStore(mem, log),
		Accounts: securestore.NewAccounts(securestore.New(mem, "test-env", securestore.WithIterations(testIterations))),
		Log:      log,
	}), v
}

// newRequest builds a request as a local non-browser client sends it.
func newRequest(method, path string, body io.Reader) *http.Request {
	r := httptest.NewRequest(method, path, body)
	r.Host = testAddr
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	return r
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestRoutes(t *testing.T) {
	router, _ := newTestRouter(t, io.Discard)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/vault/status", http.StatusOK},
		{http.MethodGet, "/vault/export", http.StatusNotFound},
		{http.MethodDelete, "/vault", http.StatusOK},
		{http.MethodGet, "/recovery/catalog", http.StatusOK},
		{http.MethodGet, "/recovery/questions", http.StatusNotFound},
		{http.MethodDelete, "/recovery", http.StatusOK},
		{http.MethodGet, "/session/account", http.StatusNotFound},
		{http.MethodGet, "/vault/setup", http.StatusMethodNotAllowed},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := serve(router, newRequest(tt.method, tt.path, nil))
			require.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequestLogOmitsBody(t *testing.T) {
	var logs bytes.Buffer
	router, _ := newTestRouter(t, &logs)

	rec := serve(router, newRequest(http.MethodPost, "/vault/setup", strings.NewReader(`{"password":"super-secret-pw"}`)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Contains(t, logs.String(), `"path":"/vault/setup"`)
	require.Contains(t, logs.String(), `"status":200`)
	require.NotContains(t, logs.String(), "super-secret-pw")
}

// sealAndExport creates a wallet under password in a separate vault and
// returns its backup bytes.
func sealAndExport(t *testing.T, password string) []byte {
	t.Helper()
	other := vault.New(storage.NewMemoryStore(), vault.WithIterations(testIterations))
	require.NoError(t, other.Seal(&model.WalletSecret{Mnemonic: "m", Address: "a"}, []byte(password)))
	data, err := other.Export()
	require.NoError(t, err)
	return data
}

func TestCrossSiteWritesRejected(t *testing.T) {
	router, v := newTestRouter(t, io.Discard)
	require.NoError(t, v.Seal(&model.WalletSecret{Mnemonic: "victim", Address: "v"}, []byte("victim-pw")))
	foreign := sealAndExport(t, "attacker-pw")

	tests := []struct {
		name   string
		header map[string]string
		want   int
	}{
		{"foreign origin", map[string]string{"Origin": "https://evil.example"}, http.StatusForbidden},
		{"cross-site fetch", map[string]string{"Sec-Fetch-Site": "cross-site"}, http.StatusForbidden},
		{"text/plain body", map[string]string{"Content-Type": "text/plain"}, http.StatusUnsupportedMediaType},
		{"form body", map[string]string{"Content-Type": "application/x-www-form-urlencoded"}, http.StatusUnsupportedMediaType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRequest(http.MethodPost, "/vault/import", bytes.NewReader(foreign))
			for k, val := range tt.header {
				r.Header.Set(k, val)
			}
			rec := serve(router, r)
			require.Equal(t, tt.want, rec.Code)

			require.True(t, v.VerifyPassword([]byte("victim-pw")))
			require.False(t, v.VerifyPassword([]byte("attacker-pw")))
		})
	}

	t.Run("text/plain recovery answers", func(t *testing.T) {
		body := `{"answers":[{"questionId":"childhood_pet","answer":"a"},{"questionId":"birth_city","answer":"b"},{"questionId":"first_car","answer":"c"}]}`
		r := newRequest(http.MethodPost, "/recovery/answers", strings.NewReader(body))
		r.Header.Set("Content-Type", "text/plain")
		rec := serve(router, r)
		require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})
}

func TestSameOriginWriteAllowed(t *testing.T) {
	router, v := newTestRouter(t, io.Discard)

	r := newRequest(http.MethodPost, "/vault/import", bytes.NewReader(sealAndExport(t, "restored-pw")))
	r.Header.Set("Origin", "http://"+testAddr)
	r.Header.Set("Sec-Fetch-Site", "same-origin")
	rec := serve(router, r)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.True(t, v.VerifyPassword([]byte("restored-pw")))
}

func TestForeignHostRejected(t *testing.T) {
	router, v := newTestRouter(t, io.Discard)
	require.NoError(t, v.Seal(&model.WalletSecret{Mnemonic: "m", Address: "a"}, []byte("pw")))

	for _, host := range []string{"rebind.evil.example", "rebind.evil.example:8080", "127.0.0.1:9999", "192.168.1.5:8080"} {
		t.Run(host, func(t *testing.T) {
			r := newRequest(http.MethodGet, "/vault/export", nil)
			r.Host = host
			rec := serve(router, r)
			require.Equal(t, http.StatusForbidden, rec.Code)
			require.NotContains(t, rec.Body.String(), "encryptedData")
		})
	}

	for _, host := range []string{"127.0.0.1:8080", "localhost:8080", "LOCALHOST:8080", "[::1]:8080"} {
		t.Run(host, func(t *testing.T) {
			r := newRequest(http.MethodGet, "/vault/export", nil)
			r.Host = host
			rec := serve(router, r)
			require.Equal(t, http.StatusOK, rec.Code)
		})
	}
}
