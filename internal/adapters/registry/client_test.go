package registry_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ship/internal/adapters/registry"
	"go.trai.ch/ship/internal/core/domain"
	"go.trai.ch/ship/internal/core/ports"
)

var _ ports.RegistryClient = (*registry.Client)(nil)

func newClient(server *httptest.Server) *registry.Client {
	return registry.NewClient(
		registry.WithHTTPClient(server.Client()),
		registry.WithRetry(3, time.Millisecond),
	)
}

func TestClient_Version(t *testing.T) {
	var gotPath, gotAuth, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"name": "@acme/ui",
			"versions": map[string]any{
				"1.0.0": map[string]any{
					"version": "1.0.0",
					"dist": map[string]any{
						"shasum":    "abc123",
						"integrity": "sha512-xyz",
						"tarball":   "https://r/@acme/ui/-/ui-1.0.0.tgz",
					},
				},
			},
		})
	}))
	defer server.Close()

	v, err := newClient(server).Version(context.Background(), server.URL, "@acme/ui", "1.0.0", "secret")
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, "/@acme%2fui", gotPath)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Contains(t, gotAccept, "application/vnd.npm.install-v1+json")
	assert.Equal(t, &domain.PublishedVersion{
		Name:      "@acme/ui",
		Version:   "1.0.0",
		Shasum:    "abc123",
		Integrity: "sha512-xyz",
		Tarball:   "https://r/@acme/ui/-/ui-1.0.0.tgz",
	}, v)
}

func TestClient_Version_MissingVersion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"name":"pkg","versions":{"0.9.0":{"dist":{"shasum":"x"}}}}`))
	}))
	defer server.Close()

	v, err := newClient(server).Version(context.Background(), server.URL, "pkg", "1.0.0", "")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestClient_Version_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	v, err := newClient(server).Version(context.Background(), server.URL, "pkg", "1.0.0", "")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestClient_Version_AuthFailure(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				w.WriteHeader(status)
			}))
			defer server.Close()

			v, err := newClient(server).Version(context.Background(), server.URL, "pkg", "1.0.0", "bad")

			assert.Nil(t, v)
			assert.ErrorContains(t, err, domain.ErrRegistryAuth.Error())
			assert.Equal(t, int32(1), calls.Load(), "auth failures are not retried")
		})
	}
}

func TestClient_Version_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"versions":{"1.0.0":{"dist":{"shasum":"abc"}}}}`))
	}))
	defer server.Close()

	v, err := newClient(server).Version(context.Background(), server.URL, "pkg", "1.0.0", "")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "abc", v.Shasum)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_Version_ServerErrorsExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newClient(server).Version(context.Background(), server.URL, "pkg", "1.0.0", "")

	assert.ErrorContains(t, err, domain.ErrRegistryRequest.Error())
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_Version_BadRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad name"))
	}))
	defer server.Close()

	_, err := newClient(server).Version(context.Background(), server.URL, "pkg", "1.0.0", "")
	assert.ErrorContains(t, err, domain.ErrRegistryRequest.Error())
}

func TestClient_Ping(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	err := newClient(server).Ping(context.Background(), server.URL+"/npm/", "")

	require.NoError(t, err, "any HTTP response means the registry is reachable")
	assert.Equal(t, "/npm/-/ping", gotPath)
}

func TestClient_Ping_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	err := registry.NewClient(registry.WithRetry(2, time.Millisecond)).Ping(context.Background(), url, "")
	assert.ErrorContains(t, err, domain.ErrRegistryUnreachable.Error())
}

func TestEscapeName(t *testing.T) {
	assert.Equal(t, "@scope%2fpkg", registry.EscapeName("@scope/pkg"))
	assert.Equal(t, "pkg", registry.EscapeName("pkg"))
}
