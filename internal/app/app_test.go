package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hellomail/internal/config"
	"github.com/dropDatabas3/hellomail/internal/email"

	_ "github.com/dropDatabas3/hellomail/internal/store/adapters/dal"
)

type nopFactory struct{}

func (nopFactory) New(email.TransportConfig) (email.Sender, error) { return nil, nil }

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.JWT.Secret = "test"
	return cfg
}

func TestNew_Memory(t *testing.T) {
	a, err := New(context.Background(), memoryConfig(t), Options{Transport: nopFactory{}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.Equal(t, "memory", a.Conn.Name())
	require.NotNil(t, a.Cache)
	assert.Equal(t, "memory", a.Cache.Kind())
	require.NoError(t, a.Migrate(context.Background()))

	rec := httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ready"`)

	rec = httptest.NewRecorder()
	a.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNew_NoCache(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Cache.Kind = "none"

	a, err := New(context.Background(), cfg, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	assert.Nil(t, a.Cache)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.JWT.Secret = ""

	_, err := New(context.Background(), cfg, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
