package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngineSelectsKind(t *testing.T) {
	engine, err := NewEngine(EngineConfig{Kind: EngineGotenberg, GotenbergURL: "http://gotenberg:3000"})
	require.NoError(t, err)
	assert.Equal(t, EngineGotenberg, engine.Name())

	engine, err = NewEngine(EngineConfig{Kind: EngineChromium})
	require.NoError(t, err)
	assert.Equal(t, EngineChromium, engine.Name())

	_, err = NewEngine(EngineConfig{Kind: EngineGotenberg})
	assert.Error(t, err)

	_, err = NewEngine(EngineConfig{Kind: "wkhtmltopdf"})
	assert.Error(t, err)
}

func TestDetectChromePathPrefersConfigured(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "chrome")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755))
	assert.Equal(t, bin, DetectChromePath(bin))
}

func TestChromiumPingWithoutBinary(t *testing.T) {
	engine := NewChromiumEngine("", time.Second)
	assert.ErrorIs(t, engine.Ping(context.Background()), ErrEngineUnavailable)

	engine = NewChromiumEngine(filepath.Join(t.TempDir(), "missing"), time.Second)
	assert.ErrorIs(t, engine.Ping(context.Background()), ErrEngineUnavailable)
}

func TestHandlerPing(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	t.Cleanup(up.Close)

	router := chi.NewRouter()
	NewHandler(NewGotenbergClient(up.URL, time.Second), nil).MountRoutes(router)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"engine":"gotenberg"`)

	router = chi.NewRouter()
	NewHandler(NewChromiumEngine("", time.Second), nil).MountRoutes(router)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
