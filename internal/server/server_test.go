package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_ShutdownOrderIsLIFO(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(http.NotFoundHandler(), Options{Port: 0, ShutdownTimeout: time.Second}, logger)

	var (
		mu    sync.Mutex
		order []string
	)
	record := func(name string, err error) ShutdownFunc {
		return func(context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return err
		}
	}
	srv.OnShutdown("postgres", record("postgres", nil))
	srv.OnShutdown("redis", record("redis", errors.New("already closed")))
	srv.OnShutdown("auth-events", record("auth-events", nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis: already closed")
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"auth-events", "redis", "postgres"}, order)
}

func TestNew_DefaultsIdleTimeout(t *testing.T) {
	srv := New(http.NotFoundHandler(), Options{Port: 8080, ReadTimeout: 5 * time.Second}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Equal(t, ":8080", srv.Addr())
	assert.Equal(t, 120*time.Second, srv.httpServer.IdleTimeout)
	assert.Equal(t, 5*time.Second, srv.httpServer.ReadHeaderTimeout)
}
