package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smidgyy/Cursorrrr/internal/httpmw"
	"github.com/smidgyy/Cursorrrr/internal/leaderboard"
	"github.com/smidgyy/Cursorrrr/internal/score"
)

func newTestService(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := leaderboard.OpenStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := log.New(io.Discard, "", 0)
	hub := leaderboard.NewHub(logger)
	handler := leaderboard.NewHandler(store, hub, 10, logger)

	mux := http.NewServeMux()
	handler.Register(mux)

	srv := httptest.NewServer(httpmw.Chain(
		mux,
		httpmw.WithAccessLog(logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(logger),
	))
	t.Cleanup(srv.Close)
	return srv
}

func TestService_PushAndReadThroughClient(t *testing.T) {
	srv := newTestService(t)
	client := score.NewClient(srv.URL+"/api", 0)

	ctx := context.Background()
	require.NoError(t, client.Push(ctx, "smidgy", 500))
	require.NoError(t, client.Push(ctx, "rival_1", 900))
	// A lower resubmission must not shrink a stored score.
	require.NoError(t, client.Push(ctx, "smidgy", 120))

	top, err := client.Top(ctx)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, score.Entry{Username: "rival_1", Score: 900}, top[0])
	assert.Equal(t, score.Entry{Username: "smidgy", Score: 500}, top[1])
}

func TestService_RejectsBadUsername(t *testing.T) {
	srv := newTestService(t)
	client := score.NewClient(srv.URL+"/api", 0)

	err := client.Push(context.Background(), "x", 10)
	require.Error(t, err)
}

func TestService_RequestIDHeader(t *testing.T) {
	srv := newTestService(t)

	res, err := http.Get(srv.URL + "/api/leaderboard")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get("X-Request-Id"))
}
