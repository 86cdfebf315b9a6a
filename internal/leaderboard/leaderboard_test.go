package leaderboard

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/smidgyy/Cursorrrr/internal/score"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreForTest(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertKeepsMaxScore(t *testing.T) {
	s := newStoreForTest(t)
	now := time.Unix(1770000000, 0)

	require.NoError(t, s.Upsert("clicker42", 100, now))
	require.NoError(t, s.Upsert("clicker42", 50, now.Add(time.Minute))) // stale push
	require.NoError(t, s.Upsert("clicker42", 120, now.Add(2*time.Minute)))

	top, err := s.Top(10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(120), top[0].Score)
}

func TestTopOrdersAndLimits(t *testing.T) {
	s := newStoreForTest(t)
	now := time.Now()

	require.NoError(t, s.Upsert("alpha", 300, now))
	require.NoError(t, s.Upsert("beta", 500, now))
	require.NoError(t, s.Upsert("gamma", 300, now))
	require.NoError(t, s.Upsert("delta", 100, now))

	top, err := s.Top(3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "beta", top[0].Username)
	// Equal scores order by name for stability.
	assert.Equal(t, "alpha", top[1].Username)
	assert.Equal(t, "gamma", top[2].Username)
}

func newServerForTest(t *testing.T) (*httptest.Server, *Store) {
	t.Helper()
	store := newStoreForTest(t)
	h := NewHandler(store, NewHub(nil), 50, nil)
	mux := http.NewServeMux()
	h.Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, store
}

func postScore(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/score", "application/json", bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestPostScoreAndRead(t *testing.T) {
	srv, _ := newServerForTest(t)

	resp := postScore(t, srv, `{"username":"clicker42","score":77}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	r, err := http.Get(srv.URL + "/api/leaderboard")
	require.NoError(t, err)
	defer r.Body.Close()
	require.Equal(t, http.StatusOK, r.StatusCode)

	var entries []score.Entry
	require.NoError(t, json.NewDecoder(r.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, score.Entry{Username: "clicker42", Score: 77}, entries[0])
}

func TestPostScoreRejectsBadInput(t *testing.T) {
	srv, _ := newServerForTest(t)

	cases := []string{
		`{not json`,
		`{"username":"ab","score":1}`,          // too short
		`{"username":"admin_guy","score":1}`,   // disallowed term
		`{"username":"clicker42","score":-5}`,  // negative score
		`{"username":"has space","score":1}`,   // invalid chars
	}
	for _, body := range cases {
		resp := postScore(t, srv, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body %s", body)
	}

	r, err := http.Get(srv.URL + "/api/leaderboard")
	require.NoError(t, err)
	defer r.Body.Close()
	var entries []score.Entry
	require.NoError(t, json.NewDecoder(r.Body).Decode(&entries))
	assert.Empty(t, entries)
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newServerForTest(t)

	r, err := http.Get(srv.URL + "/api/score")
	require.NoError(t, err)
	r.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, r.StatusCode)
}

func TestLiveFeedBroadcastsOnPush(t *testing.T) {
	srv, _ := newServerForTest(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/leaderboard/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the server a beat to register the watcher.
	time.Sleep(50 * time.Millisecond)

	resp := postScore(t, srv, `{"username":"clicker42","score":42}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var entries []score.Entry
	require.NoError(t, conn.ReadJSON(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, int64(42), entries[0].Score)
}
