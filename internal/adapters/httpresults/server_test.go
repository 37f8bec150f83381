package httpresults

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gotResult struct {
	guildID string
	matchID int
	scoreA  int
	scoreB  int
}

func newTestServer(ch chan gotResult) *Server {
	return New("s3cr3t", func(ctx context.Context, guildID string, matchID, scoreA, scoreB int) {
		ch <- gotResult{guildID: guildID, matchID: matchID, scoreA: scoreA, scoreB: scoreB}
	})
}

func doPost(t *testing.T, s *Server, secret, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/results/webhook", strings.NewReader(body))
	if secret != "" {
		req.Header.Set("X-T0G-WH", secret)
	}
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func TestWebhookAuth(t *testing.T) {
	s := newTestServer(make(chan gotResult, 1))

	rec := doPost(t, s, "", `{"guild_id":"g1","match_id":1}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doPost(t, s, "nope", `{"guild_id":"g1","match_id":1}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/results/webhook", nil)
	req.Header.Set("X-T0G-WH", "s3cr3t")
	rec2 := httptest.NewRecorder()
	s.mux.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec2.Code)
}

func TestWebhookBadPayload(t *testing.T) {
	s := newTestServer(make(chan gotResult, 1))

	for _, body := range []string{
		"no es json",
		`{"match_id":3,"score_a":1,"score_b":0}`,  // sin guild
		`{"guild_id":"g1","score_a":1}`,           // sin match
		`{"guild_id":"g1","match_id":0}`,          // match invalido
	} {
		rec := doPost(t, s, "s3cr3t", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body=%s", body)
	}
}

func TestWebhookDispatchesResult(t *testing.T) {
	ch := make(chan gotResult, 1)
	s := newTestServer(ch)

	rec := doPost(t, s, "s3cr3t", `{"guild_id":"g1","match_id":7,"score_a":2,"score_b":1}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	select {
	case got := <-ch:
		require.Equal(t, "g1", got.guildID)
		assert.Equal(t, 7, got.matchID)
		assert.Equal(t, 2, got.scoreA)
		assert.Equal(t, 1, got.scoreB)
	case <-time.After(time.Second):
		t.Fatal("el callback de resultado no se disparó")
	}
}
