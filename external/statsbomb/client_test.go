package statsbomb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/matchdata/internal/platform/resilience"
	"github.com/riskibarqy/matchdata/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
	})
}

func TestDecodeRecords_Array(t *testing.T) {
	recs, err := DecodeRecords([]byte(`[{"match_id": 3890561}, {"match_id": 3890562}]`))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, float64(3890561), recs[0]["match_id"])
}

func TestDecodeRecords_EmptyArray(t *testing.T) {
	recs, err := DecodeRecords([]byte(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestDecodeRecords_TopLevelObjectRejected(t *testing.T) {
	_, err := DecodeRecords([]byte(`{"matches": []}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrPayloadShape))
}

func TestDecodeRecords_ScalarElementRejected(t *testing.T) {
	_, err := DecodeRecords([]byte(`[{"ok": true}, 42]`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrPayloadShape))
}

func TestDecodeRecords_MalformedJSON(t *testing.T) {
	_, err := DecodeRecords([]byte(`[{"broken"`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrPayloadShape))
}

func TestClient_Competitions(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/competitions.json", r.URL.Path)
		_, _ = w.Write([]byte(`[{"competition_id": 11, "season_id": 90}]`))
	}))

	recs, err := client.Competitions(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, float64(11), recs[0]["competition_id"])
}

func TestClient_MatchesPath(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/matches/11/90.json", r.URL.Path)
		_, _ = w.Write([]byte(`[]`))
	}))

	_, err := client.Matches(context.Background(), 11, 90)
	require.NoError(t, err)
}

func TestClient_MissingMatchListIsNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	_, err := client.Events(context.Background(), 123)
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrNotFound))
}

func TestClient_FramesMissingFeedIsEmpty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	recs, err := client.Frames(context.Background(), 3890561)
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"id": "a"}]`))
	}))
	client.maxRetries = 2

	recs, err := client.Events(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_NonRetryableStatusFailsFast(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	client.maxRetries = 3

	_, err := client.Events(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_CircuitBreakerRejectsWhenOpen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		CircuitBreaker: resilience.BreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
		},
	})

	_, err := client.Competitions(context.Background())
	require.Error(t, err)

	_, err = client.Competitions(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrDependencyUnavailable))
}
