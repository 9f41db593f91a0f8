package fixtures

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchSendsRapidAPIHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/fixtures", r.URL.Path)
		assert.Equal(t, "39", r.URL.Query().Get("league"))
		assert.Equal(t, "2025", r.URL.Query().Get("season"))
		assert.Equal(t, "secret", r.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "api-football-v1.p.rapidapi.com", r.Header.Get("X-RapidAPI-Host"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"get":"fixtures","errors":[],"results":1,"response":[{"fixture":{"id":1}}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/v3/", "api-football-v1.p.rapidapi.com", time.Second)
	env, err := c.Fetch(context.Background(), "secret", "fixtures", url.Values{"league": {"39"}, "season": {"2025"}})
	require.NoError(t, err)
	assert.Equal(t, 1, env.Results)
	require.Len(t, env.Response, 1)
	assert.JSONEq(t, `{"fixture":{"id":1}}`, string(env.Response[0]))
	assert.False(t, env.Failed())
}

func TestClient_FetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "h", time.Second).Fetch(context.Background(), "k", "fixtures", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestClient_FetchRejectedInBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":{"requests":"You have reached the request limit for the day"},"response":[]}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "h", time.Second).Fetch(context.Background(), "k", "fixtures", nil)
	assert.True(t, errors.Is(err, ErrUpstreamRejected))
}

func TestClient_FetchEmptyResponseIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[],"results":0}`))
	}))
	defer srv.Close()

	env, err := New(srv.URL, "h", time.Second).Fetch(context.Background(), "k", "fixtures", nil)
	require.NoError(t, err)
	assert.NotNil(t, env.Response)
	assert.Empty(t, env.Response)
}

func TestClient_FetchBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "h", time.Second).Fetch(context.Background(), "k", "fixtures", nil)
	assert.Error(t, err)
}

func TestClient_FetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "h", 20*time.Millisecond).Fetch(context.Background(), "k", "fixtures", nil)
	assert.Error(t, err)
}
