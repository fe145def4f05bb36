package history

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"build-predictor/src/logger"
	"build-predictor/src/upstream"
)

func TestHTTPSource_BuildsURL_Encodes(t *testing.T) {
	src := NewHTTPSource("https://history.example/", upstream.NewTransport(""), logger.NewSilentLogger())

	got := src.BuildsURL("NT548/class service", "feature/x&y")

	assert.Equal(t, "https://history.example/ci_builds?project_name=NT548%2Fclass+service&branch=feature%2Fx%26y", got)
}

func TestHTTPSource_FetchBuilds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/ci_builds", r.URL.Path)
		assert.Equal(t, "owner/repo", r.URL.Query().Get("project_name"))
		assert.Equal(t, "main", r.URL.Query().Get("branch"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ci_builds": [{"id":1,"status":"passed"},{"id":2,"status":"failed"}]}`))
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, upstream.NewTransport("tok"), logger.NewSilentLogger())

	builds, err := src.FetchBuilds(context.Background(), "owner/repo", "main")

	require.NoError(t, err)
	require.Len(t, builds, 2)
	assert.JSONEq(t, `{"id":1,"status":"passed"}`, string(builds[0]))
	assert.JSONEq(t, `{"id":2,"status":"failed"}`, string(builds[1]))
	assert.Equal(t, "http", src.Name())
}

func TestHTTPSource_FetchBuilds_Empty(t *testing.T) {
	bodies := map[string]string{
		"empty list":   `{"ci_builds": []}`,
		"null list":    `{"ci_builds": null}`,
		"missing list": `{}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer server.Close()

			src := NewHTTPSource(server.URL, upstream.NewTransport(""), logger.NewSilentLogger())
			_, err := src.FetchBuilds(context.Background(), "owner/repo", "main")

			require.Error(t, err)
			assert.True(t, errors.Is(err, upstream.ErrNoBuilds))
			assert.True(t, errors.Is(err, upstream.ErrUpstreamEmpty))
			assert.Equal(t, "No ci_builds data retrieved from GHTorrent API", err.Error())
		})
	}
}

func TestHTTPSource_FetchBuilds_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, upstream.NewTransport(""), logger.NewSilentLogger())
	_, err := src.FetchBuilds(context.Background(), "owner/repo", "main")

	var httpErr *upstream.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, "GHTorrent", httpErr.Service)
}
