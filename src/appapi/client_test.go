package appapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"build-predictor/src/contracts"
	"build-predictor/src/upstream"
)

func TestClient_CurrentModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/ml_model/current", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		w.Write([]byte(`{
			"name": "m1",
			"latest_versions": [{"version": "3", "stage": "Production"}, {"version": "2"}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", upstream.NewTransport("tok"))

	model, err := client.CurrentModel(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &contracts.ModelInfo{Name: "m1", Version: "3"}, model)
}

func TestClient_CurrentModel_NoVersions(t *testing.T) {
	for _, body := range []string{`{"name":"m1","latest_versions":[]}`, `{"name":"m1"}`} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		_, err := NewClient(server.URL, upstream.NewTransport("")).CurrentModel(context.Background())
		server.Close()

		require.Error(t, err)
		assert.True(t, errors.Is(err, upstream.ErrNoModelVersion), "body %s", body)
		assert.True(t, errors.Is(err, upstream.ErrUpstreamEmpty))
	}
}

func TestClient_ReportPrediction(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/prediction", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id": "ignored"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, upstream.NewTransport(""))
	err := client.ReportPrediction(context.Background(), &contracts.ReportPayload{
		ModelName:       "m1",
		ModelVersion:    "3",
		PredictedResult: true,
		Probability:     0.91,
		Threshold:       0.5,
		Timestamp:       "2026-10-14T10:00:00Z",
		ExecutionTime:   0.12,
		GitHubRunID:     987654321,
		ProjectName:     "owner/repo",
		Branch:          "main",
	})

	require.NoError(t, err)
	assert.Equal(t, "m1", got["model_name"])
	assert.Equal(t, "3", got["model_version"])
	assert.Equal(t, true, got["predicted_result"])
	assert.Equal(t, 0.91, got["probability"])
	assert.Equal(t, 0.5, got["threshold"])
	assert.Equal(t, float64(987654321), got["github_run_id"])
	assert.Equal(t, "owner/repo", got["project_name"])
	assert.Equal(t, "main", got["branch"])
}

func TestClient_ReportPrediction_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"bad run id"}`))
	}))
	defer server.Close()

	err := NewClient(server.URL, upstream.NewTransport("")).ReportPrediction(context.Background(), &contracts.ReportPayload{})

	var httpErr *upstream.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.StatusCode)
	assert.Contains(t, httpErr.Body, "bad run id")
}
