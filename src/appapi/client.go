// Package appapi talks to the tracking backend ("App API"): it serves the
// currently active model and stores prediction results.
package appapi

import (
	"context"
	"strings"

	"build-predictor/src/contracts"
	"build-predictor/src/upstream"
)

const (
	serviceName = "App"

	// CurrentModelPath is the endpoint of the active model descriptor.
	CurrentModelPath = "/api/ml_model/current"
	// PredictionPath is the endpoint prediction results are posted to.
	PredictionPath = "/api/prediction"
)

// Client is an App API client
type Client struct {
	baseURL   string
	transport *upstream.Transport
}

// NewClient creates a new App API client
func NewClient(baseURL string, transport *upstream.Transport) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		transport: transport,
	}
}

type modelVersion struct {
	Version string `json:"version"`
}

type currentModelResponse struct {
	Name           string         `json:"name"`
	LatestVersions []modelVersion `json:"latest_versions"`
}

// CurrentModel fetches the active model. Its version is the first entry of
// latest_versions; an empty list is upstream.ErrNoModelVersion.
func (c *Client) CurrentModel(ctx context.Context) (*contracts.ModelInfo, error) {
	var resp currentModelResponse
	if err := c.transport.GetJSON(ctx, serviceName, c.baseURL+CurrentModelPath, &resp); err != nil {
		return nil, err
	}

	if len(resp.LatestVersions) == 0 {
		return nil, upstream.ErrNoModelVersion
	}

	return &contracts.ModelInfo{
		Name:    resp.Name,
		Version: resp.LatestVersions[0].Version,
	}, nil
}

// ReportPrediction stores the prediction of a run. The response body is ignored.
func (c *Client) ReportPrediction(ctx context.Context, payload *contracts.ReportPayload) error {
	return c.transport.PostJSON(ctx, serviceName, c.baseURL+PredictionPath, payload, nil)
}
