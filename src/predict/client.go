// Package predict calls the build failure prediction service.
package predict

import (
	"context"
	"strings"

	"build-predictor/src/contracts"
	"build-predictor/src/upstream"
)

const serviceName = "Predict"

// PredictPath is appended to the service base URL.
const PredictPath = "/predict"

// Client is a prediction service client
type Client struct {
	baseURL   string
	transport *upstream.Transport
}

// NewClient creates a new prediction service client
func NewClient(baseURL string, transport *upstream.Transport) *Client {
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		transport: transport,
	}
}

type predictRequest struct {
	CIBuilds       []contracts.BuildRecord `json:"ci_builds"`
	PredictName    string                  `json:"predict_name,omitempty"`
	PredictVersion string                  `json:"predict_version,omitempty"`
}

// predictResponse accepts both wire revisions: build_failed (current) and
// predicted_result (older services).
type predictResponse struct {
	BuildFailed     *bool   `json:"build_failed"`
	PredictedResult any     `json:"predicted_result"`
	Probability     any     `json:"probability"`
	Threshold       float64 `json:"threshold"`
	Timestamp       string  `json:"timestamp"`
	ExecutionTime   float64 `json:"execution_time"`
	ModelName       string  `json:"model_name"`
	ModelVersion    string  `json:"model_version"`
}

// toResult maps the wire response onto the internal result. build_failed wins
// over predicted_result when both are sent.
func (r *predictResponse) toResult() *contracts.PredictionResult {
	result := &contracts.PredictionResult{
		PredictedResult: r.PredictedResult,
		Probability:     r.Probability,
		Threshold:       r.Threshold,
		Timestamp:       r.Timestamp,
		ExecutionTime:   r.ExecutionTime,
		ModelName:       r.ModelName,
		ModelVersion:    r.ModelVersion,
	}
	if r.BuildFailed != nil {
		result.PredictedResult = *r.BuildFailed
	}
	result.Outcome = NormalizeOutcome(result.PredictedResult)
	return result
}

// Predict posts the build records, and the model to use when known, to /predict.
func (c *Client) Predict(ctx context.Context, builds []contracts.BuildRecord, model *contracts.ModelInfo) (*contracts.PredictionResult, error) {
	req := predictRequest{CIBuilds: builds}
	if model != nil {
		req.PredictName = model.Name
		req.PredictVersion = model.Version
	}

	var resp predictResponse
	if err := c.transport.PostJSON(ctx, serviceName, c.baseURL+PredictPath, req, &resp); err != nil {
		return nil, err
	}

	return resp.toResult(), nil
}
