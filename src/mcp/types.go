// Package mcp exposes build prediction to LLM clients over the Model Context
// Protocol.
package mcp

import "build-predictor/src/contracts"

// PredictionRecord is the predict_build tool response.
type PredictionRecord struct {
	RequestID   string `json:"request_id"`
	ProjectName string `json:"project_name"`
	Branch      string `json:"branch"`
	Builds      int    `json:"builds"`

	ModelName    string `json:"model_name"`
	ModelVersion string `json:"model_version"`

	Prediction  string  `json:"prediction"`
	Probability string  `json:"probability"`
	Outcome     string  `json:"outcome"`
	Threshold   float64 `json:"threshold,omitempty"`
	Timestamp   string  `json:"timestamp,omitempty"`
	PredictedAt string  `json:"predicted_at"`

	// Raw is the full prediction as received, returned by get_prediction only.
	Raw *contracts.PredictionResult `json:"raw,omitempty"`
}

// Summary drops the raw prediction.
func (r PredictionRecord) Summary() PredictionRecord {
	r.Raw = nil
	return r
}
