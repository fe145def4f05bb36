// Package contracts defines the data exchanged with the history, prediction and
// tracking services.
package contracts

import "encoding/json"

// BuildRecord is one historical CI build as returned by the history service.
// Its shape belongs to that service; records are forwarded to the prediction
// service byte for byte.
type BuildRecord = json.RawMessage

// ModelInfo identifies the prediction model variant currently active.
type ModelInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Outcome is the normalized meaning of a prediction.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeSuccess
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// PredictionResult is the outcome of a single prediction call.
type PredictionResult struct {
	// Wire value of the prediction (bool in current revisions, a label such as
	// "error" in older ones). Kept as received so it can be reported verbatim.
	PredictedResult any `json:"predicted_result"`
	// Probability as received; usually a number, sometimes a string.
	Probability   any     `json:"probability"`
	Threshold     float64 `json:"threshold"`
	Timestamp     string  `json:"timestamp"`
	ExecutionTime float64 `json:"execution_time"`

	// Echoed by older prediction services only.
	ModelName    string `json:"model_name,omitempty"`
	ModelVersion string `json:"model_version,omitempty"`

	Outcome Outcome `json:"-"`
}

// ReportPayload is what the tracking backend receives for one run.
// Published to: TopicPredictions
// Key: {project_name}
type ReportPayload struct {
	ModelName       string  `json:"model_name"`
	ModelVersion    string  `json:"model_version"`
	PredictedResult any     `json:"predicted_result"`
	Probability     any     `json:"probability"`
	Threshold       float64 `json:"threshold"`
	Timestamp       string  `json:"timestamp"`
	ExecutionTime   float64 `json:"execution_time"`
	GitHubRunID     int64   `json:"github_run_id"`
	ProjectName     string  `json:"project_name,omitempty"`
	Branch          string  `json:"branch,omitempty"`
}

// TopicPredictions is the default topic prediction events are published to.
const TopicPredictions = "ci.predictions"
