package predict

import (
	"strings"

	"github.com/spf13/cast"

	"build-predictor/src/contracts"
)

// NormalizeOutcome maps the wire value of a prediction onto an Outcome.
// Failure: true, 1, the labels "error", "failure", "failed", "true", "1".
// Success: false, 0, the labels "success", "passed", "ok", "false", "0".
// Anything else, including nil, is unknown.
func NormalizeOutcome(v any) contracts.Outcome {
	switch val := v.(type) {
	case nil:
		return contracts.OutcomeUnknown
	case bool:
		if val {
			return contracts.OutcomeFailure
		}
		return contracts.OutcomeSuccess
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "error", "failure", "failed", "fail", "true", "1":
			return contracts.OutcomeFailure
		case "success", "passed", "pass", "ok", "false", "0":
			return contracts.OutcomeSuccess
		}
		return contracts.OutcomeUnknown
	}

	n, err := cast.ToFloat64E(v)
	if err != nil {
		return contracts.OutcomeUnknown
	}
	switch n {
	case 1:
		return contracts.OutcomeFailure
	case 0:
		return contracts.OutcomeSuccess
	}
	return contracts.OutcomeUnknown
}

// FormatPrediction renders the prediction output: booleans as "true"/"false",
// labels verbatim, numbers in their shortest form, "unknown" when absent.
func FormatPrediction(v any) string {
	if v == nil {
		return "unknown"
	}
	s, err := cast.ToStringE(v)
	if err != nil || s == "" {
		return "unknown"
	}
	return s
}

// FormatProbability renders the probability output, "0" when absent or falsy.
func FormatProbability(v any) string {
	switch val := v.(type) {
	case nil:
		return "0"
	case bool:
		if !val {
			return "0"
		}
	case string:
		if val == "" {
			return "0"
		}
		return val
	}

	if n, err := cast.ToFloat64E(v); err == nil && n == 0 {
		return "0"
	}
	s, err := cast.ToStringE(v)
	if err != nil || s == "" {
		return "0"
	}
	return s
}
