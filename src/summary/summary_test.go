package summary

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"build-predictor/src/contracts"
	"build-predictor/src/githubactions"
	"build-predictor/src/pipeline"
)

func predictedResult() *pipeline.Result {
	return &pipeline.Result{
		Stage:   pipeline.StageDone,
		Context: &githubactions.Context{Repository: "owner/repo", Branch: "main", RunID: 42},
		Builds:  2,
		Model:   &contracts.ModelInfo{Name: "m1", Version: "3"},
		Prediction: &contracts.PredictionResult{
			PredictedResult: true,
			Probability:     0.91,
			Threshold:       0.5,
			Outcome:         contracts.OutcomeFailure,
		},
		PredictionOutput:  "true",
		ProbabilityOutput: "0.91",
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(predictedResult(), nil)

	assert.True(t, strings.HasPrefix(md, "### Build prediction\n"))
	assert.Contains(t, md, "| Repository | owner/repo |")
	assert.Contains(t, md, "| Run | 42 |")
	assert.Contains(t, md, "| Model | m1 v3 |")
	assert.Contains(t, md, "| Prediction | true |")
	assert.Contains(t, md, "| Probability | 0.91 |")
	assert.Contains(t, md, "| Threshold | 0.5 |")
	assert.Contains(t, md, "| Status | done |")
}

func TestMarkdown_Aborted(t *testing.T) {
	res := &pipeline.Result{
		Stage:             pipeline.StageAborted,
		FailedAt:          pipeline.StageContextRead,
		Context:           &githubactions.Context{Repository: "owner/repo", Branch: "main"},
		PredictionOutput:  "unknown",
		ProbabilityOutput: "0",
	}

	md := Markdown(res, errors.New("history | down"))

	assert.Contains(t, md, `| Status | aborted after context_read: history \| down |`)
	assert.NotContains(t, md, "| Run |")
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "not started", Status(nil, nil))

	res := predictedResult()
	res.Gated = true
	assert.Equal(t, "failed: build failure predicted", Status(res, nil))
}

func TestRender(t *testing.T) {
	out := Render(predictedResult(), nil, nil)

	for _, want := range []string{"Build prediction", "owner/repo", "m1 v3", "0.91", "done"} {
		assert.Contains(t, out, want)
	}
	assert.Greater(t, len(strings.Split(out, "\n")), 8)
}
