// Package pipeline runs one prediction step: read the CI context, fetch the
// build history, look up the active model, predict, report, then set the step
// outputs and apply the failure gate.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"build-predictor/src/broker"
	"build-predictor/src/contracts"
	"build-predictor/src/githubactions"
	"build-predictor/src/history"
	"build-predictor/src/logger"
	"build-predictor/src/predict"
	"build-predictor/src/upstream"
)

// Output names and the values they get when the run aborts before a prediction.
const (
	OutputPrediction  = "prediction"
	OutputProbability = "probability"

	SentinelPrediction  = "unknown"
	SentinelProbability = "0"
)

// ErrMissingRunID is the message reported when the run cannot be correlated.
const ErrMissingRunID = "Could not retrieve run id from GitHub context"

// ModelSource returns the prediction model currently active.
type ModelSource interface {
	CurrentModel(ctx context.Context) (*contracts.ModelInfo, error)
}

// Predictor estimates the outcome of the next build.
type Predictor interface {
	Predict(ctx context.Context, builds []contracts.BuildRecord, model *contracts.ModelInfo) (*contracts.PredictionResult, error)
}

// Reporter stores a prediction in the tracking backend.
type Reporter interface {
	ReportPrediction(ctx context.Context, payload *contracts.ReportPayload) error
}

// OutputSetter publishes named step outputs.
type OutputSetter interface {
	Set(name, value string) error
}

// GateError fails the step because a build failure was predicted with
// stop-on-failure enabled.
type GateError struct {
	Prediction  string
	Probability string
}

func (e *GateError) Error() string {
	return fmt.Sprintf("Build failure predicted with probability %s", e.Probability)
}

// Deps are the collaborators of a Pipeline. Broker is optional.
type Deps struct {
	History   history.Source
	Models    ModelSource
	Predictor Predictor
	Reporter  Reporter
	Broker    broker.Broker
	Outputs   OutputSetter
	Logger    logger.Logger
}

// Options control reporting and gating.
type Options struct {
	// StopOnFailure turns a predicted failure into a failed step.
	StopOnFailure bool
	// DryRun skips the report and the broker event.
	DryRun bool
	// Topic receives the prediction event when a broker is configured.
	Topic string
}

// Pipeline wires the step's components together.
type Pipeline struct {
	deps Deps
	opts Options
}

// New creates a Pipeline.
func New(deps Deps, opts Options) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = logger.NewSilentLogger()
	}
	if opts.Topic == "" {
		opts.Topic = contracts.TopicPredictions
	}
	return &Pipeline{deps: deps, opts: opts}
}

// Result describes how far a run got and what it produced.
type Result struct {
	// Stage is the last stage reached; StageAborted when the run failed
	// before the gate. FailedAt then holds the stage that was active.
	Stage    Stage
	FailedAt Stage

	Context    *githubactions.Context
	Builds     int
	Model      *contracts.ModelInfo
	Prediction *contracts.PredictionResult
	Report     *contracts.ReportPayload

	// Values written to the step outputs.
	PredictionOutput  string
	ProbabilityOutput string

	// Gated is true when the gate failed the step.
	Gated bool
}

// Outcome returns the normalized prediction, OutcomeUnknown before one exists.
func (r *Result) Outcome() contracts.Outcome {
	if r.Prediction == nil {
		return contracts.OutcomeUnknown
	}
	return r.Prediction.Outcome
}

// Run executes the step once. Every error aborts the remaining stages. When
// no prediction was made the sentinel outputs are written before returning.
// A *GateError is returned when the gate fails the step.
func (p *Pipeline) Run(ctx context.Context, env githubactions.Env) (*Result, error) {
	res := &Result{Stage: StageStart}

	err := p.run(ctx, env, res)
	if err == nil {
		return res, nil
	}

	var gateErr *GateError
	if errors.As(err, &gateErr) {
		return res, err
	}

	res.FailedAt = res.Stage
	res.Stage = StageAborted
	if res.PredictionOutput == "" {
		p.setOutputs(res, SentinelPrediction, SentinelProbability)
	}
	return res, err
}

func (p *Pipeline) run(ctx context.Context, env githubactions.Env, res *Result) error {
	log := p.deps.Logger

	runCtx, err := githubactions.ReadContext(env)
	if err != nil {
		return err
	}
	res.Context = runCtx
	res.Stage = StageContextRead
	log.Info("Predicting next build of %s on branch %s", runCtx.Repository, runCtx.Branch)

	builds, err := p.deps.History.FetchBuilds(ctx, runCtx.Repository, runCtx.Branch)
	if err != nil {
		return upstream.WrapError(err)
	}
	if len(builds) == 0 {
		return upstream.ErrNoBuilds
	}
	res.Builds = len(builds)
	res.Stage = StageHistoryFetched
	log.Debug("Fetched %d ci_builds from %s source", len(builds), p.deps.History.Name())

	model, err := p.deps.Models.CurrentModel(ctx)
	if err != nil {
		return upstream.WrapError(err)
	}
	res.Model = model
	res.Stage = StageModelFetched
	log.Debug("Using model %s version %s", model.Name, model.Version)

	prediction, err := p.deps.Predictor.Predict(ctx, builds, model)
	if err != nil {
		return upstream.WrapError(err)
	}
	res.Prediction = prediction
	res.Stage = StagePredicted

	if err := p.setOutputs(res,
		predict.FormatPrediction(prediction.PredictedResult),
		predict.FormatProbability(prediction.Probability),
	); err != nil {
		return err
	}

	if err := p.report(ctx, runCtx, model, prediction, res); err != nil {
		return err
	}
	res.Stage = StageReported

	if p.opts.StopOnFailure && prediction.Outcome == contracts.OutcomeFailure {
		res.Stage = StageDone
		res.Gated = true
		return &GateError{
			Prediction:  res.PredictionOutput,
			Probability: res.ProbabilityOutput,
		}
	}

	log.Info("Build predicted as %s with probability %s", res.PredictionOutput, res.ProbabilityOutput)
	res.Stage = StageDone
	return nil
}

func (p *Pipeline) report(ctx context.Context, runCtx *githubactions.Context, model *contracts.ModelInfo, prediction *contracts.PredictionResult, res *Result) error {
	payload := NewReportPayload(runCtx, model, prediction)
	res.Report = payload

	if p.opts.DryRun {
		body, _ := json.Marshal(payload)
		p.deps.Logger.Info("Dry run, prediction not reported: %s", body)
		return nil
	}

	if runCtx.RunID == 0 {
		return &upstream.ContextError{Message: ErrMissingRunID}
	}

	if err := p.deps.Reporter.ReportPrediction(ctx, payload); err != nil {
		return upstream.WrapError(err)
	}
	p.deps.Logger.Debug("Reported prediction for run %d", runCtx.RunID)

	if p.deps.Broker == nil {
		return nil
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode prediction event: %w", err)
	}
	if err := p.deps.Broker.Publish(ctx, p.opts.Topic, payload.ProjectName, value); err != nil {
		return fmt.Errorf("failed to publish prediction event: %w", err)
	}
	p.deps.Logger.Debug("Published prediction event to %s", p.opts.Topic)
	return nil
}

func (p *Pipeline) setOutputs(res *Result, prediction, probability string) error {
	res.PredictionOutput = prediction
	res.ProbabilityOutput = probability

	if err := p.deps.Outputs.Set(OutputPrediction, prediction); err != nil {
		p.deps.Logger.Error("Failed to set output %s: %v", OutputPrediction, err)
		return err
	}
	if err := p.deps.Outputs.Set(OutputProbability, probability); err != nil {
		p.deps.Logger.Error("Failed to set output %s: %v", OutputProbability, err)
		return err
	}
	return nil
}

// NewReportPayload combines a prediction with its run metadata. Model name and
// version echoed by the prediction service take precedence over model.
func NewReportPayload(runCtx *githubactions.Context, model *contracts.ModelInfo, prediction *contracts.PredictionResult) *contracts.ReportPayload {
	payload := &contracts.ReportPayload{
		ModelName:       prediction.ModelName,
		ModelVersion:    prediction.ModelVersion,
		PredictedResult: prediction.PredictedResult,
		Probability:     prediction.Probability,
		Threshold:       prediction.Threshold,
		Timestamp:       prediction.Timestamp,
		ExecutionTime:   prediction.ExecutionTime,
		GitHubRunID:     runCtx.RunID,
		ProjectName:     runCtx.Repository,
		Branch:          runCtx.Branch,
	}
	if model != nil {
		if payload.ModelName == "" {
			payload.ModelName = model.Name
		}
		if payload.ModelVersion == "" {
			payload.ModelVersion = model.Version
		}
	}
	return payload
}
