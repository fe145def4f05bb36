package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"build-predictor/src/clients"
	"build-predictor/src/config"
	"build-predictor/src/githubactions"
	"build-predictor/src/logger"
	"build-predictor/src/pipeline"
	"build-predictor/src/summary"
	"build-predictor/src/upstream"
)

func userAgent() string {
	return "build-predictor/" + version
}

// runPrediction executes the full step.
func (a *app) runPrediction(cmd *cobra.Command, args []string) error {
	outputs := githubactions.NewOutputs(a.env, a.stdout)

	cfg, err := a.loadConfig(cmd)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return a.abort(logger.New(false), outputs, err)
	}
	log := logger.New(cfg.Verbose)

	set, err := clients.New(cmd.Context(), cfg, log, clients.Options{
		UserAgent: userAgent(),
		Publish:   !cfg.DryRun,
	})
	if err != nil {
		return a.abort(log, outputs, err)
	}
	defer set.Close()

	p := pipeline.New(pipeline.Deps{
		History:   set.History,
		Models:    set.App,
		Predictor: set.Predict,
		Reporter:  set.App,
		Broker:    set.Broker,
		Outputs:   outputs,
		Logger:    log,
	}, pipeline.Options{
		StopOnFailure: cfg.StopOnFailure,
		DryRun:        cfg.DryRun,
		Topic:         cfg.PredictionTopic,
	})

	res, runErr := p.Run(cmd.Context(), a.env)

	fmt.Fprintln(a.stdout, summary.Render(res, runErr, nil))
	if err := githubactions.AppendSummary(a.env, summary.Markdown(res, runErr)); err != nil {
		log.Warn("Failed to write step summary: %v", err)
	}

	if runErr != nil {
		log.Error("%s", failureMessage(runErr))
		return errFailed
	}
	return nil
}

// abort fails the step before the pipeline ran. The sentinel outputs are
// still written so downstream steps can read them.
func (a *app) abort(log logger.Logger, outputs *githubactions.Outputs, err error) error {
	for _, o := range [][2]string{
		{pipeline.OutputPrediction, pipeline.SentinelPrediction},
		{pipeline.OutputProbability, pipeline.SentinelProbability},
	} {
		if setErr := outputs.Set(o[0], o[1]); setErr != nil {
			log.Error("Failed to set output %s: %v", o[0], setErr)
		}
	}
	log.Error("%s", failureMessage(err))
	return errFailed
}

// failureMessage is the text the step fails with. A gate failure is shown as
// is; everything else is prefixed.
func failureMessage(err error) string {
	var gateErr *pipeline.GateError
	if errors.As(err, &gateErr) {
		return gateErr.Error()
	}
	return "Action failed: " + err.Error()
}

// showModel prints the active model as JSON.
func (a *app) showModel(cmd *cobra.Command, args []string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.AppURL == "" {
		return fmt.Errorf("%w: app-url required", config.ErrInvalid)
	}
	// The model lookup never reads the history database.
	cfg.HistoryDSN = ""
	log := logger.New(cfg.Verbose)

	set, err := clients.New(cmd.Context(), cfg, log, clients.Options{UserAgent: userAgent()})
	if err != nil {
		return err
	}
	defer set.Close()

	model, err := set.App.CurrentModel(cmd.Context())
	if err != nil {
		return upstream.WrapError(err)
	}

	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(model)
}
