package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"build-predictor/src/config"
)

func addConfigFlags(flags *pflag.FlagSet) {
	flags.StringP("config", "c", "", "YAML configuration file")
	flags.String("history-url", "", "Base URL of the build history API")
	flags.String("history-dsn", "", "Postgres DSN of the build history database (replaces --history-url)")
	flags.String("app-url", "", "Base URL of the tracking backend")
	flags.String("predict-url", "", "Base URL of the prediction service")
	flags.String("api-token", "", "Bearer token sent to every service")
	flags.Bool("stop-on-failure", false, "Fail when a build failure is predicted")
	flags.StringSlice("brokers", nil, "Redpanda/Kafka brokers to publish prediction events to")
	flags.String("topic", "", "Topic for prediction events")
	flags.Duration("timeout", 0, "Timeout of each upstream call")
	flags.Bool("dry-run", false, "Predict without reporting or publishing")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
}

// loadConfig layers the flags the user set over config.Load.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	cfg, err := config.Load(a.env, path)
	if err != nil {
		return nil, err
	}

	stringFlags := map[string]*string{
		"history-url": &cfg.HistoryURL,
		"history-dsn": &cfg.HistoryDSN,
		"app-url":     &cfg.AppURL,
		"predict-url": &cfg.PredictURL,
		"api-token":   &cfg.APIToken,
		"topic":       &cfg.PredictionTopic,
	}
	for name, dst := range stringFlags {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}

	boolFlags := map[string]*bool{
		"stop-on-failure": &cfg.StopOnFailure,
		"dry-run":         &cfg.DryRun,
		"verbose":         &cfg.Verbose,
	}
	for name, dst := range boolFlags {
		if flags.Changed(name) {
			*dst, _ = flags.GetBool(name)
		}
	}

	if flags.Changed("brokers") {
		cfg.Brokers, _ = flags.GetStringSlice("brokers")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}

	return cfg, nil
}
