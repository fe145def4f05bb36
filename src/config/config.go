// Package config provides configuration management for build-predictor.
//
// Configuration loading order (later overrides earlier):
//  1. Defaults
//  2. YAML file (--config, INPUT_CONFIG or PREDICTOR_CONFIG)
//  3. Environment variables: PREDICTOR_*
//  4. Action inputs: INPUT_*
//  5. Command-line flags (applied by the CLI)
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"build-predictor/src/contracts"
	"build-predictor/src/githubactions"
	"build-predictor/src/upstream"
)

// EnvPrefix is the prefix for all environment variables.
const EnvPrefix = "PREDICTOR_"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the application configuration.
type Config struct {
	// HistoryURL is the base URL of the GHTorrent-like build history API.
	HistoryURL string `yaml:"history_url"`
	// HistoryDSN selects the Postgres history source instead of HistoryURL.
	HistoryDSN string `yaml:"history_dsn"`
	// AppURL is the base URL of the tracking backend (model info and reports).
	AppURL string `yaml:"app_url"`
	// PredictURL is the base URL of the prediction service.
	PredictURL string `yaml:"predict_url"`

	// APIToken is sent as a bearer token to every service. It is never read
	// from the YAML file; APITokenEnv names the variable holding it instead.
	APIToken    string `yaml:"-"`
	APITokenEnv string `yaml:"api_token_env"`

	// StopOnFailure fails the step when a build failure is predicted.
	StopOnFailure bool `yaml:"stop_on_failure"`

	// Brokers enables publishing prediction events to Redpanda/Kafka.
	Brokers         []string `yaml:"brokers"`
	PredictionTopic string   `yaml:"prediction_topic"`

	// Timeout bounds every upstream HTTP call.
	Timeout time.Duration `yaml:"timeout"`

	// DryRun predicts but does not report or publish.
	DryRun  bool `yaml:"dry_run"`
	Verbose bool `yaml:"verbose"`
}

// Defaults returns a configuration with every optional field set.
func Defaults() *Config {
	return &Config{
		PredictionTopic: contracts.TopicPredictions,
		Timeout:         upstream.DefaultTimeout,
	}
}

// Load builds the configuration from an optional YAML file, the environment
// and the action inputs. configPath, when set, wins over the file named by
// the environment.
func Load(env githubactions.Env, configPath string) (*Config, error) {
	cfg := Defaults()

	if configPath == "" {
		configPath = githubactions.GetInput(env, "config")
	}
	if configPath == "" {
		configPath = env(EnvPrefix + "CONFIG")
	}
	if configPath != "" {
		if err := cfg.mergeFile(configPath); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(env); err != nil {
		return nil, err
	}
	if err := cfg.applyInputs(env); err != nil {
		return nil, err
	}

	if cfg.APIToken == "" && cfg.APITokenEnv != "" {
		cfg.APIToken = env(cfg.APITokenEnv)
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(env githubactions.Env) error {
	get := func(name string) string {
		return strings.TrimSpace(env(EnvPrefix + name))
	}

	setString(&c.HistoryURL, get("HISTORY_URL"))
	setString(&c.HistoryDSN, get("HISTORY_DSN"))
	setString(&c.AppURL, get("APP_URL"))
	setString(&c.PredictURL, get("PREDICT_URL"))
	setString(&c.APIToken, get("API_TOKEN"))
	setString(&c.PredictionTopic, get("PREDICTION_TOPIC"))

	// REDPANDA_BROKERS is honored for parity with the other broker clients.
	if brokers := splitList(env("REDPANDA_BROKERS")); len(brokers) > 0 {
		c.Brokers = brokers
	}
	if brokers := splitList(get("BROKERS")); len(brokers) > 0 {
		c.Brokers = brokers
	}

	if err := setBool(&c.StopOnFailure, EnvPrefix+"STOP_ON_FAILURE", get("STOP_ON_FAILURE")); err != nil {
		return err
	}
	if err := setBool(&c.DryRun, EnvPrefix+"DRY_RUN", get("DRY_RUN")); err != nil {
		return err
	}
	if err := setBool(&c.Verbose, EnvPrefix+"VERBOSE", get("VERBOSE")); err != nil {
		return err
	}
	return setDuration(&c.Timeout, EnvPrefix+"TIMEOUT", get("TIMEOUT"))
}

func (c *Config) applyInputs(env githubactions.Env) error {
	input := func(name string) string {
		return githubactions.GetInput(env, name)
	}

	setString(&c.HistoryURL, input("history-url"))
	setString(&c.HistoryDSN, input("history-dsn"))
	setString(&c.AppURL, input("app-url"))
	setString(&c.PredictURL, input("predict-url"))
	setString(&c.APIToken, input("api-token"))
	setString(&c.PredictionTopic, input("prediction-topic"))
	if brokers := splitList(input("brokers")); len(brokers) > 0 {
		c.Brokers = brokers
	}

	for name, dst := range map[string]*bool{
		"stop-on-failure": &c.StopOnFailure,
		"dry-run":         &c.DryRun,
	} {
		if githubactions.GetInput(env, name) == "" {
			continue
		}
		v, err := githubactions.GetBoolInput(env, name)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		*dst = v
	}

	return setDuration(&c.Timeout, "input timeout", input("timeout"))
}

// Validate checks that every service the run needs has an address.
func (c *Config) Validate() error {
	var missing []string
	if c.HistoryURL == "" && c.HistoryDSN == "" {
		missing = append(missing, "history-url (or history-dsn)")
	}
	if c.AppURL == "" {
		missing = append(missing, "app-url")
	}
	if c.PredictURL == "" {
		missing = append(missing, "predict-url")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrInvalid, strings.Join(missing, ", "))
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalid, c.Timeout)
	}
	if len(c.Brokers) > 0 && c.PredictionTopic == "" {
		return fmt.Errorf("%w: prediction-topic required when brokers are set", ErrInvalid)
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setBool(dst *bool, name, v string) error {
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%w: %s must be a boolean, got %q", ErrInvalid, name, v)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, name, v string) error {
	if v == "" {
		return nil
	}
	// Plain integers are seconds.
	if secs, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(secs) * time.Second
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%w: %s must be a duration, got %q", ErrInvalid, name, v)
	}
	*dst = d
	return nil
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
