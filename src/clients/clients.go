// Package clients builds the upstream clients described by a configuration.
package clients

import (
	"context"
	"fmt"

	"build-predictor/src/appapi"
	"build-predictor/src/broker"
	"build-predictor/src/config"
	"build-predictor/src/history"
	"build-predictor/src/logger"
	"build-predictor/src/predict"
	"build-predictor/src/upstream"
)

// Set holds one client per external service. Broker is nil unless brokers
// are configured and publishing is enabled.
type Set struct {
	Transport *upstream.Transport
	History   history.Source
	App       *appapi.Client
	Predict   *predict.Client
	Broker    broker.Broker

	closers []func() error
}

// Options tune how a Set is built.
type Options struct {
	// UserAgent is sent on every HTTP call.
	UserAgent string
	// Publish enables the Redpanda broker when brokers are configured.
	Publish bool
}

// New builds the clients for cfg. The Postgres history source is used when a
// DSN is configured; it is pinged before New returns.
func New(ctx context.Context, cfg *config.Config, log logger.Logger, opts Options) (*Set, error) {
	transportOpts := []upstream.Option{upstream.WithTimeout(cfg.Timeout)}
	if opts.UserAgent != "" {
		transportOpts = append(transportOpts, upstream.WithUserAgent(opts.UserAgent))
	}
	transport := upstream.NewTransport(cfg.APIToken, transportOpts...)
	log.Debug("Using request ID %s", transport.RequestID())

	s := &Set{
		Transport: transport,
		App:       appapi.NewClient(cfg.AppURL, transport),
		Predict:   predict.NewClient(cfg.PredictURL, transport),
	}

	if cfg.HistoryDSN != "" {
		pg, err := history.NewPostgresSource(ctx, cfg.HistoryDSN)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pg.Close)
		s.History = pg
	} else {
		s.History = history.NewHTTPSource(cfg.HistoryURL, transport, log)
	}

	if opts.Publish && len(cfg.Brokers) > 0 {
		brk, err := broker.NewRedpandaBroker(cfg.Brokers)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to create broker: %w", err)
		}
		s.closers = append(s.closers, brk.Close)
		s.Broker = brk
		log.Debug("Publishing predictions to %s on %v", cfg.PredictionTopic, cfg.Brokers)
	}

	return s, nil
}

// Close releases the history database and the broker, newest first.
func (s *Set) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}
