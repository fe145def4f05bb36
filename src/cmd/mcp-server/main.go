// Package main provides the MCP server entry point for build-predictor.
// It serves the predict_build, current_model and get_prediction tools over
// stdin/stdout so LLM clients can inspect predictions without running a CI
// step. Nothing is reported or published.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"build-predictor/src/clients"
	"build-predictor/src/config"
	"build-predictor/src/githubactions"
	"build-predictor/src/logger"
	"build-predictor/src/mcp"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	flag.Parse()

	// stdout carries the protocol; diagnostics go to stderr.
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(githubactions.OSEnv, *configPath)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	set, err := clients.New(context.Background(), cfg, logger.NewSilentLogger(), clients.Options{
		UserAgent: "build-predictor-mcp/" + version,
	})
	if err != nil {
		log.Fatalf("Failed to create clients: %v", err)
	}
	defer set.Close()

	server := mcp.NewServer(version, mcp.Deps{
		History:   set.History,
		Models:    set.App,
		Predictor: set.Predict,
	}, nil)

	if err := server.Run(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}
