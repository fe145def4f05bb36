// Package main provides the build-predictor CI step. It predicts whether the
// next build of the current branch will fail, reports the prediction and
// optionally fails the step.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"build-predictor/src/githubactions"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// errFailed signals that the failure was already logged.
var errFailed = errors.New("step failed")

// app carries what the commands read from and write to.
type app struct {
	env    githubactions.Env
	stdout io.Writer
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "build-predictor",
		Short: "Predict the outcome of the next CI build",
		Long: `build-predictor runs as a CI step. It fetches the build history of
the current branch, asks the prediction service whether the next build will
fail, reports the prediction to the tracking backend and exposes it as the
step outputs "prediction" and "probability".

With stop-on-failure enabled a predicted failure fails the step.

Running without a subcommand is the same as "build-predictor run".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runPrediction,
	}

	addConfigFlags(rootCmd.PersistentFlags())

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Predict, report and set the step outputs",
		Args:  cobra.NoArgs,
		RunE:  a.runPrediction,
	}

	modelCmd := &cobra.Command{
		Use:   "model",
		Short: "Print the prediction model currently active",
		Args:  cobra.NoArgs,
		RunE:  a.showModel,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "build-predictor %s\n", version)
		},
	}

	rootCmd.AddCommand(runCmd, modelCmd, versionCmd)
	rootCmd.SetOut(a.stdout)
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{env: githubactions.OSEnv, stdout: os.Stdout}
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
