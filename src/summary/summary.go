// Package summary renders the outcome of a prediction run for the console and
// for the job step summary.
package summary

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cast"

	"build-predictor/src/contracts"
	"build-predictor/src/pipeline"
)

const title = "Build prediction"

type row struct {
	label string
	value string
}

// Status describes how a run ended.
func Status(res *pipeline.Result, runErr error) string {
	switch {
	case res == nil:
		return "not started"
	case res.Gated:
		return "failed: build failure predicted"
	case res.Stage == pipeline.StageAborted:
		if runErr != nil {
			return fmt.Sprintf("aborted after %s: %v", res.FailedAt, runErr)
		}
		return fmt.Sprintf("aborted after %s", res.FailedAt)
	default:
		return res.Stage.String()
	}
}

func rows(res *pipeline.Result, runErr error) []row {
	var out []row
	if res == nil {
		return []row{{"Status", Status(res, runErr)}}
	}

	if c := res.Context; c != nil {
		out = append(out,
			row{"Repository", c.Repository},
			row{"Branch", c.Branch},
		)
		if c.RunID != 0 {
			out = append(out, row{"Run", cast.ToString(c.RunID)})
		}
	}
	if res.Builds > 0 {
		out = append(out, row{"Builds", cast.ToString(res.Builds)})
	}
	if m := res.Model; m != nil {
		out = append(out, row{"Model", fmt.Sprintf("%s v%s", m.Name, m.Version)})
	}
	if res.PredictionOutput != "" {
		out = append(out,
			row{"Prediction", res.PredictionOutput},
			row{"Probability", res.ProbabilityOutput},
		)
	}
	if p := res.Prediction; p != nil && p.Threshold != 0 {
		out = append(out, row{"Threshold", cast.ToString(p.Threshold)})
	}
	return append(out, row{"Status", Status(res, runErr)})
}

// Render draws the run as a bordered box for terminal output.
func Render(res *pipeline.Result, runErr error, styles *StyleConfig) string {
	if styles == nil {
		styles = DefaultStyles()
	}

	outcome := contracts.OutcomeUnknown
	if res != nil {
		outcome = res.Outcome()
	}

	lines := []string{styles.titleStyle().Render(title)}
	for _, r := range rows(res, runErr) {
		value := styles.valueStyle().Render(r.value)
		if r.label == "Prediction" {
			value = styles.outcomeStyle(outcome).Render(r.value)
		}
		if r.label == "Status" && res != nil && res.Stage == pipeline.StageAborted {
			value = lipgloss.NewStyle().Foreground(styles.AbortedColor).Render(r.value)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, styles.labelStyle().Render(r.label), value))
	}

	return styles.boxStyle().Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// Markdown renders the run as a GitHub-flavored markdown table.
func Markdown(res *pipeline.Result, runErr error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n", title)
	b.WriteString("| | |\n|---|---|\n")
	for _, r := range rows(res, runErr) {
		fmt.Fprintf(&b, "| %s | %s |\n", r.label, escapeCell(r.value))
	}
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
