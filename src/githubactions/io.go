package githubactions

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"build-predictor/src/logger"
)

// GetInput returns the action input name as the runner exposes it
// (INPUT_<NAME>, spaces replaced by underscores), trimmed.
func GetInput(env Env, name string) string {
	key := "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
	return strings.TrimSpace(env(key))
}

// GetBoolInput parses a boolean action input using the YAML 1.2 core schema
// spellings the runner accepts. An empty input is false.
func GetBoolInput(env Env, name string) (bool, error) {
	switch GetInput(env, name) {
	case "":
		return false, nil
	case "true", "True", "TRUE":
		return true, nil
	case "false", "False", "FALSE":
		return false, nil
	}
	return false, fmt.Errorf("input %q does not meet YAML 1.2 core schema boolean: true | True | TRUE | false | False | FALSE", name)
}

// Outputs writes step outputs. With GITHUB_OUTPUT set it appends to that file
// using the delimiter protocol; otherwise it prints the legacy set-output command.
type Outputs struct {
	path   string
	stdout io.Writer
	values map[string]string
}

// NewOutputs creates an output writer for the current runner environment.
func NewOutputs(env Env, stdout io.Writer) *Outputs {
	return &Outputs{
		path:   env("GITHUB_OUTPUT"),
		stdout: stdout,
		values: make(map[string]string),
	}
}

// Set writes one output. Setting the same name again overrides it.
func (o *Outputs) Set(name, value string) error {
	if o.path == "" {
		fmt.Fprintf(o.stdout, "::set-output name=%s::%s\n", name, logger.EscapeData(value))
		o.values[name] = value
		return nil
	}

	delimiter := "ghadelimiter_" + uuid.NewString()
	if strings.Contains(name, delimiter) || strings.Contains(value, delimiter) {
		return fmt.Errorf("unexpected input: output %q contains the delimiter", name)
	}

	if err := appendFile(o.path, fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter)); err != nil {
		return fmt.Errorf("failed to write output %q: %w", name, err)
	}
	o.values[name] = value
	return nil
}

// Get returns an output set during this run.
func (o *Outputs) Get(name string) (string, bool) {
	v, ok := o.values[name]
	return v, ok
}

// AppendSummary appends Markdown to the job summary. It is a no-op when the
// runner does not provide GITHUB_STEP_SUMMARY.
func AppendSummary(env Env, markdown string) error {
	path := env("GITHUB_STEP_SUMMARY")
	if path == "" {
		return nil
	}
	if err := appendFile(path, markdown); err != nil {
		return fmt.Errorf("failed to write step summary: %w", err)
	}
	return nil
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
