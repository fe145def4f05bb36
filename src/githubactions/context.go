// Package githubactions reads the GitHub Actions execution environment and
// writes step outputs, summaries and failure state back to the runner.
package githubactions

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/go-github/v82/github"

	"build-predictor/src/upstream"
)

// ErrMissingRepository is the message reported when no repository name is available.
const ErrMissingRepository = "Could not retrieve repository name from GitHub context"

// Env looks up an environment variable. os.Getenv satisfies it.
type Env func(key string) string

// OSEnv reads the process environment.
var OSEnv Env = os.Getenv

// Context is the part of the workflow run context the step depends on.
type Context struct {
	// Repository is the "owner/repo" full name.
	Repository string
	// Ref is the raw ref that triggered the run, e.g. "refs/heads/main".
	Ref string
	// Branch is Ref without its "refs/heads/" prefix.
	Branch    string
	RunID     int64
	SHA       string
	EventName string
}

// eventPayload is the subset of the webhook payload used as a fallback when
// the GITHUB_* variables are not populated.
type eventPayload struct {
	Ref  *string            `json:"ref,omitempty"`
	Repo *github.Repository `json:"repository,omitempty"`
}

// ReadContext builds the run context from the runner environment.
// A missing repository name is an *upstream.ContextError.
func ReadContext(env Env) (*Context, error) {
	ctx := &Context{
		Repository: strings.TrimSpace(env("GITHUB_REPOSITORY")),
		Ref:        strings.TrimSpace(env("GITHUB_REF")),
		SHA:        env("GITHUB_SHA"),
		EventName:  env("GITHUB_EVENT_NAME"),
	}

	if ctx.Repository == "" || ctx.Ref == "" {
		if payload, err := readEventPayload(env("GITHUB_EVENT_PATH")); err == nil && payload != nil {
			if ctx.Repository == "" {
				ctx.Repository = payload.Repo.GetFullName()
			}
			if ctx.Ref == "" && payload.Ref != nil {
				ctx.Ref = *payload.Ref
			}
		}
	}

	if ctx.Repository == "" {
		return nil, &upstream.ContextError{Message: ErrMissingRepository}
	}

	ctx.Branch = NormalizeBranch(ctx.Ref)

	if raw := strings.TrimSpace(env("GITHUB_RUN_ID")); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			ctx.RunID = id
		}
	}

	return ctx, nil
}

// NormalizeBranch strips the leading "refs/heads/" from a ref.
func NormalizeBranch(ref string) string {
	return strings.TrimPrefix(ref, "refs/heads/")
}

func readEventPayload(path string) (*eventPayload, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload: %w", err)
	}

	var payload eventPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse event payload: %w", err)
	}

	return &payload, nil
}
