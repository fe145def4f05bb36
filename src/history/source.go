// Package history retrieves the historical CI builds of a project branch.
package history

import (
	"context"

	"build-predictor/src/contracts"
)

// Source fetches build records for one project branch.
type Source interface {
	// Name returns the source name for logs (e.g. "http", "postgres").
	Name() string

	// FetchBuilds returns the records in the order the backend reports them.
	// An empty result is reported as upstream.ErrNoBuilds.
	FetchBuilds(ctx context.Context, projectName, branch string) ([]contracts.BuildRecord, error)
}
