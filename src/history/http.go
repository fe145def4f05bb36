package history

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"build-predictor/src/contracts"
	"build-predictor/src/logger"
	"build-predictor/src/upstream"
)

const serviceName = "GHTorrent"

// HTTPSource reads build history from the GHTorrent-like history API.
type HTTPSource struct {
	baseURL   string
	transport *upstream.Transport
	logger    logger.Logger
}

// NewHTTPSource creates a history source for the API at baseURL.
func NewHTTPSource(baseURL string, transport *upstream.Transport, log logger.Logger) *HTTPSource {
	return &HTTPSource{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		transport: transport,
		logger:    log,
	}
}

// Name returns "http"
func (s *HTTPSource) Name() string {
	return "http"
}

type buildsResponse struct {
	CIBuilds []contracts.BuildRecord `json:"ci_builds"`
}

// BuildsURL returns the query URL for a project branch. Both parameters are
// percent-encoded.
func (s *HTTPSource) BuildsURL(projectName, branch string) string {
	return fmt.Sprintf("%s/ci_builds?project_name=%s&branch=%s",
		s.baseURL, url.QueryEscape(projectName), url.QueryEscape(branch))
}

// FetchBuilds issues GET /ci_builds for the project branch.
func (s *HTTPSource) FetchBuilds(ctx context.Context, projectName, branch string) ([]contracts.BuildRecord, error) {
	u := s.BuildsURL(projectName, branch)
	s.logger.Info("Fetching ci_builds from %s", u)

	var resp buildsResponse
	if err := s.transport.GetJSON(ctx, serviceName, u, &resp); err != nil {
		return nil, err
	}

	if len(resp.CIBuilds) == 0 {
		return nil, upstream.ErrNoBuilds
	}

	s.logger.Debug("Retrieved %d ci_builds for %s@%s", len(resp.CIBuilds), projectName, branch)
	return resp.CIBuilds, nil
}
