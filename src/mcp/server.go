package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"build-predictor/src/history"
	"build-predictor/src/pipeline"
	"build-predictor/src/predict"
	"build-predictor/src/upstream"
)

// Deps are the clients the tools call.
type Deps struct {
	History   history.Source
	Models    pipeline.ModelSource
	Predictor pipeline.Predictor
}

// Server is the MCP server for build-predictor.
type Server struct {
	mcpServer *server.MCPServer
	deps      Deps
	store     PredictionStore
	now       func() time.Time
}

// NewServer creates a new MCP server. A nil store keeps predictions in memory.
func NewServer(version string, deps Deps, store PredictionStore) *Server {
	s := server.NewMCPServer(
		"build-predictor",
		version,
		server.WithToolCapabilities(true),
	)

	if store == nil {
		store = NewInMemoryStore(DefaultStoreCapacity)
	}

	srv := &Server{
		mcpServer: s,
		deps:      deps,
		store:     store,
		now:       time.Now,
	}
	srv.registerTools()

	return srv
}

// registerTools registers all available tools.
func (s *Server) registerTools() {
	predictTool := mcp.NewTool("predict_build",
		mcp.WithDescription("Predict whether the next CI build of a project branch will fail, using its build history and the currently active model. Nothing is reported to the tracking backend."),
		mcp.WithString("project_name",
			mcp.Required(),
			mcp.Description("Repository in owner/name form"),
		),
		mcp.WithString("branch",
			mcp.Required(),
			mcp.Description("Branch name, without refs/heads/"),
		),
	)

	modelTool := mcp.NewTool("current_model",
		mcp.WithDescription("Return the name and version of the prediction model currently active in the tracking backend."),
	)

	detailsTool := mcp.NewTool("get_prediction",
		mcp.WithDescription("Get the full prediction service response for a previous predict_build call."),
		mcp.WithString("request_id",
			mcp.Required(),
			mcp.Description("Request ID from the predict_build response"),
		),
	)

	s.mcpServer.AddTool(predictTool, s.handlePredictBuild)
	s.mcpServer.AddTool(modelTool, s.handleCurrentModel)
	s.mcpServer.AddTool(detailsTool, s.handleGetPrediction)
}

// Run starts the MCP server on stdio.
func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

// handlePredictBuild runs history, model and prediction for a branch.
func (s *Server) handlePredictBuild(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectName := request.GetString("project_name", "")
	if projectName == "" {
		return mcp.NewToolResultError("project_name parameter is required"), nil
	}
	branch := request.GetString("branch", "")
	if branch == "" {
		return mcp.NewToolResultError("branch parameter is required"), nil
	}

	record, err := s.predict(ctx, projectName, branch)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("prediction failed: %v", upstream.WrapError(err))), nil
	}
	s.store.Store(record)

	return jsonResult(record.Summary())
}

// handleCurrentModel returns the active model.
func (s *Server) handleCurrentModel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	model, err := s.deps.Models.CurrentModel(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to fetch current model: %v", upstream.WrapError(err))), nil
	}
	return jsonResult(model)
}

// handleGetPrediction returns a stored prediction including the raw response.
func (s *Server) handleGetPrediction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	requestID := request.GetString("request_id", "")
	if requestID == "" {
		return mcp.NewToolResultError("request_id parameter is required"), nil
	}

	record, found := s.store.Get(requestID)
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("prediction not found: request_id=%s", requestID)), nil
	}
	return jsonResult(record)
}

func (s *Server) predict(ctx context.Context, projectName, branch string) (PredictionRecord, error) {
	builds, err := s.deps.History.FetchBuilds(ctx, projectName, branch)
	if err != nil {
		return PredictionRecord{}, err
	}
	if len(builds) == 0 {
		return PredictionRecord{}, upstream.ErrNoBuilds
	}

	model, err := s.deps.Models.CurrentModel(ctx)
	if err != nil {
		return PredictionRecord{}, err
	}

	result, err := s.deps.Predictor.Predict(ctx, builds, model)
	if err != nil {
		return PredictionRecord{}, err
	}

	record := PredictionRecord{
		RequestID:    uuid.NewString(),
		ProjectName:  projectName,
		Branch:       branch,
		Builds:       len(builds),
		ModelName:    model.Name,
		ModelVersion: model.Version,
		Prediction:   predict.FormatPrediction(result.PredictedResult),
		Probability:  predict.FormatProbability(result.Probability),
		Outcome:      result.Outcome.String(),
		Threshold:    result.Threshold,
		Timestamp:    result.Timestamp,
		PredictedAt:  s.now().UTC().Format(time.RFC3339),
		Raw:          result,
	}
	if result.ModelName != "" {
		record.ModelName = result.ModelName
	}
	if result.ModelVersion != "" {
		record.ModelVersion = result.ModelVersion
	}
	return record, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
