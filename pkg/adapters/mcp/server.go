// Package mcp exposes the mapping session service as an MCP server so
// agents can drive the decide loop over tool calls.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/specloom/specloom"
	"github.com/specloom/specloom/internal/logging"
	"github.com/specloom/specloom/pkg/domain"
	"github.com/specloom/specloom/pkg/engine"
	"github.com/specloom/specloom/pkg/session"
)

// InitResponse returns the session ID with its initial status.
type InitResponse struct {
	SessionID string        `json:"sessionId" jsonschema_description:"The session ID for subsequent tool calls"`
	Status    engine.Status `json:"status" jsonschema_description:"Initial traversal status"`
}

// ValidateResponse bundles findings with an overall verdict.
type ValidateResponse struct {
	OK       bool             `json:"ok" jsonschema_description:"True when no error-severity findings exist"`
	Findings []domain.Finding `json:"findings" jsonschema_description:"Rule findings in traversal order"`
}

// Server wraps the session service and exposes it as an MCP Server.
type Server struct {
	svc       *session.Service
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a structured logger (default: no-op).
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a new MCP Server instance.
func NewServer(svc *session.Service, opts ...Option) *Server {
	s := &Server{
		svc:       svc,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("specloom-mcp", strings.TrimSpace(specloom.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	initTool := mcp.NewTool("init_session",
		mcp.WithDescription("Index a raw design tree JSON into a new mapping session. Returns the session ID used by every other tool."),
		mcp.WithString("design", mcp.Required(), mcp.Description("The design tree export as a JSON string")),
		mcp.WithString("ui_system", mcp.Required(), mcp.Description("Target UI system: UIKit or SwiftUI")),
		mcp.WithString("session_id", mcp.Description("Session ID to use (optional; generated when omitted)")),
		mcp.WithOutputSchema[InitResponse](),
	)
	s.mcpServer.AddTool(initTool, mcp.NewStructuredToolHandler(s.handleInit))

	skeletonTool := mcp.NewTool("get_skeleton",
		mcp.WithDescription("Get a depth-limited outline of the indexed tree (id, name, type, child count per node)."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("node_id", mcp.Description("Subtree root (defaults to the tree root)")),
		mcp.WithNumber("depth", mcp.Description("How many levels to expand (default 2)")),
		mcp.WithOutputSchema[domain.Skeleton](),
	)
	s.mcpServer.AddTool(skeletonTool, mcp.NewStructuredToolHandler(s.handleSkeleton))

	nextTool := mcp.NewTool("next_node",
		mcp.WithDescription("Get the next pending node(s) in breadth-first order, with facts, parent decision, requirements and hints. Read-only; only apply_decisions advances the cursor."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithNumber("count", mcp.Description("How many pending nodes to return (default 1)")),
		mcp.WithOutputSchema[engine.NextBatch](),
	)
	s.mcpServer.AddTool(nextTool, mcp.NewStructuredToolHandler(s.handleNext))

	applyTool := mcp.NewTool("apply_decisions",
		mcp.WithDescription("Apply a decision patch. Accepts a single {id,...} object, a list of them, or {\"decisions\":{id:{...}}}. Invalid entries are rejected individually."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("patch", mcp.Required(), mcp.Description("The decision patch as a JSON string")),
		mcp.WithOutputSchema[engine.ApplyResult](),
	)
	s.mcpServer.AddTool(applyTool, mcp.NewStructuredToolHandler(s.handleApply))

	validateTool := mcp.NewTool("validate_decisions",
		mcp.WithDescription("Check all applied decisions against the mapping rules. Returns findings; never mutates the session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[ValidateResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	exportTool := mcp.NewTool("export_spec",
		mcp.WithDescription("Build the final platform component tree. Fails while nodes are undecided unless partial=true."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithBoolean("absorb", mcp.Description("Fold decorative label/image children into controls (default true)")),
		mcp.WithBoolean("partial", mcp.Description("Allow export with undecided nodes, using default bases (default false)")),
		mcp.WithOutputSchema[engine.ExportTree](),
	)
	s.mcpServer.AddTool(exportTool, mcp.NewStructuredToolHandler(s.handleExport))

	statusTool := mcp.NewTool("get_status",
		mcp.WithDescription("Report traversal progress: decided vs remaining counts and the next pending node."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[engine.Status](),
	)
	s.mcpServer.AddTool(statusTool, mcp.NewStructuredToolHandler(s.handleStatus))

	s.mcpServer.AddTool(mcp.NewTool("get_facts",
		mcp.WithDescription("Get the derived fact bundle of one node (frame, layout, style, text, image)."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithString("node_id", mcp.Required(), mcp.Description("Node ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID := request.GetString("session_id", "")
		nodeID := request.GetString("node_id", "")
		facts, err := s.svc.Facts(ctx, sessionID, nodeID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("get facts failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(facts)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List stored session IDs."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids, err := s.svc.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(ids)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleInit(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (InitResponse, error) {
	design, _ := args["design"].(string)
	uiRaw, _ := args["ui_system"].(string)
	sessionID, _ := args["session_id"].(string)

	ui, err := domain.ParseUISystem(uiRaw)
	if err != nil {
		return InitResponse{}, err
	}
	if sessionID == "" {
		sessionID = fmt.Sprintf("mcp-%d", time.Now().UnixNano())
	}

	status, err := s.svc.Init(ctx, sessionID, strings.NewReader(design), ui)
	if err != nil {
		return InitResponse{}, fmt.Errorf("init failed: %w", err)
	}
	return InitResponse{SessionID: sessionID, Status: status}, nil
}

func (s *Server) handleSkeleton(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.Skeleton, error) {
	sessionID, _ := args["session_id"].(string)
	nodeID, _ := args["node_id"].(string)
	depth := intArg(args, "depth", 2)

	sk, err := s.svc.Skeleton(ctx, sessionID, nodeID, depth)
	if err != nil {
		return domain.Skeleton{}, fmt.Errorf("get skeleton failed: %w", err)
	}
	return *sk, nil
}

func (s *Server) handleNext(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (engine.NextBatch, error) {
	sessionID, _ := args["session_id"].(string)
	count := intArg(args, "count", 1)

	batch, err := s.svc.Next(ctx, sessionID, count)
	if err != nil {
		return engine.NextBatch{}, fmt.Errorf("next failed: %w", err)
	}
	return *batch, nil
}

func (s *Server) handleApply(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (engine.ApplyResult, error) {
	sessionID, _ := args["session_id"].(string)
	patch, _ := args["patch"].(string)

	res, err := s.svc.Apply(ctx, sessionID, []byte(patch))
	if err != nil {
		return engine.ApplyResult{}, fmt.Errorf("apply failed: %w", err)
	}
	s.logger.Info("decisions applied via MCP",
		"session_id", sessionID, "applied", len(res.Applied), "rejected", len(res.Rejected))
	return *res, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ValidateResponse, error) {
	sessionID, _ := args["session_id"].(string)

	findings, err := s.svc.Validate(ctx, sessionID)
	if err != nil {
		return ValidateResponse{}, fmt.Errorf("validate failed: %w", err)
	}
	if findings == nil {
		findings = []domain.Finding{}
	}
	return ValidateResponse{OK: !domain.HasErrors(findings), Findings: findings}, nil
}

func (s *Server) handleExport(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (engine.ExportTree, error) {
	sessionID, _ := args["session_id"].(string)
	opts := engine.ExportOptions{Absorb: true}
	if v, ok := args["absorb"].(bool); ok {
		opts.Absorb = v
	}
	if v, ok := args["partial"].(bool); ok {
		opts.Partial = v
	}

	tree, err := s.svc.Export(ctx, sessionID, opts)
	if err != nil {
		return engine.ExportTree{}, fmt.Errorf("export failed: %w", err)
	}
	return *tree, nil
}

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (engine.Status, error) {
	sessionID, _ := args["session_id"].(string)

	status, err := s.svc.Status(ctx, sessionID)
	if err != nil {
		return engine.Status{}, fmt.Errorf("status failed: %w", err)
	}
	return status, nil
}

// intArg reads a numeric tool argument (JSON numbers arrive as float64).
func intArg(args map[string]any, key string, def int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return def
}
