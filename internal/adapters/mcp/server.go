// Package mcp exposes a graph store as an MCP server, so assistants can
// list, inspect and render stored configuration graphs.
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

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/printing"
	"github.com/aretw0/arbor/pkg/serialization"
)

// Server wraps a GraphStore and exposes it as an MCP Server.
type Server struct {
	store     ports.GraphStore
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(store ports.GraphStore) *Server {
	s := &Server{
		store:     store,
		mcpServer: server.NewMCPServer("arbor-mcp", strings.TrimSpace(arbor.Version)),
	}
	s.registerTools()
	s.registerResources()
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
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
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

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_graphs
	s.mcpServer.AddTool(mcp.NewTool("list_graphs",
		mcp.WithDescription("List the names of all stored configuration graphs."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		names, err := s.store.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(names)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the serialized document of a stored graph."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the stored graph")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc, result := s.load(ctx, request)
		if result != nil {
			return result, nil
		}
		jsonBytes, err := doc.MarshalJSON()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("marshal failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: print_graph
	s.mcpServer.AddTool(mcp.NewTool("print_graph",
		mcp.WithDescription("Print a stored graph as a flattened path = value listing."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the stored graph")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc, result := s.load(ctx, request)
		if result != nil {
			return result, nil
		}
		root, err := serialization.DecodeDetached(doc)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("decode failed: %v", err)), nil
		}
		return mcp.NewToolResultText(printing.Text(root)), nil
	})

	// TOOL: render_graph
	s.mcpServer.AddTool(mcp.NewTool("render_graph",
		mcp.WithDescription("Render a stored graph as a Mermaid flowchart."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the stored graph")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		doc, result := s.load(ctx, request)
		if result != nil {
			return result, nil
		}
		root, err := serialization.DecodeDetached(doc)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("decode failed: %v", err)), nil
		}
		return mcp.NewToolResultText(graph.Mermaid(root)), nil
	})
}

// load resolves the "name" argument and fetches the document. On failure it
// returns a non-nil tool result describing the error.
func (s *Server) load(ctx context.Context, request mcp.CallToolRequest) (*serialization.Document, *mcp.CallToolResult) {
	name, err := request.RequireString("name")
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	doc, err := s.store.Load(ctx, name)
	if err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("load %q failed: %v", name, err))
	}
	return doc, nil
}

func (s *Server) registerResources() {
	// EXPOSE: arbor://graphs
	s.mcpServer.AddResource(mcp.NewResource("arbor://graphs", "Stored Graph Names",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.store.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list graphs: %w", err)
		}
		jsonBytes, _ := json.Marshal(names)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "arbor://graphs",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
