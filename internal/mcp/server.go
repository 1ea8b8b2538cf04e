package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Mapty", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Mapty workout log. List, inspect, log and delete running and cycling workouts pinned to map coordinates."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListWorkouts, Handler: h.listWorkouts},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolLogWorkout, Handler: h.logWorkout},
		server.ServerTool{Tool: toolDeleteWorkout, Handler: h.deleteWorkout},
	)

	s.AddResources(
		server.ServerResource{Resource: resWorkouts, Handler: h.workouts},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

var resWorkouts = mcp.NewResource(
	"mapty://workouts",
	"Workouts",
	mcp.WithResourceDescription("Every logged workout in display order, rendered as list entries and map markers"),
	mcp.WithMIMEType("application/json"),
)
