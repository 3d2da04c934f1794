// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/marquee/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Deps are the collaborators the tools call into.
type Deps struct {
	Fetcher  contract.DatasetFetcher
	Searcher contract.Searcher
	Clock    contract.Clock
}

// NewMCPServer initializes and configures the Marquee MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"Marquee Actor Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		deps:    deps,
	}

	// --- 1. Tool: get_top_actors ---
	s.AddTool(mcp.NewTool("get_top_actors",
		mcp.WithDescription("Rank the actors and actresses with the most movie credits over a trailing window of years, using the public IMDb datasets."),
		mcp.WithNumber("limit", mcp.Description("Number of actors to return. Defaults to 10.")),
		mcp.WithNumber("years", mcp.Description("Size of the trailing window in years. Defaults to 10.")),
		mcp.WithString("tie_break", mcp.Description("Order of actors with equal credits. Defaults to 'input'."), mcp.Enum("input", "id")),
	), h.handleGetTopActors)

	// --- 2. Tool: get_dataset_url ---
	s.AddTool(mcp.NewTool("get_dataset_url",
		mcp.WithDescription("Resolve the download URL of a published IMDb dataset."),
		mcp.WithString("name", mcp.Description("Dataset name, e.g. 'title.basics'."), mcp.Required()),
	), h.handleGetDatasetURL)

	// --- 3. Tool: search_actor_posts ---
	s.AddTool(mcp.NewTool("search_actor_posts",
		mcp.WithDescription("Search recent social-media posts mentioning an actor by display name."),
		mcp.WithString("name", mcp.Description("Actor display name."), mcp.Required()),
	), h.handleSearchActorPosts)

	return s
}

// StartMCPServer starts the Marquee MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, deps Deps) error {
	s := NewMCPServer(baseCfg, deps)
	return server.ServeStdio(s)
}
