package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/huangsam/marquee/core"
	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/internal/dataset"
	"github.com/huangsam/marquee/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	deps    Deps

	authMu sync.Mutex
	authed bool
}

// actorPostsResult is the payload of search_actor_posts.
type actorPostsResult struct {
	Name      string        `json:"name"`
	Query     string        `json:"query"`
	PostCount int           `json:"post_count"`
	Posts     []schema.Post `json:"posts"`
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetTopActors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if l := request.GetInt("limit", 0); l != 0 {
		if l < 1 || l > contract.MaxResultLimit {
			return mcp.NewToolResultError(fmt.Sprintf("limit must be between 1 and %d", contract.MaxResultLimit)), nil
		}
		cfg.ResultLimit = l
	}
	if y := request.GetInt("years", -1); y != -1 {
		if y < 0 {
			return mcp.NewToolResultError("years must not be negative"), nil
		}
		cfg.Years = y
	}
	if tb := request.GetString("tie_break", ""); tb != "" {
		if _, ok := schema.ValidTieBreaks[schema.TieBreak(tb)]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid tie_break %q", tb)), nil
		}
		cfg.TieBreak = schema.TieBreak(tb)
	}

	ranked, err := core.RankActors(ctx, cfg, h.deps.Fetcher, h.deps.Clock)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
	}
	return jsonResult(ranked)
}

func (h *toolHandler) handleGetDatasetURL(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := schema.DatasetName(request.GetString("name", ""))
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	base := h.baseCfg.DatasetBaseURL
	if base == "" {
		base = dataset.DefaultBaseURL
	}
	url, ok := dataset.ResolveURLWithBase(base, name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown dataset %q", name)), nil
	}
	return jsonResult(schema.DatasetInfo{Name: name, URL: url})
}

func (h *toolHandler) handleSearchActorPosts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	if err := h.authenticate(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("authentication failed: %v", err)), nil
	}

	posts, err := h.deps.Searcher.Search(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if posts == nil {
		posts = []schema.Post{}
	}
	return jsonResult(actorPostsResult{
		Name:      name,
		Query:     schema.SearchQuery(name),
		PostCount: len(posts),
		Posts:     posts,
	})
}

// authenticate runs once per server; a failure is retried on the next call.
func (h *toolHandler) authenticate(ctx context.Context) error {
	h.authMu.Lock()
	defer h.authMu.Unlock()
	if h.authed {
		return nil
	}
	if err := h.deps.Searcher.Authenticate(ctx); err != nil {
		return err
	}
	h.authed = true
	return nil
}
