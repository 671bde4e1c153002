// Package tools implements the read-only MCP tools over the club directory.
package tools

import (
	"context"
	"errors"
	"strings"

	"github.com/Togather-Foundation/clubhub/internal/domain/announcements"
	"github.com/Togather-Foundation/clubhub/internal/domain/clubs"
	"github.com/Togather-Foundation/clubhub/internal/domain/events"
	"github.com/Togather-Foundation/clubhub/internal/domain/ids"
	"github.com/mark3labs/mcp-go/mcp"
)

type ClubReader interface {
	List(ctx context.Context) ([]clubs.Club, error)
	Get(ctx context.Context, id string) (*clubs.Club, error)
}

type EventReader interface {
	List(ctx context.Context, clubID string) ([]events.Event, error)
	Get(ctx context.Context, id string) (*events.Event, error)
}

type AnnouncementReader interface {
	List(ctx context.Context, clubID string) ([]announcements.Announcement, error)
}

// toolResultJSON wraps payload as a JSON tool result.
func toolResultJSON(payload any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(payload)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to build response", err), nil
	}
	return result, nil
}

// lookupError turns a domain lookup failure into a tool error. Not-found
// errors are reported with their message; anything else stays generic.
func lookupError(action string, err error, notFound ...error) *mcp.CallToolResult {
	for _, target := range notFound {
		if errors.Is(err, target) {
			return mcp.NewToolResultError(err.Error())
		}
	}
	return mcp.NewToolResultErrorFromErr(action, err)
}

func requiredID(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	id := strings.TrimSpace(request.GetString("id", ""))
	if id == "" {
		return "", mcp.NewToolResultError("id is required")
	}
	if err := ids.ValidateULID(id); err != nil {
		return "", mcp.NewToolResultErrorFromErr("invalid ULID format", err)
	}
	return id, nil
}
