package tools

import (
	"context"

	"github.com/Togather-Foundation/clubhub/internal/domain/clubs"
	"github.com/mark3labs/mcp-go/mcp"
)

// ClubTools exposes the club directory.
type ClubTools struct {
	clubs ClubReader
}

func NewClubTools(clubs ClubReader) *ClubTools {
	return &ClubTools{clubs: clubs}
}

func (t *ClubTools) ListClubsTool() mcp.Tool {
	return mcp.NewTool("list_clubs",
		mcp.WithDescription("List every campus club, newest first. Each club includes its category and current member count."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func (t *ClubTools) ListClubsHandler(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t == nil || t.clubs == nil {
		return mcp.NewToolResultError("clubs service not configured"), nil
	}
	items, err := t.clubs.List(ctx)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to list clubs", err), nil
	}
	return toolResultJSON(map[string]any{"items": items})
}

func (t *ClubTools) GetClubTool() mcp.Tool {
	return mcp.NewTool("get_club",
		mcp.WithDescription("Get a single club by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("The club id")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func (t *ClubTools) GetClubHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t == nil || t.clubs == nil {
		return mcp.NewToolResultError("clubs service not configured"), nil
	}
	id, invalid := requiredID(request)
	if invalid != nil {
		return invalid, nil
	}
	club, err := t.clubs.Get(ctx, id)
	if err != nil {
		return lookupError("failed to get club", err, clubs.ErrNotFound), nil
	}
	return toolResultJSON(club)
}
