package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

type AnnouncementTools struct {
	announcements AnnouncementReader
}

func NewAnnouncementTools(announcements AnnouncementReader) *AnnouncementTools {
	return &AnnouncementTools{announcements: announcements}
}

func (t *AnnouncementTools) ListAnnouncementsTool() mcp.Tool {
	return mcp.NewTool("list_announcements",
		mcp.WithDescription("List club announcements newest first, optionally limited to one club."),
		mcp.WithString("club_id", mcp.Description("Only list announcements of this club")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func (t *AnnouncementTools) ListAnnouncementsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t == nil || t.announcements == nil {
		return mcp.NewToolResultError("announcements service not configured"), nil
	}
	items, err := t.announcements.List(ctx, strings.TrimSpace(request.GetString("club_id", "")))
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to list announcements", err), nil
	}
	return toolResultJSON(map[string]any{"items": items})
}
