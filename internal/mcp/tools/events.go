package tools

import (
	"context"
	"strings"

	"github.com/Togather-Foundation/clubhub/internal/domain/events"
	"github.com/mark3labs/mcp-go/mcp"
)

// EventTools exposes club events and their remaining capacity.
type EventTools struct {
	events EventReader
}

func NewEventTools(events EventReader) *EventTools {
	return &EventTools{events: events}
}

// eventView adds derived availability to an event.
type eventView struct {
	events.Event
	SeatsLeft *int `json:"seatsLeft"`
	Full      bool `json:"full"`
}

func viewOf(e events.Event) eventView {
	view := eventView{Event: e, Full: e.Full()}
	if e.MaxAttendees != nil {
		left := max(*e.MaxAttendees-e.RSVPCount, 0)
		view.SeatsLeft = &left
	}
	return view
}

func (t *EventTools) ListEventsTool() mcp.Tool {
	return mcp.NewTool("list_events",
		mcp.WithDescription("List events soonest first, optionally limited to one club. Each event reports seatsLeft (null when unlimited)."),
		mcp.WithString("club_id", mcp.Description("Only list events of this club")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func (t *EventTools) ListEventsHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t == nil || t.events == nil {
		return mcp.NewToolResultError("events service not configured"), nil
	}
	list, err := t.events.List(ctx, strings.TrimSpace(request.GetString("club_id", "")))
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to list events", err), nil
	}
	items := make([]eventView, 0, len(list))
	for _, e := range list {
		items = append(items, viewOf(e))
	}
	return toolResultJSON(map[string]any{"items": items})
}

func (t *EventTools) GetEventTool() mcp.Tool {
	return mcp.NewTool("get_event",
		mcp.WithDescription("Get a single event by id, including seatsLeft."),
		mcp.WithString("id", mcp.Required(), mcp.Description("The event id")),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func (t *EventTools) GetEventHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t == nil || t.events == nil {
		return mcp.NewToolResultError("events service not configured"), nil
	}
	id, invalid := requiredID(request)
	if invalid != nil {
		return invalid, nil
	}
	event, err := t.events.Get(ctx, id)
	if err != nil {
		return lookupError("failed to get event", err, events.ErrNotFound), nil
	}
	return toolResultJSON(viewOf(*event))
}
