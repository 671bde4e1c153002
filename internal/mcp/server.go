// Package mcp serves the club directory to MCP clients. All tools are read-only.
package mcp

import (
	"github.com/Togather-Foundation/clubhub/internal/mcp/tools"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

type Config struct {
	Name    string
	Version string
}

// Services are the read paths the tools query.
type Services struct {
	Clubs         tools.ClubReader
	Events        tools.EventReader
	Announcements tools.AnnouncementReader
}

// Server wraps the MCP server with the directory's tools registered.
type Server struct {
	mcp *mcpserver.MCPServer
}

func NewServer(cfg Config, services Services) *Server {
	if cfg.Name == "" {
		cfg.Name = "clubhub"
	}
	mcpServer := mcpserver.NewMCPServer(
		cfg.Name,
		cfg.Version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
		mcpserver.WithInstructions("Read-only access to the campus club directory: clubs, their upcoming events and announcements."),
	)

	srv := &Server{mcp: mcpServer}
	srv.registerTools(services)
	return srv
}

// MCPServer returns the underlying server for use with transports.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

func (s *Server) registerTools(services Services) {
	clubTools := tools.NewClubTools(services.Clubs)
	s.mcp.AddTool(clubTools.ListClubsTool(), clubTools.ListClubsHandler)
	s.mcp.AddTool(clubTools.GetClubTool(), clubTools.GetClubHandler)

	eventTools := tools.NewEventTools(services.Events)
	s.mcp.AddTool(eventTools.ListEventsTool(), eventTools.ListEventsHandler)
	s.mcp.AddTool(eventTools.GetEventTool(), eventTools.GetEventHandler)

	announcementTools := tools.NewAnnouncementTools(services.Announcements)
	s.mcp.AddTool(announcementTools.ListAnnouncementsTool(), announcementTools.ListAnnouncementsHandler)
}
