package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Togather-Foundation/clubhub/internal/api/handlers"
	"github.com/Togather-Foundation/clubhub/internal/api/middleware"
	"github.com/Togather-Foundation/clubhub/internal/api/problem"
	"github.com/Togather-Foundation/clubhub/internal/audit"
	"github.com/Togather-Foundation/clubhub/internal/auth"
	"github.com/Togather-Foundation/clubhub/internal/config"
	"github.com/Togather-Foundation/clubhub/internal/domain/admins"
	"github.com/Togather-Foundation/clubhub/internal/domain/announcements"
	"github.com/Togather-Foundation/clubhub/internal/domain/clubs"
	"github.com/Togather-Foundation/clubhub/internal/domain/events"
	"github.com/Togather-Foundation/clubhub/internal/domain/followers"
	"github.com/Togather-Foundation/clubhub/internal/domain/registrations"
	"github.com/Togather-Foundation/clubhub/internal/mcp"
	"github.com/Togather-Foundation/clubhub/internal/metrics"
	"github.com/Togather-Foundation/clubhub/internal/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Dependencies are the collaborators the router is built from.
type Dependencies struct {
	Config   config.Config
	Logger   zerolog.Logger
	Store    storage.Repository
	Notifier registrations.Notifier
	Build    BuildInfo
}

// BuildInfo is stamped at link time.
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildDate string
}

// Server is the assembled HTTP surface. Close stops background work owned
// by the middleware.
type Server struct {
	Handler  http.Handler
	Sessions *auth.SessionManager
	Admins   *admins.Service

	limiter *middleware.RateLimiter
}

func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

// access says who may reach a route and which rate limit tier applies.
type access int

const (
	accessPublic access = iota
	accessAdmin
	accessLogin
)

type route struct {
	method  string
	path    string
	access  access
	handler func(*routeHandlers) http.HandlerFunc
}

type routeHandlers struct {
	clubs         *handlers.ClubsHandler
	events        *handlers.EventsHandler
	registrations *handlers.RegistrationsHandler
	followers     *handlers.FollowersHandler
	announcements *handlers.AnnouncementsHandler
	auth          *handlers.AuthHandler
	admins        *handlers.AdminsHandler
}

// apiRoutes is the JSON API. Paths use ServeMux wildcard syntax.
var apiRoutes = []route{
	{http.MethodPost, "/api/auth/login", accessLogin, func(h *routeHandlers) http.HandlerFunc { return h.auth.Login }},
	{http.MethodPost, "/api/auth/logout", accessPublic, func(h *routeHandlers) http.HandlerFunc { return h.auth.Logout }},
	{http.MethodGet, "/api/auth/me", accessAdmin, func(h *routeHandlers) http.HandlerFunc { return h.auth.Me }},
	{http.MethodPost, "/api/admins", accessAdmin, func(h *routeHandlers) http.HandlerFunc { return h.admins.Create }},

	{http.MethodGet, "/api/clubs", accessPublic, func(h *routeHandlers) http.HandlerFunc { return h.clubs.List }},
	{http.MethodPost, "/api/clubs", accessAdmin, func(h *routeHandlers) http.HandlerFunc { return h.clubs.Create }},
	{http.MethodGet, "/api/clubs/{id}", accessPublic, func(h *routeHandlers) http.HandlerFunc { return h.clubs.Get }},
	{http.MethodPatch, "/api/clubs/{id}", accessAdmin, func(h *routeHandlers) http.HandlerFunc { return h.clubs.Update }},
	{http.MethodDelete, "/api/clubs/{id}", accessAdmin, func(h *routeHandlers) http.HandlerFunc { return h.clubs.Delete }},
	{http.MethodGet, "/api/clubs/{clubId}/followers", accessPublic, func(h *routeHandlers) http.HandlerFunc { return h.followers.ListByClub }},
	{http.MethodDelete, "/api/clubs/{clubId}/followers/{email}", accessPublic, func(h *routeHandlers) http.HandlerFunc { return h.followers.Delete }},

	{http.MethodGet, "/api/events", accessPublic, func(h *routeHandlers) http.HandlerFunc { return h.events.List }},
	{http.MethodPost, "/api/events", accessAdmin, func(h *routeHandlers) http.HandlerFunc { return h.events.Create }},
	{http.MethodGet, "/api/events/{id}", accessPublic, func(h *routeHandlers) http.HandlerFunc { return h.events.Get }},
	{http.MethodPatch, "/api/events/{id}", accessAdmin, func(h *routeHandlers) http.HandlerFunc { return h.events.Update }},
	{http.MethodDelete, "/api/events/{id}", accessAdmin, func(h *routeHandlers) http.HandlerFunc { return h.events.Delete }},
	{http.MethodGet, "/api/events/{eventId}/registrations", accessPublic, func(h *routeHandlers) http.HandlerFunc { return h.registrations.ListByEvent }},

	{http.MethodPost, "/api/registrations", accessPublic, func(h *routeHandlers) http.HandlerFunc { return h.registrations.Create }},
	{http.MethodDelete, "/api/registrations/{id}", accessAdmin, func(h *routeHandlers) http.HandlerFunc { return h.registrations.Delete }},
	{http.MethodPatch, "/api/registrations/{id}/check-in", accessPublic, func(h *routeHandlers) http.HandlerFunc { return h.registrations.CheckIn }},

	{http.MethodPost, "/api/followers", accessPublic, func(h *routeHandlers) http.HandlerFunc { return h.followers.Create }},

	{http.MethodGet, "/api/announcements", accessPublic, func(h *routeHandlers) http.HandlerFunc { return h.announcements.List }},
	{http.MethodPost, "/api/announcements", accessPublic, func(h *routeHandlers) http.HandlerFunc { return h.announcements.Create }},
	{http.MethodGet, "/api/announcements/{id}", accessPublic, func(h *routeHandlers) http.HandlerFunc { return h.announcements.Get }},
}

// NewServer wires services, handlers and the middleware chain.
func NewServer(deps Dependencies) (*Server, error) {
	if deps.Store == nil {
		return nil, errors.New("router: store is required")
	}
	cfg := deps.Config
	logger := deps.Logger

	hashKey, blockKey, err := auth.DeriveSessionKeys([]byte(cfg.Session.Secret))
	if err != nil {
		return nil, fmt.Errorf("derive session keys: %w", err)
	}
	sessions := auth.NewSessionManager(deps.Store.Sessions(), auth.SessionConfig{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
		HashKey:    hashKey,
		BlockKey:   blockKey,
	})

	clubService := clubs.NewService(deps.Store.Clubs())
	eventService := events.NewService(deps.Store.Events(), clubService)
	registrationService := registrations.NewService(deps.Store.Registrations(), eventService, deps.Notifier, logger)
	followerService := followers.NewService(deps.Store.Followers(), clubService)
	announcementService := announcements.NewService(deps.Store.Announcements(), clubService)
	adminService := admins.NewService(deps.Store.Admins(), clubService, logger)

	auditLogger := audit.NewLogger(logger)
	h := &routeHandlers{
		clubs:         handlers.NewClubsHandler(clubService, auditLogger),
		events:        handlers.NewEventsHandler(eventService, auditLogger),
		registrations: handlers.NewRegistrationsHandler(registrationService, eventService, auditLogger),
		followers:     handlers.NewFollowersHandler(followerService),
		announcements: handlers.NewAnnouncementsHandler(announcementService),
		auth:          handlers.NewAuthHandler(adminService, sessions, auditLogger),
		admins:        handlers.NewAdminsHandler(adminService, auditLogger),
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit)
	requireAdmin := middleware.RequireAdmin(sessions)
	wrap := func(a access, next http.Handler) http.Handler {
		switch a {
		case accessAdmin:
			next = requireAdmin(next)
			return middleware.WithRateLimitTierHandler(middleware.TierAdmin)(limiter.Middleware(next))
		case accessLogin:
			return middleware.WithRateLimitTierHandler(middleware.TierLogin)(limiter.Middleware(next))
		default:
			return middleware.WithRateLimitTierHandler(middleware.TierPublic)(limiter.Middleware(next))
		}
	}

	mux := http.NewServeMux()
	for _, rt := range apiRoutes {
		mux.Handle(rt.method+" "+rt.path, wrap(rt.access, rt.handler(h)))
	}

	mcpServer := mcp.NewServer(mcp.Config{Version: deps.Build.Version}, mcp.Services{
		Clubs:         clubService,
		Events:        eventService,
		Announcements: announcementService,
	})
	mux.Handle("/mcp", wrap(accessPublic, mcp.NewStreamableHTTPHandler(mcpServer.MCPServer())))

	health := handlers.NewHealthChecker(deps.Store, deps.Build.Version)
	mux.Handle("GET /healthz", handlers.Healthz())
	mux.Handle("GET /readyz", health.Readyz())
	mux.Handle("GET /version", VersionHandler(deps.Build))
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	mux.Handle("GET /api/openapi.json", OpenAPIHandler())
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		problem.Write(w, r, http.StatusNotFound, "Not found", nil)
	}))

	// Outermost first. Nothing between Tracing and the mux may replace the
	// request, since both Tracing and the metrics middleware read the
	// pattern the mux stores on it.
	var handler http.Handler = mux
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestSize(middleware.DefaultMaxBodySize)(handler)
	handler = middleware.CORS(cfg.CORS, logger)(handler)
	handler = middleware.SecurityHeaders(cfg.IsProduction())(handler)
	handler = middleware.Tracing(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)

	return &Server{
		Handler:  handler,
		Sessions: sessions,
		Admins:   adminService,
		limiter:  limiter,
	}, nil
}
