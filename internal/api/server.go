// Package api exposes the HTTP control surface: pattern submission,
// status updates, the SSE event stream and operational endpoints.
package api

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/smazurov/lightnode/internal/events"
	"github.com/smazurov/lightnode/internal/logging"
	"github.com/smazurov/lightnode/internal/pattern"
	"github.com/smazurov/lightnode/internal/version"
)

// PatternRouter is the inbound half of the message router. Satisfied by
// *router.Router.
type PatternRouter interface {
	SubmitRequest(req pattern.Request) (uint64, error)
	SubmitColor(c pattern.RGB) uint64
}

// EngineControl is the subset of the engine the API needs directly.
type EngineControl interface {
	Current() (pattern.Spec, uint64, bool)
	Stop()
}

// Options configures the API server.
type Options struct {
	AuthUsername   string
	AuthPassword   string
	Router         PatternRouter
	Engine         EngineControl
	Bus            *events.Bus
	MetricsHandler http.Handler // optional, served at /metrics without auth
}

// Server is the Huma v2 API server.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	router     PatternRouter
	engine     EngineControl
	bus        *events.Bus
	options    *Options
	logger     *slog.Logger
}

// NewServer creates the API server with all routes registered.
func NewServer(opts *Options) *Server {
	mux := http.NewServeMux()

	corsConfig := DefaultCORSConfig()
	AddCORSHandler(mux, corsConfig)

	config := huma.DefaultConfig("LightNode API", version.String())
	config.Info.Description = "Pattern animation control for addressable LED hardware"
	// Relative paths in the OpenAPI document, so docs work behind any host.
	config.Servers = []*huma.Server{}
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"basicAuth": {
			Type:   "http",
			Scheme: "basic",
		},
	}

	api := humago.New(mux, config)

	s := &Server{
		api:     api,
		mux:     mux,
		router:  opts.Router,
		engine:  opts.Engine,
		bus:     opts.Bus,
		options: opts,
		logger:  logging.GetLogger("api"),
	}

	api.UseMiddleware(NewCORSMiddleware(corsConfig))
	api.UseMiddleware(HTTPLoggingMiddleware)
	if opts.AuthUsername != "" && opts.AuthPassword != "" {
		api.UseMiddleware(s.basicAuthMiddleware(opts.AuthUsername, opts.AuthPassword))
	}

	if opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", opts.MetricsHandler)
	}

	s.registerRoutes()
	return s
}

// GetMux returns the underlying mux, used by tests.
func (s *Server) GetMux() *http.ServeMux {
	return s.mux
}

// Start serves HTTP on addr until Stop or failure.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting API server", "addr", addr)
	s.logger.Info("OpenAPI documentation available", "url", "http://"+addr+"/docs")

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}
	return s.httpServer.ListenAndServe()
}

// Stop shuts the server down without waiting for open connections;
// SSE clients would otherwise hold shutdown forever.
func (s *Server) Stop() error {
	s.logger.Info("Stopping API server")
	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

func (s *Server) registerRoutes() {
	// Health check, no auth required.
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health status",
		Tags:        []string{"health"},
		Security:    []map[string][]string{},
	}, func(ctx context.Context, input *struct{}) (*HealthResponse, error) {
		return &HealthResponse{Body: HealthData{Status: "ok"}}, nil
	})

	// Version info, no auth required.
	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application version information",
		Tags:        []string{"system"},
		Security:    []map[string][]string{},
	}, func(ctx context.Context, input *struct{}) (*VersionResponse, error) {
		return &VersionResponse{Body: version.Get()}, nil
	})

	s.registerPatternRoutes()
	s.registerEventRoutes()
	s.registerSSERoutes()
	s.registerLogRoutes()
}

// basicAuthMiddleware enforces HTTP basic auth on operations that carry
// a security requirement. SSE clients may pass base64 credentials via
// the auth query parameter since EventSource cannot set headers.
func (s *Server) basicAuthMiddleware(username, password string) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		op := ctx.Operation()
		if op != nil && len(op.Security) == 0 {
			next(ctx)
			return
		}

		var credentials string
		if authHeader := ctx.Header("Authorization"); authHeader != "" {
			const prefix = "Basic "
			if !strings.HasPrefix(authHeader, prefix) {
				s.unauthorized(ctx, "Invalid authentication type")
				return
			}
			decoded, err := base64.StdEncoding.DecodeString(authHeader[len(prefix):])
			if err != nil {
				s.unauthorized(ctx, "Invalid credentials format")
				return
			}
			credentials = string(decoded)
		} else if queryAuth := ctx.Query("auth"); queryAuth != "" {
			decoded, err := base64.StdEncoding.DecodeString(queryAuth)
			if err != nil {
				s.unauthorized(ctx, "Invalid credentials format")
				return
			}
			credentials = string(decoded)
		}

		if credentials == "" {
			s.unauthorized(ctx, "Authentication required")
			return
		}

		parts := strings.SplitN(credentials, ":", 2)
		if len(parts) != 2 || parts[0] != username || parts[1] != password {
			s.unauthorized(ctx, "Invalid credentials")
			return
		}

		next(ctx)
	}
}

func (s *Server) unauthorized(ctx huma.Context, message string) {
	ctx.SetHeader("WWW-Authenticate", `Basic realm="LightNode API"`)
	huma.WriteErr(s.api, ctx, http.StatusUnauthorized, message)
}

// withAuth returns the security requirement for basic auth.
func withAuth() []map[string][]string {
	return []map[string][]string{
		{"basicAuth": {}},
	}
}
