// Package server is the HTTP surface of the dashboard: authentication pages,
// the actor list and the schema-driven run form. Pages are rendered
// server-side; form interaction goes through regular POSTs with a
// redirect-after-post cycle.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/performate/performate/internal/apify"
	"github.com/performate/performate/internal/auth"
	"github.com/performate/performate/internal/config"
	"github.com/performate/performate/pkg/form"
	"github.com/performate/performate/pkg/renderers/htmlform"
)

// ActorSource is the platform surface a session works against. The remote
// client and the demo catalog both satisfy it.
type ActorSource interface {
	ListActors(ctx context.Context) ([]apify.Actor, error)
	ActorDetail(ctx context.Context, username, name string) (*apify.ActorDetail, error)
	StartRun(ctx context.Context, actorID string, values form.ValueMap, buildTag string) (*apify.RunDescriptor, error)
}

// SourceFactory builds the actor source for one session credential.
type SourceFactory func(apiToken string) ActorSource

// Server wires the handlers together. It owns no connection state beyond
// the in-memory session and form registries.
type Server struct {
	cfg       config.Config
	log       zerolog.Logger
	auth      *auth.Service
	sessions  *auth.SessionStore
	source    SourceFactory
	renderer  *htmlform.Renderer
	templates *templateEngine
	forms     *formSessions
}

func New(cfg config.Config, log zerolog.Logger, authsvc *auth.Service, source SourceFactory) (*Server, error) {
	templates, err := newTemplateEngine()
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:       cfg,
		log:       log,
		auth:      authsvc,
		sessions:  auth.NewSessionStore(),
		source:    source,
		renderer:  htmlform.New(),
		templates: templates,
		forms:     newFormSessions(),
	}, nil
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleLanding)
	mux.HandleFunc("GET /auth", s.handleAuthPage)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/signup", s.handleSignup)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("GET /actor/{username}/{name}", s.handleActorPage)
	mux.HandleFunc("POST /actor/{username}/{name}", s.handleActorSubmit)
	return mux
}

// userMessage maps an error to the text shown inline on a page. Platform
// errors surface their extracted message; everything else gets a generic
// line so internals never leak into the page.
func userMessage(err error) string {
	var apiErr *apify.APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	if errors.Is(err, apify.ErrMissingToken) {
		return "no API token is linked to this account"
	}
	return "something went wrong, try again"
}

func (s *Server) renderPage(w http.ResponseWriter, name string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.render(w, name, data); err != nil {
		s.log.Error().Err(err).Str("template", name).Msg("render failed")
	}
}

func actorRef(username, name string) string {
	return fmt.Sprintf("/actor/%s/%s", username, name)
}
