// Package server exposes form sessions over HTTP. Each session owns one form
// controller; requests against a session are serialised by a per-session
// mutex so every event completes its recomputation before the next starts.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/KailasMahavarkar/form-builder/pkg/render"
	"github.com/KailasMahavarkar/form-builder/pkg/renderers/html"
	"github.com/KailasMahavarkar/form-builder/pkg/renderers/tui"
	"github.com/KailasMahavarkar/form-builder/pkg/schema"
)

const defaultMaxBodyBytes = 1 << 20

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSchemaText sets the schema used by sessions created without one.
func WithSchemaText(text string) Option {
	return func(s *Server) {
		s.schemaText = text
	}
}

// WithParser sets the parser used for session schemas, e.g. one accepting
// YAML.
func WithParser(parser *schema.Parser) Option {
	return func(s *Server) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// WithRegistry replaces the renderers used for content negotiation.
func WithRegistry(registry *render.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.renderers = registry
		}
	}
}

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// Server is an http.Handler serving the session API.
type Server struct {
	logger       *slog.Logger
	parser       *schema.Parser
	renderers    *render.Registry
	maxBodyBytes int64
	mux          *http.ServeMux

	mu         sync.RWMutex
	schemaText string
	sessions   map[string]*session
}

var _ http.Handler = (*Server)(nil)

// New constructs a Server. Without WithSchemaText the built-in example schema
// is used; without WithRegistry the HTML and text renderers are registered.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		logger:       slog.Default(),
		parser:       schema.NewParser(),
		maxBodyBytes: defaultMaxBodyBytes,
		schemaText:   schema.DefaultSchemaText(),
		sessions:     make(map[string]*session),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}

	if s.renderers == nil {
		htmlRenderer, err := html.New()
		if err != nil {
			return nil, fmt.Errorf("server: html renderer: %w", err)
		}
		s.renderers = render.NewRegistry(htmlRenderer, tui.New())
	}

	if _, err := s.parser.Parse(s.schemaText); err != nil {
		return nil, fmt.Errorf("server: default schema: %w", err)
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/schema", s.handleSchemaDocument)
	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("PUT /api/sessions/{id}/schema", s.handleEditSchema)
	mux.HandleFunc("PUT /api/sessions/{id}/values/{key}", s.handleEditValue)
	mux.HandleFunc("POST /api/sessions/{id}/submit", s.handleSubmit)
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(html.AssetsFS())))
	s.mux = mux
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// SchemaText returns the schema used for new sessions.
func (s *Server) SchemaText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schemaText
}

// BroadcastSchema sends text to every open session as a schema edit. When the
// text parses it also becomes the schema for new sessions; otherwise sessions
// keep their last good schema and report the parse error.
func (s *Server) BroadcastSchema(text string) {
	_, parseErr := s.parser.Parse(text)

	s.mu.Lock()
	if parseErr == nil {
		s.schemaText = text
	}
	targets := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		targets = append(targets, sess)
	}
	s.mu.Unlock()

	for _, sess := range targets {
		sess.do(func() {
			sess.ctrl.EditSchemaText(text)
		})
	}
	s.logger.Info("http.schema.broadcast", "sessions", len(targets), "valid", parseErr == nil)
}

// SessionCount reports the number of open sessions.
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

var errSessionNotFound = errors.New("server: session not found")

func (s *Server) session(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errSessionNotFound, id)
	}
	return sess, nil
}
