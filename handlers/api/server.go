package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nijaru/yt-summary/config"
	"github.com/nijaru/yt-summary/middleware"
	"github.com/nijaru/yt-summary/services/summary"
	"github.com/nijaru/yt-summary/validation"
	"github.com/nijaru/yt-summary/workerpool"
	"github.com/sirupsen/logrus"
)

type Server struct {
	video  *VideoHandler
	config *config.Config
	logger *logrus.Logger
	server *http.Server
}

type ServerOption func(*Server)

// NewServer creates a new API server with the provided services and options
func NewServer(cfg *config.Config, opts ...ServerOption) *Server {
	s := &Server{
		config: cfg,
		logger: logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// WithServices wires the summarization service, run through pool.
func WithServices(summarySvc summary.Service, pool *workerpool.Pool) ServerOption {
	return func(s *Server) {
		s.video = NewVideoHandler(summarySvc, validation.NewValidator(), pool)
	}
}

// WithLogger sets a custom logger for the server
func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// Handler returns the routed handler wrapped in the middleware stack.
func (s *Server) Handler() http.Handler {
	return s.middleware(s.routes())
}

func (s *Server) Start() error {
	s.logger.WithFields(logrus.Fields{
		"port":    s.config.ServerPort,
		"version": s.config.Version,
	}).Info("Starting server")
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for active requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	if s.video != nil {
		r.HandleFunc("/video/summarize-video", s.video.HandleSummarizeVideo).Methods(http.MethodPost)
	}

	return r
}

// middleware wraps the whole router, so CORS preflights and unmatched routes
// are logged too.
func (s *Server) middleware(handler http.Handler) http.Handler {
	return middleware.Chain(handler,
		middleware.RequestID(),
		middleware.Recovery(s.logger),
		middleware.Logging(s.logger),
		middleware.CORS(s.config.CORS),
	)
}
