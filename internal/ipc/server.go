// Package ipc serves the command bridge over loopback HTTP so a web front-end
// can invoke native commands.
package ipc

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"chronicle-builder/internal/bridge"
	"chronicle-builder/internal/config"
	"chronicle-builder/internal/logger"
)

type zerologProvider interface {
	Zerolog() zerolog.Logger
}

type Server struct {
	cfg        config.IPC
	router     chi.Router
	logger     logger.Logger
	httpServer *http.Server
	listener   net.Listener
}

func NewServer(cfg config.IPC, b *bridge.Bridge, log logger.Logger, version string) *Server {
	if log == nil {
		log = logger.NoOp{}
	}
	zl := zerolog.Nop()
	if p, ok := log.(zerologProvider); ok {
		zl = p.Zerolog()
	}

	router := chi.NewRouter()
	router.Use(
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}),
		chimiddleware.RequestID,
		chimiddleware.RequestSize(1<<20),
		hlog.NewHandler(zl),
		hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
			hlog.FromRequest(r).Debug().
				Str("component", "IPC").
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("size", size).
				Dur("duration", duration).
				Msg("request handled")
		}),
		chimiddleware.Recoverer,
	)

	humaCfg := huma.DefaultConfig("Chronicle Builder IPC", version)
	api := humachi.New(router, humaCfg)

	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation,
		func(_ *huma.OpenAPI, op *huma.Operation) {
			for _, resp := range op.Responses {
				if resp.Content == nil {
					continue
				}
				if jsonContent, ok := resp.Content["application/json"]; ok {
					resp.Content["application/cbor"] = jsonContent
				}
			}
		},
	)

	Register(api, b)

	return &Server{
		cfg:    cfg,
		router: router,
		logger: log,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadTimeout:       5 * time.Second,
			ReadHeaderTimeout: 2 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    64 << 10,
		},
	}
}

// deadlineWriter lets streaming handlers push the write deadline forward on
// each message, so the event stream outlives the server's WriteTimeout.
type deadlineWriter struct {
	http.ResponseWriter
	rc *http.ResponseController
}

func (w deadlineWriter) SetWriteDeadline(t time.Time) error {
	return w.rc.SetWriteDeadline(t)
}

func (w deadlineWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func writeDeadlines(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(deadlineWriter{ResponseWriter: w, rc: http.NewResponseController(w)}, r)
	})
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the listener synchronously and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", s.cfg.Addr)
	}
	s.listener = ln

	s.logger.Info("IPC", "listening", map[string]interface{}{
		"addr": ln.Addr().String(),
	})

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("IPC", err, map[string]interface{}{"addr": s.cfg.Addr})
		}
	}()
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.listener == nil {
		return nil
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "ipc shutdown")
	}
	s.logger.Info("IPC", "stopped", nil)
	return nil
}
