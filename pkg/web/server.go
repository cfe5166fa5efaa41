package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/st3ffan/hack-the-stackathon/pkg/api/logger"
	"github.com/st3ffan/hack-the-stackathon/pkg/api/logger/color"
)

const shutdownTimeout = 5 * time.Second

// Server runs an http.Handler until its context is cancelled.
type Server struct {
	name    string
	host    string
	port    int
	handler http.Handler
	log     logger.Logger
}

func NewServer(name, host string, port int, handler http.Handler, log logger.Logger) *Server {
	return &Server{
		name:    name,
		host:    host,
		port:    port,
		handler: handler,
		log:     log,
	}
}

func (s *Server) Addr() string {
	return net.JoinHostPort(s.host, fmt.Sprint(s.port))
}

// Start listens on the configured address and blocks until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return errors.Wrapf(err, "failed to create listener")
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener and shuts down gracefully once ctx is done.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	s.log.Info(ctx, "%s server listening on %s", s.name, color.CyanFmt("http://%s", listener.Addr()))

	serveErr := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return errors.Wrapf(err, "%s server failed", s.name)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info(context.Background(), "shutting down %s server...", s.name)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
