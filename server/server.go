// Package server serves a diff report via HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"znkr.io/splitdiff/config"
	"znkr.io/splitdiff/report"
)

// Server serves a single report via HTTP.
type Server struct {
	http    *http.Server
	handler *handler
	addr    net.Addr
	errc    chan error
}

// Run creates a new server listening on cfg.Server.Listen and runs it in a new goroutine.
func Run(cfg *config.Config, r *report.Report) (*Server, error) {
	l, err := net.Listen("tcp", cfg.Server.Listen)
	if err != nil {
		return nil, fmt.Errorf("starting HTTP server: %v", err)
	}

	h := newHandler(cfg)
	h.report.Store(r)

	s := &Server{
		http: &http.Server{
			Handler:      h,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		handler: h,
		addr:    l.Addr(),
		errc:    make(chan error, 1),
	}

	go func() {
		if err := s.http.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errc <- err
		}
	}()

	return s, nil
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// ReplaceReport replaces the report to serve with the one provided.
func (s *Server) ReplaceReport(r *report.Report) {
	s.handler.report.Store(r)
}

// Shutdown gracefully stops the sever.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down HTTP sever: %v", err)
	}
	return nil
}

// Error returns a channel to listen to errors while serving.
func (s *Server) Error() <-chan error {
	return s.errc
}
