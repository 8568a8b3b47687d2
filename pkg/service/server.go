// Package service is the HTTP surface: health and metrics endpoints plus the
// snapshot API the comparison engine loads providers from.
package service

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	log "github.com/eSKylezZ/CloudPriceFinder/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// Server wraps net/http with graceful shutdown on SIGINT/SIGTERM.
type Server struct {
	Addr   string
	Logger *zap.SugaredLogger
	Router *mux.Router
}

// Start serves until the process is signalled, then drains in-flight
// requests. It blocks.
func (s *Server) Start() {
	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	errs := make(chan error, 1)

	go func() {
		s.namedLogger().Infof("listening on %s", s.Addr)
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if err != nil && err != http.ErrServerClosed {
			s.namedLogger().With(log.KeyResult, log.ValueFail).With(log.KeyError, err.Error()).
				Fatal("server failed")
		}
	case sig := <-stop:
		s.namedLogger().Infof("received %v, shutting down", sig)

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			s.namedLogger().With(log.KeyError, err.Error()).Error("shutdown incomplete")
		}
	}
}

func (s *Server) namedLogger() *zap.SugaredLogger {
	return s.Logger.Named("server").With("component", "cpf")
}
