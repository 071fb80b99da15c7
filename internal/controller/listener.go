package controller

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// ShutdownTimeout bounds how long in-flight transfers may finish after a
// shutdown request before their connections are closed.
const ShutdownTimeout = 5 * time.Second

// Listen binds the TCP listener. Errors wrap ErrBindFailure.
func Listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w on %s: %w", ErrBindFailure, addr, err)
	}
	return ln, nil
}

// Serve accepts connections on ln until ctx is done or the listener fails.
// It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errorLog := log.StandardLogger().WriterLevel(log.WarnLevel)
	defer errorLog.Close()

	srv := &http.Server{
		Handler:  s,
		ErrorLog: stdlog.New(errorLog, "", 0),
	}

	log.Infof("Serving %d catalog entries on http://%s", s.catalog.Len(), ln.Addr())

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnf("Graceful shutdown incomplete, closing connections: %v", err)
		srv.Close()
	}

	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
