// Package pprofserver exposes the runtime profiles on a separate listener that should only be bound to
// localhost.
package pprofserver

import (
	"context"
	"github.com/homecrimes/caseroom/internal/errors"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"time"
)

func Handle(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
}

func newServer(addr string) *http.Server {
	mux := http.NewServeMux()
	Handle(mux)
	return &http.Server{ //nolint:exhaustruct // profiles stream for a while so no write timeout
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: time.Second,
	}
}

// Launch serves pprof on addr, for example localhost:6060, until ctx is done. Failures are logged and do not
// affect the application.
func Launch(ctx context.Context, addr string, logger *slog.Logger) *http.Server {
	srv := newServer(addr)
	go func() {
		logger.LogAttrs(ctx, slog.LevelInfo, "starting pprof server", slog.String("pprof_addr", addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.LogAttrs(ctx, slog.LevelError, "pprof server stopped",
				errors.SlogError(errors.Wrap(err, "pprof listen and serve")))
		}
	}()
	go func() {
		<-ctx.Done()
		if err := srv.Close(); err != nil {
			logger.LogAttrs(ctx, slog.LevelError, "failed to close pprof server",
				errors.SlogError(errors.Wrap(err, "close pprof server")))
		}
	}()
	return srv
}
