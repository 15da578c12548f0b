package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ping", h.PingHandler)

	mux.HandleFunc("GET /api/session", h.GetSession)
	mux.HandleFunc("DELETE /api/session", h.CloseSession)
	mux.HandleFunc("POST /api/session/move", h.Move)
	mux.HandleFunc("POST /api/session/jump", h.Jump)
	mux.HandleFunc("POST /api/session/restart", h.Restart)
	mux.HandleFunc("POST /api/session/reset", h.ResetAll)
	mux.HandleFunc("PUT /api/session/mode", h.SetMode)
	mux.HandleFunc("PUT /api/session/side", h.ChooseSide)
	mux.HandleFunc("PUT /api/session/names", h.SetNames)

	return mux
}

// Start - serves handler on port until ctx is cancelled.
func Start(ctx context.Context, port string, handler http.Handler) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}
