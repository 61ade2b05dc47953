package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/alexsaveliev/getdeps/pkg/resolve"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr        string
	registryURL string
	refresh     bool
	timeout     time.Duration
}

// newServeCmd creates the serve command, exposing the resolver as a
// small HTTP API for downstream tooling that prefers a service over
// shelling out:
//
//	POST /resolve     body: {"name": "specifier", ...}
//	GET  /healthz
func newServeCmd() *cobra.Command {
	opts := serveOpts{addr: ":8080", timeout: 2 * time.Minute}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the resolver as an HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.registryURL, "registry", "", "npm registry endpoint (default: registry.npmjs.org)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the registry response cache")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "deadline per resolve request")

	return cmd
}

func runServe(ctx context.Context, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	resolver, err := newResolver(ctx, resolveOpts{
		registryURL: opts.registryURL,
		refresh:     opts.refresh,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           newRouter(logger, resolver, opts.timeout),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Listening on %s", opts.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	}
}

// newRouter builds the HTTP API around an already-wired resolver.
// Split out from runServe so tests can drive it with a stub registry.
func newRouter(logger *charmlog.Logger, resolver *resolve.Resolver, timeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Post("/resolve", handleResolve(resolver, timeout))

	return r
}

// requestLogger tags each request with a UUID and logs method, path,
// and duration at debug level.
func requestLogger(logger *charmlog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			id := uuid.NewString()
			start := time.Now()
			next.ServeHTTP(w, req)
			logger.Debugf("%s %s request=%s (%s)",
				req.Method, req.URL.Path, id, time.Since(start).Round(time.Millisecond))
		})
	}
}

func handleResolve(resolver *resolve.Resolver, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var deps map[string]string
		if err := json.NewDecoder(req.Body).Decode(&deps); err != nil {
			http.Error(w, "invalid request body: expected {\"name\": \"specifier\"} mapping", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(req.Context(), timeout)
		defer cancel()

		result := resolver.ResolveAll(ctx, deps)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}
