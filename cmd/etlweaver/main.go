// Command etlweaver serves the JSON transform function over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/drblury/etlweaver/api"
	"github.com/drblury/etlweaver/config"
	"github.com/drblury/etlweaver/etl"
	"github.com/drblury/etlweaver/info"
	"github.com/drblury/etlweaver/probe"
	"github.com/drblury/etlweaver/responder"
	"github.com/drblury/etlweaver/router"
	"github.com/drblury/etlweaver/transform"
)

const serviceName = "etlweaver"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = ""

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	readiness, cleanup, err := readinessProbes(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	handler, err := buildHandler(cfg, logger, time.Now(), readiness...)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "addr", server.Addr)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", server.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts)).With("service", serviceName)
}

// buildHandler wires every component into the final http.Handler.
func buildHandler(cfg config.Config, logger *slog.Logger, startedAt time.Time, readiness ...probe.Func) (http.Handler, error) {
	swagger, err := api.Load()
	if err != nil {
		return nil, err
	}

	resp := responder.New(
		responder.WithLogger(logger),
		responder.WithClassifier(etl.ClassifyError),
	)

	infoHandler := info.New(
		info.WithResponder(resp),
		info.WithBaseURL(cfg.BaseURL),
		info.WithBuildInfo(info.ReadBuildInfo(serviceName, version, startedAt)),
		info.WithDocument(api.Document),
		info.WithProbeTimeout(cfg.ProbeTimeout),
		info.WithReadinessChecks(readiness...),
	)

	etlHandler := etl.NewHandler(
		etl.WithResponder(resp),
		etl.WithNormalizer(transform.New()),
		etl.WithMaxBodyBytes(cfg.MaxBodyBytes),
	)

	mux := http.NewServeMux()
	infoHandler.Register(mux)
	etlHandler.Register(mux)

	return router.New(mux,
		router.WithLogger(logger),
		router.WithDocument(swagger),
		router.WithReject(func(w http.ResponseWriter, status int, message string) {
			resp.HandleAPIError(w, nil, status, errors.New(message), "request rejected by openapi validation")
		}),
		router.WithTimeout(cfg.RequestTimeout),
		router.WithCORS(router.CORS{
			Origins: cfg.CORSOrigins,
			Methods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			Headers: []string{"Content-Type", "Authorization"},
		}),
		router.WithQuietRoutes("/healthz", "/readyz"),
		router.WithRedactedHeaders("Authorization", "Cookie"),
	), nil
}

// readinessProbes builds the optional upstream and sink checks. The returned
// cleanup disconnects any client opened here.
func readinessProbes(ctx context.Context, cfg config.Config) ([]probe.Func, func(), error) {
	var (
		checks   []probe.Func
		cleanups []func()
	)
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	if cfg.UpstreamURL != "" {
		checks = append(checks, probe.HTTP("upstream", cfg.UpstreamURL,
			probe.WithClient(&http.Client{Timeout: cfg.ProbeTimeout}),
			probe.WithBearerToken(cfg.UpstreamToken),
			probe.WithHeader("User-Agent", serviceName),
		))
	}

	if cfg.MongoURI != "" {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, cleanup, fmt.Errorf("connect to mongo sink: %w", err)
		}
		cleanups = append(cleanups, func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				slog.Warn("failed to disconnect mongo client", "error", err)
			}
		})
		checks = append(checks, probe.Mongo(client, nil))
	}

	return checks, cleanup, nil
}
