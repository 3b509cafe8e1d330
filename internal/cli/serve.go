package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/comalice/chartpath/internal/core"
	"github.com/comalice/chartpath/internal/logging"
	"github.com/comalice/chartpath/internal/production"
	"github.com/comalice/chartpath/internal/server"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	Addr          string
	Dir           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Prefix        string
	TTL           time.Duration
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the resolver over HTTP",
		Long: `Start the HTTP API. Charts are kept in memory, or in Redis when --redis is set.

--chart and every document in --dir are registered at startup, named after the file.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			level := slog.LevelInfo
			if rootOpts.Verbose {
				level = slog.LevelDebug
			}
			logger := logging.NewWithWriter(cmd.ErrOrStderr(), level)

			registry, closeRegistry := openRegistry(opts)
			defer func() {
				if err := closeRegistry(); err != nil {
					logger.Warn("close registry", "err", err)
				}
			}()

			if err := preload(ctx, registry, rootOpts.Chart, opts.Dir, logger); err != nil {
				_ = newFormatter(rootOpts, cmd).Error("invalid_chart", err.Error(), nil)
				return WrapExitError(ExitCommandError, "preload charts", err)
			}

			handler, err := newHandler(registry, logger)
			if err != nil {
				return WrapExitError(ExitFailure, "metrics", err)
			}

			ln, err := net.Listen("tcp", opts.Addr)
			if err != nil {
				return WrapExitError(ExitCommandError, "listen", err)
			}
			if err := serve(ctx, ln, handler, logger); err != nil {
				return WrapExitError(ExitFailure, "serve", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "register every chart document in this directory")
	cmd.Flags().StringVar(&opts.RedisAddr, "redis", "", "Redis address; charts are kept in memory when empty")
	cmd.Flags().StringVar(&opts.RedisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&opts.RedisDB, "redis-db", 0, "Redis database")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", "chartpath:", "Redis key prefix")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", 0, "expiry of stored chart documents (0 keeps them)")
	return cmd
}

// openRegistry picks the registry backend and returns a close function for it.
func openRegistry(opts *ServeOptions) (core.Registry, func() error) {
	if opts.RedisAddr == "" {
		return production.NewMemoryRegistry(), func() error { return nil }
	}
	var ropts []production.RedisOption
	if opts.Prefix != "" {
		ropts = append(ropts, production.WithPrefix(opts.Prefix))
	}
	if opts.TTL > 0 {
		ropts = append(ropts, production.WithTTL(opts.TTL))
	}
	reg := production.NewRedisRegistry(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, ropts...)
	return reg, reg.Close
}

// preload registers the --chart document and every document in dir.
func preload(ctx context.Context, registry core.Registry, chartPath, dir string, logger *slog.Logger) error {
	if chartPath != "" {
		cfg, err := production.LoadChartFile(chartPath)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(chartPath), filepath.Ext(chartPath))
		version, err := registry.Register(ctx, name, cfg)
		if err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
		logger.Info("chart registered", "name", name, "version", version)
	}
	if dir == "" {
		return nil
	}
	charts, err := production.LoadChartDir(dir)
	if err != nil {
		return err
	}
	for name, cfg := range charts {
		version, err := registry.Register(ctx, name, cfg)
		if err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
		logger.Info("chart registered", "name", name, "version", version)
	}
	return nil
}

func newHandler(registry core.Registry, logger *slog.Logger) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := core.NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	srv := server.New(registry, server.WithLogger(logger), server.WithMetrics(metrics, reg))
	return srv.Handler(), nil
}

// serve runs handler on ln until ctx is cancelled, then drains outstanding requests.
func serve(ctx context.Context, ln net.Listener, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", ln.Addr().String())
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		logger.Info("shutting down", "cause", context.Cause(ctx))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("close server: %w", err)
			}
		}
		logger.Info("server stopped")
		return nil
	}
}
