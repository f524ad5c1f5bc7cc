package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/toasty/internal/core/logging"
	"github.com/hay-kot/toasty/internal/metrics"
	"github.com/hay-kot/toasty/internal/web"
	"github.com/hay-kot/toasty/pkg/profiler"
)

type ServeCmd struct {
	flags *Flags
	addr  string
}

// NewServeCmd creates a new serve command.
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application.
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Serve the toast engine over HTTP and WebSocket",
		UsageText: "toasty serve [options]",
		Description: `Starts an HTTP server backed by one engine.

  POST   /api/toasts              show a toast
  GET    /api/toasts              current snapshot
  DELETE /api/toasts/{id}         dismiss
  POST   /api/toasts/{id}/pause   pause the countdown (pointer enter)
  POST   /api/toasts/{id}/resume  resume the countdown (pointer leave)
  DELETE /api/groups/{position}   clear every toast at a position
  GET    /ws                      snapshot stream
  GET    /metrics                 Prometheus metrics (server.metrics)`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (overrides server.addr)",
				Sources:     cli.EnvVars("TOASTY_ADDR"),
				Destination: &cmd.addr,
			},
			profilerFlag(cmd.flags),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, _ *cli.Command) error {
	cfg := cmd.flags.Config

	addr := cfg.Server.Addr
	if cmd.addr != "" {
		addr = cmd.addr
	}

	stop, err := startProfiler(ctx, cmd.flags.ProfilerPort)
	if err != nil {
		return err
	}
	defer stop()

	opts := []web.Option{web.WithLogger(logging.Component("web"))}

	if cfg.Server.Metrics {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		m := metrics.New(metrics.WithRegistry(registry))
		m.Attach(cmd.flags.Bus)

		opts = append(opts,
			web.WithMetrics(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})),
			web.WithClientHooks(m.ClientConnected, m.ClientDisconnected),
		)
	}

	srv := web.New(cmd.flags.Engine, opts...)

	log.Info().Str("addr", addr).Bool("metrics", cfg.Server.Metrics).Msg("toasty serving")
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func profilerFlag(flags *Flags) cli.Flag {
	return &cli.IntFlag{
		Name:        "profiler-port",
		Usage:       "enable pprof HTTP endpoint on specified port (e.g., 6060)",
		Sources:     cli.EnvVars("TOASTY_PROFILER_PORT"),
		Destination: &flags.ProfilerPort,
	}
}

// startProfiler starts a pprof server when port is set. The returned func
// shuts it down.
func startProfiler(ctx context.Context, port int) (func(), error) {
	if port <= 0 {
		return func() {}, nil
	}

	profServer := profiler.New(port, logging.Component("profiler"))
	if err := profServer.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start profiler: %w", err)
	}
	log.Info().
		Str("url", fmt.Sprintf("http://%s/debug/pprof/", profServer.Addr())).
		Msg("profiler endpoint available")

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := profServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown profiler server")
		}
	}, nil
}
