package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/kellysim/logging"
	"github.com/rustyeddy/kellysim/metrics"
	"github.com/rustyeddy/kellysim/server"
	"github.com/rustyeddy/kellysim/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(g *globalOptions) *cobra.Command {
	var addr string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the simulator over HTTP",
		Long: `Start the HTTP shell. Endpoints:

  GET  /api/simulation         current run (runs the configured inputs first)
  POST /api/simulation         apply new inputs; unchanged inputs reuse the last run
  POST /api/simulation/rerun   draw a fresh trajectory for the same inputs
  GET  /api/simulation/csv     per-day table as CSV
  GET  /api/kelly              Kelly fractions (?win_rate_pct=&fee_pct=)
  GET  /ws                     websocket pushing every finished run
  GET  /metrics                Prometheus metrics
  GET  /healthz                liveness

Example:
  kellysim serve --addr :8080 --config simulation.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}
			defer log.Sync()

			if cfg.Log.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			m := metrics.New()
			sess := session.New(log.Named("session"), m, session.WithSeed(cfg.Simulation.Seed))
			srv := server.New(cfg.Server, cfg.Simulation, sess, m, log.Named("http"))

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.Run(ctx); err != nil {
				log.Error("server exited", zap.Error(err))
				return err
			}
			return nil
		},
	}

	c.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	return c
}
