package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/ZelongGuo/dislocation/internal/config"
	"github.com/ZelongGuo/dislocation/internal/logging"
	"github.com/ZelongGuo/dislocation/internal/server"
)

var (
	serveConfigFile string
	serveAddr       string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the evaluator as an HTTP service",
	Long: `Serve batch evaluations over HTTP.

Endpoints:
  POST /v1/evaluate  {"patches": [[10 values]...], "observations": [[3 values]...], "mu": .., "nu": ..}
  GET  /healthz
  GET  /metrics      Prometheus metrics

Examples:
  disloc serve
  disloc serve --config service.yaml --addr :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveConfigFile, "config", "c", "", "Path to service config (yaml)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address, overrides the config")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveConfigFile)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	// root log flags win when given explicitly
	logCfg := cfg.Log
	if cmd.Flags().Changed("log-level") {
		logCfg.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		logCfg.Format = logFormat
	}
	log, closer, err := logging.New(logCfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, log, reg, reg).Run(ctx)
}
