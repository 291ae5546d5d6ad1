package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wyfcoding/rangetree/config"
	"github.com/wyfcoding/rangetree/logging"
	"github.com/wyfcoding/rangetree/metrics"
)

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "rangetree [flags] [files...]",
		Short: "Solve range chmin/max and coverage existence inputs",
		Long: `rangetree reads each input file (stdin when none is given), solves it with
a segment tree and prints the answers in argument order. With --out-dir the
answers of a.txt go to <out-dir>/a.out instead.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.Reset()
			if err := config.BindFlags(cmd.Flags()); err != nil {
				return err
			}
			var cfg config.Config
			if err := config.Load(configPath, &cfg); err != nil {
				return err
			}

			logCfg := cfg.Log.ToLogging(cfg.Metrics.Service, "cli")
			logCfg.Output = cmd.ErrOrStderr()
			logger := logging.NewFromConfig(logCfg)
			logging.SetDefault(logger)
			defer logger.Close()
			config.PrintWithMask(cfg)
			config.RegisterReloadHook(func(next *config.Config) {
				logger.SetLevel(next.Log.Level)
			})

			m := metrics.NewMetrics(cfg.Metrics.Service)
			m.RegisterBuildInfo(cfg.Metrics.Service, cfg.Version)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if cfg.Solver.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Solver.Timeout)
				defer cancel()
			}

			r := &runner{
				cfg:     cfg.Solver,
				metrics: m,
				stdin:   cmd.InOrStdin(),
				stdout:  cmd.OutOrStdout(),
			}
			runErr := r.run(ctx, args)

			if cfg.Metrics.Textfile != "" {
				if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
					logging.Error(ctx, "write metrics textfile failed", "path", cfg.Metrics.Textfile, "error", err)
				}
			}
			if runErr != nil {
				logging.Error(ctx, "rangetree finished with errors", "error", runErr)
			}
			return runErr
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	flags.StringP("problem", "p", "chmin", "input format: chmin or coverage")
	flags.IntP("workers", "w", 4, "number of files solved in parallel")
	flags.StringP("out-dir", "o", "", "write <name>.out files here instead of stdout")
	flags.Duration("timeout", time.Duration(0), "abort the whole run after this long (0 disables)")
	flags.String("metrics-file", "", "write Prometheus textfile metrics to this path")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-file", "", "also write JSON logs to this rotated file")

	return cmd
}
