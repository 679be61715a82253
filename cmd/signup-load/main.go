package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/mergington/activities/internal/loadtest"
	"github.com/mergington/activities/pkg/logger"
	"github.com/spf13/cobra"
)

// Default configuration constants.
const (
	defaultWorkers = 2 // multiplier for runtime.NumCPU()
	defaultURL     = "http://localhost:8000"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &loadtest.Config{}

	cmd := &cobra.Command{
		Use:   "signup-load",
		Short: "Drive concurrent signup traffic against the activities server",
		Long: `signup-load signs synthetic students up for activities twice each,
unregisters half of them, then checks that every roster holds exactly the
students it should. It exits non-zero when a roster invariant is broken.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.InitWithWriter(cmd.OutOrStdout(), "text"); err != nil {
				return err
			}
			if cfg.Verbose {
				_ = logger.SetLevelString("debug")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if _, err := loadtest.Run(ctx, cfg); err != nil {
				logger.Get().Error(ctx, "load test failed", logger.Error(err))
				return err
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.BaseURL, "url", defaultURL, "Base URL of the service")
	flags.IntVar(&cfg.Students, "students", loadtest.DefaultStudents, "Number of synthetic students")
	flags.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
	flags.DurationVar(&cfg.Timeout, "timeout", loadtest.DefaultTimeout, "HTTP request timeout")
	flags.StringArrayVar(&cfg.Activities, "activity", nil, "Activity to target (repeatable; default all)")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.SetContext(context.Background())
	return cmd
}
