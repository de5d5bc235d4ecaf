package main

import (
	"fmt"
	"io"

	"github.com/aouyang1/go-adsales/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries the state shared by every subcommand
type app struct {
	out io.Writer

	// global flags
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
}

func newApp(out io.Writer) *app {
	return &app{out: out}
}

func (a *app) initLogger() error {
	if a.logger != nil {
		return nil
	}
	zc := zap.NewProductionConfig()
	if a.verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		return fmt.Errorf("unable to initialize logger, %w", err)
	}
	a.logger = logger
	return nil
}

func (a *app) loadConfig() error {
	c, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = c
	a.logger.Debug("loaded config",
		zap.String("config_file", a.cfgFile),
		zap.String("data_path", c.DataPath),
		zap.Uint64("seed", c.Seed),
		zap.Float64("test_size", c.TestSize),
	)
	return nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "adsales",
		Short: "Regress sales on advertising spend per channel",
		Long: `adsales fits an ordinary least squares model of Sales on TV, Radio and Newspaper
spend, evaluates it on a held out split and reports how much each channel
moves sales.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.initLogger(); err != nil {
				return err
			}
			return a.loadConfig()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetOut(a.out)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ~/.adsales/config.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newAnalyzeCmd(a),
		newPredictCmd(a),
		newHistoryCmd(a),
		newConfigCmd(a),
	)
	return root
}
