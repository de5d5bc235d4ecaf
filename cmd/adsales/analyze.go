package main

import (
	"context"
	"fmt"
	"os"

	adsales "github.com/aouyang1/go-adsales"
	"github.com/aouyang1/go-adsales/dataset"
	"github.com/aouyang1/go-adsales/history"
	"github.com/aouyang1/go-adsales/modelselection"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// splitFlags override the configured partition when set on the command line
type splitFlags struct {
	testSize float64
	seed     uint64
}

func (s *splitFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&s.testSize, "test-size", 0.2, "fraction of rows held out for testing (overrides config)")
	cmd.Flags().Uint64Var(&s.seed, "seed", 42, "seed of the train/test shuffle (overrides config)")
}

func (s *splitFlags) apply(cmd *cobra.Command, a *app) {
	f := cmd.Flags()
	if f.Changed("test-size") {
		a.cfg.TestSize = s.testSize
	}
	if f.Changed("seed") {
		a.cfg.Seed = s.seed
	}
}

// fit loads the dataset at path and fits the analyzer with the configured split
func (a *app) fit(path string) (*adsales.Analyzer, error) {
	ds, err := dataset.Load(path, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to load %s, %w", path, err)
	}
	rows, cols := ds.Shape()
	a.logger.Info("loaded dataset",
		zap.String("path", path),
		zap.Int("rows", rows),
		zap.Int("columns", cols),
		zap.String("fingerprint", ds.Fingerprint()),
	)

	opt := adsales.NewDefaultOptions()
	opt.SplitOptions = &modelselection.SplitOptions{
		TestSize: a.cfg.TestSize,
		Seed:     a.cfg.Seed,
	}
	opt.ConfidenceLevel = a.cfg.ConfidenceLevel

	an, err := adsales.New(opt)
	if err != nil {
		return nil, err
	}
	if err := an.Fit(ds); err != nil {
		return nil, err
	}
	a.logger.Info("fit model",
		zap.Int("train_rows", len(an.Split().TrainIdx)),
		zap.Int("test_rows", len(an.Split().TestIdx)),
		zap.Float64("r2", an.Scores().R2),
		zap.Float64("rmse", an.Scores().RMSE),
	)
	return an, nil
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		split      splitFlags
		chartsPath string
		pngDir     string
		jsonPath   string
		histPath   string
		headRows   int
		noInsights bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [csv]",
		Short: "Run the full analysis and print the report",
		Long: `Loads the advertising dataset, prints its overview and summary statistics, fits
the regression on the training split, evaluates it on the test split and prints
the coefficient interpretation and channel ranking. Charts are written as an
html page and optionally as png images.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			split.apply(cmd, a)
			f := cmd.Flags()
			if f.Changed("charts") {
				a.cfg.ChartsPath = chartsPath
			}
			if f.Changed("png-dir") {
				a.cfg.PNGDir = pngDir
			}
			if f.Changed("json") {
				a.cfg.JSONPath = jsonPath
			}
			if f.Changed("history") {
				a.cfg.HistoryPath = histPath
			}
			if f.Changed("head") {
				a.cfg.HeadRows = headRows
			}

			path := a.cfg.DataPath
			if len(args) == 1 {
				path = args[0]
			}
			return a.analyze(cmd.Context(), path, !noInsights)
		},
	}

	split.register(cmd)
	cmd.Flags().StringVar(&chartsPath, "charts", "", "html file for the interactive charts, empty to skip (overrides config)")
	cmd.Flags().StringVar(&pngDir, "png-dir", "", "directory for png charts, empty to skip (overrides config)")
	cmd.Flags().StringVar(&jsonPath, "json", "", "file for the json results, empty to skip (overrides config)")
	cmd.Flags().StringVar(&histPath, "history", "", "sqlite file to record the run in, empty to skip (overrides config)")
	cmd.Flags().IntVar(&headRows, "head", 5, "number of rows shown in the data overview (overrides config)")
	cmd.Flags().BoolVar(&noInsights, "no-insights", false, "omit the budget insights section")
	return cmd
}

func (a *app) analyze(ctx context.Context, path string, insights bool) error {
	an, err := a.fit(path)
	if err != nil {
		return err
	}

	rOpt := &adsales.ReportOptions{
		HeadRows:         a.cfg.HeadRows,
		ExampleTV:        a.cfg.ExampleTV,
		ExampleRadio:     a.cfg.ExampleRadio,
		ExampleNewspaper: a.cfg.ExampleNewspaper,
		Insights:         insights,
	}
	if err := an.Report(a.out, rOpt); err != nil {
		return fmt.Errorf("unable to write report, %w", err)
	}

	if a.cfg.ChartsPath != "" {
		if err := writeCharts(an, a.cfg.ChartsPath); err != nil {
			return err
		}
		a.logger.Info("wrote charts", zap.String("path", a.cfg.ChartsPath))
	}

	if a.cfg.PNGDir != "" {
		paths, err := an.SavePNG(a.cfg.PNGDir)
		if err != nil {
			return fmt.Errorf("unable to save png charts, %w", err)
		}
		a.logger.Info("wrote png charts", zap.String("dir", a.cfg.PNGDir), zap.Int("count", len(paths)))
	}

	if a.cfg.JSONPath != "" {
		res, err := an.Results(a.cfg.ExampleTV, a.cfg.ExampleRadio, a.cfg.ExampleNewspaper)
		if err != nil {
			return fmt.Errorf("unable to gather results, %w", err)
		}
		b, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("unable to marshal results, %w", err)
		}
		if err := os.WriteFile(a.cfg.JSONPath, b, 0o644); err != nil {
			return fmt.Errorf("unable to write results, %w", err)
		}
		a.logger.Info("wrote results", zap.String("path", a.cfg.JSONPath))
	}

	if a.cfg.HistoryPath != "" {
		if err := a.record(ctx, an); err != nil {
			return err
		}
	}
	return nil
}

func writeCharts(an *adsales.Analyzer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %s, %w", path, err)
	}
	if err := an.PlotFit(f); err != nil {
		f.Close()
		return fmt.Errorf("unable to plot charts, %w", err)
	}
	return f.Close()
}

func (a *app) record(ctx context.Context, an *adsales.Analyzer) error {
	store, err := history.Open(ctx, a.cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ds := an.Dataset()
	split := an.Options().SplitOptions
	scores := an.Scores()
	run := &history.Run{
		Dataset:     ds.Name(),
		Fingerprint: ds.Fingerprint(),
		Seed:        split.Seed,
		TestSize:    split.TestSize,
		TrainRows:   len(an.Split().TrainIdx),
		TestRows:    len(an.Split().TestIdx),
		MSE:         scores.MSE,
		RMSE:        scores.RMSE,
		R2:          scores.R2,
	}
	if err := store.Record(ctx, run); err != nil {
		return err
	}
	a.logger.Info("recorded run", zap.String("id", run.ID), zap.String("history", store.Path()))
	return nil
}
