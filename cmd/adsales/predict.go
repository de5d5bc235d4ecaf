package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPredictCmd(a *app) *cobra.Command {
	var (
		split                splitFlags
		tv, radio, newspaper float64
	)

	cmd := &cobra.Command{
		Use:   "predict [csv]",
		Short: "Fit the model and predict sales for a budget allocation",
		Long: `Fits the regression on the training split of the dataset and predicts sales for
the given spend on each channel. Budgets are not validated so negative or very
large values extrapolate linearly.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			split.apply(cmd, a)
			f := cmd.Flags()
			if !f.Changed("tv") {
				tv = a.cfg.ExampleTV
			}
			if !f.Changed("radio") {
				radio = a.cfg.ExampleRadio
			}
			if !f.Changed("newspaper") {
				newspaper = a.cfg.ExampleNewspaper
			}

			path := a.cfg.DataPath
			if len(args) == 1 {
				path = args[0]
			}
			an, err := a.fit(path)
			if err != nil {
				return err
			}
			p, err := an.PredictBudget(tv, radio, newspaper)
			if err != nil {
				return err
			}
			a.logger.Debug("predicted sales", zap.Float64("sales", p.Sales), zap.Float64("roi", p.ROI))
			return p.TablePrint(a.out)
		},
	}

	split.register(cmd)
	cmd.Flags().Float64Var(&tv, "tv", 0, "TV spend (default from config)")
	cmd.Flags().Float64Var(&radio, "radio", 0, "Radio spend (default from config)")
	cmd.Flags().Float64Var(&newspaper, "newspaper", 0, "Newspaper spend (default from config)")
	return cmd
}
