package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aouyang1/go-adsales/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errConfigExists = errors.New("config file already exists, use --force to overwrite")

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the adsales configuration",
		// the file may not exist yet so only the logger is set up
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initLogger()
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to --config or ~/.adsales/config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfgFile
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					return err
				}
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s, %w", path, errConfigExists)
			}
			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			a.logger.Info("wrote config", zap.String("path", path))
			fmt.Fprintf(a.out, "Wrote default configuration to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	cmd.AddCommand(initCmd)
	return cmd
}
