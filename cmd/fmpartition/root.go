package main

import (
	"github.com/lintang-b-s/fmpartitioner/pkg/logger"
	"github.com/lintang-b-s/fmpartitioner/pkg/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type app struct {
	verbose    bool
	configPath string
	log        *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "fmpartition",
		Short:         "Fiduccia-Mattheyses hypergraph bisection",
		Long:          `fmpartition runs one Fiduccia-Mattheyses pass on hypergraph benchmarks, evaluates a set of benchmarks against reference solutions and serves the partitioner over http.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := util.ReadConfig(a.configPath); err != nil {
				return err
			}
			var err error
			if a.verbose {
				a.log, err = logger.NewDevelopment()
			} else {
				a.log, err = logger.New()
			}
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a config file (default ./data/config.yaml)")

	root.AddCommand(a.partitionCmd())
	root.AddCommand(a.evaluateCmd())
	root.AddCommand(a.scoreCmd())
	root.AddCommand(a.serveCmd())
	return root
}

// bindFlag binds right before the command runs, commands share viper keys.
func bindFlag(cmd *cobra.Command, key, flag string) {
	_ = viper.BindPFlag(key, cmd.Flags().Lookup(flag))
}
