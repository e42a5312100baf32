package main

import (
	"fmt"

	"github.com/lintang-b-s/fmpartitioner/pkg/datastructure"
	"github.com/lintang-b-s/fmpartitioner/pkg/evaluator"
	"github.com/lintang-b-s/fmpartitioner/pkg/http"
	"github.com/lintang-b-s/fmpartitioner/pkg/http/usecases"
	"github.com/lintang-b-s/fmpartitioner/pkg/metrics"
	"github.com/lintang-b-s/fmpartitioner/pkg/partitioner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func (a *app) partitionCmd() *cobra.Command {
	var (
		output  string
		profile bool
	)
	cmd := &cobra.Command{
		Use:   "partition <benchmark>",
		Short: "Run one FM pass on a benchmark file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bench, err := datastructure.ReadBenchmark(args[0])
			if err != nil {
				return err
			}
			solver := partitioner.NewFMSolverFromBenchmark(bench, a.log)
			res, err := solver.Solve()
			if err != nil {
				return err
			}

			var report metrics.ProfileReport
			if profile {
				report, err = metrics.Profile(viper.GetInt("PROFILE_RUNS"), func() error {
					_, err := solver.Solve()
					return err
				})
				if err != nil {
					return err
				}
			}

			best := res.GetBest()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "benchmark:     %s\n", bench.GetName())
			fmt.Fprintf(out, "nodes/nets:    %d/%d\n", bench.GetGraph().NumberOfNodes(), bench.GetGraph().NumberOfNets())
			fmt.Fprintf(out, "initial cut:   %d\n", res.GetCutSizes()[0])
			fmt.Fprintf(out, "best cut:      %d (after %d of %d moves)\n", res.GetBestCutSize(), res.GetBestIndex(),
				res.NumberOfMoves())
			fmt.Fprintf(out, "block sizes:   %d/%d\n", len(best.Block0), len(best.Block1))
			if profile {
				fmt.Fprintf(out, "runtime:       %.6fs ± %.6fs over %d runs\n", report.MeanRuntime, report.StdDevRuntime,
					report.Runs)
				fmt.Fprintf(out, "used memory:   %.3f MB\n", report.UsedMem)
			}

			if output == "" {
				return nil
			}
			return datastructure.WriteSolution(output, &datastructure.Solution{
				CutSizes:    res.GetCutSizes(),
				Block0:      best.Block0,
				Block1:      best.Block1,
				BestCutSize: res.GetBestCutSize(),
				Runtime:     report.MeanRuntime,
				UsedMem:     report.UsedMem,
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "dump the solution to this file")
	cmd.Flags().BoolVarP(&profile, "profile", "p", false, "profile runtime and memory")
	return cmd
}

func (a *app) evaluateCmd() *cobra.Command {
	var (
		profile   bool
		withScore bool
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Solve every benchmark and dump the solutions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := evaluator.NewConfigFromViper()
			cfg.Profile = profile

			ev := evaluator.NewEvaluator(a.log)
			report, err := ev.Evaluate(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Finish evaluation for %s Success: %d / %d\n", cfg.EID, report.Success,
				report.Total)

			if !withScore {
				return nil
			}
			return printScore(cmd, ev, cfg)
		},
	}
	cmd.Flags().StringP("eid", "e", "", "solution id, output goes to <output>/<eid>")
	cmd.Flags().StringP("benchmark", "b", "", "one benchmark file or a benchmark dir")
	cmd.Flags().IntP("workers", "w", 0, "number of benchmarks solved concurrently")
	cmd.Flags().BoolVarP(&profile, "profile", "p", false, "profile runtime and memory (slow)")
	cmd.Flags().BoolVarP(&withScore, "score", "s", false, "compare with the reference solutions afterwards")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		bindFlag(cmd, "EID", "eid")
		bindFlag(cmd, "BENCHMARK_ROOT", "benchmark")
		bindFlag(cmd, "WORKERS", "workers")
	}
	return cmd
}

func (a *app) scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compare dumped solutions with the reference solutions and write score.csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printScore(cmd, evaluator.NewEvaluator(a.log), evaluator.NewConfigFromViper())
		},
	}
	cmd.Flags().StringP("eid", "e", "", "solution id, solutions are read from <output>/<eid>")
	cmd.Flags().StringP("benchmark", "b", "", "one benchmark file or a benchmark dir")
	cmd.Flags().StringP("reference", "r", "", "reference output dir")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		bindFlag(cmd, "EID", "eid")
		bindFlag(cmd, "BENCHMARK_ROOT", "benchmark")
		bindFlag(cmd, "REF_OUTPUT_ROOT", "reference")
	}
	return cmd
}

func printScore(cmd *cobra.Command, ev *evaluator.Evaluator, cfg evaluator.Config) error {
	report, err := ev.Score(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, row := range report.Rows {
		fmt.Fprintf(out, "%-30s %s\n", row.Benchmark, row.Verdict)
	}
	fmt.Fprintf(out, "Finish grading for %s Grade: %d / %d (%s)\n", cfg.EID, report.Passed, report.Total,
		report.ScorePath)
	return nil
}

func (a *app) serveCmd() *cobra.Command {
	var useRateLimit bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the partitioner over http",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			partitionService := usecases.NewPartitionService(a.log, partitioner.NewFMSolver, viper.GetInt("MAX_NODES"))

			api, err := http.NewServer(a.log).Use(ctx, a.log, useRateLimit, partitionService)
			if err != nil {
				return err
			}
			if err := api.Wait(); err != nil {
				return err
			}
			a.log.Info("fm partition server stopped", zap.Error(ctx.Err()))
			return nil
		},
	}
	cmd.Flags().IntP("port", "P", 0, "api port")
	cmd.Flags().BoolVar(&useRateLimit, "rate-limit", false, "enable the global rate limiter")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		bindFlag(cmd, "API_PORT", "port")
	}
	return cmd
}
