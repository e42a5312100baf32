package evaluator

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lintang-b-s/fmpartitioner/pkg/concurrent"
	"github.com/lintang-b-s/fmpartitioner/pkg/datastructure"
	"github.com/lintang-b-s/fmpartitioner/pkg/metrics"
	"github.com/lintang-b-s/fmpartitioner/pkg/partitioner"
	"github.com/lintang-b-s/fmpartitioner/pkg/util"
	"go.uber.org/zap"
)

type Evaluator struct {
	logger   *zap.Logger
	validate *validator.Validate
}

func NewEvaluator(logger *zap.Logger) *Evaluator {
	return &Evaluator{
		logger:   logger,
		validate: validator.New(),
	}
}

type EvaluationResult struct {
	Benchmark   string
	OutputPath  string
	BestCutSize int
	Runtime     float64
	UsedMem     float64
	Err         error
}

type EvaluationReport struct {
	Results []EvaluationResult // in benchmark order
	Success int
	Total   int
	Workers int
}

type evaluationJob struct {
	index     int
	benchmark string
	outputDir string
	profile   bool
	runs      int
}

type indexedResult struct {
	index  int
	result EvaluationResult
}

/*
Evaluate solves every benchmark under cfg.BenchmarkPath and dumps one solution file per benchmark into
<OutputRoot>/<EID>/<benchmark file name>. a failing benchmark is logged and counted, it does not stop the
others. with cfg.Profile set the benchmarks run on one worker, since runtime and heap measurements are
process wide.
*/
func (e *Evaluator) Evaluate(ctx context.Context, cfg Config) (*EvaluationReport, error) {
	cfg, err := cfg.validate(e.validate)
	if err != nil {
		return nil, err
	}

	benchmarks, err := ListBenchmarks(cfg.BenchmarkPath)
	if err != nil {
		return nil, err
	}

	outputDir := filepath.Join(cfg.OutputRoot, cfg.EID)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, err
	}

	numWorkers := cfg.Workers
	if cfg.Profile && numWorkers > 1 {
		e.logger.Info("profiling enabled, running benchmarks sequentially", zap.Int("configuredWorkers", numWorkers))
		numWorkers = 1
	}

	workers := concurrent.NewWorkerPool[evaluationJob, indexedResult](numWorkers, len(benchmarks))
	for i, benchmark := range benchmarks {
		workers.AddJob(evaluationJob{
			index:     i,
			benchmark: benchmark,
			outputDir: outputDir,
			profile:   cfg.Profile,
			runs:      cfg.ProfileRuns,
		})
	}
	workers.Close()
	workers.Start(ctx, e.evaluateOne)
	workers.Wait()

	report := &EvaluationReport{
		Results: make([]EvaluationResult, len(benchmarks)),
		Total:   len(benchmarks),
		Workers: numWorkers,
	}
	done := make([]bool, len(benchmarks))
	for res := range workers.CollectResults() {
		report.Results[res.index] = res.result
		done[res.index] = true
	}

	for i, benchmark := range benchmarks {
		if !done[i] {
			report.Results[i] = EvaluationResult{Benchmark: filepath.Base(benchmark), Err: ctx.Err()}
		}
		if report.Results[i].Err == nil {
			report.Success++
		}
	}

	e.logger.Info("finish evaluation",
		zap.String("eid", cfg.EID),
		zap.Int("success", report.Success),
		zap.Int("total", report.Total))

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (e *Evaluator) evaluateOne(job evaluationJob) indexedResult {
	name := filepath.Base(job.benchmark)
	res := EvaluationResult{Benchmark: name}

	bench, err := datastructure.ReadBenchmark(job.benchmark)
	if err != nil {
		res.Err = err
		e.logger.Error("fail to read benchmark", zap.String("benchmark", job.benchmark), zap.Error(err))
		return indexedResult{index: job.index, result: res}
	}

	solver := partitioner.NewFMSolverFromBenchmark(bench, e.logger)

	start := time.Now()
	pass, err := solver.Solve()
	if err != nil {
		res.Err = err
		e.logger.Error("fail to generate output on benchmark", zap.String("benchmark", job.benchmark), zap.Error(err))
		return indexedResult{index: job.index, result: res}
	}
	elapsed := time.Since(start).Seconds()

	if job.profile {
		report, err := metrics.Profile(job.runs, func() error {
			_, err := solver.Solve()
			return err
		})
		if err != nil {
			res.Err = err
			e.logger.Error("fail to profile benchmark", zap.String("benchmark", job.benchmark), zap.Error(err))
			return indexedResult{index: job.index, result: res}
		}
		res.Runtime, res.UsedMem = report.MeanRuntime, report.UsedMem
		e.logger.Debug("profiled benchmark",
			zap.String("benchmark", name),
			zap.Float64("meanRuntime", report.MeanRuntime),
			zap.Float64("stdDevRuntime", report.StdDevRuntime),
			zap.Float64("usedMemMB", report.UsedMem))
	}

	res.OutputPath = filepath.Join(job.outputDir, name)
	res.BestCutSize = pass.GetBestCutSize()
	best := pass.GetBest()
	err = datastructure.WriteSolution(res.OutputPath, &datastructure.Solution{
		CutSizes:    pass.GetCutSizes(),
		Block0:      best.Block0,
		Block1:      best.Block1,
		BestCutSize: pass.GetBestCutSize(),
		Runtime:     res.Runtime,
		UsedMem:     res.UsedMem,
	})
	if err != nil {
		res.Err = err
		e.logger.Error("fail to dump solution", zap.String("path", res.OutputPath), zap.Error(err))
		return indexedResult{index: job.index, result: res}
	}

	e.logger.Info("solved benchmark",
		zap.String("benchmark", name),
		zap.Int("bestCutSize", res.BestCutSize),
		zap.Int("moves", pass.NumberOfMoves()),
		zap.Float64("elapsed", elapsed))
	return indexedResult{index: job.index, result: res}
}

// ListBenchmarks returns path itself if it is a file, or the regular files of the directory sorted by name.
func ListBenchmarks(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrNotFound, "benchmark dir or path not found: %s", path)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	benchmarks := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		benchmarks = append(benchmarks, filepath.Join(path, entry.Name()))
	}
	sort.Strings(benchmarks)
	return benchmarks, nil
}
