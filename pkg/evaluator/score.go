package evaluator

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lintang-b-s/fmpartitioner/pkg/datastructure"
	"github.com/lintang-b-s/fmpartitioner/pkg/partitioner"
	"github.com/lintang-b-s/fmpartitioner/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	SCORE_FILE = "score.csv"
)

type Verdict string

const (
	PASSED                 Verdict = "PASSED"
	CUT_SIZE_LIST_MISMATCH Verdict = "CUT_SIZE_LIST_MISMATCH"
	INVALID_SOLUTION       Verdict = "INVALID_SOLUTION"
	PARTITION_MISMATCH     Verdict = "PARTITION_MISMATCH"
	MIN_CUT_SIZE_MISMATCH  Verdict = "MIN_CUT_SIZE_MISMATCH"
	SOLUTION_NOT_FOUND     Verdict = "SOLUTION_NOT_FOUND"
	SOLUTION_LOAD_ERROR    Verdict = "SOLUTION_LOAD_ERROR"
)

type ScoreRow struct {
	Benchmark string
	Verdict   Verdict
	Runtime   float64
	UsedMem   float64
}

func (r ScoreRow) Passed() bool {
	return r.Verdict == PASSED
}

type ScoreReport struct {
	Rows      []ScoreRow // in benchmark order
	Passed    int
	Total     int
	ScorePath string
}

/*
Score compares every dumped solution in <OutputRoot>/<EID> with the reference solution of the same
benchmark in RefOutputRoot and writes <OutputRoot>/<EID>/score.csv. checks run in order: cut size list,
solution validity, partition (as sets), best cut size.
*/
func (e *Evaluator) Score(ctx context.Context, cfg Config) (*ScoreReport, error) {
	cfg, err := cfg.validate(e.validate)
	if err != nil {
		return nil, err
	}
	if err := e.validate.Var(cfg.RefOutputRoot, "required"); err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "reference output root is required")
	}

	benchmarks, err := ListBenchmarks(cfg.BenchmarkPath)
	if err != nil {
		return nil, err
	}
	outputDir := filepath.Join(cfg.OutputRoot, cfg.EID)

	rows := make([]ScoreRow, len(benchmarks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, benchmark := range benchmarks {
		i, benchmark := i, benchmark
		g.Go(func() error {
			if util.StopConcurrentOperation(gctx) {
				return gctx.Err()
			}
			rows[i] = e.scoreOne(benchmark, outputDir, cfg.RefOutputRoot)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &ScoreReport{
		Rows:      rows,
		Total:     len(benchmarks),
		ScorePath: filepath.Join(outputDir, SCORE_FILE),
	}
	for _, row := range rows {
		if row.Passed() {
			report.Passed++
		}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, err
	}
	if err := writeScore(report); err != nil {
		return nil, err
	}

	e.logger.Info("finish grading",
		zap.String("eid", cfg.EID),
		zap.Int("passed", report.Passed),
		zap.Int("total", report.Total),
		zap.String("scoreFile", report.ScorePath))
	return report, nil
}

func (e *Evaluator) scoreOne(benchmark, outputDir, refOutputRoot string) ScoreRow {
	name := filepath.Base(benchmark)
	outputPath := filepath.Join(outputDir, name)

	if _, err := os.Stat(outputPath); err != nil {
		e.logger.Warn("fail to load solution", zap.String("benchmark", name), zap.Error(err))
		return ScoreRow{Benchmark: name, Verdict: SOLUTION_NOT_FOUND}
	}

	loadError := func(err error) ScoreRow {
		e.logger.Error("fail to score solution", zap.String("benchmark", name), zap.Error(err))
		return ScoreRow{Benchmark: name, Verdict: SOLUTION_LOAD_ERROR}
	}

	bench, err := datastructure.ReadBenchmark(benchmark)
	if err != nil {
		return loadError(err)
	}
	sol, err := datastructure.ReadSolution(outputPath)
	if err != nil {
		return loadError(err)
	}
	ref, err := datastructure.ReadSolution(filepath.Join(refOutputRoot, name))
	if err != nil {
		return loadError(err)
	}

	solver := partitioner.NewFMSolverFromBenchmark(bench, e.logger)
	row := ScoreRow{
		Benchmark: name,
		Verdict:   compareSolutions(solver, sol, ref),
		Runtime:   sol.Runtime,
		UsedMem:   sol.UsedMem,
	}
	if !row.Passed() {
		e.logger.Debug("solution rejected", zap.String("benchmark", name), zap.String("verdict", string(row.Verdict)))
	}
	return row
}

func compareSolutions(solver *partitioner.Solver, sol, ref *datastructure.Solution) Verdict {
	if !equalInts(sol.CutSizes, ref.CutSizes) {
		return CUT_SIZE_LIST_MISMATCH
	}
	if err := solver.VerifySolution(partitioner.Bisection{Block0: sol.Block0, Block1: sol.Block1}); err != nil {
		return INVALID_SOLUTION
	}
	if !sameSet(sol.Block0, ref.Block0) || !sameSet(sol.Block1, ref.Block1) {
		return PARTITION_MISMATCH
	}
	if sol.BestCutSize != ref.BestCutSize {
		return MIN_CUT_SIZE_MISMATCH
	}
	return PASSED
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameSet(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	other := make(map[string]struct{}, len(b))
	for _, s := range b {
		if _, ok := set[s]; !ok {
			return false
		}
		other[s] = struct{}{}
	}
	return len(set) == len(other)
}

func writeScore(report *ScoreReport) error {
	f, err := os.Create(report.ScorePath)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	records := [][]string{{"benchmark", "passed", "note", "runtime", "memory"}}
	for _, row := range report.Rows {
		passed := "False"
		if row.Passed() {
			passed = "True"
		}
		records = append(records, []string{
			row.Benchmark,
			passed,
			string(row.Verdict),
			strconv.FormatFloat(row.Runtime, 'f', -1, 64),
			strconv.FormatFloat(row.UsedMem, 'f', -1, 64),
		})
	}
	records = append(records, []string{"passed/total", strconv.Itoa(report.Passed), strconv.Itoa(report.Total), "-", "-"})

	if err := writer.WriteAll(records); err != nil {
		return err
	}
	return f.Sync()
}
