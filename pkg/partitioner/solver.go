package partitioner

import (
	"github.com/lintang-b-s/fmpartitioner/pkg/datastructure"
	"github.com/lintang-b-s/fmpartitioner/pkg/util"
	"go.uber.org/zap"
)

// Strategy is the pluggable part of a solver.
type Strategy interface {
	Initialize() error
	RunPass() (*PassResult, error)
}

// Solver owns the fixed operations (solve, verify, cut size) around an injected Strategy.
type Solver struct {
	hg       *datastructure.Hypergraph
	balance  BalanceConstraint
	strategy Strategy
	logger   *zap.Logger
}

func NewSolver(hg *datastructure.Hypergraph, minCutRatio float64, strategy Strategy, logger *zap.Logger) *Solver {
	return &Solver{
		hg:       hg,
		balance:  NewBalanceConstraint(minCutRatio),
		strategy: strategy,
		logger:   logger,
	}
}

func NewFMSolver(hg *datastructure.Hypergraph, minCutRatio float64, logger *zap.Logger) *Solver {
	return NewSolver(hg, minCutRatio, NewFiducciaMattheyses(hg, minCutRatio, logger, false), logger)
}

func NewFMSolverFromBenchmark(b *datastructure.Benchmark, logger *zap.Logger) *Solver {
	return NewFMSolver(b.GetGraph(), b.GetMinCutRatio(), logger.With(zap.String("benchmark", b.GetName())))
}

// Solve initializes the strategy and runs one pass.
func (s *Solver) Solve() (*PassResult, error) {
	if err := s.strategy.Initialize(); err != nil {
		return nil, err
	}
	return s.strategy.RunPass()
}

func (s *Solver) GetHypergraph() *datastructure.Hypergraph {
	return s.hg
}

func (s *Solver) GetBalanceConstraint() BalanceConstraint {
	return s.balance
}

// VerifySolution checks that both blocks together contain every node exactly once and that the
// balance constraint holds.
func (s *Solver) VerifySolution(sol Bisection) error {
	seen := make([]bool, s.hg.NumberOfNodes())
	for _, block := range [][]string{sol.Block0, sol.Block1} {
		for _, name := range block {
			v, ok := s.hg.NodeIndex(name)
			if !ok {
				return util.WrapErrorf(ErrInvalidSolution, util.ErrBadParamInput,
					"there is invalid node %q in the solution", name)
			}
			if seen[v] {
				return util.WrapErrorf(ErrInvalidSolution, util.ErrBadParamInput,
					"duplicate node %q appears in the solution", name)
			}
			seen[v] = true
		}
	}

	total := len(sol.Block0) + len(sol.Block1)
	if total != s.hg.NumberOfNodes() {
		return util.WrapErrorf(ErrInvalidSolution, util.ErrBadParamInput,
			"the solution contains %d nodes != total %d nodes", total, s.hg.NumberOfNodes())
	}

	if !s.balance.Satisfied(len(sol.Block0), len(sol.Block1)) {
		ratio := float64(min(len(sol.Block0), len(sol.Block1))) / float64(total)
		return util.WrapErrorf(ErrInvalidSolution, util.ErrBadParamInput,
			"cut ratio %v is smaller than min cut ratio %v", ratio, s.balance.GetMinCutRatio())
	}
	return nil
}

// ComputeCutSize counts the nets with nodes on both sides. nodes missing from block 0 are
// treated as block 1.
func (s *Solver) ComputeCutSize(sol Bisection) (int, error) {
	inBlockZero := make([]bool, s.hg.NumberOfNodes())
	for _, name := range sol.Block0 {
		v, ok := s.hg.NodeIndex(name)
		if !ok {
			return 0, util.WrapErrorf(ErrInvalidSolution, util.ErrBadParamInput,
				"there is invalid node %q in the solution", name)
		}
		inBlockZero[v] = true
	}

	cutSize := 0
	for net := 0; net < s.hg.NumberOfNets(); net++ {
		count := 0
		nodes := s.hg.NodesOfNet(datastructure.Index(net))
		for _, v := range nodes {
			if inBlockZero[v] {
				count++
			}
		}
		if count != 0 && count != len(nodes) {
			cutSize++
		}
	}
	return cutSize, nil
}
