package usecases

import (
	"github.com/lintang-b-s/fmpartitioner/pkg/datastructure"
	"github.com/lintang-b-s/fmpartitioner/pkg/partitioner"
	"go.uber.org/zap"
)

// SolverFactory builds the solver used for one request.
type SolverFactory func(hg *datastructure.Hypergraph, minCutRatio float64, logger *zap.Logger) *partitioner.Solver
