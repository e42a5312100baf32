package usecases

import (
	"context"
	"errors"

	"github.com/lintang-b-s/fmpartitioner/pkg/datastructure"
	"github.com/lintang-b-s/fmpartitioner/pkg/partitioner"
	"github.com/lintang-b-s/fmpartitioner/pkg/util"
	"go.uber.org/zap"
)

var (
	ErrTooManyNodes = errors.New("too many nodes")
)

type PartitionService struct {
	log       *zap.Logger
	newSolver SolverFactory
	maxNodes  int
}

func NewPartitionService(log *zap.Logger, newSolver SolverFactory, maxNodes int) *PartitionService {
	if newSolver == nil {
		newSolver = partitioner.NewFMSolver
	}
	return &PartitionService{
		log:       log,
		newSolver: newSolver,
		maxNodes:  maxNodes,
	}
}

// Partition builds a hypergraph from the given nets of node names and runs one fm pass on it.
// maxNodes <= 0 means no limit.
func (ps *PartitionService) Partition(ctx context.Context, minCutRatio float64,
	nets [][]string) (*partitioner.PassResult, *datastructure.Hypergraph, error) {
	if err := partitioner.CheckMinCutRatio(minCutRatio); err != nil {
		return nil, nil, err
	}

	hg, err := datastructure.NewHypergraphFromNetNames(nets)
	if err != nil {
		return nil, nil, err
	}
	if ps.maxNodes > 0 && hg.NumberOfNodes() > ps.maxNodes {
		return nil, nil, util.WrapErrorf(ErrTooManyNodes, util.ErrBadParamInput,
			"hypergraph has %d nodes, the limit is %d", hg.NumberOfNodes(), ps.maxNodes)
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	solver := ps.newSolver(hg, minCutRatio, ps.log)
	res, err := solver.Solve()
	if err != nil {
		return nil, nil, util.WrapErrorf(err, util.ErrInternalServerError, "partition failed")
	}

	ps.log.Debug("partitioned hypergraph",
		zap.Int("nodes", hg.NumberOfNodes()),
		zap.Int("nets", hg.NumberOfNets()),
		zap.Int("bestCutSize", res.GetBestCutSize()))
	return res, hg, nil
}
