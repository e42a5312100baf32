package partitioner

import "github.com/lintang-b-s/fmpartitioner/pkg/util"

// BalanceConstraint requires min(|block0|, |block1|) / n >= minCutRatio - epsilon.
type BalanceConstraint struct {
	minCutRatio float64
	epsilon     float64
}

func NewBalanceConstraint(minCutRatio float64) BalanceConstraint {
	return BalanceConstraint{minCutRatio: minCutRatio, epsilon: MIN_CUT_RATIO_EPSILON}
}

func (bc BalanceConstraint) GetMinCutRatio() float64 {
	return bc.minCutRatio
}

// Satisfied checks the constraint for the given block sizes. an empty graph is always balanced.
func (bc BalanceConstraint) Satisfied(size0, size1 int) bool {
	n := size0 + size1
	if n == 0 {
		return true
	}
	return float64(min(size0, size1))/float64(n) >= bc.minCutRatio-bc.epsilon
}

// Feasible reports whether moving one node out of block from keeps the constraint. it only looks at the
// hypothetical sizes after the move and never mutates anything.
func (bc BalanceConstraint) Feasible(size0, size1 int, from Block) bool {
	if from == BLOCK_ZERO {
		if size0 == 0 {
			return false
		}
		return bc.Satisfied(size0-1, size1+1)
	}
	if size1 == 0 {
		return false
	}
	return bc.Satisfied(size0+1, size1-1)
}

/*
rollbackToBest undoes, in reverse order, every move applied after the first minimum of the trace.
move i produced cutSizes[i+1], so moves[bestIndex:] are the ones to revert.
*/
func rollbackToBest(ps *PartitionState, moves []MoveRecord, bestIndex int) {
	for i := len(moves) - 1; i >= bestIndex; i-- {
		ps.undo(moves[i].node)
	}
}

// CheckMinCutRatio rejects ratios outside [0, 1] and NaN.
func CheckMinCutRatio(minCutRatio float64) error {
	if !(minCutRatio >= 0 && minCutRatio <= 1) {
		return util.WrapErrorf(ErrInvalidMinCutRatio, util.ErrBadParamInput,
			"min cut ratio %v is not in [0, 1]", minCutRatio)
	}
	return nil
}
