package partitioner

import (
	"errors"
	"fmt"

	"github.com/lintang-b-s/fmpartitioner/pkg/datastructure"
	"github.com/lintang-b-s/fmpartitioner/pkg/util"
	"go.uber.org/zap"
)

type passState uint8

const (
	PASS_UNINITIALIZED passState = iota
	PASS_INITIALIZED
	PASS_SELECTING
	PASS_APPLYING
	PASS_TERMINATED
)

func (s passState) String() string {
	switch s {
	case PASS_INITIALIZED:
		return "INITIALIZED"
	case PASS_SELECTING:
		return "SELECTING"
	case PASS_APPLYING:
		return "APPLYING"
	case PASS_TERMINATED:
		return "TERMINATED"
	default:
		return "UNINITIALIZED"
	}
}

/*
FiducciaMattheyses runs a single FM pass: repeatedly move the free node with the highest gain whose move
keeps the balance constraint, lock it, and record the cut size. when no feasible move is left, the moves
after the first minimum cut size are rolled back.

states: INITIALIZED -> SELECTING -> APPLYING -> (SELECTING | TERMINATED)
*/
type FiducciaMattheyses struct {
	hg      *datastructure.Hypergraph
	balance BalanceConstraint
	logger  *zap.Logger
	debug   bool // recompute the cut size from scratch after every move

	state     passState
	ps        *PartitionState
	buckets   *GainBucket
	cutSizes  []int
	moves     []MoveRecord
	bestIndex int
}

func NewFiducciaMattheyses(hg *datastructure.Hypergraph, minCutRatio float64, logger *zap.Logger,
	debug bool) *FiducciaMattheyses {
	return &FiducciaMattheyses{
		hg:      hg,
		balance: NewBalanceConstraint(minCutRatio),
		logger:  logger,
		debug:   debug,
		state:   PASS_UNINITIALIZED,
	}
}

// Initialize builds the initial solution, computes every gain once and fills the gain buckets.
// it can be called again to start over.
func (fm *FiducciaMattheyses) Initialize() error {
	fm.ps = NewPartitionState(fm.hg)
	fm.buckets = NewGainBucket(fm.hg.NumberOfNodes(), fm.hg.MaxDegree())

	for _, v := range fm.ps.InitialOrder() {
		fm.buckets.Insert(v, fm.ps.BlockOf(v), fm.initialGain(v))
	}

	fm.cutSizes = make([]int, 1, fm.hg.NumberOfNodes()+1)
	fm.cutSizes[0] = fm.ps.CutSize()
	fm.moves = make([]MoveRecord, 0, fm.hg.NumberOfNodes())
	fm.bestIndex = 0
	fm.state = PASS_INITIALIZED

	fm.logger.Debug("fm pass initialized",
		zap.Int("nodes", fm.hg.NumberOfNodes()),
		zap.Int("nets", fm.hg.NumberOfNets()),
		zap.Int("maxDegree", fm.hg.MaxDegree()),
		zap.Int("initialCutSize", fm.cutSizes[0]),
		zap.Int("block0", fm.ps.BlockSize(BLOCK_ZERO)),
		zap.Int("block1", fm.ps.BlockSize(BLOCK_ONE)))
	return nil
}

// initialGain = number of nets that become uncut - number of nets that become cut if v is moved.
func (fm *FiducciaMattheyses) initialGain(v datastructure.Index) int {
	from := fm.ps.BlockOf(v)
	gain := 0
	for _, net := range fm.hg.NetsOfNode(v) {
		if fm.ps.BlockCount(net, from) == 1 {
			gain++
		}
		if fm.ps.BlockCount(net, from.Other()) == 0 {
			gain--
		}
	}
	return gain
}

func (fm *FiducciaMattheyses) RunPass() (*PassResult, error) {
	if fm.state != PASS_INITIALIZED {
		return nil, util.WrapErrorf(ErrNotInitialized, util.ErrInternalServerError,
			"cannot run a pass in state %s", fm.state)
	}

	fm.state = PASS_SELECTING
	var (
		node datastructure.Index
		gain int
		err  error
	)
	for fm.state != PASS_TERMINATED {
		switch fm.state {
		case PASS_SELECTING:
			node, gain, err = fm.selectMove()
			if errors.Is(err, ErrNoFeasibleMove) {
				fm.state = PASS_TERMINATED
				continue
			}
			fm.state = PASS_APPLYING
		case PASS_APPLYING:
			fm.applyMove(node, gain)
			fm.state = PASS_SELECTING
		}
	}

	rollbackToBest(fm.ps, fm.moves, fm.bestIndex)
	bestCutSize := fm.cutSizes[fm.bestIndex]
	util.AssertPanic(fm.ps.CutSize() == bestCutSize,
		fmt.Sprintf("rollback reached cut size %d, expected %d", fm.ps.CutSize(), bestCutSize))

	fm.logger.Info("fm pass terminated",
		zap.Int("moves", len(fm.moves)),
		zap.Int("freeNodes", fm.buckets.Len()),
		zap.Int("initialCutSize", fm.cutSizes[0]),
		zap.Int("bestIndex", fm.bestIndex),
		zap.Int("bestCutSize", bestCutSize))

	return &PassResult{
		cutSizes:    fm.cutSizes,
		moves:       fm.moves,
		best:        fm.ps.Bisection(),
		bestIndex:   fm.bestIndex,
		bestCutSize: bestCutSize,
	}, nil
}

// selectMove pops the best free node whose move keeps the balance constraint.
func (fm *FiducciaMattheyses) selectMove() (datastructure.Index, int, error) {
	size0, size1 := fm.ps.BlockSize(BLOCK_ZERO), fm.ps.BlockSize(BLOCK_ONE)
	return fm.buckets.PopMax(func(from Block) bool {
		return fm.balance.Feasible(size0, size1, from)
	})
}

/*
applyMove moves node (already popped from the buckets), locks it and updates the gains of the free nodes
sharing a net with it. only critical nets change gains, with F = from block and T = to block:

	before the move: T(n) == 0 -> every free node of n gains +1
	                 T(n) == 1 -> the only T node of n gains -1
	after the move:  F(n) == 0 -> every free node of n gains -1
	                 F(n) == 1 -> the only F node of n gains +1
*/
func (fm *FiducciaMattheyses) applyMove(node datastructure.Index, gain int) {
	from := fm.ps.BlockOf(node)
	to := from.Other()
	nets := fm.hg.NetsOfNode(node)

	for _, net := range nets {
		switch fm.ps.BlockCount(net, to) {
		case 0:
			fm.updateFreeNodesOfNet(net, 1)
		case 1:
			fm.updateOnlyNodeInBlock(net, to, -1)
		}
	}

	changed := fm.ps.Move(node)
	fm.ps.Lock(node)

	for _, net := range nets {
		switch fm.ps.BlockCount(net, from) {
		case 0:
			fm.updateFreeNodesOfNet(net, -1)
		case 1:
			fm.updateOnlyNodeInBlock(net, from, 1)
		}
	}

	prevCutSize := fm.cutSizes[len(fm.cutSizes)-1]
	cutSize := fm.ps.CutSize()
	util.AssertPanic(prevCutSize-gain == cutSize,
		fmt.Sprintf("moving node %d with gain %d changed cut size %d -> %d", node, gain, prevCutSize, cutSize))
	if fm.debug {
		scratch := fm.ps.ComputeCutSize()
		util.AssertPanic(scratch == cutSize,
			fmt.Sprintf("incremental cut size %d differs from recomputed %d", cutSize, scratch))
		util.AssertPanic(fm.ps.BlockSize(BLOCK_ZERO)+fm.ps.BlockSize(BLOCK_ONE) == fm.hg.NumberOfNodes(),
			"block sizes do not add up to the number of nodes")
	}

	fm.moves = append(fm.moves, MoveRecord{
		node:     node,
		from:     from,
		gain:     gain,
		cutSize:  cutSize,
		cutFlips: len(changed),
	})
	fm.cutSizes = append(fm.cutSizes, cutSize)

	// strict improvement only, ties keep the first occurrence
	if cutSize < fm.cutSizes[fm.bestIndex] {
		fm.bestIndex = len(fm.cutSizes) - 1
	}
}

func (fm *FiducciaMattheyses) updateFreeNodesOfNet(net datastructure.Index, delta int) {
	fm.hg.ForNodesOfNet(net, func(v datastructure.Index) {
		if fm.buckets.Contains(v) {
			fm.buckets.UpdateGain(v, delta)
		}
	})
}

func (fm *FiducciaMattheyses) updateOnlyNodeInBlock(net datastructure.Index, b Block, delta int) {
	for _, v := range fm.hg.NodesOfNet(net) {
		if fm.ps.BlockOf(v) != b {
			continue
		}
		if fm.buckets.Contains(v) {
			fm.buckets.UpdateGain(v, delta)
		}
		return
	}
}

func (fm *FiducciaMattheyses) GetPartitionState() *PartitionState {
	return fm.ps
}

func (fm *FiducciaMattheyses) GetBalanceConstraint() BalanceConstraint {
	return fm.balance
}
