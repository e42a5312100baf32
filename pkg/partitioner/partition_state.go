package partitioner

import (
	"fmt"
	"sort"

	"github.com/lintang-b-s/fmpartitioner/pkg/datastructure"
	"github.com/lintang-b-s/fmpartitioner/pkg/util"
)

// PartitionState holds the block of every node, the per-pass lock flags and, for each net,
// how many of its nodes are in block 0. a net is cut iff that count is neither 0 nor the net size.
type PartitionState struct {
	hg                *datastructure.Hypergraph
	blocks            []Block
	locked            []bool
	netBlockZeroCount []int
	blockSize         [2]int
	cutSize           int
	initialOrder      []datastructure.Index // node ids sorted by name
}

// NewPartitionState builds the deterministic initial solution: nodes sorted by name,
// the first floor(N/2) go to block 0, the rest to block 1.
func NewPartitionState(hg *datastructure.Hypergraph) *PartitionState {
	n := hg.NumberOfNodes()
	ps := &PartitionState{
		hg:                hg,
		blocks:            make([]Block, n),
		locked:            make([]bool, n),
		netBlockZeroCount: make([]int, hg.NumberOfNets()),
	}

	order := hg.GetNodeIds()
	sort.SliceStable(order, func(i, j int) bool {
		return hg.NodeName(order[i]) < hg.NodeName(order[j])
	})
	ps.initialOrder = order

	half := n / 2
	for i, v := range order {
		if i < half {
			ps.blocks[v] = BLOCK_ZERO
		} else {
			ps.blocks[v] = BLOCK_ONE
		}
		ps.blockSize[ps.blocks[v]]++
	}

	for net := 0; net < hg.NumberOfNets(); net++ {
		count := 0
		hg.ForNodesOfNet(datastructure.Index(net), func(v datastructure.Index) {
			if ps.blocks[v] == BLOCK_ZERO {
				count++
			}
		})
		ps.netBlockZeroCount[net] = count
		if ps.IsCut(datastructure.Index(net)) {
			ps.cutSize++
		}
	}

	return ps
}

func (ps *PartitionState) IsCut(net datastructure.Index) bool {
	count := ps.netBlockZeroCount[net]
	return count != 0 && count != ps.hg.NetSize(net)
}

// BlockCount returns how many nodes of net are in block b.
func (ps *PartitionState) BlockCount(net datastructure.Index, b Block) int {
	if b == BLOCK_ZERO {
		return ps.netBlockZeroCount[net]
	}
	return ps.hg.NetSize(net) - ps.netBlockZeroCount[net]
}

/*
Move flips the block of an unlocked node, updates the block-0 count of every incident net and the
running cut size, and returns the nets whose cut status changed.
*/
func (ps *PartitionState) Move(node datastructure.Index) []datastructure.Index {
	util.AssertPanic(!ps.locked[node], fmt.Sprintf("unlocked invariant violation: node %d is locked", node))
	return ps.flip(node)
}

// undo reverts a move of a node regardless of its lock, used when rolling back to the best solution.
func (ps *PartitionState) undo(node datastructure.Index) {
	ps.flip(node)
}

func (ps *PartitionState) flip(node datastructure.Index) []datastructure.Index {
	from := ps.blocks[node]
	delta := -1
	if from == BLOCK_ONE {
		delta = 1
	}

	changed := make([]datastructure.Index, 0)
	for _, net := range ps.hg.NetsOfNode(node) {
		wasCut := ps.IsCut(net)
		ps.netBlockZeroCount[net] += delta
		nowCut := ps.IsCut(net)
		if wasCut == nowCut {
			continue
		}
		if nowCut {
			ps.cutSize++
		} else {
			ps.cutSize--
		}
		changed = append(changed, net)
	}

	ps.blocks[node] = from.Other()
	ps.blockSize[from]--
	ps.blockSize[from.Other()]++
	return changed
}

func (ps *PartitionState) Lock(node datastructure.Index) {
	ps.locked[node] = true
}

func (ps *PartitionState) IsLocked(node datastructure.Index) bool {
	return ps.locked[node]
}

func (ps *PartitionState) BlockOf(node datastructure.Index) Block {
	return ps.blocks[node]
}

func (ps *PartitionState) BlockSize(b Block) int {
	return ps.blockSize[b]
}

func (ps *PartitionState) CutSize() int {
	return ps.cutSize
}

// ComputeCutSize recounts the cut nets from the node blocks only, ignoring the maintained counters.
func (ps *PartitionState) ComputeCutSize() int {
	cutSize := 0
	for net := 0; net < ps.hg.NumberOfNets(); net++ {
		nodes := ps.hg.NodesOfNet(datastructure.Index(net))
		first := ps.blocks[nodes[0]]
		for _, v := range nodes[1:] {
			if ps.blocks[v] != first {
				cutSize++
				break
			}
		}
	}
	return cutSize
}

func (ps *PartitionState) InitialOrder() []datastructure.Index {
	return ps.initialOrder
}

// NodesInBlock returns the names of the nodes in block b ordered by node id.
func (ps *PartitionState) NodesInBlock(b Block) []string {
	names := make([]string, 0, ps.blockSize[b])
	for v, block := range ps.blocks {
		if block == b {
			names = append(names, ps.hg.NodeName(datastructure.Index(v)))
		}
	}
	return names
}

func (ps *PartitionState) Bisection() Bisection {
	return Bisection{
		Block0: ps.NodesInBlock(BLOCK_ZERO),
		Block1: ps.NodesInBlock(BLOCK_ONE),
	}
}
