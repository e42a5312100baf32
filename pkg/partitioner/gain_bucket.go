package partitioner

import (
	"fmt"

	"github.com/lintang-b-s/fmpartitioner/pkg/datastructure"
	"github.com/lintang-b-s/fmpartitioner/pkg/util"
)

/*
GainBucket is the bucket list of Fiduccia & Mattheyses, "A Linear-Time Heuristic for Improving Network Partitions", 1982.

gains of a node with degree d are in [-d, d], so bucket i holds the free nodes with gain i-maxDegree.
every bucket is an intrusive doubly linked list in insertion order (next/prev arrays indexed by node id),
so insert, remove and update are O(1). each node also belongs to a side (the block it would be moved out of),
and every side has its own bucket array and max-gain pointer. a global insertion stamp keeps the
order between the two sides identical to one shared bucket array: among nodes with equal gain the
earliest inserted wins.
*/
type GainBucket struct {
	maxDegree int
	heads     [2][]datastructure.Index
	tails     [2][]datastructure.Index
	top       [2]int // highest bucket that may be non-empty, -1 if the side is empty

	next    []datastructure.Index
	prev    []datastructure.Index
	gain    []int
	side    []Block
	stamp   []uint64
	present []bool

	clock uint64
	size  int
}

func NewGainBucket(numNodes, maxDegree int) *GainBucket {
	numBuckets := 2*maxDegree + 1
	gb := &GainBucket{
		maxDegree: maxDegree,
		top:       [2]int{-1, -1},
		next:      make([]datastructure.Index, numNodes),
		prev:      make([]datastructure.Index, numNodes),
		gain:      make([]int, numNodes),
		side:      make([]Block, numNodes),
		stamp:     make([]uint64, numNodes),
		present:   make([]bool, numNodes),
	}
	for s := 0; s < 2; s++ {
		gb.heads[s] = make([]datastructure.Index, numBuckets)
		gb.tails[s] = make([]datastructure.Index, numBuckets)
		for i := 0; i < numBuckets; i++ {
			gb.heads[s][i] = NIL_NODE
			gb.tails[s][i] = NIL_NODE
		}
	}
	return gb
}

func (gb *GainBucket) bucketIndex(gain int) int {
	util.AssertPanic(util.Abs(gain) <= gb.maxDegree,
		fmt.Sprintf("gain %d is out of range [-%d, %d]", gain, gb.maxDegree, gb.maxDegree))
	return gain + gb.maxDegree
}

// Insert appends node at the tail of the bucket of gain on the given side.
func (gb *GainBucket) Insert(node datastructure.Index, side Block, gain int) {
	util.AssertPanic(!gb.present[node], fmt.Sprintf("node %d is already in the gain bucket", node))

	b := gb.bucketIndex(gain)
	gb.gain[node] = gain
	gb.side[node] = side
	gb.stamp[node] = gb.clock
	gb.clock++
	gb.present[node] = true
	gb.size++

	gb.next[node] = NIL_NODE
	gb.prev[node] = gb.tails[side][b]
	if gb.tails[side][b] != NIL_NODE {
		gb.next[gb.tails[side][b]] = node
	} else {
		gb.heads[side][b] = node
	}
	gb.tails[side][b] = node

	if b > gb.top[side] {
		gb.top[side] = b
	}
}

// Remove unlinks node, it must be present.
func (gb *GainBucket) Remove(node datastructure.Index) {
	util.AssertPanic(gb.present[node], fmt.Sprintf("node %d is not in the gain bucket", node))

	side := gb.side[node]
	b := gb.bucketIndex(gb.gain[node])
	if gb.prev[node] != NIL_NODE {
		gb.next[gb.prev[node]] = gb.next[node]
	} else {
		gb.heads[side][b] = gb.next[node]
	}
	if gb.next[node] != NIL_NODE {
		gb.prev[gb.next[node]] = gb.prev[node]
	} else {
		gb.tails[side][b] = gb.prev[node]
	}

	gb.next[node] = NIL_NODE
	gb.prev[node] = NIL_NODE
	gb.present[node] = false
	gb.size--
}

// UpdateGain moves node to the tail of the bucket of its new gain.
func (gb *GainBucket) UpdateGain(node datastructure.Index, delta int) {
	if delta == 0 {
		return
	}
	side := gb.side[node]
	newGain := gb.gain[node] + delta
	gb.Remove(node)
	gb.Insert(node, side, newGain)
}

func (gb *GainBucket) Gain(node datastructure.Index) int {
	return gb.gain[node]
}

func (gb *GainBucket) Contains(node datastructure.Index) bool {
	return gb.present[node]
}

func (gb *GainBucket) Len() int {
	return gb.size
}

// maxOfSide lowers the max-gain pointer of a side past empty buckets and returns the head of the highest
// non-empty bucket.
func (gb *GainBucket) maxOfSide(side Block) datastructure.Index {
	for gb.top[side] >= 0 && gb.heads[side][gb.top[side]] == NIL_NODE {
		gb.top[side]--
	}
	if gb.top[side] < 0 {
		return NIL_NODE
	}
	return gb.heads[side][gb.top[side]]
}

/*
PopMax removes and returns the node with the highest gain whose side satisfies feasible, earliest inserted
first on equal gain. nodes of an infeasible side stay in the structure. returns ErrNoFeasibleMove when no
node qualifies.
*/
func (gb *GainBucket) PopMax(feasible func(side Block) bool) (datastructure.Index, int, error) {
	best := NIL_NODE
	for _, side := range [2]Block{BLOCK_ZERO, BLOCK_ONE} {
		if !feasible(side) {
			continue
		}
		cand := gb.maxOfSide(side)
		if cand == NIL_NODE {
			continue
		}
		if best == NIL_NODE || gb.gain[cand] > gb.gain[best] ||
			(gb.gain[cand] == gb.gain[best] && gb.stamp[cand] < gb.stamp[best]) {
			best = cand
		}
	}

	if best == NIL_NODE {
		return NIL_NODE, 0, ErrNoFeasibleMove
	}

	gain := gb.gain[best]
	gb.Remove(best)
	return best, gain, nil
}
