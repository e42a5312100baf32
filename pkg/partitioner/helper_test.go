package partitioner

import (
	"strconv"
	"testing"

	"github.com/lintang-b-s/fmpartitioner/pkg/datastructure"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// buildHypergraph indexes node names in sorted order, like the benchmark reader does.
func buildHypergraph(t *testing.T, nets [][]string) *datastructure.Hypergraph {
	t.Helper()
	hg, err := datastructure.NewHypergraphFromNetNames(nets)
	require.NoError(t, err)
	return hg
}

// randomHypergraph names nodes with a random permutation, so name order differs from index order.
// nets have between 1 and maxNetSize nodes, repeated nodes included.
func randomHypergraph(t *testing.T, seed uint64, numNodes, numNets, maxNetSize int) *datastructure.Hypergraph {
	t.Helper()
	rd := rand.New(rand.NewSource(seed))

	names := make([]string, numNodes)
	perm := rd.Perm(numNodes)
	for i := range names {
		names[i] = "n" + strconv.Itoa(10000+perm[i])
	}

	net2node := make([][]datastructure.Index, numNets)
	for i := range net2node {
		size := 1 + rd.Intn(maxNetSize)
		for j := 0; j < size; j++ {
			net2node[i] = append(net2node[i], datastructure.Index(rd.Intn(numNodes)))
		}
	}

	hg, err := datastructure.NewHypergraph(net2node, numNets, numNodes, names)
	require.NoError(t, err)
	return hg
}

// bruteForceGain moves v, recounts the cut and moves it back.
func bruteForceGain(ps *PartitionState, v datastructure.Index) int {
	before := ps.ComputeCutSize()
	ps.flip(v)
	after := ps.ComputeCutSize()
	ps.flip(v)
	return before - after
}
