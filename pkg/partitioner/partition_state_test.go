package partitioner

import (
	"testing"

	"github.com/lintang-b-s/fmpartitioner/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialAssignment(t *testing.T) {
	testCases := []struct {
		name           string
		nets           [][]string
		expectedBlock0 []string
		expectedBlock1 []string
		expectedCut    int
	}{
		{
			name:           "4-cycle",
			nets:           [][]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"a", "d"}},
			expectedBlock0: []string{"a", "b"},
			expectedBlock1: []string{"c", "d"},
			expectedCut:    2,
		},
		{
			name:           "odd number of nodes puts the extra node in block 1",
			nets:           [][]string{{"e", "a", "c"}, {"b", "d"}},
			expectedBlock0: []string{"a", "b"},
			expectedBlock1: []string{"c", "d", "e"},
			expectedCut:    2,
		},
		{
			name:           "single node nets are never cut",
			nets:           [][]string{{"a"}, {"b"}, {"c"}, {"d"}},
			expectedBlock0: []string{"a", "b"},
			expectedBlock1: []string{"c", "d"},
			expectedCut:    0,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			hg := buildHypergraph(t, tt.nets)
			ps := NewPartitionState(hg)
			assert.Equal(t, tt.expectedBlock0, ps.NodesInBlock(BLOCK_ZERO))
			assert.Equal(t, tt.expectedBlock1, ps.NodesInBlock(BLOCK_ONE))
			assert.Equal(t, tt.expectedCut, ps.CutSize())
			assert.Equal(t, tt.expectedCut, ps.ComputeCutSize())
		})
	}
}

func TestInitialAssignmentSortsByName(t *testing.T) {
	// node ids are not in name order here
	hg, err := datastructure.NewHypergraph([][]datastructure.Index{{0, 1, 2, 3}}, 1, 4,
		[]string{"d", "c", "b", "a"})
	require.NoError(t, err)

	ps := NewPartitionState(hg)
	assert.Equal(t, []datastructure.Index{3, 2, 1, 0}, ps.InitialOrder())
	assert.Equal(t, BLOCK_ZERO, ps.BlockOf(3))
	assert.Equal(t, BLOCK_ZERO, ps.BlockOf(2))
	assert.Equal(t, BLOCK_ONE, ps.BlockOf(1))
	assert.Equal(t, BLOCK_ONE, ps.BlockOf(0))
	// names are listed by node id
	assert.Equal(t, []string{"b", "a"}, ps.NodesInBlock(BLOCK_ZERO))
}

func TestMoveUpdatesCutAndCounts(t *testing.T) {
	hg := buildHypergraph(t, [][]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"a", "d"}})
	ps := NewPartitionState(hg)
	a, _ := hg.NodeIndex("a")

	changed := ps.Move(a)
	// {a,b} becomes cut, {a,d} becomes uncut
	assert.ElementsMatch(t, []datastructure.Index{0, 3}, changed)
	assert.Equal(t, 2, ps.CutSize())
	assert.Equal(t, ps.ComputeCutSize(), ps.CutSize())
	assert.Equal(t, 1, ps.BlockSize(BLOCK_ZERO))
	assert.Equal(t, 3, ps.BlockSize(BLOCK_ONE))
	assert.Equal(t, 1, ps.BlockCount(0, BLOCK_ZERO))
	assert.Equal(t, 1, ps.BlockCount(0, BLOCK_ONE))
	assert.Equal(t, 0, ps.BlockCount(3, BLOCK_ZERO))

	ps.undo(a)
	assert.Equal(t, 2, ps.CutSize())
	assert.Equal(t, BLOCK_ZERO, ps.BlockOf(a))
}

func TestMoveLockedNodePanics(t *testing.T) {
	hg := buildHypergraph(t, [][]string{{"a", "b"}})
	ps := NewPartitionState(hg)
	ps.Lock(0)
	assert.Panics(t, func() { ps.Move(0) })
}

func TestMoveKeepsIncrementalCutConsistent(t *testing.T) {
	hg := randomHypergraph(t, 7, 60, 90, 6)
	ps := NewPartitionState(hg)
	for v := 0; v < hg.NumberOfNodes(); v++ {
		ps.Move(datastructure.Index(v))
		require.Equal(t, ps.ComputeCutSize(), ps.CutSize(), "after moving node %d", v)
		require.Equal(t, hg.NumberOfNodes(), ps.BlockSize(BLOCK_ZERO)+ps.BlockSize(BLOCK_ONE))
	}
}
