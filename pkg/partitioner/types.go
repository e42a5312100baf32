package partitioner

import (
	"errors"

	"github.com/lintang-b-s/fmpartitioner/pkg/datastructure"
)

type Block uint8

const (
	BLOCK_ZERO Block = 0
	BLOCK_ONE  Block = 1
)

func (b Block) Other() Block {
	return b ^ 1
}

const (
	MIN_CUT_RATIO_EPSILON = 1e-5

	NIL_NODE = ^datastructure.Index(0)
)

var (
	ErrNoFeasibleMove     = errors.New("no feasible move")
	ErrInvalidSolution    = errors.New("invalid solution")
	ErrNotInitialized     = errors.New("partitioner is not initialized")
	ErrInvalidMinCutRatio = errors.New("invalid min cut ratio")
)

// Bisection is a two-block solution expressed with the original node names.
type Bisection struct {
	Block0 []string
	Block1 []string
}

type MoveRecord struct {
	node     datastructure.Index
	from     Block
	gain     int
	cutSize  int // cut size right after the move
	cutFlips int // number of nets whose cut status changed
}

func (mr MoveRecord) GetNode() datastructure.Index {
	return mr.node
}

func (mr MoveRecord) GetFrom() Block {
	return mr.from
}

func (mr MoveRecord) GetGain() int {
	return mr.gain
}

func (mr MoveRecord) GetCutSize() int {
	return mr.cutSize
}

func (mr MoveRecord) GetCutFlips() int {
	return mr.cutFlips
}

// PassResult is the outcome of one FM pass.
type PassResult struct {
	cutSizes    []int // initial cut size followed by the cut size after each move
	moves       []MoveRecord
	best        Bisection
	bestIndex   int // index into cutSizes of the first minimum
	bestCutSize int
}

func (pr *PassResult) GetCutSizes() []int {
	return pr.cutSizes
}

func (pr *PassResult) GetMoves() []MoveRecord {
	return pr.moves
}

func (pr *PassResult) GetBest() Bisection {
	return pr.best
}

func (pr *PassResult) GetBestIndex() int {
	return pr.bestIndex
}

func (pr *PassResult) GetBestCutSize() int {
	return pr.bestCutSize
}

func (pr *PassResult) NumberOfMoves() int {
	return len(pr.moves)
}
