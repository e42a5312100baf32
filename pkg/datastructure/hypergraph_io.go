package datastructure

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/fmpartitioner/pkg/util"
)

const (
	BZIP2_EXT = ".bz2"
)

// Benchmark is a parsed benchmark file: the hypergraph plus the balance constraint that comes with it.
type Benchmark struct {
	name        string
	graph       *Hypergraph
	minCutRatio float64
}

func NewBenchmark(name string, graph *Hypergraph, minCutRatio float64) *Benchmark {
	return &Benchmark{name: name, graph: graph, minCutRatio: minCutRatio}
}

func (b *Benchmark) GetName() string {
	return b.name
}

func (b *Benchmark) GetGraph() *Hypergraph {
	return b.graph
}

func (b *Benchmark) GetMinCutRatio() float64 {
	return b.minCutRatio
}

/*
ReadBenchmark reads a benchmark file:

	n_nodes
	n_nets
	<net_size> <node_name_1> ... <node_name_net_size>   (n_nets lines)
	min_cut_ratio

node names are sorted lexicographically and node i is the i-th smallest name.
files ending with .bz2 are decompressed on the fly.
*/
func ReadBenchmark(path string) (*Benchmark, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, BZIP2_EXT) {
		bz, err := bzip2.NewReader(f, nil)
		if err != nil {
			return nil, err
		}
		defer bz.Close()
		r = bz
	}

	name := strings.TrimSuffix(filepath.Base(path), BZIP2_EXT)
	return ParseBenchmark(r, name)
}

func ParseBenchmark(r io.Reader, name string) (*Benchmark, error) {
	br := bufio.NewReader(r)

	lines := make([]string, 0)
	for {
		line, err := readLine(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) < 3 {
		return nil, util.WrapErrorf(ErrInvalidGraph, util.ErrBadParamInput,
			"benchmark %s: expected at least 3 lines, got %d", name, len(lines))
	}

	numNodes, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "benchmark %s: invalid number of nodes", name)
	}
	numNets, err := strconv.Atoi(strings.TrimSpace(lines[1]))
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "benchmark %s: invalid number of nets", name)
	}
	minCutRatio, err := util.StringToFloat64(strings.TrimSpace(lines[len(lines)-1]))
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "benchmark %s: invalid min cut ratio", name)
	}

	netLines := lines[2 : len(lines)-1]
	if len(netLines) != numNets {
		return nil, util.WrapErrorf(ErrInvalidGraph, util.ErrBadParamInput,
			"benchmark %s: there are %d nets, but only %d nets are parsed", name, numNets, len(netLines))
	}

	net2nodeName := make([][]string, numNets)
	for i, line := range netLines {
		ff := fields(line)
		netSize, err := strconv.Atoi(ff[0])
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "benchmark %s: invalid size of net %d", name, i)
		}
		if netSize != len(ff)-1 {
			return nil, util.WrapErrorf(ErrInvalidGraph, util.ErrBadParamInput,
				"benchmark %s: net %d declares %d nodes but lists %d", name, i, netSize, len(ff)-1)
		}
		net2nodeName[i] = ff[1:]
	}

	hg, err := NewHypergraphFromNetNames(net2nodeName)
	if err != nil {
		return nil, fmt.Errorf("benchmark %s: %w", name, err)
	}
	if hg.NumberOfNodes() != numNodes {
		return nil, util.WrapErrorf(ErrInvalidGraph, util.ErrBadParamInput,
			"benchmark %s: there are %d nodes, but nets reference %d distinct nodes", name, numNodes,
			hg.NumberOfNodes())
	}
	return NewBenchmark(name, hg, minCutRatio), nil
}

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", err
	}
	// the last line may not end with a newline
	return strings.TrimRight(line, "\r\n"), nil
}

func fields(s string) []string {
	return strings.Fields(s)
}

// NewHypergraphFromNetNames indexes the distinct node names in lexicographic order and builds the hypergraph.
func NewHypergraphFromNetNames(net2nodeName [][]string) (*Hypergraph, error) {
	nameSet := make(map[string]struct{})
	for _, names := range net2nodeName {
		for _, nodeName := range names {
			nameSet[nodeName] = struct{}{}
		}
	}

	nodeNames := make([]string, 0, len(nameSet))
	for nodeName := range nameSet {
		nodeNames = append(nodeNames, nodeName)
	}
	sort.Strings(nodeNames)

	nodeNameToNode := make(map[string]Index, len(nodeNames))
	for i, nodeName := range nodeNames {
		nodeNameToNode[nodeName] = Index(i)
	}

	net2node := make([][]Index, len(net2nodeName))
	for i, names := range net2nodeName {
		nodes := make([]Index, len(names))
		for j, nodeName := range names {
			nodes[j] = nodeNameToNode[nodeName]
		}
		net2node[i] = nodes
	}

	return NewHypergraph(net2node, len(net2nodeName), len(nodeNames), nodeNames)
}
