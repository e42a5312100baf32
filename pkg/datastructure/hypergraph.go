package datastructure

import (
	"errors"
	"strconv"

	"github.com/lintang-b-s/fmpartitioner/pkg/util"
)

type Index uint32

var (
	ErrInvalidGraph = errors.New("invalid hypergraph")
)

/*
Hypergraph stores nets (hyperedges) and their inverse adjacency in compressed sparse row form.
nodes of net i are netNodes[netFirst[i]:netFirst[i+1]], nets of node v are nodeNets[nodeFirst[v]:nodeFirst[v+1]].
both arrays are built once, nothing mutates them afterwards.
*/
type Hypergraph struct {
	netFirst  []Index
	netNodes  []Index
	nodeFirst []Index
	nodeNets  []Index

	nodeNames  []string
	nameToNode map[string]Index
	maxDegree  int
}

// NewHypergraph validates net2node and builds the node -> nets adjacency in O(sum of net sizes).
// nodeNames[i] is the original name of node i, nil means the decimal index is used as name.
// repeated node ids inside one net are collapsed to their first occurrence.
func NewHypergraph(net2node [][]Index, numNets, numNodes int, nodeNames []string) (*Hypergraph, error) {
	if numNets < 0 || numNodes < 0 {
		return nil, util.WrapErrorf(ErrInvalidGraph, util.ErrBadParamInput,
			"negative size: %d nets, %d nodes", numNets, numNodes)
	}
	if len(net2node) != numNets {
		return nil, util.WrapErrorf(ErrInvalidGraph, util.ErrBadParamInput,
			"there are %d nets, but %d nets are given", numNets, len(net2node))
	}

	if nodeNames == nil {
		nodeNames = make([]string, numNodes)
		for i := range nodeNames {
			nodeNames[i] = strconv.Itoa(i)
		}
	}
	if len(nodeNames) != numNodes {
		return nil, util.WrapErrorf(ErrInvalidGraph, util.ErrBadParamInput,
			"there are %d nodes, but %d node names are given", numNodes, len(nodeNames))
	}

	nameToNode := make(map[string]Index, numNodes)
	for i, name := range nodeNames {
		if _, exists := nameToNode[name]; exists {
			return nil, util.WrapErrorf(ErrInvalidGraph, util.ErrBadParamInput,
				"duplicate node name %q", name)
		}
		nameToNode[name] = Index(i)
	}

	hg := &Hypergraph{
		netFirst:   make([]Index, numNets+1),
		nodeFirst:  make([]Index, numNodes+1),
		nodeNames:  nodeNames,
		nameToNode: nameToNode,
	}

	totalPins := 0
	for _, nodes := range net2node {
		totalPins += len(nodes)
	}
	hg.netNodes = make([]Index, 0, totalPins)

	// lastSeen[v] = net+1 if v was already added to net
	lastSeen := make([]int, numNodes)
	degree := make([]Index, numNodes)
	for net, nodes := range net2node {
		if len(nodes) == 0 {
			return nil, util.WrapErrorf(ErrInvalidGraph, util.ErrBadParamInput,
				"net %d has no nodes", net)
		}
		for _, v := range nodes {
			if int(v) >= numNodes {
				return nil, util.WrapErrorf(ErrInvalidGraph, util.ErrBadParamInput,
					"net %d references node %d, but there are only %d nodes", net, v, numNodes)
			}
			if lastSeen[v] == net+1 {
				continue
			}
			lastSeen[v] = net + 1
			hg.netNodes = append(hg.netNodes, v)
			degree[v]++
		}
		hg.netFirst[net+1] = Index(len(hg.netNodes))
	}

	for v := 0; v < numNodes; v++ {
		hg.nodeFirst[v+1] = hg.nodeFirst[v] + degree[v]
		if int(degree[v]) > hg.maxDegree {
			hg.maxDegree = int(degree[v])
		}
	}

	hg.nodeNets = make([]Index, len(hg.netNodes))
	next := make([]Index, numNodes)
	copy(next, hg.nodeFirst[:numNodes])
	for net := 0; net < numNets; net++ {
		for _, v := range hg.NodesOfNet(Index(net)) {
			hg.nodeNets[next[v]] = Index(net)
			next[v]++
		}
	}

	return hg, nil
}

func (hg *Hypergraph) NumberOfNodes() int {
	return len(hg.nodeFirst) - 1
}

func (hg *Hypergraph) NumberOfNets() int {
	return len(hg.netFirst) - 1
}

func (hg *Hypergraph) NumberOfPins() int {
	return len(hg.netNodes)
}

// NodesOfNet returns a read-only view, callers must not modify it.
func (hg *Hypergraph) NodesOfNet(net Index) []Index {
	return hg.netNodes[hg.netFirst[net]:hg.netFirst[net+1]]
}

// NetsOfNode returns a read-only view, callers must not modify it.
func (hg *Hypergraph) NetsOfNode(node Index) []Index {
	return hg.nodeNets[hg.nodeFirst[node]:hg.nodeFirst[node+1]]
}

func (hg *Hypergraph) ForNodesOfNet(net Index, handle func(v Index)) {
	for i := hg.netFirst[net]; i < hg.netFirst[net+1]; i++ {
		handle(hg.netNodes[i])
	}
}

func (hg *Hypergraph) NetSize(net Index) int {
	return int(hg.netFirst[net+1] - hg.netFirst[net])
}

func (hg *Hypergraph) Degree(node Index) int {
	return int(hg.nodeFirst[node+1] - hg.nodeFirst[node])
}

// MaxDegree is the largest number of nets incident to a single node, gains are bounded by it.
func (hg *Hypergraph) MaxDegree() int {
	return hg.maxDegree
}

func (hg *Hypergraph) NodeName(node Index) string {
	return hg.nodeNames[node]
}

func (hg *Hypergraph) NodeNames() []string {
	return hg.nodeNames
}

func (hg *Hypergraph) NodeIndex(name string) (Index, bool) {
	v, ok := hg.nameToNode[name]
	return v, ok
}

func (hg *Hypergraph) GetNodeIds() []Index {
	nodeIds := make([]Index, 0, hg.NumberOfNodes())
	for i := 0; i < hg.NumberOfNodes(); i++ {
		nodeIds = append(nodeIds, Index(i))
	}
	return nodeIds
}
