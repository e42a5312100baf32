package controllers

import (
	"github.com/lintang-b-s/fmpartitioner/pkg/datastructure"
	"github.com/lintang-b-s/fmpartitioner/pkg/partitioner"
)

type partitionRequest struct {
	MinCutRatio *float64   `json:"min_cut_ratio" validate:"required,gte=0,lte=1"`
	Nets        [][]string `json:"nets" validate:"required,min=1,dive,min=1,dive,required"`
}

type moveResponse struct {
	Node    string `json:"node"`
	From    int    `json:"from"`
	Gain    int    `json:"gain"`
	CutSize int    `json:"cut_size"`
}

type partitionResponse struct {
	NumNodes    int            `json:"num_nodes"`
	NumNets     int            `json:"num_nets"`
	CutSizes    []int          `json:"cut_sizes"`
	Block0      []string       `json:"block0"`
	Block1      []string       `json:"block1"`
	BestIndex   int            `json:"best_index"`
	BestCutSize int            `json:"best_cut_size"`
	Moves       []moveResponse `json:"moves"`
}

func newPartitionResponse(res *partitioner.PassResult, hg *datastructure.Hypergraph) partitionResponse {
	moves := make([]moveResponse, 0, res.NumberOfMoves())
	for _, mv := range res.GetMoves() {
		moves = append(moves, moveResponse{
			Node:    hg.NodeName(mv.GetNode()),
			From:    int(mv.GetFrom()),
			Gain:    mv.GetGain(),
			CutSize: mv.GetCutSize(),
		})
	}
	best := res.GetBest()
	return partitionResponse{
		NumNodes:    hg.NumberOfNodes(),
		NumNets:     hg.NumberOfNets(),
		CutSizes:    res.GetCutSizes(),
		Block0:      best.Block0,
		Block1:      best.Block1,
		BestIndex:   res.GetBestIndex(),
		BestCutSize: res.GetBestCutSize(),
		Moves:       moves,
	}
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
