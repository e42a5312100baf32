package controllers

import (
	"context"

	"github.com/lintang-b-s/fmpartitioner/pkg/datastructure"
	"github.com/lintang-b-s/fmpartitioner/pkg/partitioner"
)

type PartitionService interface {
	Partition(ctx context.Context, minCutRatio float64, nets [][]string) (*partitioner.PassResult, *datastructure.Hypergraph, error)
}
