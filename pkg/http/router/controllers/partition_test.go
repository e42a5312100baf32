package controllers

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/lintang-b-s/fmpartitioner/pkg/datastructure"
	"github.com/lintang-b-s/fmpartitioner/pkg/partitioner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewTranslator(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	validate := validator.New()
	trans := newTranslator(validate, zap.New(core))

	assert.Equal(t, 0, logs.Len())
	assert.Equal(t, "en", trans.Locale())

	errs := translateError(validate.Struct(partitionRequest{}), trans)
	require.NotEmpty(t, errs)
	for _, err := range errs {
		assert.Contains(t, err.Error(), "is a required field")
	}
}

func TestRegisterTranslationsLogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	validate := validator.New()
	trans := newTranslator(validate, zap.NewNop())

	// the translator already holds every message, so registering again conflicts
	assert.False(t, registerTranslations(validate, trans, zap.New(core)))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "fail to register validation translations", entry.Message)
}

func TestNewPartitionResponse(t *testing.T) {
	hg, err := datastructure.NewHypergraphFromNetNames([][]string{{"a", "c"}, {"b", "d"}})
	require.NoError(t, err)
	res, err := partitioner.NewFMSolver(hg, 0.25, zap.NewNop()).Solve()
	require.NoError(t, err)

	resp := newPartitionResponse(res, hg)
	assert.Equal(t, 4, resp.NumNodes)
	assert.Equal(t, 2, resp.NumNets)
	assert.Equal(t, []int{2, 1, 0, 1, 2}, resp.CutSizes)
	assert.Equal(t, []string{"b", "d"}, resp.Block0)
	assert.Equal(t, []string{"a", "c"}, resp.Block1)
	assert.Equal(t, 2, resp.BestIndex)
	assert.Equal(t, 0, resp.BestCutSize)
	require.Len(t, resp.Moves, 4)
	assert.Equal(t, "a", resp.Moves[0].Node)
	assert.Equal(t, 1, resp.Moves[0].CutSize)
}
