package datastructure

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dsnet/compress/bzip2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBenchmark = `4
3
2 d a
3 b c d

1 c
0.45
`

func TestParseBenchmark(t *testing.T) {
	b, err := ParseBenchmark(strings.NewReader(sampleBenchmark), "sample")
	require.NoError(t, err)

	assert.Equal(t, "sample", b.GetName())
	assert.InDelta(t, 0.45, b.GetMinCutRatio(), 1e-12)

	hg := b.GetGraph()
	assert.Equal(t, 4, hg.NumberOfNodes())
	assert.Equal(t, 3, hg.NumberOfNets())
	// names are indexed in sorted order
	assert.Equal(t, []string{"a", "b", "c", "d"}, hg.NodeNames())
	assert.Equal(t, []Index{3, 0}, hg.NodesOfNet(0))
	assert.Equal(t, []Index{1, 2, 3}, hg.NodesOfNet(1))
	assert.Equal(t, []Index{2}, hg.NodesOfNet(2))
}

func TestParseBenchmarkWithoutTrailingNewline(t *testing.T) {
	b, err := ParseBenchmark(strings.NewReader("2\r\n1\r\n2 x y\r\n0.5"), "crlf")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, b.GetGraph().NodeNames())
	assert.InDelta(t, 0.5, b.GetMinCutRatio(), 1e-12)
}

func TestParseBenchmarkInvalid(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "too short", input: "1\n0\n"},
		{name: "bad node count", input: "x\n1\n1 a\n0.5\n"},
		{name: "bad ratio", input: "1\n1\n1 a\nhalf\n"},
		{name: "missing net", input: "2\n2\n2 a b\n0.5\n"},
		{name: "net size mismatch", input: "2\n1\n3 a b\n0.5\n"},
		{name: "node count mismatch", input: "3\n1\n2 a b\n0.5\n"},
		{name: "bad net size", input: "2\n1\ntwo a b\n0.5\n"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBenchmark(strings.NewReader(tt.input), tt.name)
			assert.Error(t, err)
		})
	}
}

func TestReadBenchmarkBzip2(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "sample.txt")
	require.NoError(t, os.WriteFile(plain, []byte(sampleBenchmark), 0o644))

	compressed := filepath.Join(dir, "sample.txt"+BZIP2_EXT)
	f, err := os.Create(compressed)
	require.NoError(t, err)
	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	require.NoError(t, err)
	_, err = bz.Write([]byte(sampleBenchmark))
	require.NoError(t, err)
	require.NoError(t, bz.Close())
	require.NoError(t, f.Close())

	fromPlain, err := ReadBenchmark(plain)
	require.NoError(t, err)
	fromBz, err := ReadBenchmark(compressed)
	require.NoError(t, err)

	assert.Equal(t, "sample.txt", fromBz.GetName())
	assert.Equal(t, fromPlain.GetName(), fromBz.GetName())
	assert.Equal(t, fromPlain.GetGraph().NodeNames(), fromBz.GetGraph().NodeNames())
	assert.Equal(t, fromPlain.GetGraph().NumberOfPins(), fromBz.GetGraph().NumberOfPins())

	_, err = ReadBenchmark(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}
