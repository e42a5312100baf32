package datastructure

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/fmpartitioner/pkg/util"
)

// Solution is the content of a dumped solution file.
type Solution struct {
	CutSizes    []int
	Block0      []string
	Block1      []string
	BestCutSize int
	Runtime     float64 // seconds
	UsedMem     float64 // MB
}

/*
WriteSolution dumps a solution in six lines:

	cut sizes of the pass
	node names of block 0
	node names of block 1
	best cut size
	runtime
	used memory
*/
func WriteSolution(path string, sol *Solution) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if !strings.HasSuffix(path, BZIP2_EXT) {
		if err := EncodeSolution(f, sol); err != nil {
			return err
		}
		return f.Sync()
	}

	bz, err := bzip2.NewWriter(f, &bzip2.WriterConfig{})
	if err != nil {
		return err
	}
	if err := EncodeSolution(bz, sol); err != nil {
		bz.Close()
		return err
	}
	return bz.Close()
}

func EncodeSolution(wr io.Writer, sol *Solution) error {
	w := bufio.NewWriter(wr)

	cutSizes := make([]string, len(sol.CutSizes))
	for i, c := range sol.CutSizes {
		cutSizes[i] = strconv.Itoa(c)
	}

	fmt.Fprintf(w, "%s\n", strings.Join(cutSizes, " "))
	fmt.Fprintf(w, "%s\n", strings.Join(sol.Block0, " "))
	fmt.Fprintf(w, "%s\n", strings.Join(sol.Block1, " "))
	fmt.Fprintf(w, "%d\n", sol.BestCutSize)
	fmt.Fprintf(w, "%s\n", strconv.FormatFloat(sol.Runtime, 'f', -1, 64))
	fmt.Fprintf(w, "%s", strconv.FormatFloat(sol.UsedMem, 'f', -1, 64))

	return w.Flush()
}

func ReadSolution(path string) (*Solution, error) {
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
	return DecodeSolution(r)
}

func DecodeSolution(r io.Reader) (*Solution, error) {
	br := bufio.NewReader(r)

	lines := make([]string, 0, 6)
	for len(lines) < 6 {
		line, err := readLine(br)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	if len(lines) < 6 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "solution has %d lines, expected 6", len(lines))
	}

	sol := &Solution{
		Block0: fields(lines[1]),
		Block1: fields(lines[2]),
	}

	for _, c := range fields(lines[0]) {
		cutSize, err := strconv.Atoi(c)
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "invalid cut size %q", c)
		}
		sol.CutSizes = append(sol.CutSizes, cutSize)
	}

	var err error
	sol.BestCutSize, err = strconv.Atoi(strings.TrimSpace(lines[3]))
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "invalid best cut size")
	}
	sol.Runtime, err = util.StringToFloat64(strings.TrimSpace(lines[4]))
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "invalid runtime")
	}
	sol.UsedMem, err = util.StringToFloat64(strings.TrimSpace(lines[5]))
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "invalid used memory")
	}
	return sol, nil
}
