package metrics

import (
	"errors"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/lintang-b-s/fmpartitioner/pkg/util"
	"gonum.org/v1/gonum/stat"
)

const (
	MB = 1 << 20
)

var (
	ErrInvalidRuns = errors.New("number of profiling runs must be positive")
)

// gc percent and MemStats are process wide, only one profile may run at a time.
var profileMu sync.Mutex

// ProfileReport holds the runtime statistics in seconds and the heap growth of one solve in MB.
type ProfileReport struct {
	Runs          int
	MeanRuntime   float64
	StdDevRuntime float64
	UsedMem       float64
}

/*
Profile runs solve runs times and reports the mean runtime (with its std-dev), then runs it once more
to measure the peak heap growth. the extra solve runs with the gc disabled, so the heap only grows and
HeapAlloc after the solve is its peak.

Profile calls are serialized, but the numbers still include whatever other goroutines allocate or
compute meanwhile. callers that want clean numbers must not solve concurrently.
*/
func Profile(runs int, solve func() error) (ProfileReport, error) {
	if runs <= 0 {
		return ProfileReport{}, util.WrapErrorf(ErrInvalidRuns, util.ErrBadParamInput, "got %d runs", runs)
	}

	profileMu.Lock()
	defer profileMu.Unlock()

	runtimes := make([]float64, runs)
	for i := 0; i < runs; i++ {
		start := time.Now()
		if err := solve(); err != nil {
			return ProfileReport{}, err
		}
		runtimes[i] = time.Since(start).Seconds()
	}

	mean, std := stat.MeanStdDev(runtimes, nil)
	if runs == 1 {
		std = 0
	}

	usedMem, err := heapGrowth(solve)
	if err != nil {
		return ProfileReport{}, err
	}

	return ProfileReport{
		Runs:          runs,
		MeanRuntime:   mean,
		StdDevRuntime: std,
		UsedMem:       usedMem,
	}, nil
}

func heapGrowth(solve func() error) (float64, error) {
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	gcPercent := debug.SetGCPercent(-1)
	err := solve()
	runtime.ReadMemStats(&after)
	debug.SetGCPercent(gcPercent)
	if err != nil {
		return 0, err
	}

	if after.HeapAlloc <= before.HeapAlloc {
		return 0, nil
	}
	return float64(after.HeapAlloc-before.HeapAlloc) / MB, nil
}
