package m

import (
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Scaling selects how initial weights are scaled from a layer's fan-in/fan-out.
type Scaling int

const (
	// FanIn scales by sqrt(2 / fanIn).
	FanIn Scaling = iota
	// FanAvg scales by sqrt(2 / (fanIn + fanOut)).
	FanAvg
)

func (s Scaling) String() string {
	switch s {
	case FanIn:
		return "fanin"
	case FanAvg:
		return "fanavg"
	}
	return "unknown"
}

func (s Scaling) factor(fanIn, fanOut int) float64 {
	if s == FanAvg {
		return math.Sqrt(2 / float64(fanIn+fanOut))
	}
	return math.Sqrt(2 / float64(fanIn))
}

func newSource() rand.Source {
	return rand.NewSource(uint64(time.Now().UTC().UnixNano()))
}

// randomArray draws size values uniformly from [-v, v) using src.
func randomArray(src rand.Source, size int, v float64) []float64 {
	dist := distuv.Uniform{
		Min: -v,
		Max: v,
		Src: src,
	}

	data := make([]float64, size)
	for i := 0; i < size; i++ {
		data[i] = dist.Rand()
	}
	return data
}

// backError pushes deltas of a layer back through its feature weights:
// W[:, :n]^T · deltas. The bias column has no upstream neuron.
func backError(weights *mat.Dense, deltas []float64) []float64 {
	r, c := weights.Dims()
	features := weights.Slice(0, r, 0, c-1)
	out := mat.NewVecDense(c-1, nil)
	out.MulVec(features.T(), mat.NewVecDense(r, deltas))
	return out.RawVector().Data
}
