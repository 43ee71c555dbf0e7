package data

import (
	"fmt"
	"math"

	"backprop/m"
)

// SineSequence returns n samples of (sin(i*step)+1)/2, which stay in [0, 1]
// and so can be used directly as sigmoid targets.
func SineSequence(n int, step float64) []float64 {
	seq := make([]float64, n)
	for i := range seq {
		seq[i] = (math.Sin(float64(i)*step) + 1) / 2
	}
	return seq
}

// Windows slides over seq producing rows of width consecutive values
// followed by the horizon values that come next.
func Windows(seq []float64, width, horizon int) ([][]float64, error) {
	if width <= 0 || horizon <= 0 {
		return nil, fmt.Errorf("window width %d and horizon %d must be positive", width, horizon)
	}
	n := len(seq) - width - horizon + 1
	if n <= 0 {
		return nil, &m.EmptyInputError{What: fmt.Sprintf("sequence of %d values for window %d+%d", len(seq), width, horizon)}
	}

	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = append([]float64(nil), seq[i:i+width+horizon]...)
	}
	return rows, nil
}
