package data

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"backprop/m"
)

func column(rows [][]float64, j int) []float64 {
	col := make([]float64, len(rows))
	for i, row := range rows {
		col[i] = row[j]
	}
	return col
}

// CalculateMean returns the mean of each of the first cols columns.
func CalculateMean(rows [][]float64, cols int) []float64 {
	if len(rows) == 0 {
		return nil
	}
	mean := make([]float64, cols)
	for j := range mean {
		mean[j] = stat.Mean(column(rows, j), nil)
	}
	return mean
}

// CalculateStdDev returns the population standard deviation of each of the
// first cols columns.
func CalculateStdDev(rows [][]float64, cols int) []float64 {
	if len(rows) == 0 {
		return nil
	}
	std := make([]float64, cols)
	for j := range std {
		_, variance := stat.PopMeanVariance(column(rows, j), nil)
		std[j] = math.Sqrt(variance)
	}
	return std
}

// NormalizeZScore returns a copy of rows with the first cols columns
// standardised to zero mean and unit variance. Remaining columns (targets)
// are copied unchanged. Constant columns become 0.
func NormalizeZScore(rows [][]float64, cols int) [][]float64 {
	mean := CalculateMean(rows, cols)
	std := CalculateStdDev(rows, cols)

	normalized := make([][]float64, len(rows))
	for i, row := range rows {
		out := append([]float64(nil), row...)
		for j := 0; j < cols; j++ {
			if std[j] == 0 {
				out[j] = 0
				continue
			}
			out[j] = (row[j] - mean[j]) / std[j]
		}
		normalized[i] = out
	}
	return normalized
}

// MinMax holds the per-column minimum and span of the rows it was fitted
// on. Apply rescales other rows with the same fit, so rows read after
// training land on the scale the network was trained on.
type MinMax struct {
	Min  []float64
	Span []float64
}

// FitMinMax records the minimum and span of every column of rows.
func FitMinMax(rows [][]float64) *MinMax {
	if len(rows) == 0 {
		return &MinMax{}
	}
	width := len(rows[0])
	mm := &MinMax{
		Min:  make([]float64, width),
		Span: make([]float64, width),
	}
	for j := 0; j < width; j++ {
		col := column(rows, j)
		mm.Min[j] = floats.Min(col)
		mm.Span[j] = floats.Max(col) - mm.Min[j]
	}
	return mm
}

// Apply returns a rescaled copy of rows. Columns that were constant when
// fitted become 0. Values outside the fitted range fall outside [0, 1].
func (mm *MinMax) Apply(rows [][]float64) ([][]float64, error) {
	for i, row := range rows {
		if len(row) != len(mm.Min) {
			return nil, &m.ShapeMismatchError{
				Op:    fmt.Sprintf("rescale row %d", i),
				Field: "values",
				Want:  len(mm.Min),
				Got:   len(row),
			}
		}
	}
	return mm.apply(rows), nil
}

func (mm *MinMax) apply(rows [][]float64) [][]float64 {
	normalized := make([][]float64, len(rows))
	for i, row := range rows {
		out := make([]float64, len(row))
		for j, v := range row {
			if mm.Span[j] != 0 {
				out[j] = (v - mm.Min[j]) / mm.Span[j]
			}
		}
		normalized[i] = out
	}
	return normalized
}

// NormalizeMinMax returns a copy of rows with every column rescaled into
// [0, 1]. Constant columns become 0.
func NormalizeMinMax(rows [][]float64) [][]float64 {
	if len(rows) == 0 {
		return nil
	}
	return FitMinMax(rows).apply(rows)
}
