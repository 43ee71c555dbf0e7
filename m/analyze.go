package m

import "gonum.org/v1/gonum/floats"

// Evaluation summarises predictions over a labelled dataset.
type Evaluation struct {
	SumSquaredError float64
	// Correct counts rows whose highest output matches the highest target.
	// It is only tracked for networks with more than one output.
	Correct int
	Total   int
}

// Accuracy is the percentage of correctly classified rows, or 0 when the
// evaluation did not track classification.
func (e Evaluation) Accuracy() float64 {
	if e.Total == 0 {
		return 0
	}
	return 100 * float64(e.Correct) / float64(e.Total)
}

// MeanSquaredError averages the summed squared error over the rows evaluated.
func (e Evaluation) MeanSquaredError(rows int) float64 {
	if rows == 0 {
		return 0
	}
	return e.SumSquaredError / float64(rows)
}

// Evaluate predicts every row of dataset and compares against its trailing
// outputCount targets. Weights are not touched.
func (net *Network) Evaluate(dataset [][]float64, outputCount int) (Evaluation, error) {
	var eval Evaluation
	if want := net.OutputWidth(); outputCount != want {
		return eval, &ShapeMismatchError{Op: "evaluate", Field: "output columns", Want: want, Got: outputCount}
	}

	for _, row := range dataset {
		split := len(row) - outputCount
		if split < 0 {
			return eval, &ShapeMismatchError{Op: "evaluate", Field: "values", Want: net.inputWidth + outputCount, Got: len(row)}
		}
		targets := row[split:]
		outputs, err := net.Predict(row[:split])
		if err != nil {
			return eval, err
		}
		d := floats.Distance(outputs, targets, 2)
		eval.SumSquaredError += d * d

		if outputCount > 1 {
			eval.Total++
			if floats.MaxIdx(outputs) == floats.MaxIdx(targets) {
				eval.Correct++
			}
		}
	}
	return eval, nil
}
