package m

import "fmt"

// EpochFunc observes the summed squared error of each completed epoch.
// Epochs are numbered from 1.
type EpochFunc func(epoch int, sumSquaredError float64)

type TrainConfig struct {
	// OutputCount is the number of trailing columns per row used as targets.
	OutputCount    int
	LearningRate   float64
	MaxEpochs      int
	ErrorThreshold float64
	OnEpoch        EpochFunc
}

// Train runs per-sample gradient descent over dataset in a fixed order until
// an epoch's summed squared error drops below c.ErrorThreshold or c.MaxEpochs
// epochs have run. It returns the number of epochs run. Running out of epochs
// is not an error.
func (net *Network) Train(dataset [][]float64, c TrainConfig) (int, error) {
	if want := net.OutputWidth(); c.OutputCount != want {
		return 0, &ShapeMismatchError{Op: "train", Field: "output columns", Want: want, Got: c.OutputCount}
	}
	width := net.inputWidth + c.OutputCount
	for i, row := range dataset {
		if len(row) != width {
			return 0, &ShapeMismatchError{Op: "train", Field: fmt.Sprintf("values in row %d", i), Want: width, Got: len(row)}
		}
	}

	for epoch := 0; epoch < c.MaxEpochs; epoch++ {
		var sumError float64
		for _, row := range dataset {
			split := len(row) - c.OutputCount
			sampleError, err := net.trainOneSample(row[:split], row[split:], c.LearningRate)
			if err != nil {
				return epoch, fmt.Errorf("epoch %d: %w", epoch+1, err)
			}
			sumError += sampleError
		}

		if c.OnEpoch != nil {
			c.OnEpoch(epoch+1, sumError)
		}
		if sumError < c.ErrorThreshold {
			return epoch + 1, nil
		}
	}
	return c.MaxEpochs, nil
}

// trainOneSample is the only place the forward, backward and update phases
// are sequenced. It returns the squared error of the forward pass.
func (net *Network) trainOneSample(inputs, expected []float64, learningRate float64) (float64, error) {
	outputs, err := net.Forward(inputs)
	if err != nil {
		return 0, err
	}
	var sampleError float64
	for i, want := range expected {
		d := want - outputs[i]
		sampleError += d * d
	}

	if err := net.Backward(expected); err != nil {
		return 0, err
	}
	net.UpdateWeights(inputs, learningRate)
	return sampleError, nil
}
