package m

import "math"

// Sigmoid is the transfer function used by every neuron.
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// TransferDerivative is the sigmoid derivative expressed through the
// already-activated output y.
func TransferDerivative(y float64) float64 {
	return y * (1.0 - y)
}
