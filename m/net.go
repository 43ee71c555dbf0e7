package m

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type Config struct {
	// Layers is the layer spec: input width first, then neurons per layer.
	Layers  []int
	Scaling Scaling
	// Src drives weight initialization. A nil Src uses a time-seeded source.
	Src rand.Source
}

// Neuron holds a weight vector whose last element is the bias, plus the
// output and delta of the most recent forward and backward pass.
type Neuron struct {
	Weights []float64
	Output  float64
	Delta   float64
}

// Layer owns its neurons. Neuron weight vectors are row views of weights.
type Layer struct {
	Neurons []Neuron
	weights *mat.Dense
}

type Network struct {
	inputWidth int
	layers     []Layer
}

func validateSpec(spec []int) error {
	if len(spec) < 2 {
		return &InvalidSpecError{Layers: spec, Reason: "need an input width and at least one layer"}
	}
	for _, n := range spec {
		if n <= 0 {
			return &InvalidSpecError{Layers: spec, Reason: "layer widths must be positive"}
		}
	}
	return nil
}

func NewNetwork(c Config) (*Network, error) {
	if err := validateSpec(c.Layers); err != nil {
		return nil, err
	}
	src := c.Src
	if src == nil {
		src = newSource()
	}

	net := &Network{
		inputWidth: c.Layers[0],
		layers:     make([]Layer, len(c.Layers)-1),
	}
	for i := 1; i < len(c.Layers); i++ {
		rows, fanIn := c.Layers[i], c.Layers[i-1]
		cols := fanIn + 1
		w := mat.NewDense(rows, cols, randomArray(src, rows*cols, c.Scaling.factor(fanIn, rows)))

		layer := Layer{Neurons: make([]Neuron, rows), weights: w}
		for j := range layer.Neurons {
			layer.Neurons[j].Weights = w.RawRowView(j)
		}
		net.layers[i-1] = layer
	}
	return net, nil
}

func (net *Network) lastIndex() int {
	return len(net.layers) - 1
}

// InputWidth is the number of features Forward expects.
func (net *Network) InputWidth() int {
	return net.inputWidth
}

// OutputWidth is the neuron count of the output layer.
func (net *Network) OutputWidth() int {
	return len(net.layers[net.lastIndex()].Neurons)
}

// NumLayers counts hidden and output layers, not the input width.
func (net *Network) NumLayers() int {
	return len(net.layers)
}

// LayerSizes returns the layer spec the network was built from.
func (net *Network) LayerSizes() []int {
	sizes := make([]int, 0, len(net.layers)+1)
	sizes = append(sizes, net.inputWidth)
	for _, l := range net.layers {
		sizes = append(sizes, len(l.Neurons))
	}
	return sizes
}

// Neuron returns a copy of neuron j in layer l (0 is the first non-input layer).
func (net *Network) Neuron(l, j int) Neuron {
	n := net.layers[l].Neurons[j]
	n.Weights = append([]float64(nil), n.Weights...)
	return n
}

// Forward runs inputs through every layer, storing each neuron's output,
// and returns a copy of the output layer's values.
func (net *Network) Forward(inputs []float64) ([]float64, error) {
	if len(inputs) != net.inputWidth {
		return nil, &ShapeMismatchError{Op: "forward", Field: "inputs", Want: net.inputWidth, Got: len(inputs)}
	}

	current := inputs
	for i := range net.layers {
		layer := &net.layers[i]
		outputs := make([]float64, len(layer.Neurons))
		n := len(current)
		for j := range layer.Neurons {
			neuron := &layer.Neurons[j]
			activation := floats.Dot(neuron.Weights[:n], current) + neuron.Weights[n]
			neuron.Output = Sigmoid(activation)
			outputs[j] = neuron.Output
		}
		current = outputs
	}
	return current, nil
}

// Backward computes every neuron's delta for the expected outputs. It must
// follow a Forward pass on the same sample.
func (net *Network) Backward(expected []float64) error {
	if want := net.OutputWidth(); len(expected) != want {
		return &ShapeMismatchError{Op: "backward", Field: "targets", Want: want, Got: len(expected)}
	}

	var nextDeltas []float64
	for i := net.lastIndex(); i >= 0; i-- {
		layer := &net.layers[i]
		var errs []float64
		if i == net.lastIndex() {
			errs = make([]float64, len(layer.Neurons))
			for j, neuron := range layer.Neurons {
				errs[j] = neuron.Output - expected[j]
			}
		} else {
			errs = backError(net.layers[i+1].weights, nextDeltas)
		}

		deltas := make([]float64, len(layer.Neurons))
		for j := range layer.Neurons {
			neuron := &layer.Neurons[j]
			neuron.Delta = errs[j] * TransferDerivative(neuron.Output)
			deltas[j] = neuron.Delta
		}
		nextDeltas = deltas
	}
	return nil
}

// UpdateWeights applies one gradient descent step using the deltas from the
// last Backward and the inputs of the matching Forward. Calling it out of
// that order silently uses stale state.
func (net *Network) UpdateWeights(inputs []float64, learningRate float64) {
	layerInputs := inputs
	for i := range net.layers {
		layer := &net.layers[i]
		if i > 0 {
			prev := net.layers[i-1].Neurons
			layerInputs = make([]float64, len(prev))
			for k, neuron := range prev {
				layerInputs[k] = neuron.Output
			}
		}
		n := len(layerInputs)
		for j := range layer.Neurons {
			neuron := &layer.Neurons[j]
			step := learningRate * neuron.Delta
			floats.AddScaled(neuron.Weights[:n], -step, layerInputs)
			neuron.Weights[n] -= step
		}
	}
}

// Predict is Forward without any training side effects beyond neuron outputs.
func (net *Network) Predict(inputs []float64) ([]float64, error) {
	return net.Forward(inputs)
}
