package m

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func seeded(seed uint64) rand.Source {
	return rand.NewSource(seed)
}

func TestNewNetworkShapes(t *testing.T) {
	specs := [][]int{
		{2, 1},
		{2, 2, 1},
		{3, 5, 4, 2},
		{784, 30, 10},
	}
	for _, spec := range specs {
		net, err := NewNetwork(Config{Layers: spec, Src: seeded(1)})
		require.NoError(t, err, "spec %v", spec)

		assert.Equal(t, spec, net.LayerSizes())
		assert.Equal(t, len(spec)-1, net.NumLayers())
		assert.Equal(t, spec[0], net.InputWidth())
		assert.Equal(t, spec[len(spec)-1], net.OutputWidth())
		for l := 0; l < net.NumLayers(); l++ {
			for j := 0; j < spec[l+1]; j++ {
				if got := len(net.Neuron(l, j).Weights); got != spec[l]+1 {
					t.Errorf("spec %v layer %d neuron %d: %d weights, want %d", spec, l, j, got, spec[l]+1)
				}
			}
		}
	}
}

func TestNewNetworkInvalidSpec(t *testing.T) {
	for _, spec := range [][]int{nil, {}, {3}, {2, 0, 1}, {2, -1}, {0, 1}} {
		net, err := NewNetwork(Config{Layers: spec})
		assert.Nil(t, net)
		var specErr *InvalidSpecError
		if !errors.As(err, &specErr) {
			t.Errorf("spec %v: got %v, want InvalidSpecError", spec, err)
		}
	}
}

func TestNewNetworkWeightBounds(t *testing.T) {
	spec := []int{8, 4, 2}
	for _, scaling := range []Scaling{FanIn, FanAvg} {
		net, err := NewNetwork(Config{Layers: spec, Scaling: scaling, Src: seeded(7)})
		require.NoError(t, err)
		for l := 0; l < net.NumLayers(); l++ {
			bound := scaling.factor(spec[l], spec[l+1])
			for j := 0; j < spec[l+1]; j++ {
				for _, w := range net.Neuron(l, j).Weights {
					if math.Abs(w) > bound {
						t.Errorf("%s layer %d: weight %f outside ±%f", scaling, l, w, bound)
					}
				}
			}
		}
	}
	assert.InDelta(t, math.Sqrt(2.0/8), FanIn.factor(8, 4), 1e-12)
	assert.InDelta(t, math.Sqrt(2.0/12), FanAvg.factor(8, 4), 1e-12)
}

func TestRandomArraySeeded(t *testing.T) {
	a := randomArray(seeded(42), 64, 0.5)
	b := randomArray(seeded(42), 64, 0.5)
	require.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, randomArray(seeded(43), 64, 0.5))

	var neg, pos int
	for _, v := range a {
		require.True(t, v >= -0.5 && v < 0.5, "value %f outside [-0.5, 0.5)", v)
		if v < 0 {
			neg++
		} else {
			pos++
		}
	}
	assert.NotZero(t, neg)
	assert.NotZero(t, pos)
}

func TestNewNetworkReproducible(t *testing.T) {
	a, err := NewNetwork(Config{Layers: []int{3, 4, 2}, Src: seeded(42)})
	require.NoError(t, err)
	b, err := NewNetwork(Config{Layers: []int{3, 4, 2}, Src: seeded(42)})
	require.NoError(t, err)
	for l := 0; l < a.NumLayers(); l++ {
		for j := range a.layers[l].Neurons {
			assert.Equal(t, a.Neuron(l, j).Weights, b.Neuron(l, j).Weights)
		}
	}
}

func TestNeuronReturnsCopy(t *testing.T) {
	net, err := NewNetwork(Config{Layers: []int{2, 1}, Src: seeded(1)})
	require.NoError(t, err)
	n := net.Neuron(0, 0)
	n.Weights[0] = 100
	assert.NotEqual(t, 100.0, net.Neuron(0, 0).Weights[0])
}

// fixedNetwork builds a 1-1-1 network with known weights.
func fixedNetwork(t *testing.T) *Network {
	t.Helper()
	net, err := NewNetwork(Config{Layers: []int{1, 1, 1}, Src: seeded(1)})
	require.NoError(t, err)
	copy(net.layers[0].Neurons[0].Weights, []float64{0.5, 0.1})
	copy(net.layers[1].Neurons[0].Weights, []float64{-0.3, 0.2})
	return net
}

func TestForwardKnownWeights(t *testing.T) {
	net := fixedNetwork(t)
	out, err := net.Forward([]float64{1})
	require.NoError(t, err)

	hidden := Sigmoid(0.5*1 + 0.1)
	want := Sigmoid(-0.3*hidden + 0.2)
	require.Len(t, out, 1)
	assert.InDelta(t, want, out[0], 1e-12)
	assert.InDelta(t, hidden, net.layers[0].Neurons[0].Output, 1e-12)
	assert.InDelta(t, want, net.layers[1].Neurons[0].Output, 1e-12)
}

func TestForwardShapeMismatch(t *testing.T) {
	net, err := NewNetwork(Config{Layers: []int{3, 2, 1}, Src: seeded(1)})
	require.NoError(t, err)

	_, err = net.Predict([]float64{0, 1})
	var shapeErr *ShapeMismatchError
	require.True(t, errors.As(err, &shapeErr), "got %v", err)
	assert.Equal(t, 3, shapeErr.Want)
	assert.Equal(t, 2, shapeErr.Got)
}

func TestBackwardShapeMismatch(t *testing.T) {
	net, err := NewNetwork(Config{Layers: []int{2, 2, 1}, Src: seeded(1)})
	require.NoError(t, err)
	_, err = net.Forward([]float64{0, 1})
	require.NoError(t, err)

	var shapeErr *ShapeMismatchError
	assert.True(t, errors.As(net.Backward([]float64{1, 0}), &shapeErr))
}

func TestBackwardAndUpdateKnownWeights(t *testing.T) {
	net := fixedNetwork(t)
	inputs, expected := []float64{1}, []float64{1}
	_, err := net.Forward(inputs)
	require.NoError(t, err)
	require.NoError(t, net.Backward(expected))

	h := net.layers[0].Neurons[0].Output
	o := net.layers[1].Neurons[0].Output
	deltaOut := (o - 1) * o * (1 - o)
	deltaHidden := (-0.3 * deltaOut) * h * (1 - h)
	assert.InDelta(t, deltaOut, net.layers[1].Neurons[0].Delta, 1e-12)
	assert.InDelta(t, deltaHidden, net.layers[0].Neurons[0].Delta, 1e-12)

	const lr = 0.5
	net.UpdateWeights(inputs, lr)
	assert.InDelta(t, 0.5-lr*deltaHidden*1, net.layers[0].Neurons[0].Weights[0], 1e-12)
	assert.InDelta(t, 0.1-lr*deltaHidden, net.layers[0].Neurons[0].Weights[1], 1e-12)
	assert.InDelta(t, -0.3-lr*deltaOut*h, net.layers[1].Neurons[0].Weights[0], 1e-12)
	assert.InDelta(t, 0.2-lr*deltaOut, net.layers[1].Neurons[0].Weights[1], 1e-12)
}

// halfSquaredError is the loss whose gradient Backward computes.
func halfSquaredError(t *testing.T, net *Network, inputs, expected []float64) float64 {
	out, err := net.Forward(inputs)
	require.NoError(t, err)
	var sum float64
	for i := range out {
		d := out[i] - expected[i]
		sum += d * d
	}
	return sum / 2
}

func TestBackwardMatchesNumericalGradient(t *testing.T) {
	net, err := NewNetwork(Config{Layers: []int{2, 3, 2}, Src: seeded(3)})
	require.NoError(t, err)
	inputs := []float64{0.3, -0.7}
	expected := []float64{0.9, 0.1}

	_, err = net.Forward(inputs)
	require.NoError(t, err)
	require.NoError(t, net.Backward(expected))

	analytic := make([][][]float64, net.NumLayers())
	for l := range net.layers {
		layerInputs := inputs
		if l > 0 {
			layerInputs = nil
			for _, n := range net.layers[l-1].Neurons {
				layerInputs = append(layerInputs, n.Output)
			}
		}
		for _, n := range net.layers[l].Neurons {
			grad := make([]float64, len(n.Weights))
			for k := range layerInputs {
				grad[k] = n.Delta * layerInputs[k]
			}
			grad[len(grad)-1] = n.Delta
			analytic[l] = append(analytic[l], grad)
		}
	}

	const h = 1e-6
	for l := range net.layers {
		for j := range net.layers[l].Neurons {
			w := net.layers[l].Neurons[j].Weights
			for k := range w {
				orig := w[k]
				w[k] = orig + h
				plus := halfSquaredError(t, net, inputs, expected)
				w[k] = orig - h
				minus := halfSquaredError(t, net, inputs, expected)
				w[k] = orig

				numeric := (plus - minus) / (2 * h)
				if math.Abs(numeric-analytic[l][j][k]) > 1e-7 {
					t.Errorf("layer %d neuron %d weight %d: analytic %g, numeric %g", l, j, k, analytic[l][j][k], numeric)
				}
			}
		}
	}
}

func TestPredictDeterministic(t *testing.T) {
	net, err := NewNetwork(Config{Layers: []int{3, 4, 2}, Src: seeded(9)})
	require.NoError(t, err)
	in := []float64{0.2, 0.4, 0.6}
	first, err := net.Predict(in)
	require.NoError(t, err)
	second, err := net.Predict(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	first[0] = 42
	third, err := net.Predict(in)
	require.NoError(t, err)
	assert.Equal(t, second, third)
}
