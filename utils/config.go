package utils

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/rand"

	"backprop/m"
)

// Config holds training configuration
type Config struct {
	Architecture   []int
	LearningRate   float64
	MaxEpochs      int
	ErrorThreshold float64
	OutputCount    int
	Seed           int64
	// Scaling is "fanin" (default) or "fanavg".
	Scaling string
}

func splitFields(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// ParseArchitecture parses a comma and/or space separated list of layer widths
func ParseArchitecture(archStr string) ([]int, error) {
	archParts := splitFields(archStr)
	if len(archParts) == 0 {
		return nil, &m.EmptyInputError{What: "architecture"}
	}
	arch := make([]int, len(archParts))
	for i, s := range archParts {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		arch[i] = n
	}
	return arch, nil
}

// ParseFloats parses a comma and/or space separated list of numbers
func ParseFloats(s string) ([]float64, error) {
	parts := splitFields(s)
	if len(parts) == 0 {
		return nil, &m.EmptyInputError{What: "values"}
	}
	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}

func parseScaling(s string) (m.Scaling, error) {
	switch s {
	case "", "fanin":
		return m.FanIn, nil
	case "fanavg":
		return m.FanAvg, nil
	}
	return 0, fmt.Errorf("unknown weight scaling %q", s)
}

// ValidateConfig validates training configuration
func ValidateConfig(config *Config) error {
	if len(config.Architecture) < 2 {
		return fmt.Errorf("architecture must have at least 2 layers (input and output): %w",
			&m.InvalidSpecError{Layers: config.Architecture, Reason: "too few layers"})
	}
	for _, n := range config.Architecture {
		if n <= 0 {
			return fmt.Errorf("architecture: %w",
				&m.InvalidSpecError{Layers: config.Architecture, Reason: "layer widths must be positive"})
		}
	}

	if config.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive")
	}

	if config.MaxEpochs <= 0 {
		return fmt.Errorf("epochs must be positive")
	}

	if config.ErrorThreshold < 0 {
		return fmt.Errorf("error threshold must not be negative")
	}

	if want := config.Architecture[len(config.Architecture)-1]; config.OutputCount != want {
		return fmt.Errorf("output count %d does not match output layer width %d", config.OutputCount, want)
	}

	if _, err := parseScaling(config.Scaling); err != nil {
		return err
	}

	return nil
}

// NetworkConfig returns the construction config, seeding the weight
// initializer from Seed.
func (c Config) NetworkConfig() (m.Config, error) {
	scaling, err := parseScaling(c.Scaling)
	if err != nil {
		return m.Config{}, err
	}
	return m.Config{
		Layers:  c.Architecture,
		Scaling: scaling,
		Src:     rand.NewSource(uint64(c.Seed)),
	}, nil
}

// TrainConfig returns the training config with onEpoch as progress hook.
func (c Config) TrainConfig(onEpoch m.EpochFunc) m.TrainConfig {
	return m.TrainConfig{
		OutputCount:    c.OutputCount,
		LearningRate:   c.LearningRate,
		MaxEpochs:      c.MaxEpochs,
		ErrorThreshold: c.ErrorThreshold,
		OnEpoch:        onEpoch,
	}
}
