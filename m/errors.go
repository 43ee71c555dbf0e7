package m

import "fmt"

// InvalidSpecError is returned when a layer specification cannot describe a network.
type InvalidSpecError struct {
	Layers []int
	Reason string
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("invalid layer spec %v: %s", e.Layers, e.Reason)
}

// ShapeMismatchError reports a vector whose length disagrees with the network's widths.
type ShapeMismatchError struct {
	Op    string
	Field string
	Want  int
	Got   int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %d %s, got %d", e.Op, e.Want, e.Field, e.Got)
}

// EmptyInputError marks a mandatory string or collection that was empty.
// The core never produces it; data loaders and config parsing do.
type EmptyInputError struct {
	What string
}

func (e *EmptyInputError) Error() string {
	return "empty input: " + e.What
}
