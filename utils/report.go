package utils

import (
	"fmt"
	"io"
	"os"
	"time"

	"backprop/m"
)

// Verbose controls whether progress and statistics are printed.
// Set to false to suppress output.
var Verbose = true

// Output is the writer where progress and statistics are printed.
// Defaults to os.Stdout.
var Output io.Writer = os.Stdout

// TrainingStats holds timing and error information for one training run
type TrainingStats struct {
	TotalTime       time.Duration
	DataLoadingTime time.Duration
	ModelInitTime   time.Duration
	TrainingTime    time.Duration

	Samples    int
	Epochs     int
	MaxEpochs  int
	FirstError float64
	FinalError float64
}

// Converged reports whether training stopped before exhausting its epochs.
func (s *TrainingStats) Converged() bool {
	return s.Epochs < s.MaxEpochs
}

// EpochLogger returns an epoch hook that records errors into stats and, when
// Verbose, prints progress every `every` epochs.
func EpochLogger(every int, stats *TrainingStats) m.EpochFunc {
	if every <= 0 {
		every = 1
	}
	return func(epoch int, sumSquaredError float64) {
		if epoch == 1 {
			stats.FirstError = sumSquaredError
		}
		stats.FinalError = sumSquaredError
		stats.Epochs = epoch
		if Verbose && (epoch == 1 || epoch%every == 0) {
			fmt.Fprintf(Output, "Epoch %d of %d | error %.6f\n", epoch, stats.MaxEpochs, sumSquaredError)
		}
	}
}

// PrintTrainingStats prints a training summary.
// Respects the Verbose flag - does nothing if Verbose is false.
func PrintTrainingStats(stats *TrainingStats) {
	if !Verbose {
		return
	}
	fmt.Fprintln(Output, "\n=== TRAINING STATISTICS ===")
	if stats.Converged() {
		fmt.Fprintf(Output, "Converged after %d of %d epochs\n", stats.Epochs, stats.MaxEpochs)
	} else {
		fmt.Fprintf(Output, "Did not converge within %d epochs\n", stats.MaxEpochs)
	}
	fmt.Fprintf(Output, "Error: first epoch %.6f, last epoch %.6f\n", stats.FirstError, stats.FinalError)
	fmt.Fprintf(Output, "Total time: %v\n", stats.TotalTime)
	fmt.Fprintf(Output, "  Data loading: %v\n", stats.DataLoadingTime)
	fmt.Fprintf(Output, "  Model initialization: %v\n", stats.ModelInitTime)
	fmt.Fprintf(Output, "  Training: %v\n", stats.TrainingTime)
	if steps := stats.Samples * stats.Epochs; steps > 0 {
		fmt.Fprintf(Output, "Average time per sample: %.2fµs\n", DurationUS(stats.TrainingTime)/float64(steps))
	}
}

// DurationUS converts any time.Duration to micro-seconds as float64
func DurationUS(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1_000.0
}
