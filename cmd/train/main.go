// backprop-train: standalone trainer on synthetic data
//
// Usage:
//
//	backprop-train --model=xor --epochs=10000 --lr=0.5 --threshold=0.05
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/exp/rand"

	"backprop/data"
	"backprop/m"
	"backprop/utils"
)

var (
	modelType    = flag.String("model", "xor", "Model type: xor, sine")
	epochs       = flag.Int("epochs", 10000, "Maximum number of training epochs")
	learningRate = flag.Float64("lr", 0.5, "Learning rate")
	threshold    = flag.Float64("threshold", 0.05, "Summed squared error that stops training")
	hidden       = flag.Int("hidden", 2, "Neurons in the hidden layer")
	window       = flag.Int("window", 4, "Input window for the sine model")
	verbose      = flag.Bool("verbose", true, "Verbose output")
	seed         = flag.Int64("seed", 42, "Random seed")
)

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                    backprop Trainer                          ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Printf("\nConfiguration:\n")
	fmt.Printf("  Model:         %s\n", *modelType)
	fmt.Printf("  Epochs:        %d\n", *epochs)
	fmt.Printf("  Learning Rate: %.4f\n", *learningRate)
	fmt.Printf("  Threshold:     %.4f\n", *threshold)
	fmt.Printf("  Seed:          %d\n", *seed)
	fmt.Println()

	stats := &utils.TrainingStats{MaxEpochs: *epochs}
	totalStart := time.Now()

	start := time.Now()
	inputNum, rows, err := generateData(*modelType)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating data: %v\n", err)
		os.Exit(1)
	}
	stats.DataLoadingTime = time.Since(start)
	stats.Samples = len(rows)
	fmt.Printf("Generated %d samples\n", len(rows))

	start = time.Now()
	network, err := m.NewNetwork(m.Config{
		Layers: []int{inputNum, *hidden, 1},
		Src:    rand.NewSource(uint64(*seed)),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building network: %v\n", err)
		os.Exit(1)
	}
	stats.ModelInitTime = time.Since(start)
	fmt.Printf("Model: %v\n", network.LayerSizes())

	fmt.Println("\nStarting training...")
	start = time.Now()
	n, err := network.Train(rows, m.TrainConfig{
		OutputCount:    1,
		LearningRate:   *learningRate,
		MaxEpochs:      *epochs,
		ErrorThreshold: *threshold,
		OnEpoch:        utils.EpochLogger(*epochs/10, stats),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error training: %v\n", err)
		os.Exit(1)
	}
	stats.Epochs = n
	stats.TrainingTime = time.Since(start)
	stats.TotalTime = time.Since(totalStart)
	utils.PrintTrainingStats(stats)

	fmt.Println("\nPredictions:")
	for _, row := range rows {
		out, err := network.Predict(row[:inputNum])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error predicting: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  %v -> %.4f (want %.4f)\n", row[:inputNum], out[0], row[inputNum])
	}
}

func generateData(model string) (int, [][]float64, error) {
	switch model {
	case "xor":
		return 2, [][]float64{
			{0, 0, 0},
			{0, 1, 1},
			{1, 0, 1},
			{1, 1, 0},
		}, nil
	case "sine":
		rows, err := data.Windows(data.SineSequence(60, 0.3), *window, 1)
		return *window, rows, err
	}
	return 0, nil, fmt.Errorf("unknown model %q", model)
}
