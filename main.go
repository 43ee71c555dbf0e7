package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"backprop/data"
	"backprop/m"
	"backprop/utils"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("usage: backprop train <name> [flags] | backprop headers <in> <out> [-n 784]")
		os.Exit(1)
	}
	subCommand := os.Args[1]

	switch subCommand {
	case "train":
		networkName := os.Args[2]

		// parse training flags
		trainFlags := flag.NewFlagSet("train", flag.ContinueOnError)
		flagSource := trainFlags.String("source", "csv", "source is where rows come from: csv, classified, sqlite or sequence")
		flagData := trainFlags.String("data", "", "data is the csv file or sqlite database to read")
		flagHeader := trainFlags.Bool("header", false, "header skips the first csv line")
		flagTable := trainFlags.String("table", "", "table to sample when source is sqlite")
		flagColumns := trainFlags.String("columns", "", "comma-separated columns to sample, features first")
		flagLimit := trainFlags.Int("limit", 0, "limit caps the number of sampled sqlite rows (0 = all)")
		flagLayers := trainFlags.String("layers", "2,2,1", "layers is the layer spec, input width first")
		flagOutputs := trainFlags.Int("outputs", 1, "outputs is the number of trailing target columns")
		flagRate := trainFlags.Float64("rate", 0.5, "rate is the learning rate")
		flagEpochs := trainFlags.Int("epochs", 10000, "maximum number of epochs")
		flagThreshold := trainFlags.Float64("threshold", 0.05, "stop once an epoch's summed squared error drops below this")
		flagSeed := trainFlags.Int64("seed", time.Now().UTC().UnixNano(), "seed for weight initialization")
		flagScaling := trainFlags.String("scaling", "fanin", "weight scaling: fanin or fanavg")
		flagTest := trainFlags.String("test", "", "test is a csv file evaluated after training")
		flagQuery := trainFlags.String("query", "", "semicolon-separated input vectors to predict after training")
		flagEvery := trainFlags.Int("every", 1000, "print progress every n epochs")
		flagQuiet := trainFlags.Bool("quiet", false, "suppress progress output")

		err := trainFlags.Parse(os.Args[3:])
		if err != nil {
			fmt.Printf("parsing train flags: %s\n", err.Error())
			os.Exit(1)
		}
		utils.Verbose = !*flagQuiet

		arch, err := utils.ParseArchitecture(*flagLayers)
		if err != nil {
			fmt.Printf("parsing layers: %s\n", err.Error())
			os.Exit(1)
		}
		config := utils.Config{
			Architecture:   arch,
			LearningRate:   *flagRate,
			MaxEpochs:      *flagEpochs,
			ErrorThreshold: *flagThreshold,
			OutputCount:    *flagOutputs,
			Seed:           *flagSeed,
			Scaling:        *flagScaling,
		}
		if err := utils.ValidateConfig(&config); err != nil {
			fmt.Printf("invalid configuration: %s\n", err.Error())
			os.Exit(1)
		}

		src := source{
			kind:    *flagSource,
			path:    *flagData,
			header:  *flagHeader,
			table:   *flagTable,
			columns: *flagColumns,
			limit:   *flagLimit,
		}
		if err := train(networkName, config, src, *flagTest, *flagQuery, *flagEvery); err != nil {
			fmt.Printf("training %s: %s\n", networkName, err.Error())
			os.Exit(1)
		}

	case "headers":
		if err := addHeaders(os.Args[2:]); err != nil {
			fmt.Printf("adding headers: %s\n", err.Error())
			os.Exit(1)
		}

	default:
		fmt.Printf("unknown command %q\n", subCommand)
		os.Exit(1)
	}
}

type source struct {
	kind    string
	path    string
	header  bool
	table   string
	columns string
	limit   int
}

// addHeaders runs the headers subcommand on args of the form
// <in> <out> [-n columns].
func addHeaders(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: backprop headers <in> <out> [-n 784]")
	}
	headerFlags := flag.NewFlagSet("headers", flag.ContinueOnError)
	flagColumns := headerFlags.Int("n", 784, "number of pixel columns after the label")
	if err := headerFlags.Parse(args[2:]); err != nil {
		return fmt.Errorf("parsing headers flags: %w", err)
	}

	if err := data.AddHeadersFile(args[0], args[1], *flagColumns); err != nil {
		return err
	}
	fmt.Println("Headers successfully added to", args[1])
	return nil
}

// load reads the training rows. For sources that rescale their rows it also
// returns the fit, so test rows can be put on the same scale.
func (s source) load(config utils.Config) ([][]float64, *data.MinMax, error) {
	inputNum := config.Architecture[0]
	switch s.kind {
	case "csv":
		rows, err := data.GetRowsFile(s.path, inputNum+config.OutputCount, s.header)
		return rows, nil, err
	case "classified":
		rows, err := data.GetRowsClassifiedFile(s.path, inputNum, config.OutputCount, s.header)
		return rows, nil, err
	case "sqlite":
		var columns []string
		for _, c := range strings.Split(s.columns, ",") {
			if c = strings.TrimSpace(c); c != "" {
				columns = append(columns, c)
			}
		}
		return data.Sample(context.Background(), data.SQLSource{
			Path:      s.path,
			Table:     s.table,
			Columns:   columns,
			Limit:     s.limit,
			Normalize: true,
		})
	case "sequence":
		rows, err := data.Windows(data.SineSequence(200, 0.2), inputNum, config.OutputCount)
		return rows, nil, err
	}
	return nil, nil, fmt.Errorf("unknown source %q", s.kind)
}

func train(name string, config utils.Config, src source, testFile, query string, every int) error {
	stats := &utils.TrainingStats{MaxEpochs: config.MaxEpochs}
	totalStart := time.Now()

	start := time.Now()
	rows, fit, err := src.load(config)
	if err != nil {
		return fmt.Errorf("loading rows: %w", err)
	}
	stats.DataLoadingTime = time.Since(start)
	stats.Samples = len(rows)
	fmt.Printf("Read %d rows...\n", len(rows))

	start = time.Now()
	netConfig, err := config.NetworkConfig()
	if err != nil {
		return err
	}
	network, err := m.NewNetwork(netConfig)
	if err != nil {
		return err
	}
	stats.ModelInitTime = time.Since(start)

	fmt.Printf("Started training %s %v...\n", name, network.LayerSizes())
	start = time.Now()
	epochs, err := network.Train(rows, config.TrainConfig(utils.EpochLogger(every, stats)))
	if err != nil {
		return err
	}
	stats.Epochs = epochs
	stats.TrainingTime = time.Since(start)
	stats.TotalTime = time.Since(totalStart)
	utils.PrintTrainingStats(stats)

	if testFile != "" {
		if err := analyze(network, config, src, fit, testFile); err != nil {
			return fmt.Errorf("doing analysis of network: %w", err)
		}
	}

	if query != "" {
		for _, q := range strings.Split(query, ";") {
			inputs, err := utils.ParseFloats(q)
			if err != nil {
				return fmt.Errorf("parsing query %q: %w", q, err)
			}
			prediction, err := network.Predict(inputs)
			if err != nil {
				return fmt.Errorf("predicting %v: %w", inputs, err)
			}
			fmt.Printf("Prediction %v -> %.4f\n", inputs, prediction)
		}
	}
	fmt.Println("Training complete")
	return nil
}

// loadTestRows reads testFile as csv, or as labelled rows when training used
// them, and rescales it with the training fit when there is one.
func loadTestRows(config utils.Config, src source, fit *data.MinMax, testFile string) ([][]float64, error) {
	testSrc := src
	testSrc.path = testFile
	if testSrc.kind != "classified" {
		testSrc.kind = "csv"
	}
	rows, _, err := testSrc.load(config)
	if err != nil {
		return nil, err
	}
	if fit == nil {
		return rows, nil
	}
	return fit.Apply(rows)
}

// analyze tests the network against rows read from testFile on the same
// scale as the training rows.
func analyze(network *m.Network, config utils.Config, src source, fit *data.MinMax, testFile string) error {
	rows, err := loadTestRows(config, src, fit, testFile)
	if err != nil {
		return fmt.Errorf("getting rows: %w", err)
	}
	eval, err := network.Evaluate(rows, config.OutputCount)
	if err != nil {
		return err
	}
	fmt.Printf("Test error %.6f (mean %.6f over %d rows)\n",
		eval.SumSquaredError, eval.MeanSquaredError(len(rows)), len(rows))
	if eval.Total > 0 {
		fmt.Printf("Accuracy %.2f%%\n", eval.Accuracy())
	}
	return nil
}
