// csvheaders prepends a "letter,a0,...,aN" header row to a label-first csv.
//
// Usage:
//
//	csvheaders -in A_ZHandwrittenData.csv -out HeaderToData.csv -n 784
package main

import (
	"flag"
	"fmt"
	"os"

	"backprop/data"
)

var (
	inputFile  = flag.String("in", "A_ZHandwrittenData.csv", "Input csv without headers")
	outputFile = flag.String("out", "HeaderToData.csv", "Output csv")
	columns    = flag.Int("n", 784, "Number of pixel columns after the label")
)

func main() {
	flag.Parse()

	if err := data.AddHeadersFile(*inputFile, *outputFile, *columns); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Headers successfully added to", *outputFile)
}
