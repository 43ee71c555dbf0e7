package data

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// generateHeaders builds "letter,a0,...,a{n-1}".
func generateHeaders(n int) string {
	columns := make([]string, n)
	for i := range columns {
		columns[i] = fmt.Sprintf("a%d", i)
	}
	return "letter," + strings.Join(columns, ",")
}

// AddHeaders writes a header row for a label column plus n pixel columns and
// then copies every line of r.
func AddHeaders(r io.Reader, w io.Writer, n int) error {
	out := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(out, generateHeaders(n)); err != nil {
		return errors.Wrap(err, "writing headers")
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if _, err := fmt.Fprintln(out, scanner.Text()); err != nil {
			return errors.Wrap(err, "copying line")
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "reading input")
	}
	return out.Flush()
}

// AddHeadersFile is AddHeaders from inputFile into a newly created outputFile.
func AddHeadersFile(inputFile, outputFile string, n int) error {
	in, err := os.Open(inputFile)
	if err != nil {
		return errors.Wrap(err, "opening input")
	}
	defer in.Close()

	out, err := os.Create(outputFile)
	if err != nil {
		return errors.Wrap(err, "creating output")
	}
	if err := AddHeaders(in, out, n); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
