package data

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"backprop/m"
)

// GetRows reads comma separated numeric rows. Every row must hold width
// values; width 0 takes the width of the first row. With header set the
// first record is skipped.
func GetRows(reader io.Reader, width int, header bool) ([][]float64, error) {
	r := csv.NewReader(bufio.NewReader(reader))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]float64
	var lineNum int
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		lineNum++
		if err != nil {
			return nil, errors.Wrapf(err, "reading line %d", lineNum)
		}
		if header && lineNum == 1 {
			continue
		}
		if width == 0 {
			width = len(record)
		}
		if len(record) != width {
			return nil, errInvalidLine{
				lineNum:  lineNum,
				splits:   len(record),
				expected: width,
			}
		}

		row := make([]float64, width)
		for i, field := range record {
			num, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing value %d on line %d", i, lineNum)
			}
			row[i] = num
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, &m.EmptyInputError{What: "dataset"}
	}
	return rows, nil
}

// GetRowsFile is GetRows over the file at filename.
func GetRowsFile(filename string, width int, header bool) ([][]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening dataset")
	}
	defer file.Close()

	rows, err := GetRows(file, width, header)
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}
	return rows, nil
}

// GetRowsClassified reads rows whose first column is a class label followed
// by inputNum pixel intensities in [0, 255]. Labels are either integers or
// the letters A-Z. Pixels are scaled into [0.01, 1.0] and the class is
// appended as a one-hot target of 0.01/0.99 values.
func GetRowsClassified(reader io.Reader, inputNum, classes int, header bool) ([][]float64, error) {
	r := csv.NewReader(bufio.NewReader(reader))
	r.FieldsPerRecord = -1

	var rows [][]float64
	var lineNum int
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		lineNum++
		if err != nil {
			return nil, errors.Wrapf(err, "reading line %d", lineNum)
		}
		if header && lineNum == 1 {
			continue
		}
		if len(record) != inputNum+1 {
			return nil, errInvalidLine{
				lineNum:  lineNum,
				splits:   len(record),
				expected: inputNum + 1,
			}
		}

		class, err := parseClass(record[0])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNum)
		}
		if class < 0 || class >= classes {
			return nil, fmt.Errorf("line %d: class %d outside [0, %d)", lineNum, class, classes)
		}

		row := make([]float64, inputNum+classes)
		for i := 0; i < inputNum; i++ {
			x, err := strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing pixel %d on line %d", i, lineNum)
			}
			row[i] = (x / 255.0 * 0.99) + 0.01
		}
		for i := 0; i < classes; i++ {
			row[inputNum+i] = 0.01
		}
		row[inputNum+class] = 0.99
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, &m.EmptyInputError{What: "dataset"}
	}
	return rows, nil
}

// GetRowsClassifiedFile is GetRowsClassified over the file at filename.
func GetRowsClassifiedFile(filename string, inputNum, classes int, header bool) ([][]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening dataset")
	}
	defer file.Close()

	rows, err := GetRowsClassified(file, inputNum, classes, header)
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}
	return rows, nil
}

func parseClass(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &m.EmptyInputError{What: "class label"}
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	if len(s) == 1 {
		c := strings.ToUpper(s)[0]
		if c >= 'A' && c <= 'Z' {
			return int(c - 'A'), nil
		}
	}
	return 0, fmt.Errorf("unrecognised class label %q", s)
}

type errInvalidLine struct {
	lineNum  int
	splits   int
	expected int
}

func (e errInvalidLine) Error() string {
	return fmt.Sprintf("at line %d, expected %d values, got %d",
		e.lineNum, e.expected, e.splits)
}
