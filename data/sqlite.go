package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/glebarez/sqlite" // Pure Go SQLite driver
	"github.com/pkg/errors"

	"backprop/m"
)

// SQLSource names the table and numeric columns to sample from a SQLite file.
// Columns are ordered features first, then targets.
type SQLSource struct {
	Path    string
	Table   string
	Columns []string
	// Limit caps the number of sampled rows. 0 samples every row.
	Limit int
	// Normalize rescales every column into [0, 1] after sampling. Sample
	// then also returns the fit so later rows can be rescaled the same way.
	Normalize bool
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (s SQLSource) query() string {
	cols := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = quoteIdent(c)
	}
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY RANDOM()", strings.Join(cols, ", "), quoteIdent(s.Table))
	if s.Limit > 0 {
		q += " LIMIT ?"
	}
	return q
}

// Sample opens the database, draws rows in random order and closes it again.
// The connection never outlives the call. The returned fit is nil unless
// s.Normalize is set.
func Sample(ctx context.Context, s SQLSource) ([][]float64, *MinMax, error) {
	if s.Table == "" {
		return nil, nil, &m.EmptyInputError{What: "table name"}
	}
	if len(s.Columns) == 0 {
		return nil, nil, &m.EmptyInputError{What: "column list"}
	}

	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening database")
	}
	defer db.Close()

	var args []any
	if s.Limit > 0 {
		args = append(args, s.Limit)
	}
	rs, err := db.QueryContext(ctx, s.query(), args...)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "sampling %s", s.Table)
	}
	defer rs.Close()

	var rows [][]float64
	for rs.Next() {
		row := make([]float64, len(s.Columns))
		dest := make([]any, len(row))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rs.Scan(dest...); err != nil {
			return nil, nil, errors.Wrapf(err, "scanning row %d", len(rows)+1)
		}
		rows = append(rows, row)
	}
	if err := rs.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "iterating rows")
	}

	if len(rows) == 0 {
		return nil, nil, &m.EmptyInputError{What: "table " + s.Table}
	}
	if !s.Normalize {
		return rows, nil, nil
	}
	fit := FitMinMax(rows)
	return fit.apply(rows), fit, nil
}
