package data

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backprop/m"
)

func seedDB(t *testing.T, rows [][]float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "samples.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE samples (
		"id" INTEGER PRIMARY KEY AUTOINCREMENT,
		"x0" REAL NOT NULL,
		"x1" INTEGER NOT NULL,
		"y" REAL NOT NULL
	);`)
	require.NoError(t, err)
	for _, r := range rows {
		_, err := db.Exec(`INSERT INTO samples(x0, x1, y) VALUES (?, ?, ?)`, r[0], int(r[1]), r[2])
		require.NoError(t, err)
	}
	return path
}

func sortRows(rows [][]float64) {
	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
}

func TestSample(t *testing.T) {
	path := seedDB(t, [][]float64{
		{0.5, 2, 1},
		{1.5, 4, 0},
		{1.0, 3, 1},
	})

	rows, fit, err := Sample(context.Background(), SQLSource{
		Path:    path,
		Table:   "samples",
		Columns: []string{"x0", "x1", "y"},
	})
	require.NoError(t, err)
	assert.Nil(t, fit)
	sortRows(rows)
	assert.Equal(t, [][]float64{{0.5, 2, 1}, {1.0, 3, 1}, {1.5, 4, 0}}, rows)
}

func TestSampleLimitAndNormalize(t *testing.T) {
	path := seedDB(t, [][]float64{
		{0, 0, 0},
		{2, 10, 1},
		{1, 5, 1},
		{4, 20, 0},
	})

	rows, _, err := Sample(context.Background(), SQLSource{
		Path:    path,
		Table:   "samples",
		Columns: []string{"x0", "x1", "y"},
		Limit:   2,
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, fit, err := Sample(context.Background(), SQLSource{
		Path:      path,
		Table:     "samples",
		Columns:   []string{"x0", "x1", "y"},
		Normalize: true,
	})
	require.NoError(t, err)
	sortRows(rows)
	want := [][]float64{{0, 0, 0}, {0.25, 0.25, 1}, {0.5, 0.5, 1}, {1, 1, 0}}
	for i := range want {
		assert.InDeltaSlice(t, want[i], rows[i], 1e-12)
	}

	// rows read later are rescaled with the training fit
	require.NotNil(t, fit)
	held, err := fit.Apply([][]float64{{2, 20, 1}})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 1, 1}, held[0], 1e-12)
}

func TestSampleErrors(t *testing.T) {
	path := seedDB(t, nil)
	ctx := context.Background()
	var empty *m.EmptyInputError

	_, _, err := Sample(ctx, SQLSource{Path: path, Table: "samples", Columns: []string{"x0", "y"}})
	assert.True(t, errors.As(err, &empty), "got %v", err)

	_, _, err = Sample(ctx, SQLSource{Path: path, Columns: []string{"x0"}})
	assert.True(t, errors.As(err, &empty), "got %v", err)

	_, _, err = Sample(ctx, SQLSource{Path: path, Table: "samples"})
	assert.True(t, errors.As(err, &empty), "got %v", err)

	_, _, err = Sample(ctx, SQLSource{Path: path, Table: "missing", Columns: []string{"x0"}})
	assert.Error(t, err)
}
