package dataset_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/kalshibot/internal/adapters/dataset"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Success(t *testing.T) {
	path := writeTemp(t, "date,tmax,outcome\n2024-01-01,71.2,1\n2024-01-02,58.0,0\n")

	rows, err := dataset.Load(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rows[0].Timestamp)
	assert.Equal(t, 1, rows[0].Outcome)
	assert.Equal(t, 0, rows[1].Outcome, "feature columns are ignored")
}

func TestLoad_MissingColumns(t *testing.T) {
	path := writeTemp(t, "day,result\n2024-01-01,1\n")

	_, err := dataset.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
}

func TestLoad_BadOutcome(t *testing.T) {
	path := writeTemp(t, "date,outcome\n2024-01-01,2\n")

	_, err := dataset.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be 0 or 1")
}

func TestLoad_BadDate(t *testing.T) {
	path := writeTemp(t, "date,outcome\n01/02/2024,1\n")

	_, err := dataset.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unparseable date")
}

func TestLoad_HeaderOnly(t *testing.T) {
	path := writeTemp(t, "date,outcome\n")

	_, err := dataset.Load(path)
	assert.ErrorIs(t, err, dataset.ErrNoRows)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := dataset.Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
