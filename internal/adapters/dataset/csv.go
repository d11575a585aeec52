// Package dataset loads the historical outcome dataset consumed by the
// backtest simulator. Data integrity problems are fatal: the simulator
// must never run on synthetic or partial history.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/alejandrodnm/kalshibot/internal/domain"
)

// ErrNoRows is returned when the file parses but contains no data rows.
var ErrNoRows = errors.New("dataset: no data rows")

const (
	colDate    = "date"
	colOutcome = "outcome"
)

// Load reads a CSV with at least `date` and `outcome` columns. Extra
// columns (features for the external model) are ignored. Dates are
// ISO (2006-01-02) or RFC 3339; outcomes must be 0 or 1.
func Load(path string) ([]domain.DatasetRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset.Load: open %q: %w", path, err)
	}
	defer f.Close()

	rows, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("dataset.Load: %q: %w", path, err)
	}
	return rows, nil
}

func parse(r io.Reader) ([]domain.DatasetRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	dateIdx, outcomeIdx := -1, -1
	for i, name := range header {
		switch name {
		case colDate:
			dateIdx = i
		case colOutcome:
			outcomeIdx = i
		}
	}
	if dateIdx < 0 || outcomeIdx < 0 {
		return nil, fmt.Errorf("missing required columns %q and/or %q in header %v",
			colDate, colOutcome, header)
	}

	var rows []domain.DatasetRow
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		ts, err := parseDate(record[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		outcome, err := strconv.Atoi(record[outcomeIdx])
		if err != nil || (outcome != 0 && outcome != 1) {
			return nil, fmt.Errorf("line %d: outcome %q must be 0 or 1", line, record[outcomeIdx])
		}

		rows = append(rows, domain.DatasetRow{Timestamp: ts, Outcome: outcome})
	}

	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
