// Package forecast provides the two ForecastProvider implementations:
// precomputed model output from a CSV for backtests, and an HTTP forecast
// service for live runs. Model training itself is external.
package forecast

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// File serves probabilities precomputed by the external model, keyed by
// day. Lookups are by the row timestamp; a missing day is an error the
// simulator treats as "skip this row".
type File struct {
	byDay map[string]float64
}

// LoadFile reads a CSV with `date` and `probability` columns.
func LoadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("forecast.LoadFile: open %q: %w", path, err)
	}
	defer f.Close()

	byDay, err := parseFile(f)
	if err != nil {
		return nil, fmt.Errorf("forecast.LoadFile: %q: %w", path, err)
	}
	return &File{byDay: byDay}, nil
}

// Probability implements ports.ForecastProvider. The instrument is
// ignored; backtest forecasts are keyed by timestamp only.
func (f *File) Probability(_ context.Context, _ string, asOf time.Time) (float64, error) {
	p, ok := f.byDay[asOf.Format("2006-01-02")]
	if !ok {
		return 0, fmt.Errorf("forecast.Probability: no forecast for %s", asOf.Format("2006-01-02"))
	}
	return p, nil
}

// Len returns the number of loaded forecasts.
func (f *File) Len() int {
	return len(f.byDay)
}

func parseFile(r io.Reader) (map[string]float64, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	dateIdx, probIdx := -1, -1
	for i, name := range header {
		switch name {
		case "date":
			dateIdx = i
		case "probability":
			probIdx = i
		}
	}
	if dateIdx < 0 || probIdx < 0 {
		return nil, fmt.Errorf("missing required columns \"date\" and/or \"probability\" in header %v", header)
	}

	byDay := make(map[string]float64)
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

		p, err := strconv.ParseFloat(record[probIdx], 64)
		if err != nil || p < 0 || p > 1 {
			return nil, fmt.Errorf("line %d: probability %q must be in [0,1]", line, record[probIdx])
		}
		byDay[record[dateIdx]] = p
	}

	if len(byDay) == 0 {
		return nil, fmt.Errorf("no forecasts")
	}
	return byDay, nil
}
