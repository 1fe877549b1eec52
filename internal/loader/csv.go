// Package loader reads OHLCV bar data for the demo CLI. It is a thin
// on-ramp into the simulation core, not part of it: the core only ever
// consumes []domain.Bar via a clock.Clock.
package loader

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"backtestlab/internal/domain"
)

// Dataset is a loaded CSV file's bars plus a content-addressed identity, so
// a report can name exactly which file (and which version of it) produced a
// run's results.
type Dataset struct {
	ID          string
	Symbol      string
	FilePath    string
	Fingerprint string
	Bars        []domain.Bar
}

var dateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// LoadCSV reads an OHLCV CSV file for symbol. Expected header (case
// insensitive): date,open,high,low,close,volume. Bars are returned sorted
// as they appear in the file; callers needing chronological order must
// ensure the source file is sorted, matching how clock.Historical is used.
func LoadCSV(filePath, symbol string) (Dataset, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return Dataset{}, fmt.Errorf("loader.LoadCSV: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	r := csv.NewReader(io.TeeReader(f, h))

	header, err := r.Read()
	if err != nil {
		return Dataset{}, fmt.Errorf("loader.LoadCSV: read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	idx := func(name string) (int, error) {
		i, ok := col[name]
		if !ok {
			return 0, fmt.Errorf("loader.LoadCSV: CSV missing column %q", name)
		}
		return i, nil
	}

	dateCol, err := idx("date")
	if err != nil {
		return Dataset{}, err
	}
	openCol, err := idx("open")
	if err != nil {
		return Dataset{}, err
	}
	highCol, err := idx("high")
	if err != nil {
		return Dataset{}, err
	}
	lowCol, err := idx("low")
	if err != nil {
		return Dataset{}, err
	}
	closeCol, err := idx("close")
	if err != nil {
		return Dataset{}, err
	}
	volCol, err := idx("volume")
	if err != nil {
		return Dataset{}, err
	}

	var bars []domain.Bar
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Dataset{}, fmt.Errorf("loader.LoadCSV: line %d: %w", line+1, err)
		}
		line++

		ts, err := parseDate(row[dateCol])
		if err != nil {
			return Dataset{}, fmt.Errorf("loader.LoadCSV: line %d date: %w", line, err)
		}
		o, err := parseFloat(row[openCol])
		if err != nil {
			return Dataset{}, fmt.Errorf("loader.LoadCSV: line %d open: %w", line, err)
		}
		hi, err := parseFloat(row[highCol])
		if err != nil {
			return Dataset{}, fmt.Errorf("loader.LoadCSV: line %d high: %w", line, err)
		}
		lo, err := parseFloat(row[lowCol])
		if err != nil {
			return Dataset{}, fmt.Errorf("loader.LoadCSV: line %d low: %w", line, err)
		}
		c, err := parseFloat(row[closeCol])
		if err != nil {
			return Dataset{}, fmt.Errorf("loader.LoadCSV: line %d close: %w", line, err)
		}
		v, err := parseFloat(row[volCol])
		if err != nil {
			return Dataset{}, fmt.Errorf("loader.LoadCSV: line %d volume: %w", line, err)
		}

		bar, err := domain.NewBar(ts, symbol, o, hi, lo, c, v)
		if err != nil {
			return Dataset{}, fmt.Errorf("loader.LoadCSV: line %d: %w", line, err)
		}
		bars = append(bars, bar)
	}

	return Dataset{
		ID:          uuid.New().String(),
		Symbol:      symbol,
		FilePath:    filePath,
		Fingerprint: hex.EncodeToString(h.Sum(nil)),
		Bars:        bars,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date format %q", s)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
