package market

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// LoadCSV reads a daily price series for the pair from a CSV file. The
// header must contain a date column, <First>_adj_close and <Second>_adj_close
// price columns, and an N_t notional column (column order is free, names are
// case-insensitive). Files ending in .gz, .xz or .lzma are decompressed
// transparently.
func LoadCSV(path string, pair Pair) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load series: %w", err)
	}
	defer f.Close()

	r, err := decompress(path, f)
	if err != nil {
		return nil, fmt.Errorf("load series: %w", err)
	}

	return ReadCSV(r, pair)
}

func decompress(path string, f io.Reader) (io.Reader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return gzip.NewReader(f)
	case ".xz":
		return xz.NewReader(f)
	case ".lzma":
		return lzma.NewReader(f)
	default:
		return f, nil
	}
}

// ReadCSV parses the series from an already-open reader. Rows come back
// sorted by date regardless of file order.
func ReadCSV(r io.Reader, pair Pair) (*Series, error) {
	if err := pair.Validate(); err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read series header: %w", err)
	}

	dateCol, p1Col, p2Col, ntCol := -1, -1, -1, -1
	for i, name := range header {
		switch {
		case strings.EqualFold(strings.TrimSpace(name), "date"):
			dateCol = i
		case strings.EqualFold(strings.TrimSpace(name), pair.First+"_adj_close"):
			p1Col = i
		case strings.EqualFold(strings.TrimSpace(name), pair.Second+"_adj_close"):
			p2Col = i
		case strings.EqualFold(strings.TrimSpace(name), "N_t"):
			ntCol = i
		}
	}
	if dateCol < 0 || p1Col < 0 || p2Col < 0 || ntCol < 0 {
		return nil, fmt.Errorf("series header missing required columns (need date, %s_adj_close, %s_adj_close, N_t): %v",
			pair.First, pair.Second, header)
	}

	var rows []Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read series line %d: %w", line, err)
		}
		if len(rec) == 0 {
			continue
		}

		row, err := parseRow(rec, dateCol, p1Col, p2Col, ntCol)
		if err != nil {
			return nil, fmt.Errorf("series line %d: %w", line, err)
		}
		rows = append(rows, row)
	}

	return NewSeries(pair, rows)
}

func parseRow(rec []string, dateCol, p1Col, p2Col, ntCol int) (Row, error) {
	max := dateCol
	for _, c := range []int{p1Col, p2Col, ntCol} {
		if c > max {
			max = c
		}
	}
	if len(rec) <= max {
		return Row{}, fmt.Errorf("short row: %v", rec)
	}

	date, err := parseDate(rec[dateCol])
	if err != nil {
		return Row{}, err
	}

	p1, err := strconv.ParseFloat(strings.TrimSpace(rec[p1Col]), 64)
	if err != nil {
		return Row{}, fmt.Errorf("bad price %q: %w", rec[p1Col], err)
	}
	p2, err := strconv.ParseFloat(strings.TrimSpace(rec[p2Col]), 64)
	if err != nil {
		return Row{}, fmt.Errorf("bad price %q: %w", rec[p2Col], err)
	}
	nt, err := strconv.ParseFloat(strings.TrimSpace(rec[ntCol]), 64)
	if err != nil {
		return Row{}, fmt.Errorf("bad notional %q: %w", rec[ntCol], err)
	}

	return Row{Date: date, Price1: p1, Price2: p2, Notional: nt}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	t2, err2 := time.Parse(time.RFC3339, s)
	if err2 != nil {
		return time.Time{}, fmt.Errorf("bad date %q: %w", s, err)
	}
	return t2, nil
}
