package journal

import (
	"encoding/csv"
	"os"
	"strconv"
)

// Header is the column layout of a ledger CSV file.
var Header = []string{
	"date", "position_status", "position_type", "gross_cash", "pnl",
	"instrument1_price", "instrument1_amount",
	"instrument2_price", "instrument2_amount", "reason",
}

// CSV streams ledger rows to a file.
type CSV struct {
	w *csv.Writer
	f *os.File
}

func NewCSV(path string) (*CSV, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return nil, err
	}

	return &CSV{w: w, f: f}, nil
}

func (c *CSV) Append(r Row) error {
	pnl := ""
	if r.PNL != nil {
		pnl = f(*r.PNL)
	}

	err := c.w.Write([]string{
		r.Date.Format("2006-01-02"),
		r.Status,
		r.Type,
		f(r.GrossCash),
		pnl,
		f(r.Price1),
		strconv.Itoa(r.Amount1),
		f(r.Price2),
		strconv.Itoa(r.Amount2),
		r.Reason,
	})
	if err != nil {
		return err
	}

	c.w.Flush()
	return c.w.Error()
}

// AppendAll writes a whole finished ledger.
func (c *CSV) AppendAll(rows []Row) error {
	for _, r := range rows {
		if err := c.Append(r); err != nil {
			return err
		}
	}
	return nil
}

func (c *CSV) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return err
	}
	return c.f.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

// WriteCSV dumps a finished ledger to path in one call.
func WriteCSV(path string, rows []Row) error {
	c, err := NewCSV(path)
	if err != nil {
		return err
	}
	if err := c.AppendAll(rows); err != nil {
		c.Close()
		return err
	}
	return c.Close()
}
