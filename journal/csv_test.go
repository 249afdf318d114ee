package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trade_log.csv")
	c, err := NewCSV(path)
	require.NoError(t, err)
	require.NoError(t, c.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	r := csv.NewReader(strings.NewReader(string(data)))
	header, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, Header, header)
}

func TestCSVRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trade_log.csv")

	rows := []Row{
		{
			Date: day(3), Status: StatusOpen, Type: "short",
			GrossCash: 200, Price1: 61.1, Amount1: 2, Price2: 70.5, Amount2: 1,
		},
		{
			Date: day(5), Status: StatusClose, Type: "short",
			GrossCash: 200, PNL: pf(-12.5),
			Price1: 62.2, Amount1: 2, Price2: 70.9, Amount2: 1,
			Reason: ReasonStopLoss,
		},
	}
	require.NoError(t, WriteCSV(path, rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	r := csv.NewReader(strings.NewReader(string(data)))
	_, err = r.Read() // header
	require.NoError(t, err)

	open, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2022-01-03", "OPEN", "short", "200.000000", "",
		"61.100000", "2", "70.500000", "1", "",
	}, open)

	closed, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2022-01-05", "CLOSE", "short", "200.000000", "-12.500000",
		"62.200000", "2", "70.900000", "1", "STOP LOSS",
	}, closed)
}
