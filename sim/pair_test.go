package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/pairs/journal"
)

// openTestPair returns a short leg and long leg opened with 100 entry cash
// each. dir decides which instrument sits on the short leg.
func openTestPair(t *testing.T, dir SpreadDir, p1, p2 float64) (short, long *Position) {
	t.Helper()

	short, err := NewPosition(Short, testPair)
	require.NoError(t, err)
	long, err = NewPosition(Long, testPair)
	require.NoError(t, err)

	if dir == ShortSpread {
		require.NoError(t, short.Open(testPair.First, day(3), 100, p1))
		require.NoError(t, long.Open(testPair.Second, day(3), 100, p2))
	} else {
		require.NoError(t, long.Open(testPair.First, day(3), 100, p1))
		require.NoError(t, short.Open(testPair.Second, day(3), 100, p2))
	}
	return short, long
}

func TestLegPrices(t *testing.T) {
	t.Parallel()

	short, long := openTestPair(t, ShortSpread, 50, 25)
	sp, lp := legPrices(short, long, 51, 26)
	assert.Equal(t, 51.0, sp)
	assert.Equal(t, 26.0, lp)

	short, long = openTestPair(t, LongSpread, 50, 25)
	sp, lp = legPrices(short, long, 51, 26)
	assert.Equal(t, 26.0, sp)
	assert.Equal(t, 51.0, lp)
}

func TestPairPNLNoCost(t *testing.T) {
	t.Parallel()

	// short 2 KXI @50, long 4 XLP @25
	short, long := openTestPair(t, ShortSpread, 50, 25)

	// KXI 50->45: short gains 2*5 = 10. XLP 25->30: long gains 4*5 = 20.
	triggered, pnl, err := PairPNL(short, long, 45, 30, 0, nil)
	require.NoError(t, err)
	assert.False(t, triggered)
	assert.InDelta(t, 30.0, pnl, 1e-9)
}

func TestPairPNLCostScaling(t *testing.T) {
	t.Parallel()

	short, long := openTestPair(t, ShortSpread, 50, 25)

	_, gross, err := PairPNL(short, long, 45, 30, 0, nil)
	require.NoError(t, err)
	_, net, err := PairPNL(short, long, 45, 30, 0.5, nil)
	require.NoError(t, err)

	assert.InDelta(t, gross*0.5, net, 1e-9)
}

func TestPairPNLStopLoss(t *testing.T) {
	t.Parallel()

	stop := 0.1

	tests := []struct {
		name          string
		p1, p2        float64
		wantTriggered bool
		wantPNL       float64
	}{
		// gross cash is 200; the stop trips when the loss exceeds 20.
		{name: "deep_loss_triggers", p1: 65, p2: 25, wantTriggered: true, wantPNL: 0},
		{name: "small_loss_holds", p1: 55, p2: 25, wantTriggered: false, wantPNL: -10},
		{name: "profit_never_triggers", p1: 25, p2: 25, wantTriggered: false, wantPNL: 50},
		{name: "boundary_loss_holds", p1: 60, p2: 25, wantTriggered: false, wantPNL: -20},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// short 2 KXI @50, long 4 XLP @25
			short, long := openTestPair(t, ShortSpread, 50, 25)

			triggered, pnl, err := PairPNL(short, long, tt.p1, tt.p2, 0, &stop)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTriggered, triggered)
			assert.InDelta(t, tt.wantPNL, pnl, 1e-9)
		})
	}
}

func TestPairPNLStopDisabled(t *testing.T) {
	t.Parallel()

	short, long := openTestPair(t, ShortSpread, 50, 25)

	// Same deep loss as the triggering case, but no stop configured.
	triggered, pnl, err := PairPNL(short, long, 65, 25, 0, nil)
	require.NoError(t, err)
	assert.False(t, triggered)
	assert.InDelta(t, -30.0, pnl, 1e-9)
}

func TestPairPNLRequiresOpenLegs(t *testing.T) {
	t.Parallel()

	short, err := NewPosition(Short, testPair)
	require.NoError(t, err)
	long, err := NewPosition(Long, testPair)
	require.NoError(t, err)

	_, _, err = PairPNL(short, long, 50, 25, 0, nil)
	assert.Error(t, err)

	require.NoError(t, short.Open(testPair.First, day(3), 100, 50))
	_, _, err = PairPNL(short, long, 50, 25, 0, nil)
	assert.Error(t, err)
}

func TestOpenPairRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		dir      SpreadDir
		wantAmt1 int // KXI units
		wantAmt2 int // XLP units
	}{
		{name: "long_spread", dir: LongSpread, wantAmt1: 2, wantAmt2: 4},
		{name: "short_spread", dir: ShortSpread, wantAmt1: 2, wantAmt2: 4},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			short, err := NewPosition(Short, testPair)
			require.NoError(t, err)
			long, err := NewPosition(Long, testPair)
			require.NoError(t, err)

			ledger := &journal.Log{}
			require.NoError(t, OpenPair(ledger, short, long, tt.dir, day(3), 100, 50, 25))

			require.Equal(t, 1, ledger.Len())
			row := ledger.Rows()[0]
			assert.Equal(t, journal.StatusOpen, row.Status)
			assert.Equal(t, string(tt.dir), row.Type)
			assert.Equal(t, 200.0, row.GrossCash)
			assert.Nil(t, row.PNL)
			assert.Equal(t, 50.0, row.Price1)
			assert.Equal(t, tt.wantAmt1, row.Amount1)
			assert.Equal(t, 25.0, row.Price2)
			assert.Equal(t, tt.wantAmt2, row.Amount2)
			assert.Equal(t, "", row.Reason)

			assert.True(t, short.IsOpen())
			assert.True(t, long.IsOpen())
		})
	}
}

func TestOpenPairInvalidDirection(t *testing.T) {
	t.Parallel()

	short, err := NewPosition(Short, testPair)
	require.NoError(t, err)
	long, err := NewPosition(Long, testPair)
	require.NoError(t, err)

	ledger := &journal.Log{}
	err = OpenPair(ledger, short, long, SpreadDir("sideways"), day(3), 100, 50, 25)
	assert.Error(t, err)
	assert.Equal(t, 0, ledger.Len())
}

func TestClosePairRow(t *testing.T) {
	t.Parallel()

	short, long := openTestPair(t, ShortSpread, 50, 25)
	ledger := &journal.Log{}

	pnl, err := ClosePair(ledger, short, long, day(5), 45, 30, 0, "")
	require.NoError(t, err)
	assert.InDelta(t, 30.0, pnl, 1e-9)

	require.Equal(t, 1, ledger.Len())
	row := ledger.Rows()[0]
	assert.Equal(t, journal.StatusClose, row.Status)
	assert.Equal(t, "short", row.Type)
	assert.Equal(t, 200.0, row.GrossCash)
	require.NotNil(t, row.PNL)
	assert.InDelta(t, 30.0, *row.PNL, 1e-9)
	assert.Equal(t, journal.ReasonStandard, row.Reason)
	assert.Equal(t, 2, row.Amount1)
	assert.Equal(t, 4, row.Amount2)

	assert.False(t, short.IsOpen())
	assert.False(t, long.IsOpen())

	_, err = ClosePair(ledger, short, long, day(6), 45, 30, 0, "")
	assert.Error(t, err)
}

func TestClosePairReason(t *testing.T) {
	t.Parallel()

	short, long := openTestPair(t, LongSpread, 50, 25)
	ledger := &journal.Log{}

	_, err := ClosePair(ledger, short, long, day(5), 50, 25, 0, journal.ReasonStopLoss)
	require.NoError(t, err)

	row := ledger.Rows()[0]
	assert.Equal(t, "long", row.Type)
	assert.Equal(t, journal.ReasonStopLoss, row.Reason)
}
