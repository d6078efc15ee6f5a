package contract

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/weftlabs/weft-go/pkg/core/state"
)

type testRecord struct {
	ord  GlobalOrd
	data state.Data
}

// sliceCursor is a StateCursor over a record slice ordered newest to oldest.
type sliceCursor struct {
	recs []testRecord
	size uint32
	pos  int
}

func newSliceCursor(recs []testRecord) *sliceCursor {
	return &sliceCursor{recs: recs, size: uint32(len(recs)), pos: -1}
}

func (c *sliceCursor) Size() uint32 {
	return c.size
}

func (c *sliceCursor) Prev() (GlobalOrd, state.Data, bool) {
	if c.pos+1 >= len(c.recs) {
		c.pos = len(c.recs)
		return GlobalOrd{}, nil, false
	}
	c.pos++
	rec := c.recs[c.pos]
	return rec.ord, rec.data, true
}

func (c *sliceCursor) Last() (GlobalOrd, state.Data, bool) {
	if c.pos < 0 || c.pos >= len(c.recs) {
		return GlobalOrd{}, nil, false
	}
	rec := c.recs[c.pos]
	return rec.ord, rec.data, true
}

func (c *sliceCursor) Reset(depth uint32) {
	c.pos = int(depth)
}

// makeHistory builds n records with strictly decreasing anchored orderings,
// record i carrying the single byte i as its value.
func makeHistory(t *testing.T, n int) []testRecord {
	recs := make([]testRecord, n)
	for i := 0; i < n; i++ {
		anchor := WitnessAnchor{
			Ord:       MinedOrd(mustPos(t, uint32(n-i), 0)),
			WitnessID: u256(byte(i)),
		}
		recs[i] = testRecord{
			ord:  AnchoredOrd(anchor, 0),
			data: state.Data{byte(i)},
		}
	}
	return recs
}

func TestGlobalStateSequentialWalk(t *testing.T) {
	recs := makeHistory(t, 8)
	gs := NewGlobalState(newSliceCursor(recs))
	require.Equal(t, uint32(8), gs.Size())

	for d := uint32(0); d < 8; d++ {
		data, ok := gs.Nth(d)
		require.True(t, ok, "depth %d", d)
		require.Equal(t, recs[d].data, data, "depth %d", d)
	}
}

func TestGlobalStateOutOfRange(t *testing.T) {
	recs := makeHistory(t, 3)
	gs := NewGlobalState(newSliceCursor(recs))

	_, ok := gs.Nth(3)
	require.False(t, ok)
	_, ok = gs.Nth(100500)
	require.False(t, ok)

	// In-range queries still work after a miss.
	data, ok := gs.Nth(2)
	require.True(t, ok)
	require.Equal(t, recs[2].data, data)
}

func TestGlobalStateEmptyHistory(t *testing.T) {
	gs := NewGlobalState(newSliceCursor(nil))
	require.Equal(t, uint32(0), gs.Size())

	require.NotPanics(t, func() {
		_, ok := gs.Nth(0)
		require.False(t, ok)
	})
}

func TestGlobalStateRandomAccess(t *testing.T) {
	recs := makeHistory(t, 10)
	gs := NewGlobalState(newSliceCursor(recs))

	// Any query order returns the same values a from-scratch walk to each
	// depth would produce.
	for _, d := range []uint32{3, 1, 9, 0, 5, 5, 2, 8, 9, 4} {
		data, ok := gs.Nth(d)
		require.True(t, ok, "depth %d", d)
		require.Equal(t, recs[d].data, data, "depth %d", d)
	}
}

func TestGlobalStateJumpThenWalk(t *testing.T) {
	recs := makeHistory(t, 12)
	gs := NewGlobalState(newSliceCursor(recs))

	// A long forward jump, a rewind into the skipped range and a
	// sequential extension past the jump target.
	for _, d := range []uint32{7, 2, 8, 9} {
		data, ok := gs.Nth(d)
		require.True(t, ok, "depth %d", d)
		require.Equal(t, recs[d].data, data, "depth %d", d)
	}
}

func TestGlobalStateUnorderedCursor(t *testing.T) {
	recs := makeHistory(t, 5)
	// Swap two adjacent records so the walk meets an ordering violation.
	recs[1], recs[2] = recs[2], recs[1]
	gs := NewGlobalState(newSliceCursor(recs))

	_, ok := gs.Nth(0)
	require.True(t, ok)
	_, ok = gs.Nth(1)
	require.True(t, ok)
	require.PanicsWithValue(t, errCursorOrder, func() {
		gs.Nth(2)
	})
}

func TestGlobalStateRepeatedOrd(t *testing.T) {
	recs := makeHistory(t, 4)
	// Strictly decreasing means equal neighbours are a violation too.
	recs[2].ord = recs[1].ord
	gs := NewGlobalState(newSliceCursor(recs))

	_, ok := gs.Nth(1)
	require.True(t, ok)
	require.PanicsWithValue(t, errCursorOrder, func() {
		gs.Nth(2)
	})
}

func TestGlobalStateJumpLandingViolation(t *testing.T) {
	recs := makeHistory(t, 8)
	// The landing record of a jump orders after the newest one.
	recs[6].ord = AnchoredOrd(WitnessAnchor{
		Ord:       MinedOrd(mustPos(t, 100500, 0)),
		WitnessID: u256(0xff),
	}, 0)
	gs := NewGlobalState(newSliceCursor(recs))

	require.PanicsWithValue(t, errCursorOrder, func() {
		gs.Nth(6)
	})
}

func TestGlobalStateLyingSize(t *testing.T) {
	recs := makeHistory(t, 3)
	c := newSliceCursor(recs)
	c.size = 5
	gs := NewGlobalState(c)

	for d := uint32(0); d < 3; d++ {
		_, ok := gs.Nth(d)
		require.True(t, ok)
	}
	require.PanicsWithValue(t, errCursorShort(5), func() {
		gs.Nth(3)
	})
}

func TestGlobalStateMixedHistory(t *testing.T) {
	var (
		anchorA = WitnessAnchor{Ord: MinedOrd(mustPos(t, 100, 0)), WitnessID: u256(0xaa)}
		anchorB = WitnessAnchor{Ord: MinedOrd(mustPos(t, 200, 0)), WitnessID: u256(0xbb)}
	)
	// Newest to oldest: B/0, A/1, A/0, genesis/0.
	recs := []testRecord{
		{ord: AnchoredOrd(anchorB, 0), data: state.Data{3}},
		{ord: AnchoredOrd(anchorA, 1), data: state.Data{2}},
		{ord: AnchoredOrd(anchorA, 0), data: state.Data{1}},
		{ord: GenesisOrd(0), data: state.Data{0}},
	}
	gs := NewGlobalState(newSliceCursor(recs))

	data, ok := gs.Nth(0)
	require.True(t, ok)
	require.Equal(t, state.Data{3}, data)

	data, ok = gs.Nth(3)
	require.True(t, ok)
	require.Equal(t, state.Data{0}, data)

	_, ok = gs.Nth(4)
	require.False(t, ok)
}
