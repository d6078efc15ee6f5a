package contract

import (
	"fmt"

	"github.com/weftlabs/weft-go/pkg/core/state"
)

// StateCursor is a traversal handle over the full update history of one
// global state type, walked from the newest record backwards. Storage layers
// implement it on top of whatever indexing they use, the only requirement is
// that records surface in strictly decreasing GlobalOrd order as Prev is
// called repeatedly from depth 0. A freshly created cursor is positioned
// before the newest record, so the first Prev call yields depth 0.
//
// Returned values are valid until the next call that moves the cursor, make
// a copy if you need them past that point. A cursor is owned by a single
// GlobalState and must not be shared.
type StateCursor interface {
	// Size returns the total number of records in the history. It must
	// stay stable for the lifetime of the cursor.
	Size() uint32
	// Prev steps the cursor to the next older record and returns it.
	// It returns false once the oldest record has been passed.
	Prev() (GlobalOrd, state.Data, bool)
	// Last returns the record at the current cursor position without
	// moving. It returns false if the cursor is not positioned on a
	// valid record.
	Last() (GlobalOrd, state.Data, bool)
	// Reset repositions the cursor so that the next Last call yields the
	// record depth steps back from the newest one, depth 0 being the
	// newest record.
	Reset(depth uint32)
}

// GlobalState is a read-only accessor over the history of one global state
// type. It serves depth queries through an owned StateCursor, keeping track
// of how far back the history has been validated so that repeated nearby
// lookups stay cheap while a cursor that misorders records is still caught.
//
// A GlobalState is not safe for concurrent use, every caller needing
// parallel queries must open its own instance.
type GlobalState struct {
	cursor       StateCursor
	checkedDepth uint32
	lastOrd      GlobalOrd
}

// NewGlobalState returns a GlobalState over the given cursor. It reads the
// newest record once to establish the baseline ordering value which all
// subsequent walks are validated against. An empty history gets the minimum
// ordering value as the baseline so later comparisons stay total.
func NewGlobalState(cursor StateCursor) *GlobalState {
	lastOrd := GenesisOrd(0)
	if ord, _, ok := cursor.Prev(); ok {
		lastOrd = ord
	}
	cursor.Reset(0)
	return &GlobalState{
		cursor:       cursor,
		checkedDepth: 1,
		lastOrd:      lastOrd,
	}
}

// Size returns the total number of records in the history.
func (g *GlobalState) Size() uint32 {
	return g.cursor.Size()
}

// Nth returns the value of the record depth steps back from the newest one,
// depth 0 being the newest record. It returns false when depth is beyond the
// history size, absence is a valid state and not an error.
//
// Sequential walks extend the validated range one record at a time, each new
// record is checked to order strictly before the previously validated one.
// A jump over multiple unwalked records checks only the landing record
// against the last validated one, records inside the skipped range are
// trusted and will not be re-checked when revisited later. Breaking the
// ordering contract means the cursor implementation is defective in a way
// that would corrupt consensus validation, so it is a panic rather than an
// error.
func (g *GlobalState) Nth(depth uint32) (state.Data, bool) {
	size := g.cursor.Size()
	if depth >= size {
		return nil, false
	}
	switch {
	case depth < g.checkedDepth:
		// Validated territory, plain random access.
		g.cursor.Reset(depth)
	case depth == g.checkedDepth:
		// One step past the validated range, walk and check it.
		g.cursor.Reset(g.checkedDepth - 1)
		ord, _, ok := g.cursor.Prev()
		if !ok {
			panic(errCursorShort(size))
		}
		if ord.CompareTo(g.lastOrd) >= 0 {
			panic(errCursorOrder)
		}
		g.checkedDepth = depth + 1
		g.lastOrd = ord
	default:
		// Jump over unwalked records, check the landing record only.
		g.cursor.Reset(depth)
		ord, _, ok := g.cursor.Last()
		if !ok {
			panic(errCursorShort(size))
		}
		if ord.CompareTo(g.lastOrd) >= 0 {
			panic(errCursorOrder)
		}
		g.checkedDepth = depth + 1
		g.lastOrd = ord
	}
	_, data, ok := g.cursor.Last()
	if !ok {
		panic(errCursorShort(size))
	}
	return data, true
}

const errCursorOrder = "global state cursor has an invalid implementation: " +
	"it fails to order records according to the consensus ordering"

func errCursorShort(size uint32) string {
	return fmt.Sprintf("global state cursor has an invalid implementation: "+
		"it reports more records (%d) than the history contains", size)
}
