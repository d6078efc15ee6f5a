package contract

import (
	"github.com/weftlabs/weft-go/pkg/core/state"
)

// State is the read-only facade over a contract's committed state, held for
// the duration of one validation pass. None of its operations block on
// anything but the backing store and none of them mutate observable state.
// Absence of state is always a valid answer: an outpoint/type combination
// with no assignments yields a zero or empty result, never an error.
type State interface {
	// Global opens a fresh validated accessor over the history of the
	// given global state type. Accessors are independent of each other,
	// concurrent queries need one accessor per goroutine.
	Global(typ state.GlobalType) *GlobalState
	// Rights returns the number of right assignments of the given type
	// held at the given output.
	Rights(op Outpoint, typ state.AssignmentType) uint32
	// Fungible returns all fungible values of the given type assigned at
	// the given output, in assignment order.
	Fungible(op Outpoint, typ state.AssignmentType) []state.Fungible
	// Data returns all structured state of the given type assigned at the
	// given output, in assignment order.
	Data(op Outpoint, typ state.AssignmentType) []state.Data
	// Attach returns all attachment references of the given type assigned
	// at the given output, in assignment order.
	Attach(op Outpoint, typ state.AssignmentType) []state.Attachment
}
