package contract

import (
	"fmt"

	"github.com/weftlabs/weft-go/pkg/io"
	"github.com/weftlabs/weft-go/pkg/util"
)

// AssignmentWitness tells whether an owned state assignment has been
// finalized by a witness transaction and if so, by which one. The zero
// value is an absent witness, which is the state of assignments made at
// contract genesis.
type AssignmentWitness struct {
	WitnessID util.Uint256
	Present   bool
}

// NewAssignmentWitness returns an assignment witness referring to the given
// witness transaction.
func NewAssignmentWitness(witnessID util.Uint256) AssignmentWitness {
	return AssignmentWitness{WitnessID: witnessID, Present: true}
}

// ID returns the witness transaction id and whether it is present at all.
func (w AssignmentWitness) ID() (util.Uint256, bool) {
	return w.WitnessID, w.Present
}

// String implements the fmt.Stringer interface.
func (w AssignmentWitness) String() string {
	if !w.Present {
		return "~"
	}
	return w.WitnessID.StringLE()
}

// EncodeBinary implements the io.Serializable interface.
func (w *AssignmentWitness) EncodeBinary(bw *io.BinWriter) {
	bw.WriteBool(w.Present)
	if w.Present {
		w.WitnessID.EncodeBinary(bw)
	}
}

// DecodeBinary implements the io.Serializable interface.
func (w *AssignmentWitness) DecodeBinary(br *io.BinReader) {
	w.Present = br.ReadBool()
	if w.Present {
		w.WitnessID.DecodeBinary(br)
	} else {
		w.WitnessID = util.Uint256{}
	}
}

// WitnessAnchor combines the consensus rank of a witness transaction with
// its identity. Anchors order state updates: rank is the primary key and the
// witness id breaks rank ties, so two witnesses sharing a confirmation slot
// still order the same way for every validator.
type WitnessAnchor struct {
	Ord       WitnessOrd
	WitnessID util.Uint256
}

// NewMempoolAnchor returns an anchor for a witness still waiting in the
// mempool with the given relative priority.
func NewMempoolAnchor(witnessID util.Uint256, priority uint32) WitnessAnchor {
	return WitnessAnchor{
		Ord:       MempoolOrd(priority),
		WitnessID: witnessID,
	}
}

// CompareTo compares two anchors. Possible output: 1, -1, 0
//
//	 1 implies a orders after other in consensus history.
//	-1 implies a orders before other in consensus history.
//	 0 implies the same anchor.
func (a WitnessAnchor) CompareTo(other WitnessAnchor) int {
	if res := a.Ord.CompareTo(other.Ord); res != 0 {
		return res
	}
	return a.WitnessID.CompareTo(other.WitnessID)
}

// String implements the fmt.Stringer interface.
func (a WitnessAnchor) String() string {
	return fmt.Sprintf("%s/%s", a.WitnessID.StringLE(), a.Ord)
}

// EncodeBinary implements the io.Serializable interface.
func (a *WitnessAnchor) EncodeBinary(w *io.BinWriter) {
	a.Ord.EncodeBinary(w)
	a.WitnessID.EncodeBinary(w)
}

// DecodeBinary implements the io.Serializable interface.
func (a *WitnessAnchor) DecodeBinary(r *io.BinReader) {
	a.Ord.DecodeBinary(r)
	a.WitnessID.DecodeBinary(r)
}
