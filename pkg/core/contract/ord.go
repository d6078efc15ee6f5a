package contract

import (
	"fmt"

	"github.com/weftlabs/weft-go/pkg/io"
)

// GlobalOrd is the consensus position of a single global state update in a
// contract's history. Updates made at contract issuance carry no anchor and
// order strictly before any anchored update; anchored updates follow their
// anchors' order. The index orders updates sharing an anchor (or sharing
// genesis) between themselves.
//
// Use GenesisOrd and AnchoredOrd to construct values.
type GlobalOrd struct {
	Anchor   WitnessAnchor
	Anchored bool
	Idx      uint16
}

// GenesisOrd returns the ordering of an update made at contract issuance,
// before any witness existed.
func GenesisOrd(idx uint16) GlobalOrd {
	return GlobalOrd{Idx: idx}
}

// AnchoredOrd returns the ordering of an update anchored to a witness
// transaction.
func AnchoredOrd(anchor WitnessAnchor, idx uint16) GlobalOrd {
	return GlobalOrd{Anchor: anchor, Anchored: true, Idx: idx}
}

// CompareTo compares two orderings. Possible output: 1, -1, 0
//
//	 1 implies o happened after other in consensus history.
//	-1 implies o happened before other in consensus history.
//	 0 implies the same position.
func (o GlobalOrd) CompareTo(other GlobalOrd) int {
	switch {
	case o.Anchored && !other.Anchored:
		return 1
	case !o.Anchored && other.Anchored:
		return -1
	case o.Anchored:
		if res := o.Anchor.CompareTo(other.Anchor); res != 0 {
			return res
		}
	}
	switch {
	case o.Idx < other.Idx:
		return -1
	case o.Idx > other.Idx:
		return 1
	default:
		return 0
	}
}

// Equals returns true if both orderings denote the same position.
func (o GlobalOrd) Equals(other GlobalOrd) bool {
	return o == other
}

// String implements the fmt.Stringer interface.
func (o GlobalOrd) String() string {
	if !o.Anchored {
		return fmt.Sprintf("genesis/%d", o.Idx)
	}
	return fmt.Sprintf("%s/%d", o.Anchor, o.Idx)
}

// EncodeBinary implements the io.Serializable interface.
func (o *GlobalOrd) EncodeBinary(w *io.BinWriter) {
	w.WriteBool(o.Anchored)
	if o.Anchored {
		o.Anchor.EncodeBinary(w)
	}
	w.WriteU16LE(o.Idx)
}

// DecodeBinary implements the io.Serializable interface.
func (o *GlobalOrd) DecodeBinary(r *io.BinReader) {
	o.Anchored = r.ReadBool()
	if o.Anchored {
		o.Anchor.DecodeBinary(r)
	} else {
		o.Anchor = WitnessAnchor{}
	}
	o.Idx = r.ReadU16LE()
}
