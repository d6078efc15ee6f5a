package contract

import (
	"errors"
	"fmt"

	"github.com/weftlabs/weft-go/pkg/io"
	"github.com/weftlabs/weft-go/pkg/util"
)

// ErrZeroHeight is returned when an on-chain witness position is constructed
// or decoded with a zero block height.
var ErrZeroHeight = errors.New("witness position height cannot be zero")

// WitnessPos is the position of a witness transaction confirmed on chain:
// the height of the block it was mined in and its index inside that block.
// Height zero is reserved, a valid position always has height not less
// than one.
type WitnessPos struct {
	Height uint32
	Index  uint32
}

// NewWitnessPos returns an on-chain witness position for the given block
// height and in-block transaction index.
func NewWitnessPos(height, index uint32) (WitnessPos, error) {
	if height == 0 {
		return WitnessPos{}, ErrZeroHeight
	}
	return WitnessPos{Height: height, Index: index}, nil
}

// CompareTo compares two witness positions. Possible output: 1, -1, 0
//
//	 1 implies p was mined later than other.
//	-1 implies p was mined earlier than other.
//	 0 implies the same position.
func (p WitnessPos) CompareTo(other WitnessPos) int {
	switch {
	case p.Height < other.Height:
		return -1
	case p.Height > other.Height:
		return 1
	case p.Index < other.Index:
		return -1
	case p.Index > other.Index:
		return 1
	default:
		return 0
	}
}

// String implements the fmt.Stringer interface.
func (p WitnessPos) String() string {
	return fmt.Sprintf("%d/%d", p.Height, p.Index)
}

// EncodeBinary implements the io.Serializable interface.
func (p *WitnessPos) EncodeBinary(w *io.BinWriter) {
	w.WriteU32LE(p.Height)
	w.WriteU32LE(p.Index)
}

// DecodeBinary implements the io.Serializable interface.
func (p *WitnessPos) DecodeBinary(r *io.BinReader) {
	p.Height = r.ReadU32LE()
	p.Index = r.ReadU32LE()
	if r.Err == nil && p.Height == 0 {
		r.Err = ErrZeroHeight
	}
}

// Witness ordering tags used on the wire.
const (
	ordMempool = 0x00
	ordMined   = 0x01
)

// WitnessOrd is the consensus rank of a witness transaction: the witness is
// either confirmed on chain at a particular position or still waiting in the
// mempool with some relative priority. Any unconfirmed witness ranks
// strictly below any confirmed one, unconfirmed witnesses rank by priority
// and confirmed ones by chain position. Rank values are produced outside of
// this package, see OrdResolver.
type WitnessOrd struct {
	pos      WitnessPos
	priority uint32
	mined    bool
}

// MempoolOrd returns the rank of an unconfirmed witness with the given
// relative priority.
func MempoolOrd(priority uint32) WitnessOrd {
	return WitnessOrd{priority: priority}
}

// MinedOrd returns the rank of a witness confirmed at the given chain
// position.
func MinedOrd(pos WitnessPos) WitnessOrd {
	return WitnessOrd{pos: pos, mined: true}
}

// Mined tells whether the witness is confirmed on chain.
func (o WitnessOrd) Mined() bool {
	return o.mined
}

// Pos returns the chain position of a confirmed witness. It is only
// meaningful when Mined is true.
func (o WitnessOrd) Pos() WitnessPos {
	return o.pos
}

// Priority returns the mempool priority of an unconfirmed witness. It is
// only meaningful when Mined is false.
func (o WitnessOrd) Priority() uint32 {
	return o.priority
}

// CompareTo compares two witness ranks. Possible output: 1, -1, 0
//
//	 1 implies o ranks after other in consensus history.
//	-1 implies o ranks before other in consensus history.
//	 0 implies equal ranks.
func (o WitnessOrd) CompareTo(other WitnessOrd) int {
	switch {
	case o.mined && !other.mined:
		return 1
	case !o.mined && other.mined:
		return -1
	case o.mined:
		return o.pos.CompareTo(other.pos)
	case o.priority < other.priority:
		return -1
	case o.priority > other.priority:
		return 1
	default:
		return 0
	}
}

// String implements the fmt.Stringer interface.
func (o WitnessOrd) String() string {
	if o.mined {
		return o.pos.String()
	}
	return fmt.Sprintf("mempool(%d)", o.priority)
}

// EncodeBinary implements the io.Serializable interface.
func (o *WitnessOrd) EncodeBinary(w *io.BinWriter) {
	if o.mined {
		w.WriteB(ordMined)
		o.pos.EncodeBinary(w)
	} else {
		w.WriteB(ordMempool)
		w.WriteU32LE(o.priority)
	}
}

// DecodeBinary implements the io.Serializable interface.
func (o *WitnessOrd) DecodeBinary(r *io.BinReader) {
	switch tag := r.ReadB(); tag {
	case ordMempool:
		o.mined = false
		o.pos = WitnessPos{}
		o.priority = r.ReadU32LE()
	case ordMined:
		o.mined = true
		o.priority = 0
		o.pos.DecodeBinary(r)
	default:
		if r.Err == nil {
			r.Err = fmt.Errorf("invalid witness ordering tag: %d", tag)
		}
	}
}

// OrdResolver yields the current consensus rank of a witness transaction.
// Implementations typically query a chain indexer. Returned ranks must obey
// the WitnessOrd ordering invariant, confirmation of a witness or a chain
// reorganisation changes its rank and callers are expected to re-resolve
// affected witnesses when that happens.
type OrdResolver interface {
	// ResolveOrd returns the rank of the given witness. It returns an
	// error if the witness is not known to the resolver.
	ResolveOrd(witness util.Uint256) (WitnessOrd, error)
}
