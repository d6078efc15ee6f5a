package contract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/weftlabs/weft-go/pkg/io"
	"github.com/weftlabs/weft-go/pkg/util"
)

// Outpoint identifies a single transaction output. Owned contract state
// (rights, fungible values, data and attachments) is always assigned to an
// outpoint and spent together with it.
type Outpoint struct {
	TxID  util.Uint256
	Index uint32
}

// ParseOutpoint parses an outpoint from its "txid:index" string
// representation.
func ParseOutpoint(s string) (Outpoint, error) {
	idx := strings.LastIndexByte(s, ':')
	if idx < 0 {
		return Outpoint{}, fmt.Errorf("invalid outpoint format: %s", s)
	}
	txid, err := util.Uint256DecodeStringLE(s[:idx])
	if err != nil {
		return Outpoint{}, fmt.Errorf("invalid outpoint transaction id: %w", err)
	}
	n, err := strconv.ParseUint(s[idx+1:], 10, 32)
	if err != nil {
		return Outpoint{}, fmt.Errorf("invalid outpoint index: %w", err)
	}
	return Outpoint{TxID: txid, Index: uint32(n)}, nil
}

// String implements the fmt.Stringer interface.
func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.TxID.StringLE(), o.Index)
}

// EncodeBinary implements the io.Serializable interface.
func (o *Outpoint) EncodeBinary(w *io.BinWriter) {
	o.TxID.EncodeBinary(w)
	w.WriteU32LE(o.Index)
}

// DecodeBinary implements the io.Serializable interface.
func (o *Outpoint) DecodeBinary(r *io.BinReader) {
	o.TxID.DecodeBinary(r)
	o.Index = r.ReadU32LE()
}
