package state

import (
	"github.com/weftlabs/weft-go/pkg/io"
)

// GlobalType identifies a particular kind of global contract state.
type GlobalType uint16

// MaxDataSize is the maximum length of a single structured state blob.
const MaxDataSize = 0xFFFF

// Data is an opaque structured state blob produced by a contract operation.
// Interpretation of its contents is schema-specific and happens above this
// layer.
type Data []byte

// EncodeBinary implements the io.Serializable interface.
func (d *Data) EncodeBinary(w *io.BinWriter) {
	w.WriteVarBytes(*d)
}

// DecodeBinary implements the io.Serializable interface.
func (d *Data) DecodeBinary(r *io.BinReader) {
	*d = r.ReadVarBytes(MaxDataSize)
}
