package state

import (
	"github.com/weftlabs/weft-go/pkg/io"
	"github.com/weftlabs/weft-go/pkg/util"
)

// AssignmentType identifies a particular kind of owned contract state.
type AssignmentType uint16

// Fungible is a single fungible state value assigned to an outpoint.
type Fungible uint64

// EncodeBinary implements the io.Serializable interface.
func (f *Fungible) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(uint64(*f))
}

// DecodeBinary implements the io.Serializable interface.
func (f *Fungible) DecodeBinary(r *io.BinReader) {
	*f = Fungible(r.ReadU64LE())
}

// MaxMediaTypeSize limits the length of an attachment media type string.
const MaxMediaTypeSize = 255

// Attachment is a reference to a binary object attached to a contract
// operation, identified by the hash of its contents and annotated with a
// media type.
type Attachment struct {
	ID        util.Uint256 `json:"id"`
	MediaType string       `json:"mediaType"`
}

// EncodeBinary implements the io.Serializable interface.
func (a *Attachment) EncodeBinary(w *io.BinWriter) {
	a.ID.EncodeBinary(w)
	w.WriteString(a.MediaType)
}

// DecodeBinary implements the io.Serializable interface.
func (a *Attachment) DecodeBinary(r *io.BinReader) {
	a.ID.DecodeBinary(r)
	a.MediaType = r.ReadString(MaxMediaTypeSize)
}
