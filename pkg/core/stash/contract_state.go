package stash

import (
	"fmt"

	"github.com/weftlabs/weft-go/pkg/core/contract"
	"github.com/weftlabs/weft-go/pkg/core/state"
	"github.com/weftlabs/weft-go/pkg/core/storage"
	"github.com/weftlabs/weft-go/pkg/io"
	"github.com/weftlabs/weft-go/pkg/util"
)

// ContractState is the read-only view over one contract's stashed records.
// It implements contract.State, the absence of any queried state yields zero
// values and empty slices, never an error. A ContractState is cheap to
// create and holds no resources of its own.
type ContractState struct {
	stash *Stash
	id    util.Uint256
}

var _ contract.State = (*ContractState)(nil)

// Global implements the contract.State interface. The type's history is
// materialized by a single backward key scan, ord key ordering guarantees it
// comes out newest record first.
func (c *ContractState) Global(typ state.GlobalType) *contract.GlobalState {
	var recs []globalRecord
	c.stash.store.Seek(storage.SeekRange{Prefix: globalPrefix(c.id, typ), Backwards: true}, func(k, v []byte) bool {
		ord, err := decodeOrdKey(k[globalOrdOffset:])
		if err != nil {
			panic(fmt.Sprintf("corrupted global state record: %v", err))
		}
		r := io.NewBinReaderFromBuf(v)
		var data state.Data
		data.DecodeBinary(r)
		if r.Err != nil {
			panic(fmt.Sprintf("corrupted global state record: %v", r.Err))
		}
		recs = append(recs, globalRecord{ord: ord, data: data})
		return true
	})
	return contract.NewGlobalState(&cursor{recs: recs, pos: -1})
}

// Rights implements the contract.State interface.
func (c *ContractState) Rights(op contract.Outpoint, typ state.AssignmentType) uint32 {
	var n uint32
	c.stash.store.Seek(storage.SeekRange{Prefix: ownedPrefix(storage.STRights, c.id, typ, op)}, func(k, v []byte) bool {
		n++
		return true
	})
	return n
}

// Fungible implements the contract.State interface.
func (c *ContractState) Fungible(op contract.Outpoint, typ state.AssignmentType) []state.Fungible {
	var res []state.Fungible
	c.seekOwned(storage.STFungible, op, typ, func(r *io.BinReader) {
		var value state.Fungible
		value.DecodeBinary(r)
		res = append(res, value)
	})
	return res
}

// Data implements the contract.State interface.
func (c *ContractState) Data(op contract.Outpoint, typ state.AssignmentType) []state.Data {
	var res []state.Data
	c.seekOwned(storage.STData, op, typ, func(r *io.BinReader) {
		var value state.Data
		value.DecodeBinary(r)
		res = append(res, value)
	})
	return res
}

// Attach implements the contract.State interface.
func (c *ContractState) Attach(op contract.Outpoint, typ state.AssignmentType) []state.Attachment {
	var res []state.Attachment
	c.seekOwned(storage.STAttach, op, typ, func(r *io.BinReader) {
		var value state.Attachment
		value.DecodeBinary(r)
		res = append(res, value)
	})
	return res
}

// seekOwned walks all assignments of one type at one outpoint in assignment
// order, positioning the reader past the assignment witness before handing it
// to parse.
func (c *ContractState) seekOwned(p storage.KeyPrefix, op contract.Outpoint, typ state.AssignmentType, parse func(r *io.BinReader)) {
	c.stash.store.Seek(storage.SeekRange{Prefix: ownedPrefix(p, c.id, typ, op)}, func(k, v []byte) bool {
		r := io.NewBinReaderFromBuf(v)
		var wit contract.AssignmentWitness
		wit.DecodeBinary(r)
		parse(r)
		if r.Err != nil {
			panic(fmt.Sprintf("corrupted assignment record: %v", r.Err))
		}
		return true
	})
}

// globalRecord is one materialized global state record.
type globalRecord struct {
	ord  contract.GlobalOrd
	data state.Data
}

// cursor implements contract.StateCursor over a materialized history slice,
// recs[0] being the newest record. A fresh cursor starts one step before the
// newest record.
type cursor struct {
	recs []globalRecord
	pos  int
}

// Size implements the contract.StateCursor interface.
func (c *cursor) Size() uint32 {
	return uint32(len(c.recs))
}

// Prev implements the contract.StateCursor interface.
func (c *cursor) Prev() (contract.GlobalOrd, state.Data, bool) {
	if c.pos+1 >= len(c.recs) {
		c.pos = len(c.recs)
		return contract.GlobalOrd{}, nil, false
	}
	c.pos++
	return c.recs[c.pos].ord, c.recs[c.pos].data, true
}

// Last implements the contract.StateCursor interface.
func (c *cursor) Last() (contract.GlobalOrd, state.Data, bool) {
	if c.pos < 0 || c.pos >= len(c.recs) {
		return contract.GlobalOrd{}, nil, false
	}
	return c.recs[c.pos].ord, c.recs[c.pos].data, true
}

// Reset implements the contract.StateCursor interface.
func (c *cursor) Reset(depth uint32) {
	c.pos = int(depth)
}
