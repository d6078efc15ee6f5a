package stash

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/weftlabs/weft-go/pkg/core/contract"
	"github.com/weftlabs/weft-go/pkg/core/state"
	"github.com/weftlabs/weft-go/pkg/core/storage"
	"github.com/weftlabs/weft-go/pkg/util"
)

// Global state records are keyed by a big-endian encoding of GlobalOrd chosen
// so that plain byte comparison of two encoded ords agrees with
// GlobalOrd.CompareTo. One backward Seek over a type's key range therefore
// yields the history in newest to oldest consensus order without any
// in-memory sorting.
//
// Tag bytes are part of the ordering contract: genesis sorts before anchored
// and mempool before mined.
const (
	tagGenesis  byte = 0x00
	tagAnchored byte = 0x01

	tagMempool byte = 0x00
	tagMined   byte = 0x01
)

// Encoded ord key lengths, the tag pair determines which one applies.
const (
	genesisOrdKeyLen = 1 + 2
	mempoolOrdKeyLen = 2 + 4 + util.Uint256Size + 2
	minedOrdKeyLen   = 2 + 8 + util.Uint256Size + 2
)

func encodeOrdKey(ord contract.GlobalOrd) []byte {
	if !ord.Anchored {
		key := make([]byte, 1, genesisOrdKeyLen)
		key[0] = tagGenesis
		return binary.BigEndian.AppendUint16(key, ord.Idx)
	}
	wOrd := ord.Anchor.Ord
	if !wOrd.Mined() {
		key := make([]byte, 2, mempoolOrdKeyLen)
		key[0] = tagAnchored
		key[1] = tagMempool
		key = binary.BigEndian.AppendUint32(key, wOrd.Priority())
		key = append(key, ord.Anchor.WitnessID.BytesBE()...)
		return binary.BigEndian.AppendUint16(key, ord.Idx)
	}
	key := make([]byte, 2, minedOrdKeyLen)
	key[0] = tagAnchored
	key[1] = tagMined
	pos := wOrd.Pos()
	key = binary.BigEndian.AppendUint32(key, pos.Height)
	key = binary.BigEndian.AppendUint32(key, pos.Index)
	key = append(key, ord.Anchor.WitnessID.BytesBE()...)
	return binary.BigEndian.AppendUint16(key, ord.Idx)
}

func decodeOrdKey(b []byte) (contract.GlobalOrd, error) {
	if len(b) < genesisOrdKeyLen {
		return contract.GlobalOrd{}, errors.New("ord key too short")
	}
	switch b[0] {
	case tagGenesis:
		if len(b) != genesisOrdKeyLen {
			return contract.GlobalOrd{}, fmt.Errorf("invalid genesis ord key length %d", len(b))
		}
		return contract.GenesisOrd(binary.BigEndian.Uint16(b[1:])), nil
	case tagAnchored:
		switch b[1] {
		case tagMempool:
			if len(b) != mempoolOrdKeyLen {
				return contract.GlobalOrd{}, fmt.Errorf("invalid mempool ord key length %d", len(b))
			}
			witness, err := util.Uint256DecodeBytesBE(b[6 : 6+util.Uint256Size])
			if err != nil {
				return contract.GlobalOrd{}, err
			}
			anchor := contract.NewMempoolAnchor(witness, binary.BigEndian.Uint32(b[2:]))
			return contract.AnchoredOrd(anchor, binary.BigEndian.Uint16(b[6+util.Uint256Size:])), nil
		case tagMined:
			if len(b) != minedOrdKeyLen {
				return contract.GlobalOrd{}, fmt.Errorf("invalid mined ord key length %d", len(b))
			}
			pos, err := contract.NewWitnessPos(binary.BigEndian.Uint32(b[2:]), binary.BigEndian.Uint32(b[6:]))
			if err != nil {
				return contract.GlobalOrd{}, err
			}
			witness, err := util.Uint256DecodeBytesBE(b[10 : 10+util.Uint256Size])
			if err != nil {
				return contract.GlobalOrd{}, err
			}
			anchor := contract.WitnessAnchor{Ord: contract.MinedOrd(pos), WitnessID: witness}
			return contract.AnchoredOrd(anchor, binary.BigEndian.Uint16(b[10+util.Uint256Size:])), nil
		default:
			return contract.GlobalOrd{}, fmt.Errorf("unknown witness ord key tag %#x", b[1])
		}
	default:
		return contract.GlobalOrd{}, fmt.Errorf("unknown ord key tag %#x", b[0])
	}
}

// globalPrefix is the common key prefix of all global state records of one
// type: STGlobal || contract || type.
func globalPrefix(cid util.Uint256, typ state.GlobalType) []byte {
	key := make([]byte, 0, 1+util.Uint256Size+2)
	key = append(key, byte(storage.STGlobal))
	key = append(key, cid.BytesBE()...)
	return binary.BigEndian.AppendUint16(key, uint16(typ))
}

// globalOrdOffset is where the encoded ord starts within a global record key.
const globalOrdOffset = 1 + util.Uint256Size + 2

// globalKey builds the full key of one global state record.
func globalKey(cid util.Uint256, typ state.GlobalType, ordKey []byte) []byte {
	return append(globalPrefix(cid, typ), ordKey...)
}

// witnessPrefix is the common key prefix of all witness index entries of one
// witness transaction: IXWitness || witness.
func witnessPrefix(witness util.Uint256) []byte {
	key := make([]byte, 0, 1+util.Uint256Size)
	key = append(key, byte(storage.IXWitness))
	return append(key, witness.BytesBE()...)
}

// witnessKey builds the full key of one witness index entry:
// IXWitness || witness || contract || type || ordKey. The entry's value is
// empty, everything needed to locate the indexed global record is recoverable
// from the key itself.
func witnessKey(witness, cid util.Uint256, typ state.GlobalType, ordKey []byte) []byte {
	key := make([]byte, 0, 1+2*util.Uint256Size+2+len(ordKey))
	key = append(key, byte(storage.IXWitness))
	key = append(key, witness.BytesBE()...)
	key = append(key, cid.BytesBE()...)
	key = binary.BigEndian.AppendUint16(key, uint16(typ))
	return append(key, ordKey...)
}

// witnessOrdOffset is where the encoded ord starts within an index entry key.
const witnessOrdOffset = 1 + 2*util.Uint256Size + 2

func parseWitnessKey(k []byte) (witness util.Uint256, cid util.Uint256, typ state.GlobalType, ordKey []byte, err error) {
	if len(k) < witnessOrdOffset+genesisOrdKeyLen || k[0] != byte(storage.IXWitness) {
		err = errors.New("not a witness index key")
		return
	}
	witness, err = util.Uint256DecodeBytesBE(k[1 : 1+util.Uint256Size])
	if err != nil {
		return
	}
	cid, err = util.Uint256DecodeBytesBE(k[1+util.Uint256Size : 1+2*util.Uint256Size])
	if err != nil {
		return
	}
	typ = state.GlobalType(binary.BigEndian.Uint16(k[1+2*util.Uint256Size:]))
	ordKey = k[witnessOrdOffset:]
	return
}

// balancePrefix is the common key prefix of all owned assignments of one
// type: prefix || contract || type.
func balancePrefix(p storage.KeyPrefix, cid util.Uint256, typ state.AssignmentType) []byte {
	key := make([]byte, 0, 1+util.Uint256Size+2)
	key = append(key, byte(p))
	key = append(key, cid.BytesBE()...)
	return binary.BigEndian.AppendUint16(key, uint16(typ))
}

// ownedPrefix is the common key prefix of all assignments of one type held at
// one outpoint: prefix || contract || type || txid || output index.
func ownedPrefix(p storage.KeyPrefix, cid util.Uint256, typ state.AssignmentType, op contract.Outpoint) []byte {
	key := make([]byte, 0, 1+2*util.Uint256Size+2+4)
	key = append(key, byte(p))
	key = append(key, cid.BytesBE()...)
	key = binary.BigEndian.AppendUint16(key, uint16(typ))
	key = append(key, op.TxID.BytesBE()...)
	return binary.BigEndian.AppendUint32(key, op.Index)
}

// ownedKey builds the full key of one owned assignment, seq keeps multiple
// assignments at the same outpoint ordered and distinct.
func ownedKey(p storage.KeyPrefix, cid util.Uint256, typ state.AssignmentType, op contract.Outpoint, seq uint32) []byte {
	return binary.BigEndian.AppendUint32(ownedPrefix(p, cid, typ, op), seq)
}
