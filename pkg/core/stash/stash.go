// Package stash implements the reference storage adapter backing contract
// state queries. Global state records, owned assignments and the witness
// index live in one key-value Store under the schema defined in keys.go;
// contract.State queries are served by the ContractState view and all
// mutations go through atomic changesets.
package stash

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/weftlabs/weft-go/pkg/core/contract"
	"github.com/weftlabs/weft-go/pkg/core/state"
	"github.com/weftlabs/weft-go/pkg/core/storage"
	"github.com/weftlabs/weft-go/pkg/io"
	"github.com/weftlabs/weft-go/pkg/util"
	"go.uber.org/zap"
)

// version of the stash database schema. A database written by a different
// schema version is rejected rather than migrated.
const version = "0.1.0"

// ErrVersionMismatch is returned by NewStash when the underlying database
// was written by a different schema version.
var ErrVersionMismatch = errors.New("stash version mismatch")

// Stash is a contract state database over a storage backend. It is safe for
// concurrent readers, writes are atomic per operation but not synchronized
// between each other.
type Stash struct {
	store storage.Store
	log   *zap.Logger
}

// NewStash creates a Stash over the given store. A fresh store gets the
// schema version key written, an already initialized one is checked against
// the current schema version.
func NewStash(store storage.Store, log *zap.Logger) (*Stash, error) {
	if log == nil {
		return nil, errors.New("empty logger")
	}
	s := &Stash{store: store, log: log}
	ver, err := store.Get(storage.SYSVersion.Bytes())
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			return nil, fmt.Errorf("failed to read stash version: %w", err)
		}
		err = store.PutChangeSet(map[string][]byte{string(storage.SYSVersion.Bytes()): []byte(version)})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize stash: %w", err)
		}
		log.Info("initialized fresh stash database", zap.String("version", version))
		return s, nil
	}
	if string(ver) != version {
		return nil, fmt.Errorf("%w: expected %s, found %s", ErrVersionMismatch, version, ver)
	}
	return s, nil
}

// Close releases the underlying store.
func (s *Stash) Close() error {
	return s.store.Close()
}

// ContractState returns the read-only state view of the given contract.
func (s *Stash) ContractState(cid util.Uint256) *ContractState {
	return &ContractState{stash: s, id: cid}
}

// AddGlobal appends one global state record. An anchored record also
// registers itself in the witness index so that later witness rank changes
// can re-key it without a full store scan.
func (s *Stash) AddGlobal(cid util.Uint256, typ state.GlobalType, ord contract.GlobalOrd, value state.Data) error {
	val, err := encodeValues(&value)
	if err != nil {
		return err
	}
	ordKey := encodeOrdKey(ord)
	puts := make(map[string][]byte, 2)
	puts[string(globalKey(cid, typ, ordKey))] = val
	if ord.Anchored {
		puts[string(witnessKey(ord.Anchor.WitnessID, cid, typ, ordKey))] = []byte{}
	}
	if err := s.store.PutChangeSet(puts); err != nil {
		return fmt.Errorf("failed to persist global record: %w", err)
	}
	globalRecordsAdded.Inc()
	return nil
}

// AddRights appends one right assignment of the given type at the given
// outpoint.
func (s *Stash) AddRights(cid util.Uint256, op contract.Outpoint, typ state.AssignmentType, wit contract.AssignmentWitness) error {
	return s.addOwned(storage.STRights, cid, op, typ, &wit)
}

// AddFungible appends one fungible assignment of the given type at the given
// outpoint.
func (s *Stash) AddFungible(cid util.Uint256, op contract.Outpoint, typ state.AssignmentType, wit contract.AssignmentWitness, value state.Fungible) error {
	return s.addOwned(storage.STFungible, cid, op, typ, &wit, &value)
}

// AddData appends one structured state assignment of the given type at the
// given outpoint.
func (s *Stash) AddData(cid util.Uint256, op contract.Outpoint, typ state.AssignmentType, wit contract.AssignmentWitness, value state.Data) error {
	return s.addOwned(storage.STData, cid, op, typ, &wit, &value)
}

// AddAttach appends one attachment assignment of the given type at the given
// outpoint.
func (s *Stash) AddAttach(cid util.Uint256, op contract.Outpoint, typ state.AssignmentType, wit contract.AssignmentWitness, value state.Attachment) error {
	return s.addOwned(storage.STAttach, cid, op, typ, &wit, &value)
}

func (s *Stash) addOwned(p storage.KeyPrefix, cid util.Uint256, op contract.Outpoint, typ state.AssignmentType, items ...io.Serializable) error {
	val, err := encodeValues(items...)
	if err != nil {
		return err
	}
	key := ownedKey(p, cid, typ, op, s.nextSeq(ownedPrefix(p, cid, typ, op)))
	if err := s.store.PutChangeSet(map[string][]byte{string(key): val}); err != nil {
		return fmt.Errorf("failed to persist assignment: %w", err)
	}
	ownedAssignmentsAdded.Inc()
	return nil
}

// nextSeq returns the sequence number for a new assignment under the given
// outpoint prefix, one past the newest existing assignment.
func (s *Stash) nextSeq(prefix []byte) uint32 {
	var seq uint32
	s.store.Seek(storage.SeekRange{Prefix: prefix, Backwards: true}, func(k, v []byte) bool {
		seq = binary.BigEndian.Uint32(k[len(k)-4:]) + 1
		return false
	})
	return seq
}

// UpdateWitnessOrd re-keys all global state records anchored to the given
// witness transaction after its ordering changed (mempool transaction got
// mined, chain reorganisation moved it). All affected records move in one
// atomic changeset.
func (s *Stash) UpdateWitnessOrd(witness util.Uint256, ord contract.WitnessOrd) error {
	puts := make(map[string][]byte)
	if err := s.witnessChanges(witness, ord, puts); err != nil {
		return err
	}
	if len(puts) == 0 {
		return nil
	}
	if err := s.store.PutChangeSet(puts); err != nil {
		return fmt.Errorf("failed to re-key witness records: %w", err)
	}
	s.log.Debug("witness ord updated",
		zap.Stringer("witness", witness),
		zap.Stringer("ord", ord),
		zap.Int("changes", len(puts)))
	return nil
}

// Reindex walks the whole witness index, re-resolves every witness through
// the given resolver and applies all resulting re-keys in one atomic
// changeset. Witnesses the resolver no longer knows keep their stored
// ordering.
func (s *Stash) Reindex(resolver contract.OrdResolver) error {
	var (
		witnesses []util.Uint256
		parseErr  error
	)
	s.store.Seek(storage.SeekRange{Prefix: storage.IXWitness.Bytes()}, func(k, v []byte) bool {
		witness, _, _, _, err := parseWitnessKey(k)
		if err != nil {
			parseErr = err
			return false
		}
		// Index entries are sorted by witness id, a repeated id means
		// another record of the witness we already collected.
		if len(witnesses) == 0 || !witnesses[len(witnesses)-1].Equals(witness) {
			witnesses = append(witnesses, witness)
		}
		return true
	})
	if parseErr != nil {
		return fmt.Errorf("corrupted witness index: %w", parseErr)
	}

	var (
		puts    = make(map[string][]byte)
		skipped int
	)
	for _, witness := range witnesses {
		ord, err := resolver.ResolveOrd(witness)
		if err != nil {
			s.log.Warn("witness ord not resolved, keeping stored ordering",
				zap.Stringer("witness", witness),
				zap.Error(err))
			skipped++
			continue
		}
		if err := s.witnessChanges(witness, ord, puts); err != nil {
			return err
		}
	}
	if len(puts) != 0 {
		if err := s.store.PutChangeSet(puts); err != nil {
			return fmt.Errorf("failed to re-key witness records: %w", err)
		}
	}
	witnessesReindexed.Add(float64(len(witnesses) - skipped))
	s.log.Info("witness index rebuilt",
		zap.Int("witnesses", len(witnesses)),
		zap.Int("skipped", skipped),
		zap.Int("changes", len(puts)))
	return nil
}

// witnessChanges collects the key moves needed to change the ordering of all
// global state records anchored to one witness into puts. Records already
// keyed under the given ordering are left alone.
func (s *Stash) witnessChanges(witness util.Uint256, ord contract.WitnessOrd, puts map[string][]byte) error {
	type indexEntry struct {
		cid    util.Uint256
		typ    state.GlobalType
		ordKey []byte
	}
	var (
		entries  []indexEntry
		parseErr error
	)
	s.store.Seek(storage.SeekRange{Prefix: witnessPrefix(witness)}, func(k, v []byte) bool {
		_, cid, typ, ordKey, err := parseWitnessKey(k)
		if err != nil {
			parseErr = err
			return false
		}
		ordKeyCopy := make([]byte, len(ordKey))
		copy(ordKeyCopy, ordKey)
		entries = append(entries, indexEntry{cid: cid, typ: typ, ordKey: ordKeyCopy})
		return true
	})
	if parseErr != nil {
		return fmt.Errorf("corrupted witness index: %w", parseErr)
	}
	for _, e := range entries {
		oldOrd, err := decodeOrdKey(e.ordKey)
		if err != nil {
			return fmt.Errorf("corrupted witness index: %w", err)
		}
		if !oldOrd.Anchored {
			return errors.New("corrupted witness index: genesis record indexed")
		}
		if oldOrd.Anchor.Ord.CompareTo(ord) == 0 {
			continue
		}
		newOrd := contract.AnchoredOrd(contract.WitnessAnchor{Ord: ord, WitnessID: witness}, oldOrd.Idx)
		newOrdKey := encodeOrdKey(newOrd)

		oldKey := globalKey(e.cid, e.typ, e.ordKey)
		value, err := s.store.Get(oldKey)
		if err != nil {
			return fmt.Errorf("inconsistent witness index for %s: %w", witness.StringLE(), err)
		}
		puts[string(oldKey)] = nil
		puts[string(globalKey(e.cid, e.typ, newOrdKey))] = value
		puts[string(witnessKey(witness, e.cid, e.typ, e.ordKey))] = nil
		puts[string(witnessKey(witness, e.cid, e.typ, newOrdKey))] = []byte{}
	}
	return nil
}

// FungibleBalance sums all fungible assignments of the given type across all
// outpoints of a contract. The sum is carried in 256 bits, individual
// assignments cannot overflow it.
func (s *Stash) FungibleBalance(cid util.Uint256, typ state.AssignmentType) *uint256.Int {
	sum := new(uint256.Int)
	s.store.Seek(storage.SeekRange{Prefix: balancePrefix(storage.STFungible, cid, typ)}, func(k, v []byte) bool {
		r := io.NewBinReaderFromBuf(v)
		var wit contract.AssignmentWitness
		wit.DecodeBinary(r)
		var value state.Fungible
		value.DecodeBinary(r)
		if r.Err != nil {
			panic(fmt.Sprintf("corrupted fungible assignment: %v", r.Err))
		}
		sum.Add(sum, uint256.NewInt(uint64(value)))
		return true
	})
	return sum
}

func encodeValues(items ...io.Serializable) ([]byte, error) {
	buf := io.NewBufBinWriter()
	for _, it := range items {
		it.EncodeBinary(buf.BinWriter)
	}
	if buf.Err != nil {
		return nil, buf.Err
	}
	return buf.Bytes(), nil
}
