package stash

import (
	"errors"
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/weftlabs/weft-go/internal/random"
	"github.com/weftlabs/weft-go/pkg/core/contract"
	"github.com/weftlabs/weft-go/pkg/core/state"
	"github.com/weftlabs/weft-go/pkg/core/storage"
	"github.com/weftlabs/weft-go/pkg/util"
	"go.uber.org/zap/zaptest"
)

func newTestStash(t *testing.T) *Stash {
	s, err := NewStash(storage.NewMemoryStore(), zaptest.NewLogger(t))
	require.NoError(t, err)
	return s
}

func TestNewStash(t *testing.T) {
	t.Run("empty logger", func(t *testing.T) {
		_, err := NewStash(storage.NewMemoryStore(), nil)
		require.Error(t, err)
	})
	t.Run("fresh and reopened", func(t *testing.T) {
		store := storage.NewMemoryStore()
		_, err := NewStash(store, zaptest.NewLogger(t))
		require.NoError(t, err)

		// Version key is in place now, reopening must succeed.
		_, err = NewStash(store, zaptest.NewLogger(t))
		require.NoError(t, err)
	})
	t.Run("version mismatch", func(t *testing.T) {
		store := storage.NewMemoryStore()
		versionKey := string(storage.SYSVersion.Bytes())
		require.NoError(t, store.PutChangeSet(map[string][]byte{versionKey: []byte("0.0.0")}))

		_, err := NewStash(store, zaptest.NewLogger(t))
		require.ErrorIs(t, err, ErrVersionMismatch)
	})
}

func TestAddGlobalOrdering(t *testing.T) {
	var (
		s   = newTestStash(t)
		cid = random.Uint256()
		typ = state.GlobalType(7)
	)
	// Inserted in arbitrary order, depth queries must come back in
	// consensus order regardless.
	records := []struct {
		value string
		ord   contract.GlobalOrd
	}{
		{"mined-2", contract.AnchoredOrd(minedAnchor(t, u256(4), 200, 1), 1)},
		{"genesis-0", contract.GenesisOrd(0)},
		{"mempool", contract.AnchoredOrd(contract.NewMempoolAnchor(u256(5), 42), 0)},
		{"genesis-1", contract.GenesisOrd(1)},
		{"mined-1", contract.AnchoredOrd(minedAnchor(t, u256(3), 100, 0), 0)},
	}
	for _, rec := range records {
		require.NoError(t, s.AddGlobal(cid, typ, rec.ord, state.Data(rec.value)))
	}

	gs := s.ContractState(cid).Global(typ)
	require.EqualValues(t, len(records), gs.Size())
	for depth, want := range []string{"mined-2", "mined-1", "mempool", "genesis-1", "genesis-0"} {
		value, ok := gs.Nth(uint32(depth))
		require.True(t, ok)
		require.Equal(t, state.Data(want), value)
	}
	_, ok := gs.Nth(uint32(len(records)))
	require.False(t, ok)

	t.Run("types are isolated", func(t *testing.T) {
		other := s.ContractState(cid).Global(state.GlobalType(8))
		require.EqualValues(t, 0, other.Size())
		_, ok := other.Nth(0)
		require.False(t, ok)
	})
	t.Run("contracts are isolated", func(t *testing.T) {
		other := s.ContractState(random.Uint256()).Global(typ)
		require.EqualValues(t, 0, other.Size())
	})
}

func TestOwnedAssignments(t *testing.T) {
	var (
		s   = newTestStash(t)
		cid = random.Uint256()
		op1 = contract.Outpoint{TxID: u256(0x01), Index: 0}
		op2 = contract.Outpoint{TxID: u256(0x01), Index: 1}
		wit = contract.NewAssignmentWitness(random.Uint256())

		rightsT = state.AssignmentType(1)
		fungT   = state.AssignmentType(2)
		dataT   = state.AssignmentType(3)
		attachT = state.AssignmentType(4)
	)
	view := s.ContractState(cid)

	t.Run("rights", func(t *testing.T) {
		require.EqualValues(t, 0, view.Rights(op1, rightsT))
		require.NoError(t, s.AddRights(cid, op1, rightsT, wit))
		require.NoError(t, s.AddRights(cid, op1, rightsT, contract.AssignmentWitness{}))
		require.EqualValues(t, 2, view.Rights(op1, rightsT))
		require.EqualValues(t, 0, view.Rights(op2, rightsT))
	})
	t.Run("fungible", func(t *testing.T) {
		require.Empty(t, view.Fungible(op1, fungT))
		require.NoError(t, s.AddFungible(cid, op1, fungT, wit, 100))
		require.NoError(t, s.AddFungible(cid, op1, fungT, wit, 23))
		require.NoError(t, s.AddFungible(cid, op2, fungT, wit, 7))
		require.Equal(t, []state.Fungible{100, 23}, view.Fungible(op1, fungT))
		require.Equal(t, []state.Fungible{7}, view.Fungible(op2, fungT))
	})
	t.Run("data", func(t *testing.T) {
		require.Empty(t, view.Data(op1, dataT))
		require.NoError(t, s.AddData(cid, op1, dataT, wit, state.Data("payload")))
		require.Equal(t, []state.Data{state.Data("payload")}, view.Data(op1, dataT))
	})
	t.Run("attach", func(t *testing.T) {
		require.Empty(t, view.Attach(op1, attachT))
		att := state.Attachment{ID: u256(9), MediaType: "image/png"}
		require.NoError(t, s.AddAttach(cid, op1, attachT, wit, att))
		require.Equal(t, []state.Attachment{att}, view.Attach(op1, attachT))
	})
	t.Run("contracts are isolated", func(t *testing.T) {
		other := s.ContractState(random.Uint256())
		require.EqualValues(t, 0, other.Rights(op1, rightsT))
		require.Empty(t, other.Fungible(op1, fungT))
	})
}

func TestFungibleBalance(t *testing.T) {
	var (
		s   = newTestStash(t)
		cid = random.Uint256()
		wit = contract.AssignmentWitness{}
		typ = state.AssignmentType(2)
	)
	require.True(t, s.FungibleBalance(cid, typ).IsZero())

	require.NoError(t, s.AddFungible(cid, contract.Outpoint{TxID: u256(1)}, typ, wit, 100))
	require.NoError(t, s.AddFungible(cid, contract.Outpoint{TxID: u256(2)}, typ, wit, 23))
	require.NoError(t, s.AddFungible(cid, contract.Outpoint{TxID: u256(2), Index: 1}, typ, wit, 7))
	require.Equal(t, uint256.NewInt(130), s.FungibleBalance(cid, typ))

	// Other types don't leak into the sum.
	require.NoError(t, s.AddFungible(cid, contract.Outpoint{TxID: u256(3)}, state.AssignmentType(5), wit, 1))
	require.Equal(t, uint256.NewInt(130), s.FungibleBalance(cid, typ))

	t.Run("no uint64 overflow", func(t *testing.T) {
		var (
			cid = random.Uint256()
			max = state.Fungible(math.MaxUint64)
		)
		require.NoError(t, s.AddFungible(cid, contract.Outpoint{TxID: u256(1)}, typ, wit, max))
		require.NoError(t, s.AddFungible(cid, contract.Outpoint{TxID: u256(2)}, typ, wit, max))
		expected := new(uint256.Int).Mul(uint256.NewInt(math.MaxUint64), uint256.NewInt(2))
		require.Equal(t, expected, s.FungibleBalance(cid, typ))
	})
}

func TestUpdateWitnessOrd(t *testing.T) {
	var (
		s     = newTestStash(t)
		cid   = random.Uint256()
		typ   = state.GlobalType(1)
		wit   = u256(0xAA)
		other = u256(0xBB)
	)
	require.NoError(t, s.AddGlobal(cid, typ, contract.AnchoredOrd(contract.NewMempoolAnchor(wit, 1), 0), state.Data("a0")))
	require.NoError(t, s.AddGlobal(cid, typ, contract.AnchoredOrd(contract.NewMempoolAnchor(wit, 1), 1), state.Data("a1")))
	require.NoError(t, s.AddGlobal(cid, typ, contract.AnchoredOrd(contract.NewMempoolAnchor(other, 5), 0), state.Data("b0")))
	require.NoError(t, s.AddGlobal(cid, typ, contract.GenesisOrd(0), state.Data("g")))

	checkOrder := func(t *testing.T, expected ...string) {
		gs := s.ContractState(cid).Global(typ)
		require.EqualValues(t, len(expected), gs.Size())
		for depth, want := range expected {
			value, ok := gs.Nth(uint32(depth))
			require.True(t, ok)
			require.Equal(t, state.Data(want), value)
		}
	}
	checkOrder(t, "b0", "a1", "a0", "g")

	// Witness got mined, its records move past the mempool ones.
	require.NoError(t, s.UpdateWitnessOrd(wit, contract.MinedOrd(mustPos(t, 50, 2))))
	checkOrder(t, "a1", "a0", "b0", "g")

	t.Run("same ord is a no-op", func(t *testing.T) {
		require.NoError(t, s.UpdateWitnessOrd(wit, contract.MinedOrd(mustPos(t, 50, 2))))
		checkOrder(t, "a1", "a0", "b0", "g")
	})
	t.Run("unknown witness is a no-op", func(t *testing.T) {
		require.NoError(t, s.UpdateWitnessOrd(u256(0xCC), contract.MinedOrd(mustPos(t, 60, 0))))
		checkOrder(t, "a1", "a0", "b0", "g")
	})
	t.Run("index re-keyed", func(t *testing.T) {
		// Another update must still find both records of the witness.
		require.NoError(t, s.UpdateWitnessOrd(wit, contract.MinedOrd(mustPos(t, 40, 0))))
		checkOrder(t, "a1", "a0", "b0", "g")

		require.NoError(t, s.UpdateWitnessOrd(other, contract.MinedOrd(mustPos(t, 30, 0))))
		checkOrder(t, "a1", "a0", "b0", "g")

		require.NoError(t, s.UpdateWitnessOrd(other, contract.MinedOrd(mustPos(t, 60, 0))))
		checkOrder(t, "b0", "a1", "a0", "g")
	})
}

type testResolver map[util.Uint256]contract.WitnessOrd

func (r testResolver) ResolveOrd(witness util.Uint256) (contract.WitnessOrd, error) {
	ord, ok := r[witness]
	if !ok {
		return contract.WitnessOrd{}, errors.New("unknown witness")
	}
	return ord, nil
}

func TestReindex(t *testing.T) {
	var (
		s     = newTestStash(t)
		cid   = random.Uint256()
		typ   = state.GlobalType(1)
		wit   = u256(0xAA)
		other = u256(0xBB)
	)
	require.NoError(t, s.AddGlobal(cid, typ, contract.AnchoredOrd(contract.NewMempoolAnchor(wit, 1), 0), state.Data("a0")))
	require.NoError(t, s.AddGlobal(cid, typ, contract.AnchoredOrd(contract.NewMempoolAnchor(wit, 1), 1), state.Data("a1")))
	require.NoError(t, s.AddGlobal(cid, typ, contract.AnchoredOrd(contract.NewMempoolAnchor(other, 5), 0), state.Data("b0")))
	require.NoError(t, s.AddGlobal(cid, typ, contract.GenesisOrd(0), state.Data("g")))

	// Resolver knows only one witness, the other keeps its stored ordering.
	require.NoError(t, s.Reindex(testResolver{
		wit: contract.MinedOrd(mustPos(t, 50, 2)),
	}))

	gs := s.ContractState(cid).Global(typ)
	require.EqualValues(t, 4, gs.Size())
	for depth, want := range []string{"a1", "a0", "b0", "g"} {
		value, ok := gs.Nth(uint32(depth))
		require.True(t, ok)
		require.Equal(t, state.Data(want), value)
	}
}
