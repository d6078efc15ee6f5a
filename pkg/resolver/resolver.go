// Package resolver provides reference contract.OrdResolver implementations.
// Chain access itself lives outside of this module, anything able to answer
// ordering queries can stand behind these types.
package resolver

import (
	"errors"
	"sync"

	"github.com/weftlabs/weft-go/pkg/core/contract"
	"github.com/weftlabs/weft-go/pkg/util"
)

// ErrUnknownWitness is returned when a witness transaction is not known to
// the resolver.
var ErrUnknownWitness = errors.New("unknown witness transaction")

// Local is an in-memory witness ordering table implementing
// contract.OrdResolver. It is safe for concurrent use.
type Local struct {
	lock sync.RWMutex
	ords map[util.Uint256]contract.WitnessOrd
}

// NewLocal returns an empty Local resolver.
func NewLocal() *Local {
	return &Local{ords: make(map[util.Uint256]contract.WitnessOrd)}
}

// Put stores the ordering of the given witness transaction, overwriting the
// previously known one.
func (l *Local) Put(witness util.Uint256, ord contract.WitnessOrd) {
	l.lock.Lock()
	l.ords[witness] = ord
	l.lock.Unlock()
}

// Delete drops the given witness transaction from the table making it
// unknown again.
func (l *Local) Delete(witness util.Uint256) {
	l.lock.Lock()
	delete(l.ords, witness)
	l.lock.Unlock()
}

// ResolveOrd implements the contract.OrdResolver interface.
func (l *Local) ResolveOrd(witness util.Uint256) (contract.WitnessOrd, error) {
	l.lock.RLock()
	ord, ok := l.ords[witness]
	l.lock.RUnlock()
	if !ok {
		return contract.WitnessOrd{}, ErrUnknownWitness
	}
	return ord, nil
}
