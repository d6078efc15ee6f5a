// Package stashdump allows to export the whole contract state database into
// a compact compressed file and import it back.
package stashdump

import (
	"fmt"

	"github.com/weftlabs/weft-go/pkg/core/storage"
	"github.com/weftlabs/weft-go/pkg/io"
	"github.com/weftlabs/weft-go/pkg/util/slice"
)

// Magic is a magic number prepended to dumps ("WTSD").
const Magic uint32 = 0x44535457

// maxPayloadSize is the hard cap on the dump payload size.
const maxPayloadSize = 1 << 30

// restoreBatchSize is the number of key-value pairs applied per changeset
// during Restore.
const restoreBatchSize = 10000

// Dump writes the full contents of the given store to the provided writer.
func Dump(store storage.Store, w *io.BinWriter) error {
	var kvs []storage.KeyValue
	store.Seek(storage.SeekRange{}, func(k, v []byte) bool {
		kvs = append(kvs, storage.KeyValue{Key: slice.Copy(k), Value: slice.Copy(v)})
		return true
	})

	// Upper bound on the encoded size, there is no point in reallocations.
	size := 4
	for _, kv := range kvs {
		size += 10 + len(kv.Key) + len(kv.Value)
	}
	buf := io.NewBufBinWriter()
	buf.Grow(size)
	buf.WriteU32LE(uint32(len(kvs)))
	for _, kv := range kvs {
		buf.WriteVarBytes(kv.Key)
		buf.WriteVarBytes(kv.Value)
	}
	if buf.Err != nil {
		return buf.Err
	}
	payload := buf.Bytes()
	compressed, err := compress(payload)
	if err != nil {
		return fmt.Errorf("failed to compress stash dump: %w", err)
	}
	w.WriteU32LE(Magic)
	w.WriteU32LE(uint32(len(payload)))
	w.WriteVarBytes(compressed)
	return w.Err
}

// Restore reads a dump from the provided reader and loads it into the given
// store in restoreBatchSize changesets.
func Restore(store storage.Store, r *io.BinReader) error {
	magic := r.ReadU32LE()
	if r.Err == nil && magic != Magic {
		return fmt.Errorf("not a stash dump (magic %#x)", magic)
	}
	size := r.ReadU32LE()
	if r.Err == nil && size > maxPayloadSize {
		return fmt.Errorf("dump payload is too big (%d)", size)
	}
	compressed := r.ReadVarBytes(maxPayloadSize)
	if r.Err != nil {
		return r.Err
	}
	payload, err := decompress(compressed, int(size))
	if err != nil {
		return fmt.Errorf("failed to decompress stash dump: %w", err)
	}

	pr := io.NewBinReaderFromBuf(payload)
	count := pr.ReadU32LE()
	puts := make(map[string][]byte)
	for i := uint32(0); i < count; i++ {
		key := pr.ReadVarBytes()
		value := pr.ReadVarBytes()
		if pr.Err != nil {
			return fmt.Errorf("failed to read dump pair %d: %w", i, pr.Err)
		}
		puts[string(key)] = value
		if len(puts) >= restoreBatchSize {
			if err := store.PutChangeSet(puts); err != nil {
				return fmt.Errorf("failed to restore dump: %w", err)
			}
			puts = make(map[string][]byte)
		}
	}
	if len(puts) != 0 {
		if err := store.PutChangeSet(puts); err != nil {
			return fmt.Errorf("failed to restore dump: %w", err)
		}
	}
	return nil
}
