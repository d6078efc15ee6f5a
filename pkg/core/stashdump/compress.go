package stashdump

import (
	"fmt"

	"github.com/pierrec/lz4"
)

// compress compresses bytes using lz4. An incompressible payload is returned
// as is, the reader tells the two apart by the block length.
func compress(source []byte) ([]byte, error) {
	dest := make([]byte, lz4.CompressBlockBound(len(source)))
	size, err := lz4.CompressBlock(source, dest, nil)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return source, nil
	}
	return dest[:size], nil
}

// decompress decompresses bytes using lz4, size is the expected payload
// length. A block of exactly size bytes is an uncompressed payload.
func decompress(source []byte, size int) ([]byte, error) {
	if len(source) == size {
		return source, nil
	}
	dest := make([]byte, size)
	n, err := lz4.UncompressBlock(source, dest)
	if err != nil {
		return nil, err
	}
	if n != size {
		return nil, fmt.Errorf("invalid payload size: expected %d, got %d", size, n)
	}
	return dest, nil
}
