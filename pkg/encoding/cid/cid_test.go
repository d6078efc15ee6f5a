package cid

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/weftlabs/weft-go/internal/random"
	"github.com/weftlabs/weft-go/pkg/encoding/base58"
)

func TestEncodeDecode(t *testing.T) {
	id := random.Uint256()
	s := Encode(id)
	actual, err := Decode(s)
	require.NoError(t, err)
	require.Equal(t, id, actual)
}

func TestDecodeHex(t *testing.T) {
	id := random.Uint256()
	for _, s := range []string{id.StringLE(), "0x" + id.StringLE()} {
		actual, err := Decode(s)
		require.NoError(t, err)
		require.Equal(t, id, actual)
	}
}

func TestDecodeFailures(t *testing.T) {
	t.Run("not base58", func(t *testing.T) {
		_, err := Decode("zero-zero")
		require.Error(t, err)
	})
	t.Run("bad length", func(t *testing.T) {
		_, err := Decode(base58.CheckEncode([]byte{Prefix, 0x01, 0x02}))
		require.Error(t, err)
	})
	t.Run("bad prefix", func(t *testing.T) {
		b := append([]byte{Prefix + 1}, random.Uint256().BytesBE()...)
		_, err := Decode(base58.CheckEncode(b))
		require.Error(t, err)
	})
	t.Run("bad hex", func(t *testing.T) {
		_, err := Decode("zz0000000000000000000000000000000000000000000000000000000000zzzz")
		require.Error(t, err)
	})
}
