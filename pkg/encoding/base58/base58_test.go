package base58

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckEncodeDecode(t *testing.T) {
	inputs := [][]byte{
		{0x01},
		{0x00, 0x01, 0x02, 0x03},
		{0xff, 0xfe, 0xfd},
		make([]byte, 32),
	}
	for _, in := range inputs {
		s := CheckEncode(in)
		out, err := CheckDecode(s)
		require.NoError(t, err)
		require.Equal(t, in, out)
	}
}

func TestCheckDecodeFailures(t *testing.T) {
	t.Run("bad characters", func(t *testing.T) {
		_, err := CheckDecode("BBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB0000000000")
		require.Error(t, err)
	})
	t.Run("missing checksum", func(t *testing.T) {
		_, err := CheckDecode("1")
		require.Error(t, err)
	})
	t.Run("corrupted checksum", func(t *testing.T) {
		s := CheckEncode([]byte{0x01, 0x02, 0x03})
		_, err := CheckDecode(s + "1")
		assert.Error(t, err)
	})
}
