package state_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/weftlabs/weft-go/internal/random"
	"github.com/weftlabs/weft-go/internal/testserdes"
	"github.com/weftlabs/weft-go/pkg/core/state"
)

func TestDataSerializable(t *testing.T) {
	d := state.Data(random.Bytes(42))
	testserdes.EncodeDecodeBinary(t, &d, new(state.Data))
}

func TestDataDecodeLimit(t *testing.T) {
	big := state.Data(random.Bytes(state.MaxDataSize + 1))
	bs, err := testserdes.EncodeBinary(&big)
	require.NoError(t, err)
	require.Error(t, testserdes.DecodeBinary(bs, new(state.Data)))
}

func TestFungibleSerializable(t *testing.T) {
	f := state.Fungible(100500)
	testserdes.EncodeDecodeBinary(t, &f, new(state.Fungible))
}

func TestAttachmentSerializable(t *testing.T) {
	a := &state.Attachment{
		ID:        random.Uint256(),
		MediaType: "image/jpeg",
	}
	testserdes.EncodeDecodeBinary(t, a, new(state.Attachment))
}
