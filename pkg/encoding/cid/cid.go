// Package cid converts contract ids to and from their base58 string form.
package cid

import (
	"errors"
	"strings"

	"github.com/weftlabs/weft-go/pkg/encoding/base58"
	"github.com/weftlabs/weft-go/pkg/util"
)

// Prefix is the version byte prepended to a contract id before base58check
// encoding.
const Prefix byte = 0x57

// Encode returns the base58check string form of the given contract id.
func Encode(u util.Uint256) string {
	b := append([]byte{Prefix}, u.BytesBE()...)
	return base58.CheckEncode(b)
}

// Decode converts a base58check string to a contract id. It also accepts
// the plain hex form produced by util.Uint256.String.
func Decode(s string) (util.Uint256, error) {
	if hs := strings.TrimPrefix(s, "0x"); len(hs) == 2*util.Uint256Size {
		return util.Uint256DecodeStringLE(hs)
	}
	b, err := base58.CheckDecode(s)
	if err != nil {
		return util.Uint256{}, err
	}
	if len(b) != util.Uint256Size+1 {
		return util.Uint256{}, errors.New("invalid contract id length")
	}
	if b[0] != Prefix {
		return util.Uint256{}, errors.New("invalid contract id prefix")
	}
	return util.Uint256DecodeBytesBE(b[1:])
}
