package random

import (
	"math/rand"
	"time"

	"github.com/weftlabs/weft-go/pkg/util"
)

var initialSeed = time.Now().UnixNano()

// Bytes returns a random byte slice of specified length.
func Bytes(n int) []byte {
	b := make([]byte, n)
	Fill(b)
	return b
}

// Fill fills buffer with random bytes.
func Fill(buf []byte) {
	_, _ = rand.Read(buf)
}

// Uint256 returns a random Uint256.
func Uint256() util.Uint256 {
	b := Bytes(util.Uint256Size)
	u, _ := util.Uint256DecodeBytesBE(b)
	return u
}

func init() {
	rand.Seed(initialSeed)
}
