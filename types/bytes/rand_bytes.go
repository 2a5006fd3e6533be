package bytes

import (
	"crypto/rand"
	"encoding/hex"
)

func RandBytes(n int) []byte {
	bz := make([]byte, n)
	_, _ = rand.Read(bz)
	return bz
}

func ZeroBytes(n int) []byte {
	return make([]byte, n)
}

func RandHexBytes(n int) HexBytes {
	return HexBytes(RandBytes(n))
}

func RandHexString(n int) string {
	return "0x" + hex.EncodeToString(RandBytes(n))
}

func ClearBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		b[i] = 0x00
	}
}
