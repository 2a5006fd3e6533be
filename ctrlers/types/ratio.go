package types

import (
	"github.com/holiman/uint256"
)

// Ratios are fixed-point fractions of RatioScale (1e18). All consensus math
// runs on uint256 so there is never a float in persisted state.
var RatioScale = uint256.NewInt(1_000000000_000000000)

func RatioFromPercent(p uint64) *uint256.Int {
	ret := new(uint256.Int).Div(RatioScale, uint256.NewInt(100))
	return ret.Mul(ret, uint256.NewInt(p))
}

func HalfRatio() *uint256.Int {
	return new(uint256.Int).Div(RatioScale, uint256.NewInt(2))
}

// MulRatio returns a×b/scale, the product of two ratios.
func MulRatio(a, b *uint256.Int) *uint256.Int {
	ret := new(uint256.Int).Mul(a, b)
	return ret.Div(ret, RatioScale)
}

// ApplyRatio returns floor(ratio × value).
func ApplyRatio(ratio *uint256.Int, value int64) int64 {
	if value <= 0 {
		return 0
	}
	ret := new(uint256.Int).Mul(ratio, uint256.NewInt(uint64(value)))
	ret.Div(ret, RatioScale)
	return int64(ret.Uint64())
}

// RatioOf returns num/den as a ratio, clamped to one.
func RatioOf(num, den int64) *uint256.Int {
	if den <= 0 || num <= 0 {
		return uint256.NewInt(0)
	}
	if num >= den {
		return new(uint256.Int).Set(RatioScale)
	}
	ret := new(uint256.Int).Mul(uint256.NewInt(uint64(num)), RatioScale)
	return ret.Div(ret, uint256.NewInt(uint64(den)))
}
