package model

import "math"

// 入力で受け付ける上限。MaxPrice×MaxSupplyでもint64に収まる
const (
	MaxPrice  int64 = 1_000_000_000 // セント
	MaxSupply int64 = 1_000_000_000
)

// MulAmount は負でない値の掛け算。int64を超えるならfalse
func MulAmount(a, b int64) (int64, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a != 0 && b > math.MaxInt64/a {
		return 0, false
	}
	return a * b, true
}

// AddAmount は負でない値の足し算。int64を超えるならfalse
func AddAmount(a, b int64) (int64, bool) {
	if a < 0 || b < 0 || a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}
