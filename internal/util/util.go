// Package util has small slice helpers shared by the editors and menus.
package util

// ClampIndex bounds idx to [0, n-1]. It returns 0 when n <= 0.
func ClampIndex(idx, n int) int {
	if n <= 0 || idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}

// Move returns a copy of list with the element at from placed at to.
// Both indices are clamped.
func Move[T any](list []T, from, to int) []T {
	out := make([]T, len(list))
	copy(out, list)
	if len(out) < 2 {
		return out
	}
	from = ClampIndex(from, len(out))
	to = ClampIndex(to, len(out))
	if from == to {
		return out
	}
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]T{moved}, out[to:]...)...)
	return out
}
