package utils

import (
	"golang.org/x/exp/constraints"
)

// Generates a sequence of n elements given a generation function
func Iota[T any](n int, gen func(int) T) []T {
	values := make([]T, n)

	for i := range values {
		values[i] = gen(i)
	}

	return values
}

// Returns a sequence of n indices
func Indices(n int) []int {
	return Iota(n, func(i int) int { return i })
}

// Returns the items of a sequence for which the predicate returns true, keeping their order
func Filter[T any](input []T, predicate func(T) bool) []T {
	output := make([]T, 0, len(input))

	for _, value := range input {
		if predicate(value) {
			output = append(output, value)
		}
	}

	return output
}

// Returns the distinct keys computed from a sequence, in order of first appearance
func Distinct[T any, Key comparable](input []T, keyFunc func(T) Key) []Key {
	seen := make(map[Key]bool, len(input))
	output := make([]Key, 0)

	for _, value := range input {
		key := keyFunc(value)

		if !seen[key] {
			seen[key] = true
			output = append(output, key)
		}
	}

	return output
}

// Returns the smaller of two values
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}

	return b
}
