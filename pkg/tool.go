package pkg

import "strings"

// ContainsFold check slice holds val, ignoring case and surrounding space
func ContainsFold(slice []string, val string) bool {
	val = strings.TrimSpace(val)
	for _, v := range slice {
		if strings.EqualFold(strings.TrimSpace(v), val) {
			return true
		}
	}
	return false
}

// Unique drop zero values and duplicates, keeping first-seen order
func Unique[T comparable](slice []T) []T {
	var zero T
	seen := make(map[T]struct{}, len(slice))
	out := make([]T, 0, len(slice))
	for _, v := range slice {
		if v == zero {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
