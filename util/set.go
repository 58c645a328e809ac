package util

import "sort"

type Set[T comparable] map[T]struct{}

func SetFromSlice[T comparable](slice []T) Set[T] {
	set := make(Set[T])
	for _, item := range slice {
		set[item] = struct{}{}
	}
	return set
}

func (s Set[T]) Add(items ...T) {
	for _, item := range items {
		s[item] = struct{}{}
	}
}

func (s Set[T]) Has(item T) bool {
	_, ok := s[item]
	return ok
}

// SortedStrings returns the members of a string set in order.
func SortedStrings(s Set[string]) []string {
	sorted := make([]string, 0, len(s))
	for item := range s {
		sorted = append(sorted, item)
	}
	sort.Strings(sorted)
	return sorted
}
