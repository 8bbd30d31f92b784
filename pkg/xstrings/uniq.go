package xstrings

import "sort"

type Comparable interface{ ~int | ~int64 | ~string }

func UniqueSlice[T Comparable](s []T) []T {
	keys := make(map[T]bool)
	list := []T{}
	for _, entry := range s {
		if _, value := keys[entry]; !value {
			keys[entry] = true
			list = append(list, entry)
		}
	}
	return list
}

// SortedUnique drops duplicates and empty values and sorts the rest.
func SortedUnique(s []string) []string {
	list := []string{}
	for _, entry := range UniqueSlice(s) {
		if entry != "" {
			list = append(list, entry)
		}
	}
	sort.Strings(list)
	return list
}

// Contains reports whether any of want is in s.
func Contains[T Comparable](s []T, want ...T) bool {
	for _, have := range s {
		for _, w := range want {
			if have == w {
				return true
			}
		}
	}
	return false
}
