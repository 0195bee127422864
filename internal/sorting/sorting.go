// Package sorting is a hand-written comparison sort: quicksort with the last
// element as pivot, ascending or descending.
package sorting

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// Order is the direction of a sort.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ErrInvalidOrder is returned for anything but "asc" or "desc".
var ErrInvalidOrder = errors.New("sorting: invalid order")

// ParseOrder accepts "asc" and "desc" in any case.
func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case Asc, Desc:
		return o, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOrder, s)
	}
}

// Manual returns a sorted copy of list. list itself is left untouched.
// Equal elements may change relative order.
func Manual[T constraints.Ordered](list []T, order Order) ([]T, error) {
	if order != Asc && order != Desc {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrder, string(order))
	}
	out := quicksort(list)
	if order == Desc {
		reverse(out)
	}
	return out, nil
}

// quicksort partitions around the last element: <= pivot left, > pivot right.
func quicksort[T constraints.Ordered](list []T) []T {
	if len(list) <= 1 {
		return append([]T(nil), list...)
	}
	pivot := list[len(list)-1]
	var lower, higher []T
	for _, v := range list[:len(list)-1] {
		if v <= pivot {
			lower = append(lower, v)
		} else {
			higher = append(higher, v)
		}
	}
	out := make([]T, 0, len(list))
	out = append(out, quicksort(lower)...)
	out = append(out, pivot)
	return append(out, quicksort(higher)...)
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
