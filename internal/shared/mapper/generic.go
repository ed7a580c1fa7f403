// Package mapper converts slices between persistence and domain shapes.
package mapper

import "fmt"

// MapSlice applies mapFunc to each element. A nil input yields nil.
func MapSlice[T any, R any](items []T, mapFunc func(T) R) []R {
	if items == nil {
		return nil
	}

	result := make([]R, 0, len(items))
	for _, item := range items {
		result = append(result, mapFunc(item))
	}
	return result
}

// MapSlicePtr maps a pointer slice, skipping nil inputs.
func MapSlicePtr[T any, R any](items []*T, mapFunc func(*T) *R) []*R {
	if items == nil {
		return nil
	}

	result := make([]*R, 0, len(items))
	for _, item := range items {
		if item != nil {
			result = append(result, mapFunc(item))
		}
	}
	return result
}

// MapSlicePtrWithID maps a pointer slice with a fallible mapFunc. The first
// failure aborts the mapping and is wrapped with the offending item's ID.
func MapSlicePtrWithID[T any, R any, ID any](
	items []*T,
	mapFunc func(*T) (*R, error),
	getID func(*T) ID,
) ([]*R, error) {
	if items == nil {
		return nil, nil
	}

	result := make([]*R, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		mapped, err := mapFunc(item)
		if err != nil {
			return nil, fmt.Errorf("failed to map item ID %v: %w", getID(item), err)
		}
		if mapped != nil {
			result = append(result, mapped)
		}
	}
	return result, nil
}
