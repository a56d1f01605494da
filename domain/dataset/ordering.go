package dataset

import (
	"sort"
	"strings"

	"assaystat/internal/errors"
)

// Ordering decides the order of category labels when none is given
// explicitly.
type Ordering int

const (
	// FirstSeen orders labels by their first appearance in the data
	FirstSeen Ordering = iota
	// Sorted orders labels lexicographically
	Sorted
)

func (o Ordering) String() string {
	switch o {
	case Sorted:
		return "sorted"
	default:
		return "first-seen"
	}
}

// ParseOrdering accepts "first-seen" (or "") and "sorted"
func ParseOrdering(s string) (Ordering, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first-seen", "firstseen":
		return FirstSeen, nil
	case "sorted":
		return Sorted, nil
	}
	return FirstSeen, errors.Newf(errors.CodeInvalidInput, "unknown ordering %q", s)
}

// Levels returns the distinct labels of values in the given ordering
func Levels(values []string, o Ordering) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	if o == Sorted {
		sort.Strings(out)
	}
	return out
}

// ResolveOrder returns explicit if it is non-empty, after checking it
// for blank and duplicate labels. Otherwise it derives the levels of
// values with the fallback ordering.
func ResolveOrder(values []string, explicit []string, fallback Ordering) ([]string, error) {
	if len(explicit) == 0 {
		return Levels(values, fallback), nil
	}

	seen := make(map[string]bool, len(explicit))
	out := make([]string, len(explicit))
	for i, label := range explicit {
		label = strings.TrimSpace(label)
		if label == "" {
			return nil, errors.InvalidInput("category order contains an empty label")
		}
		if seen[label] {
			return nil, errors.Newf(errors.CodeInvalidInput, "category order repeats %q", label)
		}
		seen[label] = true
		out[i] = label
	}
	return out, nil
}
