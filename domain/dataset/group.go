package dataset

import (
	"assaystat/internal/errors"
)

// Group is the response values of all rows sharing one category label
type Group struct {
	Label  string
	Values []float64
}

// Len returns the number of observations
func (g Group) Len() int {
	return len(g.Values)
}

// GroupValues splits values by label following order. Rows whose label
// is not in order are dropped; a label in order with no rows is an
// EmptyGroup error.
func GroupValues(labels []string, values []float64, order []string) ([]Group, error) {
	if len(labels) != len(values) {
		return nil, errors.Newf(errors.CodeInternalError,
			"%d labels for %d values", len(labels), len(values))
	}

	pos := make(map[string]int, len(order))
	groups := make([]Group, len(order))
	for i, label := range order {
		pos[label] = i
		groups[i].Label = label
	}
	for i, label := range labels {
		if k, ok := pos[label]; ok {
			groups[k].Values = append(groups[k].Values, values[i])
		}
	}
	for _, g := range groups {
		if len(g.Values) == 0 {
			return nil, errors.EmptyGroup(g.Label)
		}
	}
	return groups, nil
}

// Groups extracts groupCol and responseCol and groups them. A nil order
// falls back to first-seen order.
func (t *Table) Groups(groupCol, responseCol string, order []string) ([]Group, error) {
	labels, err := t.Column(groupCol)
	if err != nil {
		return nil, err
	}
	values, err := t.Numeric(responseCol)
	if err != nil {
		return nil, err
	}
	resolved, err := ResolveOrder(labels, order, FirstSeen)
	if err != nil {
		return nil, err
	}
	return GroupValues(labels, values, resolved)
}

// CombineLabels joins a[i] and b[i] with sep, row by row
func CombineLabels(a, b []string, sep string) []string {
	out := make([]string, len(a))
	for i := range a {
		out[i] = a[i] + sep + b[i]
	}
	return out
}
