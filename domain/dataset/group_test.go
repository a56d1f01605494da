package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assaystat/internal/errors"
)

func TestLevels(t *testing.T) {
	values := []string{"b", "a", "b", "c", "a"}
	assert.Equal(t, []string{"b", "a", "c"}, Levels(values, FirstSeen))
	assert.Equal(t, []string{"a", "b", "c"}, Levels(values, Sorted))
}

func TestParseOrdering(t *testing.T) {
	o, err := ParseOrdering("")
	require.NoError(t, err)
	assert.Equal(t, FirstSeen, o)

	o, err = ParseOrdering("Sorted")
	require.NoError(t, err)
	assert.Equal(t, Sorted, o)
	assert.Equal(t, "sorted", o.String())

	_, err = ParseOrdering("random")
	assert.Error(t, err)
}

func TestResolveOrder(t *testing.T) {
	values := []string{"x", "y"}

	got, err := ResolveOrder(values, []string{" y", "x "}, FirstSeen)
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "x"}, got)

	got, err = ResolveOrder(values, nil, FirstSeen)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, got)

	_, err = ResolveOrder(values, []string{"x", "x"}, FirstSeen)
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))

	_, err = ResolveOrder(values, []string{"x", ""}, FirstSeen)
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))
}

func TestGroupValues_FollowsOrderAndDropsUnlisted(t *testing.T) {
	labels := []string{"ctrl", "drug", "other", "ctrl", "drug"}
	values := []float64{1, 2, 99, 3, 4}

	groups, err := GroupValues(labels, values, []string{"drug", "ctrl"})
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, Group{Label: "drug", Values: []float64{2, 4}}, groups[0])
	assert.Equal(t, Group{Label: "ctrl", Values: []float64{1, 3}}, groups[1])
	assert.Equal(t, 2, groups[1].Len())
}

func TestGroupValues_EmptyGroup(t *testing.T) {
	_, err := GroupValues([]string{"a"}, []float64{1}, []string{"a", "b"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeEmptyGroup))
	assert.Contains(t, err.Error(), `"b"`)
}

func TestTable_Groups(t *testing.T) {
	tbl, err := NewTable([]string{"g", "v"}, [][]string{{"b", "1"}, {"a", "2"}, {"b", "3"}})
	require.NoError(t, err)

	groups, err := tbl.Groups("g", "v", nil)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "b", groups[0].Label)
	assert.Equal(t, []float64{1, 3}, groups[0].Values)

	_, err = tbl.Groups("missing", "v", nil)
	assert.True(t, errors.Is(err, errors.CodeInvalidColumn))
}

func TestCombineLabels(t *testing.T) {
	got := CombineLabels([]string{"WT", "KO"}, []string{"ctrl", "drug"}, "_")
	assert.Equal(t, []string{"WT_ctrl", "KO_drug"}, got)
}
