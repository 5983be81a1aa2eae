package foods

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() *Table {
	return NewTable([]FoodRecord{
		{Name: "White Rice", Calories: 130, ProteinG: 2.7, CarbsG: 28, FatG: 0.3, FiberG: 0.4},
		{Name: "Fried Rice", Calories: 163, ProteinG: 3.4, CarbsG: 25, FatG: 5.1, FiberG: 0.9},
		{Name: "Dal", Calories: 116, ProteinG: 9, CarbsG: 20, FatG: 0.4, FiberG: 8},
	})
}

func TestTable_FindCaseInsensitive(t *testing.T) {
	tbl := sampleTable()

	lower := tbl.Find("rice")
	upper := tbl.Find("RICE")

	require.Len(t, lower, 2)
	assert.Equal(t, lower, upper)
	assert.Equal(t, "White Rice", lower[0].Name)
	assert.Equal(t, "Fried Rice", lower[1].Name)
}

func TestTable_FindSubstringNotPrefix(t *testing.T) {
	tbl := sampleTable()

	got := tbl.Find("ried")
	require.Len(t, got, 1)
	assert.Equal(t, "Fried Rice", got[0].Name)
}

func TestTable_FindNoMatch(t *testing.T) {
	got := sampleTable().Find("pizza")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestTable_FirstIsTableOrder(t *testing.T) {
	rec, ok := sampleTable().First("rice")
	require.True(t, ok)
	assert.Equal(t, "White Rice", rec.Name)

	_, ok = sampleTable().First("pizza")
	assert.False(t, ok)
}

func TestTable_NamesInOrder(t *testing.T) {
	assert.Equal(t, []string{"White Rice", "Fried Rice", "Dal"}, sampleTable().Names())
}

func TestNewTable_CopiesInput(t *testing.T) {
	recs := []FoodRecord{{Name: "Dal", Calories: 116}}
	tbl := NewTable(recs)
	recs[0].Name = "changed"

	assert.Equal(t, []string{"Dal"}, tbl.Names())

	out := tbl.Records()
	out[0].Calories = 0
	rec, _ := tbl.First("dal")
	assert.Equal(t, 116.0, rec.Calories)
}
