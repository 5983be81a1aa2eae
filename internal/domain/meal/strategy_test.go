package meal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/nutrition-calc/internal/domain/foods"
)

const eps = 1e-9

var whiteRice = foods.FoodRecord{Name: "white rice", Calories: 130, ProteinG: 2.7, CarbsG: 28, FatG: 0.3, FiberG: 0.4}

func testTable() *foods.Table {
	return foods.NewTable([]foods.FoodRecord{
		whiteRice,
		{Name: "fried rice", Calories: 163, ProteinG: 3.4, CarbsG: 25, FatG: 5.1, FiberG: 0.9},
		{Name: "dal tadka", Calories: 116, ProteinG: 9, CarbsG: 20, FatG: 0.4, FiberG: 8},
		{Name: "paneer", Calories: 265, ProteinG: 18.3, CarbsG: 1.2, FatG: 20.8, FiberG: 0},
	})
}

func assertTotals(t *testing.T, want, got Totals) {
	t.Helper()
	assert.InDelta(t, want.Calories, got.Calories, eps, "calories")
	assert.InDelta(t, want.Protein, got.Protein, eps, "protein")
	assert.InDelta(t, want.Carbs, got.Carbs, eps, "carbs")
	assert.InDelta(t, want.Fat, got.Fat, eps, "fat")
	assert.InDelta(t, want.Fiber, got.Fiber, eps, "fiber")
}

func TestRuleBased_WhiteRice200g(t *testing.T) {
	c := NewRuleBased(testTable())

	got := c.Calculate(Request{"white rice": 200})

	assertTotals(t, Totals{Calories: 260, Protein: 5.4, Carbs: 56, Fat: 0.6, Fiber: 0.8}, got)
}

func TestRuleBased_ProportionalToQuantity(t *testing.T) {
	c := NewRuleBased(testTable())
	for _, q := range []float64{0, 1, 37.5, 100, 250, 1000} {
		got := c.Calculate(Request{"paneer": q})
		assertTotals(t, Totals{
			Calories: 265 * q / 100,
			Protein:  18.3 * q / 100,
			Carbs:    1.2 * q / 100,
			Fat:      20.8 * q / 100,
			Fiber:    0,
		}, got)
	}
}

func TestRuleBased_UnmatchedContributesZero(t *testing.T) {
	c := NewRuleBased(testTable())

	b := c.Breakdown(Request{"nonexistent food": 100, "pizza": 50})

	assert.True(t, b.Totals.IsZero())
	assert.Empty(t, b.Matches)
	assert.Equal(t, []string{"nonexistent food", "pizza"}, b.Unmatched)
}

func TestRuleBased_EmptyRequest(t *testing.T) {
	c := NewRuleBased(testTable())

	assert.True(t, c.Calculate(Request{}).IsZero())
	assert.True(t, c.Calculate(nil).IsZero())
}

func TestRuleBased_FirstMatchWins(t *testing.T) {
	c := NewRuleBased(testTable())

	b := c.Breakdown(Request{"RICE": 100})

	require.Len(t, b.Matches, 1)
	assert.Equal(t, "white rice", b.Matches[0].Food)
	assertTotals(t, Totals{Calories: 130, Protein: 2.7, Carbs: 28, Fat: 0.3, Fiber: 0.4}, b.Totals)
}

func TestRuleBased_Additive(t *testing.T) {
	c := NewRuleBased(testTable())

	a := c.Calculate(Request{"dal": 150})
	b := c.Calculate(Request{"paneer": 80})
	both := c.Calculate(Request{"dal": 150, "paneer": 80})

	assertTotals(t, a.Add(b), both)
}

func TestRuleBased_Idempotent(t *testing.T) {
	c := NewRuleBased(testTable())
	req := Request{"dal": 150, "paneer": 80, "fried": 120, "missing": 10}

	first := c.Breakdown(req)
	second := c.Breakdown(req)

	assert.Equal(t, first, second)
	assert.Equal(t, Request{"dal": 150, "paneer": 80, "fried": 120, "missing": 10}, req)
}

func TestRuleBased_PartialMeal(t *testing.T) {
	c := NewRuleBased(testTable())

	b := c.Breakdown(Request{"white rice": 200, "unicorn": 100})

	assertTotals(t, Totals{Calories: 260, Protein: 5.4, Carbs: 56, Fat: 0.6, Fiber: 0.8}, b.Totals)
	assert.Equal(t, []string{"unicorn"}, b.Unmatched)
	require.Len(t, b.Matches, 1)
	assert.Equal(t, 200.0, b.Matches[0].Grams)
}

func TestNewStrategy(t *testing.T) {
	s, err := NewStrategy("rule", testTable())
	require.NoError(t, err)
	assert.Equal(t, StrategyRule, s.Name())

	s, err = NewStrategy("", testTable())
	require.NoError(t, err)
	assert.Equal(t, StrategyRule, s.Name())

	_, err = NewStrategy("model", testTable())
	assert.True(t, errors.Is(err, ErrStrategyUnavailable))

	_, err = NewStrategy("magic", testTable())
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrStrategyUnavailable))
}

func TestTotals_IsFinite(t *testing.T) {
	c := NewRuleBased(testTable())

	assert.True(t, c.Calculate(Request{"white rice": 200}).IsFinite())
	assert.True(t, Totals{}.IsFinite())

	huge := c.Calculate(Request{"white rice": 1e308, "dal": 1e308})
	assert.False(t, huge.IsFinite())
}
