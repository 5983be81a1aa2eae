package meal

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Spok95/nutrition-calc/internal/domain/foods"
)

var ErrStrategyUnavailable = errors.New("meal: strategy is not available")

const (
	StrategyRule  = "rule"
	StrategyModel = "model"
)

// Strategy считает итоги блюда. Выбирается один раз при старте.
type Strategy interface {
	Name() string
	Calculate(req Request) Totals
	Breakdown(req Request) Breakdown
}

// Lookup — поиск продукта; первая запись в порядке таблицы.
type Lookup interface {
	First(fragment string) (foods.FoodRecord, bool)
}

// NewStrategy возвращает стратегию по имени из конфига.
func NewStrategy(name string, table Lookup) (Strategy, error) {
	switch name {
	case "", StrategyRule:
		return NewRuleBased(table), nil
	case StrategyModel:
		return nil, fmt.Errorf("%w: %q", ErrStrategyUnavailable, name)
	default:
		return nil, fmt.Errorf("meal: unknown strategy %q", name)
	}
}

// RuleBased: для каждой позиции берём первое совпадение и добавляем
// значения на 100 г, умноженные на граммы/100. Ненайденные позиции пропускаются.
type RuleBased struct {
	table Lookup
}

func NewRuleBased(table Lookup) *RuleBased { return &RuleBased{table: table} }

func (c *RuleBased) Name() string { return StrategyRule }

func (c *RuleBased) Calculate(req Request) Totals {
	return c.Breakdown(req).Totals
}

func (c *RuleBased) Breakdown(req Request) Breakdown {
	// обход в отсортированном порядке: суммы float не должны зависеть от порядка map
	names := make([]string, 0, len(req))
	for name := range req {
		names = append(names, name)
	}
	sort.Strings(names)

	out := Breakdown{Matches: []Match{}, Unmatched: []string{}}
	for _, name := range names {
		qty := req[name]
		rec, ok := c.table.First(name)
		if !ok {
			out.Unmatched = append(out.Unmatched, name)
			continue
		}
		part := contribution(rec, qty)
		out.Totals = out.Totals.Add(part)
		out.Matches = append(out.Matches, Match{
			Requested:    name,
			Food:         rec.Name,
			Grams:        qty,
			Contribution: part,
		})
	}
	return out
}

// Ratio — коэффициент пересчёта значений на 100 г.
func Ratio(grams float64) float64 { return grams / 100 }

func contribution(rec foods.FoodRecord, grams float64) Totals {
	ratio := Ratio(grams)
	return Totals{
		Calories: rec.Calories * ratio,
		Protein:  rec.ProteinG * ratio,
		Carbs:    rec.CarbsG * ratio,
		Fat:      rec.FatG * ratio,
		Fiber:    rec.FiberG * ratio,
	}
}
