package meal

import "math"

// Request — блюдо: название продукта (возможно, частичное) → граммы.
type Request map[string]float64

// Totals — суммы нутриентов по найденным продуктам.
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

func (t Totals) Add(o Totals) Totals {
	return Totals{
		Calories: t.Calories + o.Calories,
		Protein:  t.Protein + o.Protein,
		Carbs:    t.Carbs + o.Carbs,
		Fat:      t.Fat + o.Fat,
		Fiber:    t.Fiber + o.Fiber,
	}
}

func (t Totals) IsZero() bool { return t == Totals{} }

// IsFinite — false, если сумма переполнилась (очень большие граммы).
func (t Totals) IsFinite() bool {
	for _, v := range []float64{t.Calories, t.Protein, t.Carbs, t.Fat, t.Fiber} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// Match — вклад одной позиции запроса.
type Match struct {
	Requested    string  `json:"requested"`
	Food         string  `json:"food"`
	Grams        float64 `json:"grams"`
	Contribution Totals  `json:"contribution"`
}

// Breakdown — итог с разбивкой по позициям.
type Breakdown struct {
	Totals    Totals   `json:"totals"`
	Matches   []Match  `json:"matches"`
	Unmatched []string `json:"unmatched"`
}
