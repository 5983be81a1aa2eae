package foods

import (
	"fmt"
	"math"
	"strings"
)

// FoodRecord — пищевая ценность продукта на 100 г.
type FoodRecord struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
	FiberG   float64 `json:"fiber_g"`
}

// Колонки источника в порядке выгрузки.
const (
	ColName     = "food_item"
	ColCalories = "calories"
	ColProtein  = "protein_g"
	ColCarbs    = "carbs_g"
	ColFat      = "fat_g"
	ColFiber    = "fiber_g"
)

var Columns = []string{ColName, ColCalories, ColProtein, ColCarbs, ColFat, ColFiber}

func (r FoodRecord) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("empty food name")
	}
	vals := []struct {
		col string
		v   float64
	}{
		{ColCalories, r.Calories},
		{ColProtein, r.ProteinG},
		{ColCarbs, r.CarbsG},
		{ColFat, r.FatG},
		{ColFiber, r.FiberG},
	}
	for _, x := range vals {
		if x.v < 0 || math.IsNaN(x.v) || math.IsInf(x.v, 0) {
			return fmt.Errorf("%s must be a non-negative number, got %v", x.col, x.v)
		}
	}
	return nil
}

// Table — неизменяемая таблица продуктов. После NewTable не меняется,
// поэтому читать её можно из любого количества горутин без блокировок.
type Table struct {
	records []FoodRecord
	lower   []string
}

func NewTable(records []FoodRecord) *Table {
	t := &Table{
		records: make([]FoodRecord, len(records)),
		lower:   make([]string, len(records)),
	}
	copy(t.records, records)
	for i, r := range t.records {
		t.lower[i] = strings.ToLower(r.Name)
	}
	return t
}

func (t *Table) Len() int { return len(t.records) }

// Records возвращает копию записей в порядке таблицы.
func (t *Table) Records() []FoodRecord {
	out := make([]FoodRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Names — все названия в порядке таблицы, без фильтрации.
func (t *Table) Names() []string {
	out := make([]string, len(t.records))
	for i, r := range t.records {
		out[i] = r.Name
	}
	return out
}

// Find возвращает записи, в названии которых встречается fragment
// (без учёта регистра). Порядок — порядок таблицы; авторитетна первая запись.
func (t *Table) Find(fragment string) []FoodRecord {
	needle := strings.ToLower(fragment)
	out := []FoodRecord{}
	for i, name := range t.lower {
		if strings.Contains(name, needle) {
			out = append(out, t.records[i])
		}
	}
	return out
}

// First — первое совпадение Find.
func (t *Table) First(fragment string) (FoodRecord, bool) {
	needle := strings.ToLower(fragment)
	for i, name := range t.lower {
		if strings.Contains(name, needle) {
			return t.records[i], true
		}
	}
	return FoodRecord{}, false
}
