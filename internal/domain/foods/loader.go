package foods

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type SourceKind string

const (
	SourceCSV      SourceKind = "csv"
	SourceXLSX     SourceKind = "xlsx"
	SourcePostgres SourceKind = "postgres"
)

// Lister — источник записей из БД (реализуется Repo).
type Lister interface {
	ListAll(ctx context.Context) ([]FoodRecord, error)
}

// Source описывает, откуда брать таблицу при старте.
type Source struct {
	Kind SourceKind
	Path string // для csv/xlsx
	DB   Lister // для postgres
}

func (s Source) String() string {
	if s.Kind == SourcePostgres {
		return "postgres"
	}
	return fmt.Sprintf("%s:%s", s.Kind, s.Path)
}

// Load читает таблицу из источника. Любая ошибка — *DataLoadError.
func Load(ctx context.Context, src Source) (*Table, error) {
	var (
		recs []FoodRecord
		err  error
	)
	switch src.Kind {
	case SourceCSV:
		recs, err = loadCSVFile(src.Path)
	case SourceXLSX:
		recs, err = loadXLSXFile(src.Path)
	case SourcePostgres:
		if src.DB == nil {
			return nil, loadErr(src.String(), 0, errors.New("database is not configured"))
		}
		recs, err = src.DB.ListAll(ctx)
		if err == nil {
			for i, r := range recs {
				if verr := r.validate(); verr != nil {
					return nil, loadErr(src.String(), i+1, verr)
				}
			}
		}
	default:
		return nil, loadErr(src.String(), 0, fmt.Errorf("unknown source kind %q", src.Kind))
	}
	if err != nil {
		var le *DataLoadError
		if errors.As(err, &le) {
			return nil, le
		}
		return nil, loadErr(src.String(), 0, err)
	}
	if len(recs) == 0 {
		return nil, loadErr(src.String(), 0, errors.New("no food records"))
	}
	return NewTable(recs), nil
}

func loadCSVFile(path string) ([]FoodRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadCSV(f, "csv:"+path)
}

// ReadCSV разбирает CSV с заголовком (food_item,calories,protein_g,carbs_g,fat_g,fiber_g).
// Порядок колонок произвольный, лишние колонки игнорируются.
func ReadCSV(r io.Reader, source string) ([]FoodRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	// csv пропускает пустые строки, поэтому номер строки файла берём из FieldPos
	var (
		rows  [][]string
		lines []int
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, loadErr(source, 0, fmt.Errorf("read csv: %w", err))
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, rec)
		lines = append(lines, line)
	}
	return parseRows(rows, lines, source)
}

// parseRows — общий разбор для CSV и Excel: первая строка — заголовок.
// lines — номера строк источника для rows; nil — строки идут подряд с первой.
func parseRows(rows [][]string, lines []int, source string) ([]FoodRecord, error) {
	if len(rows) == 0 {
		return nil, loadErr(source, 0, errors.New("empty source"))
	}
	lineOf := func(i int) int {
		if i < len(lines) {
			return lines[i]
		}
		return i + 1
	}
	idx, err := headerIndex(rows[0])
	if err != nil {
		return nil, loadErr(source, lineOf(0), err)
	}

	out := make([]FoodRecord, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		rec, err := parseRow(row, idx)
		if err != nil {
			return nil, loadErr(source, lineOf(i), err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func headerIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(Columns))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if h == "name" {
			h = ColName
		}
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	for _, c := range Columns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}
	return idx, nil
}

func parseRow(row []string, idx map[string]int) (FoodRecord, error) {
	cell := func(col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	num := func(col string) (float64, error) {
		s := cell(col)
		if s == "" {
			return 0, fmt.Errorf("empty %s", col)
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q", col, s)
		}
		return v, nil
	}

	var (
		rec FoodRecord
		err error
	)
	rec.Name = cell(ColName)
	if rec.Calories, err = num(ColCalories); err != nil {
		return rec, err
	}
	if rec.ProteinG, err = num(ColProtein); err != nil {
		return rec, err
	}
	if rec.CarbsG, err = num(ColCarbs); err != nil {
		return rec, err
	}
	if rec.FatG, err = num(ColFat); err != nil {
		return rec, err
	}
	if rec.FiberG, err = num(ColFiber); err != nil {
		return rec, err
	}
	return rec, rec.validate()
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
