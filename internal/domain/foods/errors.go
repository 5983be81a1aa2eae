package foods

import "fmt"

// DataLoadError — таблицу не удалось загрузить. Для сервиса это фатально:
// без таблицы обслуживать запросы нельзя.
type DataLoadError struct {
	Source string
	Row    int // 0 — ошибка не привязана к строке
	Err    error
}

func (e *DataLoadError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("load nutrition data from %s: row %d: %v", e.Source, e.Row, e.Err)
	}
	return fmt.Sprintf("load nutrition data from %s: %v", e.Source, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

func loadErr(source string, row int, err error) *DataLoadError {
	return &DataLoadError{Source: source, Row: row, Err: err}
}
