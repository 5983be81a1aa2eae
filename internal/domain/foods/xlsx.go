package foods

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

func loadXLSXFile(path string) ([]FoodRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return readSheet(f, "xlsx:"+path)
}

// ReadXLSX читает активный лист книги с теми же колонками, что и CSV.
func ReadXLSX(r io.Reader, source string) ([]FoodRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, loadErr(source, 0, fmt.Errorf("open xlsx: %w", err))
	}
	defer func() { _ = f.Close() }()
	return readSheet(f, source)
}

func readSheet(f *excelize.File, source string) ([]FoodRecord, error) {
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, loadErr(source, 0, fmt.Errorf("read sheet %q: %w", sheet, err))
	}
	return parseRows(rows, nil, source)
}

// WriteXLSX выгружает таблицу в Excel; файл снова читается через Load.
func WriteXLSX(t *Table, w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := make([]interface{}, 0, len(Columns))
	for _, c := range Columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := 2
	for _, r := range t.records {
		excelRow := []interface{}{
			r.Name,
			r.Calories,
			r.ProteinG,
			r.CarbsG,
			r.FatG,
			r.FiberG,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
