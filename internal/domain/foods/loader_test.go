package foods

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `food_item,calories,protein_g,carbs_g,fat_g,fiber_g
white rice,130,2.7,28,0.3,0.4
dal,116,9,20,0.4,8

chapati,297,11.2,46.4,7.5,4.9
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_CSV(t *testing.T) {
	p := writeFile(t, "foods.csv", sampleCSV)

	tbl, err := Load(context.Background(), Source{Kind: SourceCSV, Path: p})
	require.NoError(t, err)

	assert.Equal(t, []string{"white rice", "dal", "chapati"}, tbl.Names())
	rec, ok := tbl.First("rice")
	require.True(t, ok)
	assert.Equal(t, FoodRecord{Name: "white rice", Calories: 130, ProteinG: 2.7, CarbsG: 28, FatG: 0.3, FiberG: 0.4}, rec)
}

func TestReadCSV_ColumnOrderAndAlias(t *testing.T) {
	in := "fiber_g,name,fat_g,carbs_g,protein_g,calories,extra\n0.4,white rice,0.3,28,2.7,130,x\n"

	recs, err := ReadCSV(strings.NewReader(in), "test")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "white rice", recs[0].Name)
	assert.Equal(t, 0.4, recs[0].FiberG)
	assert.Equal(t, 130.0, recs[0].Calories)
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		row     int
		msg     string
	}{
		{"missing column", "food_item,calories,protein_g,carbs_g,fat_g\nrice,1,1,1,1\n", 1, "fiber_g"},
		{"not a number", "food_item,calories,protein_g,carbs_g,fat_g,fiber_g\nrice,abc,1,1,1,1\n", 2, "calories"},
		{"negative", "food_item,calories,protein_g,carbs_g,fat_g,fiber_g\nrice,1,-1,1,1,1\n", 2, "protein_g"},
		{"empty name", "food_item,calories,protein_g,carbs_g,fat_g,fiber_g\n ,1,1,1,1,1\n", 2, "name"},
		{"no rows", "food_item,calories,protein_g,carbs_g,fat_g,fiber_g\n", 0, "no food records"},
		{"empty file", "", 0, "empty"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := writeFile(t, "foods.csv", tc.content)

			_, err := Load(context.Background(), Source{Kind: SourceCSV, Path: p})
			require.Error(t, err)

			var le *DataLoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tc.row, le.Row)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), Source{Kind: SourceCSV, Path: filepath.Join(t.TempDir(), "nope.csv")})

	var le *DataLoadError
	require.True(t, errors.As(err, &le))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_UnknownKind(t *testing.T) {
	_, err := Load(context.Background(), Source{Kind: "json", Path: "x"})
	var le *DataLoadError
	assert.True(t, errors.As(err, &le))
}

type fakeLister struct {
	recs []FoodRecord
	err  error
}

func (f fakeLister) ListAll(context.Context) ([]FoodRecord, error) { return f.recs, f.err }

func TestLoad_Postgres(t *testing.T) {
	src := Source{Kind: SourcePostgres, DB: fakeLister{recs: []FoodRecord{{Name: "dal", Calories: 116}}}}
	tbl, err := Load(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())

	_, err = Load(context.Background(), Source{Kind: SourcePostgres, DB: fakeLister{err: errors.New("boom")}})
	var le *DataLoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "postgres", le.Source)

	_, err = Load(context.Background(), Source{Kind: SourcePostgres})
	assert.True(t, errors.As(err, &le))
}

func TestXLSX_RoundTrip(t *testing.T) {
	tbl := sampleTable()

	buf := &bytes.Buffer{}
	require.NoError(t, WriteXLSX(tbl, buf))

	recs, err := ReadXLSX(bytes.NewReader(buf.Bytes()), "test")
	require.NoError(t, err)
	assert.Equal(t, tbl.Records(), recs)

	p := writeFile(t, "foods.xlsx", buf.String())
	loaded, err := Load(context.Background(), Source{Kind: SourceXLSX, Path: p})
	require.NoError(t, err)
	assert.Equal(t, tbl.Names(), loaded.Names())
}

func TestReadXLSX_Garbage(t *testing.T) {
	_, err := ReadXLSX(strings.NewReader("not a workbook"), "test")
	var le *DataLoadError
	assert.True(t, errors.As(err, &le))
}

func TestReadCSV_RowIsFileLineAfterBlankLines(t *testing.T) {
	in := "food_item,calories,protein_g,carbs_g,fat_g,fiber_g\n" +
		"white rice,130,2.7,28,0.3,0.4\n" +
		"\n" +
		"\n" +
		"dal,abc,9,20,0.4,8\n"

	_, err := ReadCSV(strings.NewReader(in), "test")

	var le *DataLoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 5, le.Row)
	assert.Contains(t, err.Error(), "row 5")
}
