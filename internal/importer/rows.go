package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one spreadsheet line of a recipe import.
type Row struct {
	Recipe   string
	Servings int
	Line     Line
}

// RecipeRows bundles the rows of one recipe in file order.
type RecipeRows struct {
	Name     string
	Servings int
	Lines    []Line
}

var (
	ErrEmptySheet       = errors.New("importer: sheet has no header row")
	ErrUnsupportedSheet = errors.New("importer: expected a .csv or .xlsx file")
)

var requiredColumns = []string{"recipe", "ingredient", "quantity", "unit"}

// ReadRows reads recipe rows from a .csv or .xlsx file. The header row must contain
// Recipe, Ingredient, Quantity and Unit; Group, Group Order, Cost Per Unit and Servings are
// optional. Header matching ignores case and surrounding space.
func ReadRows(path string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open xlsx: %w", err)
		}
		defer f.Close()
		return readWorkbook(f)
	default:
		return nil, ErrUnsupportedSheet
	}
}

// ReadCSV reads recipe rows from CSV data.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	return rowsFromRecords(records)
}

// ReadXLSX reads recipe rows from the first sheet of a workbook.
func ReadXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	return readWorkbook(f)
}

func readWorkbook(f *excelize.File) ([]Row, error) {
	records, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	return rowsFromRecords(records)
}

func rowsFromRecords(records [][]string) ([]Row, error) {
	if len(records) == 0 {
		return nil, ErrEmptySheet
	}

	columns := make(map[string]int, len(records[0]))
	for idx, header := range records[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = idx
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("importer: missing %q column", name)
		}
	}

	cell := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	rows := make([]Row, 0, len(records)-1)
	for n, record := range records[1:] {
		lineNo := n + 2
		recipe := cell(record, "recipe")
		name := cell(record, "ingredient")
		if recipe == "" && name == "" {
			continue
		}
		if recipe == "" {
			return nil, fmt.Errorf("row %d: recipe is required", lineNo)
		}

		quantity, err := ParseQuantity(cell(record, "quantity"))
		if err != nil {
			return nil, fmt.Errorf("row %d: quantity: %w", lineNo, err)
		}
		cost, err := ParseCost(cell(record, "cost per unit"))
		if err != nil {
			return nil, fmt.Errorf("row %d: cost per unit: %w", lineNo, err)
		}

		row := Row{
			Recipe: recipe,
			Line: Line{
				Group:       cell(record, "group"),
				Name:        name,
				Quantity:    quantity,
				Unit:        cell(record, "unit"),
				CostPerUnit: cost,
			},
		}
		if value := cell(record, "group order"); value != "" {
			order, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("row %d: group order: %w", lineNo, err)
			}
			row.Line.GroupOrder = &order
		}
		if value := cell(record, "servings"); value != "" {
			servings, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("row %d: servings: %w", lineNo, err)
			}
			row.Servings = servings
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ByRecipe groups rows per recipe name in order of first appearance. The first non-zero
// servings value for a recipe is kept.
func ByRecipe(rows []Row) []RecipeRows {
	var result []RecipeRows
	positions := make(map[string]int)
	for _, row := range rows {
		pos, ok := positions[row.Recipe]
		if !ok {
			pos = len(result)
			positions[row.Recipe] = pos
			result = append(result, RecipeRows{Name: row.Recipe})
		}
		if result[pos].Servings == 0 && row.Servings > 0 {
			result[pos].Servings = row.Servings
		}
		if row.Line.Name != "" {
			result[pos].Lines = append(result[pos].Lines, row.Line)
		}
	}
	return result
}
