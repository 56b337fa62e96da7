package reports

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"kitchenops/internal/planning"
)

const (
	summarySheet     = "Summary"
	maxSheetNameLen  = 31
	currencyNumFmt   = "#,##0.00"
	quantityNumFmt   = "#,##0.###"
	invalidSheetRune = `:\/?*[]`
)

type excelStyles struct {
	header   int
	quantity int
	currency int
	total    int
}

// WriteExcel writes a workbook with a Summary sheet followed by one sheet per section.
func WriteExcel(w io.Writer, report Report, currency string) error {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newExcelStyles(f, currency)
	if err != nil {
		return err
	}

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, report, styles); err != nil {
		return err
	}

	used := map[string]bool{summarySheet: true}
	for _, section := range report.Sections {
		name := uniqueSheetName(section.Title, used)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %q: %w", name, err)
		}
		if err := writeSectionSheet(f, name, section, styles); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func newExcelStyles(f *excelize.File, currency string) (excelStyles, error) {
	var styles excelStyles
	var err error

	styles.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"3F6212"}},
	})
	if err != nil {
		return styles, fmt.Errorf("header style: %w", err)
	}

	quantityFmt := quantityNumFmt
	styles.quantity, err = f.NewStyle(&excelize.Style{CustomNumFmt: &quantityFmt})
	if err != nil {
		return styles, fmt.Errorf("quantity style: %w", err)
	}

	currencyFmt := currencyNumFmt
	if currency != "" {
		currencyFmt = fmt.Sprintf(`"%s"%s`, currency, currencyNumFmt)
	}
	styles.currency, err = f.NewStyle(&excelize.Style{CustomNumFmt: &currencyFmt})
	if err != nil {
		return styles, fmt.Errorf("currency style: %w", err)
	}
	styles.total, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &currencyFmt})
	if err != nil {
		return styles, fmt.Errorf("total style: %w", err)
	}
	return styles, nil
}

func writeSummarySheet(f *excelize.File, report Report, styles excelStyles) error {
	rows := [][]any{
		{"Ingredients report", FormatReportDate(report.Date)},
		{"Date", planning.FormatDay(report.Date)},
		{},
		{"Section", "Meals", "Servings", "Ingredients", "Total Cost"},
	}
	for _, section := range report.Sections {
		rows = append(rows, []any{
			section.Title,
			section.Meals,
			section.Servings,
			len(section.Ingredients),
			section.Totals.Cost.InexactFloat64(),
		})
	}
	rows = append(rows, []any{"Grand total", nil, report.Servings, nil, report.GrandTotal.Cost.InexactFloat64()})

	if err := setRows(f, summarySheet, rows); err != nil {
		return err
	}

	if err := f.SetCellStyle(summarySheet, "A4", "E4", styles.header); err != nil {
		return err
	}
	first, last := 5, len(rows)
	if err := f.SetCellStyle(summarySheet, fmt.Sprintf("E%d", first), fmt.Sprintf("E%d", last), styles.currency); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", last), fmt.Sprintf("E%d", last), styles.total); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "A", "A", 36)
}

func writeSectionSheet(f *excelize.File, sheet string, section Section, styles excelStyles) error {
	rows := [][]any{{"Ingredient", "Unit", "Total Quantity", "Total Cost", "Sources"}}
	for _, item := range section.Ingredients {
		rows = append(rows, []any{
			item.Name,
			item.Unit,
			item.TotalQuantity.InexactFloat64(),
			item.TotalCost.InexactFloat64(),
			describeSources(item.Sources),
		})
	}
	rows = append(rows, []any{"Total", nil, nil, section.Totals.Cost.InexactFloat64()})

	if err := setRows(f, sheet, rows); err != nil {
		return err
	}

	last := len(rows)
	if err := f.SetCellStyle(sheet, "A1", "E1", styles.header); err != nil {
		return err
	}
	if last > 2 {
		if err := f.SetCellStyle(sheet, "C2", fmt.Sprintf("C%d", last-1), styles.quantity); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "D2", fmt.Sprintf("D%d", last-1), styles.currency); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, fmt.Sprintf("A%d", last), fmt.Sprintf("D%d", last), styles.total); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "E", "E", 60)
}

func setRows(f *excelize.File, sheet string, rows [][]any) error {
	for idx := range rows {
		cell, err := excelize.CoordinatesToCellName(1, idx+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[idx]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, idx+1, err)
		}
	}
	return nil
}

// uniqueSheetName strips characters Excel rejects, truncates to the sheet name limit and
// appends a counter when the name is already taken.
func uniqueSheetName(title string, used map[string]bool) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidSheetRune, r) {
			return ' '
		}
		return r
	}, title)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		cleaned = "Section"
	}

	name := truncateRunes(cleaned, maxSheetNameLen)
	for n := 2; used[name]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncateRunes(cleaned, maxSheetNameLen-len(suffix)) + suffix
	}
	used[name] = true
	return name
}

func truncateRunes(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit]))
}
