package export

import (
	"fmt"
	"io"

	"github.com/theirongolddev/savearn/internal/model"

	"github.com/xuri/excelize/v2"
)

// Sheet names in the workbook written by WriteXLSX.
const (
	SheetEntries    = "Entries"
	SheetCategories = "Categories"
	SheetMonthly    = "Monthly"
)

// numFmtMoney is the built-in "0.00" number format.
const numFmtMoney = 2

// Workbook is the data written to a spreadsheet.
type Workbook struct {
	Entries    []model.SavingEntry
	Categories []model.CategoryStats
	Months     []model.MonthlyStats
}

// WriteXLSX writes a workbook with one sheet of entries and one sheet each
// for the category and monthly breakdowns. Amounts are numeric cells.
func WriteXLSX(w io.Writer, wb Workbook) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetEntries); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney})
	if err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx style: %w", err)
	}

	entryRows := make([][]any, 0, len(wb.Entries))
	for _, e := range wb.Entries {
		entryRows = append(entryRows, []any{
			e.Date,
			model.LookupCategory(e.Category).Name,
			e.ExpensiveOption,
			e.ExpensiveAmount.InexactFloat64(),
			e.ChosenOption,
			e.ChosenAmount.InexactFloat64(),
			e.Earned.InexactFloat64(),
			e.Description,
		})
	}
	sheets := []struct {
		name    string
		headers []string
		rows    [][]any
		money   []string // money columns
		widths  []float64
	}{
		{
			name:    SheetEntries,
			headers: []string{"Date", "Category", "Instead of", "Price", "Chose", "Paid", "Earned", "Description"},
			rows:    entryRows,
			money:   []string{"D", "F", "G"},
			widths:  []float64{12, 18, 24, 10, 24, 10, 10, 30},
		},
		{
			name:    SheetCategories,
			headers: []string{"Category", "Entries", "Earned", "Share %"},
			rows:    categoryRows(wb.Categories),
			money:   []string{"C"},
			widths:  []float64{18, 10, 12, 10},
		},
		{
			name:    SheetMonthly,
			headers: []string{"Month", "Entries", "Earned"},
			rows:    monthRows(wb.Months),
			money:   []string{"C"},
			widths:  []float64{12, 10, 12},
		},
	}

	for _, s := range sheets {
		if s.name != SheetEntries {
			if _, err := f.NewSheet(s.name); err != nil {
				return fmt.Errorf("xlsx sheet %s: %w", s.name, err)
			}
		}
		if err := writeSheet(f, s.name, s.headers, s.rows); err != nil {
			return err
		}
		last := len(s.headers)
		endCell, _ := excelize.CoordinatesToCellName(last, 1)
		if err := f.SetCellStyle(s.name, "A1", endCell, bold); err != nil {
			return fmt.Errorf("xlsx header style: %w", err)
		}
		if len(s.rows) > 0 {
			for _, col := range s.money {
				top := fmt.Sprintf("%s2", col)
				bottom := fmt.Sprintf("%s%d", col, len(s.rows)+1)
				if err := f.SetCellStyle(s.name, top, bottom, money); err != nil {
					return fmt.Errorf("xlsx money style: %w", err)
				}
			}
		}
		for i, width := range s.widths {
			col, _ := excelize.ColumnNumberToName(i + 1)
			if err := f.SetColWidth(s.name, col, col, width); err != nil {
				return fmt.Errorf("xlsx width: %w", err)
			}
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	head := make([]any, len(headers))
	for i, h := range headers {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return fmt.Errorf("xlsx %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func categoryRows(cats []model.CategoryStats) [][]any {
	rows := make([][]any, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []any{c.Label, c.Count, c.TotalEarned.InexactFloat64(), c.Percentage})
	}
	return rows
}

func monthRows(months []model.MonthlyStats) [][]any {
	rows := make([][]any, 0, len(months))
	for _, m := range months {
		rows = append(rows, []any{m.Label, m.EntriesCount, m.TotalEarned.InexactFloat64()})
	}
	return rows
}
