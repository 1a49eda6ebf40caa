// Package export writes entries to CSV, XLSX and JSON snapshot files and
// reads them back for import.
package export

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/theirongolddev/savearn/internal/model"
)

// Columns is the CSV header, in write order.
var Columns = []string{
	"id", "date", "category",
	"expensive_option", "expensive_amount",
	"chosen_option", "chosen_amount",
	"earned", "description",
}

// utf8BOM lets spreadsheet apps detect the encoding of non-ASCII labels.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes entries with a header row.
func WriteCSV(w io.Writer, entries []model.SavingEntry) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, e := range entries {
		rec := []string{
			e.ID,
			e.Date,
			e.Category,
			e.ExpensiveOption,
			e.ExpensiveAmount.StringFixed(2),
			e.ChosenOption,
			e.ChosenAmount.StringFixed(2),
			e.Earned.StringFixed(2),
			e.Description,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing csv row %s: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a CSV file into candidate entries. Columns are matched by
// header name, so column order does not matter; id and earned are ignored
// because imported rows get fresh ids and a recomputed earned amount.
// Every row is normalized and validated; the first bad row fails the import.
func ReadCSV(r io.Reader) ([]model.EntryInput, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"date", "expensive_option", "expensive_amount", "chosen_option", "chosen_amount"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("csv: missing column %q", required)
		}
	}

	var out []model.EntryInput
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		field := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		in, err := rowInput(field)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, in)
	}
	return out, nil
}

func rowInput(field func(string) string) (model.EntryInput, error) {
	expensive, err := model.ParseAmount("expensive_amount", field("expensive_amount"))
	if err != nil {
		return model.EntryInput{}, err
	}
	chosen, err := model.ParseAmount("chosen_amount", field("chosen_amount"))
	if err != nil {
		return model.EntryInput{}, err
	}
	in := model.EntryInput{
		Date:            field("date"),
		Category:        field("category"),
		ExpensiveOption: field("expensive_option"),
		ExpensiveAmount: expensive,
		ChosenOption:    field("chosen_option"),
		ChosenAmount:    chosen,
		Description:     field("description"),
	}.Normalize()
	return in, in.Validate()
}
