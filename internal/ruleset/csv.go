package ruleset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// csvColumns are the header names read from a translations_csv file.
// Columns not listed here are ignored.
var csvColumns = []string{
	"enable", "group", "print", "duplicates",
	"pattern1", "pattern2", "pattern3",
	"variable1_starts_with", "variable1_ends_with",
	"variable2_starts_with", "variable2_ends_with",
	"variable3_starts_with", "variable3_ends_with",
}

var csvDisabled = map[string]bool{"No": true, "no": true, "False": true, "false": true, "0": true}

func loadCSV(path string) ([]rawTranslation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	return readCSV(f)
}

func readCSV(r io.Reader) ([]rawTranslation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, col := range csvColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: csv column %q missing", ErrInvalidConfig, col)
		}
	}

	var out []rawTranslation
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		get := func(col string) string {
			i := index[col]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		tr := rawTranslation{
			Group:      get("group"),
			Print:      get("print"),
			Duplicates: get("duplicates"),
		}
		if csvDisabled[get("enable")] {
			disabled := false
			tr.Enable = &disabled
		}
		for _, col := range []string{"pattern1", "pattern2", "pattern3"} {
			if p := get(col); p != "" {
				tr.Patterns = append(tr.Patterns, p)
			}
		}
		for n := 1; n <= 3; n++ {
			start := get(fmt.Sprintf("variable%d_starts_with", n))
			if start == "" {
				continue
			}
			tr.Variables = append(tr.Variables, Variable{
				StartsWith: start,
				EndsWith:   get(fmt.Sprintf("variable%d_ends_with", n)),
			})
		}
		out = append(out, tr)
	}
	return out, nil
}
