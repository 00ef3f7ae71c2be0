package importer

import "strings"

// columnAbsent marks an optional column that was not found in the header;
// the filter reading that column is disabled for the batch.
const columnAbsent = -1

// columns holds the resolved cell indices for the three logical columns.
type columns struct {
	executor int
	module   int
	action   int
}

// resolveColumns maps the header row to column indices. Labels are matched
// case-insensitively after trimming. The executor column falls back to a
// fixed position when its label is missing, because exports rename or drop
// columns across report versions and an absent optional column must not
// abort the batch.
func resolveColumns(header []string, rules Rules) columns {
	return columns{
		executor: findColumn(header, rules.ExecutorHeader, rules.ExecutorFallbackIndex),
		module:   findColumn(header, rules.ModuleHeader, columnAbsent),
		action:   findColumn(header, rules.ActionHeader, columnAbsent),
	}
}

func findColumn(header []string, label string, fallback int) int {
	want := strings.ToLower(strings.TrimSpace(label))
	for i, cell := range header {
		if strings.ToLower(strings.TrimSpace(cell)) == want {
			return i
		}
	}
	return fallback
}

// cell returns the trimmed cell at index i, or "" when the row is too short
// or the column is absent.
func cell(row []string, i int) string {
	if i == columnAbsent || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
