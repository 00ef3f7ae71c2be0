package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SkipReason says why a row was excluded from aggregation. Skips are
// counted, never fatal.
type SkipReason string

const (
	SkipEmptyExecutor   SkipReason = "empty_executor"
	SkipDeniedExecutor  SkipReason = "denied_executor"
	SkipDeniedModule    SkipReason = "denied_module"
	SkipCancelledAction SkipReason = "cancelled_action"
	SkipNoTimestamp     SkipReason = "missing_timestamp"
	SkipBadTimestamp    SkipReason = "bad_timestamp"
)

// Row is one accepted action: who did it, on which calendar date, at which
// time of day. Date is already reformatted to ISO (YYYY-MM-DD) and Time is
// the export's HH:MM prefix, not yet rounded to a slot.
type Row struct {
	Executor string
	Date     string
	Time     string
}

// Report is the outcome of parsing one activity export.
type Report struct {
	Rows     []Row
	Total    int
	Accepted int
	Skipped  map[SkipReason]int
}

// Parse tokenizes the export, resolves its header, and classifies every
// data row. Only structural failures return an error; individual row
// rejections are absorbed into the report.
func Parse(r io.Reader, rules Rules) (*Report, error) {
	raw, err := Tokenize(r)
	if err != nil {
		return nil, err
	}

	cols := resolveColumns(raw[0], rules)
	report := &Report{Skipped: make(map[SkipReason]int)}

	for _, cells := range raw[1:] {
		report.Total++
		row, reason := classify(cells, cols, rules)
		if reason != "" {
			report.Skipped[reason]++
			continue
		}
		report.Rows = append(report.Rows, row)
		report.Accepted++
	}

	return report, nil
}

// classify applies the exclusion rules to one data row, returning either
// an accepted Row or the reason it was skipped.
func classify(cells []string, cols columns, rules Rules) (Row, SkipReason) {
	executor := cell(cells, cols.executor)
	if executor == "" {
		return Row{}, SkipEmptyExecutor
	}
	if rules.executorDenied(executor) {
		return Row{}, SkipDeniedExecutor
	}
	if m := cell(cells, cols.module); cols.module != columnAbsent && m == rules.DeniedModule {
		return Row{}, SkipDeniedModule
	}
	if a := cell(cells, cols.action); cols.action != columnAbsent && a == rules.CancelAction {
		return Row{}, SkipCancelledAction
	}

	if rules.TimestampIndex >= len(cells) {
		return Row{}, SkipNoTimestamp
	}
	stamp := strings.TrimSpace(cells[rules.TimestampIndex])
	if stamp == "" {
		return Row{}, SkipNoTimestamp
	}

	date, tod, ok := splitTimestamp(stamp)
	if !ok {
		return Row{}, SkipBadTimestamp
	}

	return Row{Executor: executor, Date: date, Time: tod}, ""
}

// splitTimestamp validates a "DD.MM.YYYY HH:MM:SS" stamp and returns the
// ISO date plus the HH:MM prefix of the time part.
func splitTimestamp(stamp string) (date, tod string, ok bool) {
	parts := strings.SplitN(stamp, " ", 2)
	if len(parts) != 2 {
		return "", "", false
	}

	dmy := strings.Split(parts[0], ".")
	if len(dmy) != 3 {
		return "", "", false
	}
	day, errD := strconv.Atoi(dmy[0])
	month, errM := strconv.Atoi(dmy[1])
	year, errY := strconv.Atoi(dmy[2])
	if errD != nil || errM != nil || errY != nil {
		return "", "", false
	}
	if day < 1 || day > 31 || month < 1 || month > 12 || year < 1000 {
		return "", "", false
	}

	t := parts[1]
	if len(t) < 5 || t[2] != ':' {
		return "", "", false
	}
	tod = t[:5]
	if _, err := strconv.Atoi(tod[:2]); err != nil {
		return "", "", false
	}
	if _, err := strconv.Atoi(tod[3:]); err != nil {
		return "", "", false
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), tod, true
}
