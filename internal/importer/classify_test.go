package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exportHeader mirrors the column layout of a real export: the executor
// column sits at index 6 and the timestamp at index 7.
const exportHeader = "Record,Owner,Status,Field,Old Value,New Value,Performed By,Audited Time,Module,Action"

func exportFile(dataRows ...string) string {
	return exportHeader + "\n" + strings.Join(dataRows, "\n") + "\n"
}

func TestParse_AcceptsValidRows(t *testing.T) {
	file := exportFile(
		`r1,o,ok,f,a,b,Anna Petrova,01.03.2025 09:02:11,Leads,Update`,
		`r2,o,ok,f,a,b,Anna Petrova,01.03.2025 09:06:45,Leads,Update`,
	)

	report, err := Parse(strings.NewReader(file), DefaultRules())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 2, report.Accepted)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, Row{Executor: "Anna Petrova", Date: "2025-03-01", Time: "09:02"}, report.Rows[0])
	assert.Equal(t, Row{Executor: "Anna Petrova", Date: "2025-03-01", Time: "09:06"}, report.Rows[1])
}

func TestParse_SkipReasons(t *testing.T) {
	cases := []struct {
		name   string
		row    string
		reason SkipReason
	}{
		{"empty executor", `r,o,ok,f,a,b,,01.03.2025 09:02:11,Leads,Update`, SkipEmptyExecutor},
		{"system executor", `r,o,ok,f,a,b,System Workflow,01.03.2025 09:02:11,Leads,Update`, SkipDeniedExecutor},
		{"denied module", `r,o,ok,f,a,b,Anna Petrova,01.03.2025 09:02:11,Deluge,Update`, SkipDeniedModule},
		{"cancelled action", `r,o,ok,f,a,b,Anna Petrova,01.03.2025 09:02:11,Leads,Cancel`, SkipCancelledAction},
		{"missing timestamp", `r,o,ok,f,a,b,Anna Petrova,,Leads,Update`, SkipNoTimestamp},
		{"row too short for timestamp", `r,o,ok,f,a,b,Anna Petrova`, SkipNoTimestamp},
		{"no time part", `r,o,ok,f,a,b,Anna Petrova,01.03.2025,Leads,Update`, SkipBadTimestamp},
		{"date not three parts", `r,o,ok,f,a,b,Anna Petrova,01/03/2025 09:02:11,Leads,Update`, SkipBadTimestamp},
		{"non-numeric date", `r,o,ok,f,a,b,Anna Petrova,aa.bb.cccc 09:02:11,Leads,Update`, SkipBadTimestamp},
		{"garbage time", `r,o,ok,f,a,b,Anna Petrova,01.03.2025 blah,Leads,Update`, SkipBadTimestamp},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report, err := Parse(strings.NewReader(exportFile(tc.row)), DefaultRules())
			require.NoError(t, err)

			assert.Equal(t, 0, report.Accepted)
			assert.Equal(t, 1, report.Skipped[tc.reason])
			assert.Empty(t, report.Rows)
		})
	}
}

func TestParse_ExtraDeniedExecutor(t *testing.T) {
	rules := DefaultRules()
	rules.DeniedExecutors = append(rules.DeniedExecutors, "Data Admin")

	file := exportFile(`r,o,ok,f,a,b,Data Admin,01.03.2025 09:02:11,Leads,Update`)
	report, err := Parse(strings.NewReader(file), rules)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Skipped[SkipDeniedExecutor])
}

func TestParse_OptionalColumnsAbsent(t *testing.T) {
	// No module/action columns at all: those filters are disabled and rows
	// that would otherwise be denied pass through.
	file := "A,B,C,D,E,F,Performed By,Audited Time\n" +
		`r,o,ok,f,a,b,Anna Petrova,01.03.2025 10:00:00` + "\n"

	report, err := Parse(strings.NewReader(file), DefaultRules())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Accepted)
}

func TestParse_ExecutorFallbackIndex(t *testing.T) {
	// Header renamed the executor column; position 6 still holds the name.
	file := "A,B,C,D,E,F,Who Did It,Audited Time\n" +
		`r,o,ok,f,a,b,Anna Petrova,01.03.2025 10:00:00` + "\n"

	report, err := Parse(strings.NewReader(file), DefaultRules())
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "Anna Petrova", report.Rows[0].Executor)
}

func TestParse_HeaderMatchIsCaseInsensitive(t *testing.T) {
	file := "A,B,C,D,E,F,  PERFORMED BY ,Audited Time, MODULE , ACTION \n" +
		`r,o,ok,f,a,b,Anna Petrova,01.03.2025 10:00:00,Deluge,Update` + "\n"

	report, err := Parse(strings.NewReader(file), DefaultRules())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped[SkipDeniedModule])
}

func TestParse_QuotedFieldsAndBlankLines(t *testing.T) {
	file := exportHeader + "\n" +
		"\n" +
		`"r,1",o,ok,f,a,b,"Petrova, Anna",01.03.2025 09:02:11,Leads,Update` + "\n" +
		",,,,,,,,,\n"

	report, err := Parse(strings.NewReader(file), DefaultRules())
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "Petrova, Anna", report.Rows[0].Executor)
	assert.Equal(t, 1, report.Total)
}

func TestParse_MalformedQuotingIsFatal(t *testing.T) {
	file := exportHeader + "\n" + `"unterminated,o,ok` + "\n" + `x"y,z`

	_, err := Parse(strings.NewReader(file), DefaultRules())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestParse_EmptyFileIsFatal(t *testing.T) {
	_, err := Parse(strings.NewReader(""), DefaultRules())
	assert.ErrorIs(t, err, ErrParse)
}

func TestLoadRules_EnvOverrides(t *testing.T) {
	t.Setenv("TALLY_DENY_EXECUTORS", "Data Admin, Migration Bot")
	t.Setenv("TALLY_DENY_MODULE", "Automation")
	t.Setenv("TALLY_TIMESTAMP_INDEX", "9")

	rules := LoadRules()

	assert.Contains(t, rules.DeniedExecutors, "System Workflow")
	assert.Contains(t, rules.DeniedExecutors, "Data Admin")
	assert.Contains(t, rules.DeniedExecutors, "Migration Bot")
	assert.Equal(t, "Automation", rules.DeniedModule)
	assert.Equal(t, 9, rules.TimestampIndex)
}
