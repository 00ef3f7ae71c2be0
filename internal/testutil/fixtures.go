package testutil

import (
	"strings"

	"github.com/avoronova/tally/internal/domain"
)

// ExportHeader matches the column layout of a real activity export:
// executor at index 6, timestamp at index 7, then module and action.
const ExportHeader = "Record,Owner,Status,Field,Old Value,New Value,Performed By,Audited Time,Module,Action"

// ExportRow renders one data row for the fixture export.
// stamp is "DD.MM.YYYY HH:MM:SS".
func ExportRow(executor, stamp, module, action string) string {
	return strings.Join([]string{"rec", "owner", "ok", "field", "old", "new", executor, stamp, module, action}, ",")
}

// ExportFile assembles a complete export with header and the given rows.
func ExportFile(rows ...string) string {
	return ExportHeader + "\n" + strings.Join(rows, "\n") + "\n"
}

// Directory returns a two-group directory used across service tests.
func Directory() *domain.Directory {
	return &domain.Directory{Groups: []domain.Group{
		{ID: "g-sales", Name: "Sales", Members: []domain.Member{
			{FirstName: "Anna", LastName: "Petrova"},
			{FirstName: "Ivan", LastName: "Sidorov"},
		}},
		{ID: "g-support", Name: "Support", Members: []domain.Member{
			{FirstName: "Olga", LastName: "Orlova"},
		}},
	}}
}
