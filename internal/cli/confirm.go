package cli

import (
	"fmt"

	"github.com/avoronova/tally/internal/cli/formatter"
	"github.com/charmbracelet/huh"
)

// confirmMerge asks before an upsert that would update existing records.
// Merging sums slot counts on top of what is already persisted, so
// re-uploading an already-tallied file doubles its contribution.
func confirmMerge(updating int) bool {
	proceed := false
	err := huh.NewConfirm().
		Title(fmt.Sprintf("%s already persisted for these dates", formatter.Count(updating, "record"))).
		Description("Uploading adds this file's counts on top of the stored ones.\nIf this file was already tallied, its activity will be counted twice.").
		Affirmative("Upload anyway").
		Negative("Abort").
		Value(&proceed).
		Run()
	if err != nil {
		return false
	}
	return proceed
}
