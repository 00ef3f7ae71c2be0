package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/avoronova/tally/internal/cli/formatter"
	"github.com/avoronova/tally/internal/domain"
	"github.com/spf13/cobra"
)

func newCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Dry-run an export: classify and aggregate without writing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening export: %w", err)
			}
			defer file.Close()

			result, err := app.Upload.Inspect(cmd.Context(), file)
			if err != nil {
				return err
			}

			fmt.Printf("%s parsed, %s accepted, %d skipped\n",
				formatter.Count(result.Report.Total, "row"),
				formatter.Count(result.Report.Accepted, "row"),
				result.Report.Total-result.Report.Accepted)
			if result.GroupsSkipped {
				fmt.Println(formatter.Warn("group directory unavailable; group aggregates not shown"))
			}

			if len(result.Users) == 0 {
				fmt.Println("Nothing countable in this file.")
				return nil
			}

			headers := []string{"DATE", "PARTICIPANT", "KIND", "SLOTS", "DURATION"}
			rows := make([][]string, 0, len(result.Users)+len(result.Groups))
			for _, a := range append(result.Users, result.Groups...) {
				rows = append(rows, []string{
					a.Date,
					a.Name,
					string(a.Kind),
					renderSlots(a.Slots),
					formatter.FormatMinutes(a.Duration()),
				})
			}
			sort.Slice(rows, func(i, j int) bool {
				if rows[i][0] != rows[j][0] {
					return rows[i][0] < rows[j][0]
				}
				return rows[i][1] < rows[j][1]
			})

			fmt.Print(formatter.RenderBox("Aggregates", formatter.RenderTable(headers, rows)))
			fmt.Println()
			return nil
		},
	}
}

// renderSlots previews a slot map as "09:00×2 09:10×1", truncated.
func renderSlots(m domain.SlotMap) string {
	keys := m.Keys()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s×%d", k, m[k]))
	}
	const maxShown = 6
	if len(parts) > maxShown {
		return strings.Join(parts[:maxShown], " ") + formatter.Dim(fmt.Sprintf(" +%d more", len(parts)-maxShown))
	}
	return strings.Join(parts, " ")
}
