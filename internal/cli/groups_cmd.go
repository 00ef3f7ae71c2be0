package cli

import (
	"fmt"

	"github.com/avoronova/tally/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newGroupsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "Show the group directory used for group aggregation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Directory == nil {
				fmt.Println("No directory provider configured.")
				return nil
			}

			dir, err := app.Directory.FetchGroups(cmd.Context())
			if err != nil {
				return err
			}
			if len(dir.Groups) == 0 {
				fmt.Println("The directory has no groups.")
				return nil
			}

			headers := []string{"ID", "GROUP", "MEMBERS"}
			rows := make([][]string, 0, len(dir.Groups))
			for _, g := range dir.Groups {
				rows = append(rows, []string{
					g.ID,
					formatter.Bold(g.Name),
					formatter.Count(len(g.Members), "member"),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}
}
