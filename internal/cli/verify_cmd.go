package cli

import (
	"fmt"
	"regexp"

	"github.com/avoronova/tally/internal/cli/formatter"
	"github.com/spf13/cobra"
)

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func newVerifyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "verify DATE",
		Short: "Poll the store until records for a date are visible",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := args[0]
			if !isoDate.MatchString(date) {
				return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", date)
			}

			ctx := cmd.Context()

			if app.interactive() {
				if err := runVerifyView(ctx, app, date); err != nil {
					fmt.Println(formatter.Warn(err.Error()))
					return nil
				}
				fmt.Println(formatter.Ok("records for " + date + " are visible"))
				return nil
			}

			app.Poller.OnAttempt = func(remaining int) {
				fmt.Fprintf(cmd.ErrOrStderr(), "no records for %s yet (%d attempts left)\n", date, remaining)
			}
			defer func() { app.Poller.OnAttempt = nil }()

			if err := app.Upload.Verify(ctx, date); err != nil {
				fmt.Println(formatter.Warn(err.Error()))
				return nil
			}
			fmt.Println(formatter.Ok("records for " + date + " are visible"))
			return nil
		},
	}
}
