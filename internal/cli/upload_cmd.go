package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/avoronova/tally/internal/cli/formatter"
	"github.com/avoronova/tally/internal/importer"
	"github.com/avoronova/tally/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newUploadCmd(app *App) *cobra.Command {
	var noVerify, yes bool

	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Tally an activity export and reconcile it into the record store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening export: %w", err)
			}
			defer file.Close()

			ctx := cmd.Context()
			interactive := app.interactive()

			opts := service.UploadOptions{}
			if !yes && interactive {
				opts.ConfirmMerge = confirmMerge
			}

			// Interactive runs verify separately so the countdown can be
			// rendered; the upsert has been acknowledged either way before
			// the first poll attempt.
			opts.Verify = !noVerify && !interactive

			if !opts.Verify {
				app.Poller.OnAttempt = nil
			} else {
				app.Poller.OnAttempt = func(remaining int) {
					fmt.Fprintf(cmd.ErrOrStderr(), "still waiting for the write to become visible (%d attempts left)\n", remaining)
				}
			}

			result, err := app.Upload.Upload(ctx, file, opts)
			switch {
			case errors.Is(err, service.ErrUploadDeclined):
				fmt.Println(formatter.Warn("upload aborted, nothing written"))
				return nil
			case errors.Is(err, service.ErrVerificationTimeout):
				printUploadResult(result)
				fmt.Println(formatter.Warn(err.Error()))
				fmt.Println(formatter.Dim("The write was acknowledged; it may simply not be visible yet."))
				return nil
			case err != nil:
				return err
			}

			if !noVerify && interactive && len(result.Dates) > 0 {
				if err := runVerifyView(ctx, app, result.Dates[0]); err != nil {
					printUploadResult(result)
					fmt.Println(formatter.Warn(err.Error()))
					return nil
				}
				result.Verified = true
			}

			printUploadResult(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip the post-upload visibility check")
	cmd.Flags().BoolVar(&yes, "yes", false, "Do not ask before merging into existing records")

	return cmd
}

// runVerifyView polls for visibility behind a spinner with a countdown.
// Quitting the view cancels the poll; the poll goroutine is joined before
// the poller's hook is detached.
func runVerifyView(ctx context.Context, app *App, date string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	finished := make(chan struct{})
	verify := func() tea.Msg {
		err := app.Upload.Verify(ctx, date)
		close(finished)
		return verifyDoneMsg{err: err}
	}

	p := tea.NewProgram(newVerifyModel(date, app.Poller.Attempts(), verify))
	app.Poller.OnAttempt = func(remaining int) {
		p.Send(pollTickMsg(remaining))
	}

	final, err := p.Run()
	cancel()
	<-finished
	app.Poller.OnAttempt = nil

	if err != nil {
		return err
	}
	return final.(verifyModel).err
}

func printUploadResult(r *service.UploadResult) {
	if r == nil {
		return
	}

	fmt.Println(formatter.Header("Upload"))
	fmt.Printf("%s parsed, %s accepted\n",
		formatter.Count(r.Report.Total, "row"), formatter.Count(r.Report.Accepted, "row"))

	if len(r.Report.Skipped) > 0 {
		reasons := make([]importer.SkipReason, 0, len(r.Report.Skipped))
		for reason := range r.Report.Skipped {
			reasons = append(reasons, reason)
		}
		sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })
		for _, reason := range reasons {
			fmt.Printf("  %s\n", formatter.Dim(fmt.Sprintf("skipped %d: %s", r.Report.Skipped[reason], reason)))
		}
	}

	fmt.Printf("%s, %s across %s\n",
		formatter.Count(r.UserAggregates, "participant aggregate"),
		formatter.Count(r.GroupAggregates, "group aggregate"),
		formatter.Count(len(r.Dates), "date"))
	fmt.Printf("%d created, %d updated\n", r.Created, r.Updated)

	if r.GroupsSkipped {
		fmt.Println(formatter.Warn("group directory unavailable; group aggregation skipped"))
	}
	if r.Verified {
		fmt.Println(formatter.Ok("write confirmed visible in the store"))
	}
}
