package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/awase/internal/logger"
)

func (a *App) createCmd() *cobra.Command {
	var (
		cands       candidateFlags
		description string
		copyLink    bool
	)

	cmd := &cobra.Command{
		Use:   "create [title]",
		Short: "Create a new event",
		Long: `Create an event with candidate dates and time ranges.

Candidates are given one per --candidate flag, or as a date range with
--from/--to, which keeps only the configured weekdays. Times must sit on
the 30-minute grid.

Examples:
  awase create "Team lunch" --candidate 2025-11-05,11:00,14:00 --candidate "2025-11-06 12:00-13:30"
  awase create "Planning" --from next-monday --to next-friday --hours 10:00-16:00 --copy`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cands.empty() {
				return fmt.Errorf("pass at least one --candidate, or --from")
			}
			candidates, err := cands.parse(a.config, a.now())
			if err != nil {
				return err
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			e, err := a.svc.CreateEvent(context.Background(), args[0], description, candidates)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			link := a.config.ShareURL(e.Slug)
			fmt.Fprintf(w, "Created event %q with %d candidate ranges\n\n", e.Title, len(e.Candidates))
			fmt.Fprintf(w, "  Link:       %s\n", formatSecret(link))
			fmt.Fprintf(w, "  Slug:       %s\n", e.Slug)
			fmt.Fprintf(w, "  Edit code:  %s  %s\n", formatSecret(e.EditCode), formatMuted("(keep it to update the event)"))
			fmt.Fprintf(w, "  Expires:    %s\n", e.ExpiresAt.Format("Mon Jan 2, 2006"))

			if copyLink {
				copyToClipboard(w, link)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&cands.candidates, "candidate", nil, "Candidate range: DATE,HH:MM,HH:MM or \"DATE HH:MM-HH:MM\" (repeatable)")
	cmd.Flags().StringVar(&cands.from, "from", "", "First date of a candidate range (YYYY-MM-DD, today, next-monday, ...)")
	cmd.Flags().StringVar(&cands.to, "to", "", "Last date of a candidate range (default: --from)")
	cmd.Flags().StringVar(&cands.hours, "hours", "", "Hours for --from/--to as HH:MM-HH:MM (default from config)")
	cmd.Flags().StringVar(&description, "description", "", "Event description")
	cmd.Flags().BoolVar(&copyLink, "copy", false, "Copy the share link to the clipboard")

	return cmd
}

// copyToClipboard copies link, reporting failure without aborting.
func copyToClipboard(w io.Writer, link string) {
	if err := clipboard.WriteAll(link); err != nil {
		logger.Warn("clipboard unavailable", "err", err)
		fmt.Fprintf(w, "%s\n", formatMuted("Could not copy to clipboard: "+err.Error()))
		return
	}
	fmt.Fprintln(w, "Link copied to clipboard.")
}
