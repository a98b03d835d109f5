package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/awase/internal/event"
)

func (a *App) updateEventCmd() *cobra.Command {
	var (
		code        string
		title       string
		description string
		cands       candidateFlags
	)

	cmd := &cobra.Command{
		Use:   "update-event [slug]",
		Short: "Change an event's title, description or candidate times",
		Long: `Edit an event you created, using the edit code printed by 'awase create'.

Passing any --candidate or --from replaces the whole candidate list.
Responses are kept; slots that are no longer candidates stop counting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u event.EventUpdate
			if cmd.Flags().Changed("title") {
				u.Title = &title
			}
			if cmd.Flags().Changed("description") {
				u.Description = &description
			}
			if !cands.empty() {
				candidates, err := cands.parse(a.config, a.now())
				if err != nil {
					return err
				}
				u.Candidates = candidates
			}
			if u.Title == nil && u.Description == nil && u.Candidates == nil {
				return errors.New("nothing to update: pass --title, --description, --candidate or --from")
			}

			if err := a.ensureRepo(); err != nil {
				return err
			}
			e, err := a.svc.UpdateEvent(context.Background(), args[0], code, u)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Updated event %s.\n\n", e.Slug)
			PrintEvent(w, e, a.now())
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Event edit code")
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringArrayVar(&cands.candidates, "candidate", nil, "Replacement candidate range (repeatable)")
	cmd.Flags().StringVar(&cands.from, "from", "", "First date of a replacement candidate range")
	cmd.Flags().StringVar(&cands.to, "to", "", "Last date of a replacement candidate range")
	cmd.Flags().StringVar(&cands.hours, "hours", "", "Hours for --from/--to as HH:MM-HH:MM")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}
