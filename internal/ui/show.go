package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/awase/internal/aggregate"
	"github.com/javiermolinar/awase/internal/event"
)

func (a *App) showCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "show [slug]",
		Short: "Show an event and who has responded",
		Long: `Display an event's candidate times and its participants.

Use 'awase result' for the availability heatmap and best times.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := context.Background()
			e, err := a.svc.Open(ctx, args[0])
			if err != nil {
				return err
			}
			responses, err := a.svc.Responses(ctx, e)
			if err != nil {
				return fmt.Errorf("listing responses: %w", err)
			}

			w := cmd.OutOrStdout()
			PrintEvent(w, e, a.now())
			fmt.Fprintln(w)
			PrintParticipants(w, responses, aggregate.Compute(e.Candidates, event.ToAggregate(responses)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}
