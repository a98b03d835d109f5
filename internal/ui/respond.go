package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/awase/internal/aggregate"
	"github.com/javiermolinar/awase/internal/event"
	"github.com/javiermolinar/awase/internal/slot"
	"github.com/javiermolinar/awase/internal/tui"
)

// availabilityFlags carry a non-interactive response.
type availabilityFlags struct {
	name   string
	slots  []string
	blocks []string
}

func (f availabilityFlags) interactive() bool {
	return len(f.slots) == 0 && len(f.blocks) == 0
}

func (f *availabilityFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Participant name")
	cmd.Flags().StringArrayVar(&f.slots, "slot", nil, "Available slot as DATE@HH:MM (repeatable)")
	cmd.Flags().StringArrayVar(&f.blocks, "block", nil, "Available block as DATE,HH:MM,HH:MM (repeatable)")
}

func (a *App) respondCmd() *cobra.Command {
	var avail availabilityFlags

	cmd := &cobra.Command{
		Use:   "respond [slug]",
		Short: "Add your availability to an event",
		Long: `Record when you are free for an event.

Without --slot or --block, opens the interactive editor: drag with the
mouse (or long-press in touch mode) to paint slots, space to toggle the
slot under the cursor, enter to save.

Examples:
  awase respond k3x9q2mw7a
  awase respond k3x9q2mw7a --name Aiko --block 2025-11-05,10:00,11:30 --slot 2025-11-06@10:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := context.Background()
			e, err := a.svc.Open(ctx, args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			submit := func(ctx context.Context, name string, blocks []slot.Block) (string, error) {
				r, err := a.svc.Respond(ctx, e.Slug, name, blocks)
				if err != nil {
					return "", err
				}
				return responseSaved(r), nil
			}

			if avail.interactive() {
				return a.runEditor(ctx, w, e, tui.Options{Name: avail.name, Submit: submit}, "")
			}
			if avail.name == "" {
				return errNameRequired
			}
			blocks, err := parseAvailability(e, avail.slots, avail.blocks, a.now())
			if err != nil {
				return err
			}
			msg, err := submit(ctx, avail.name, blocks)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, msg)
			return nil
		},
	}

	avail.register(cmd)
	return cmd
}

func (a *App) editCmd() *cobra.Command {
	var (
		avail availabilityFlags
		code  string
	)

	cmd := &cobra.Command{
		Use:   "edit [slug]",
		Short: "Change your availability",
		Long: `Replace a response you submitted earlier. You need the name you used
and the edit code printed when you responded.

Without --slot or --block, opens the editor with your current selection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := context.Background()
			e, r, err := a.svc.FindResponse(ctx, args[0], avail.name, code)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			submit := func(ctx context.Context, _ string, blocks []slot.Block) (string, error) {
				if _, err := a.svc.EditResponse(ctx, e.Slug, r.ParticipantName, code, blocks); err != nil {
					return "", err
				}
				return fmt.Sprintf("Updated availability for %s.", r.ParticipantName), nil
			}

			if avail.interactive() {
				return a.runEditor(ctx, w, e, tui.Options{
					Name:       r.ParticipantName,
					NameLocked: true,
					Initial:    r.Blocks,
					Submit:     submit,
				}, r.ID)
			}
			blocks, err := parseAvailability(e, avail.slots, avail.blocks, a.now())
			if err != nil {
				return err
			}
			msg, err := submit(ctx, r.ParticipantName, blocks)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, msg)
			return nil
		},
	}

	avail.register(cmd)
	cmd.Flags().StringVar(&code, "code", "", "Edit code printed when you responded")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}

func (a *App) deleteResponseCmd() *cobra.Command {
	var name, code string

	cmd := &cobra.Command{
		Use:   "delete-response [slug]",
		Short: "Remove your response from an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			if err := a.svc.DeleteResponse(context.Background(), args[0], name, code); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted response from %s.\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Participant name")
	cmd.Flags().StringVar(&code, "code", "", "Edit code from the response")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}

// runEditor opens the TUI over e with everyone but excludeID as overlay.
func (a *App) runEditor(ctx context.Context, w io.Writer, e *event.Event, opts tui.Options, excludeID string) error {
	overlay := func(ctx context.Context) (aggregate.Result, error) {
		return a.overlay(ctx, e, excludeID)
	}
	res, err := overlay(ctx)
	if err != nil {
		return err
	}

	opts.Title = e.Title
	opts.Candidates = e.Candidates
	opts.Overlay = res
	opts.UI = a.config.UI
	opts.Refresh = overlay

	out, err := tui.Run(opts)
	if err != nil {
		return fmt.Errorf("running editor: %w", err)
	}
	if !out.Submitted {
		fmt.Fprintln(w, "No changes saved.")
		return nil
	}
	fmt.Fprintln(w, out.Message)
	return nil
}

// overlay aggregates every response except excludeID.
func (a *App) overlay(ctx context.Context, e *event.Event, excludeID string) (aggregate.Result, error) {
	responses, err := a.svc.Responses(ctx, e)
	if err != nil {
		return aggregate.Result{}, fmt.Errorf("listing responses: %w", err)
	}
	others := responses[:0:0]
	for _, r := range responses {
		if r.ID != excludeID {
			others = append(others, r)
		}
	}
	return aggregate.Compute(e.Candidates, event.ToAggregate(others)), nil
}

func responseSaved(r *event.Response) string {
	return fmt.Sprintf("Saved availability for %s.\nEdit code: %s  %s",
		r.ParticipantName, formatSecret(r.EditCode), formatMuted("(needed to edit or delete this response)"))
}
