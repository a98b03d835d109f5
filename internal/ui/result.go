package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/awase/internal/aggregate"
	"github.com/javiermolinar/awase/internal/event"
	"github.com/javiermolinar/awase/internal/llm"
)

const adviseTimeout = 2 * time.Minute

// resultJSON is the machine-readable form of 'awase result --json'.
type resultJSON struct {
	Slug      string           `json:"slug"`
	Title     string           `json:"title"`
	ExpiresAt time.Time        `json:"expires_at"`
	Result    aggregate.Result `json:"result"`
}

func (a *App) resultCmd() *cobra.Command {
	var (
		advise  bool
		asJSON  bool
		model   string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "result [slug]",
		Short: "Show availability and the best times",
		Long: `Display a heatmap of how many participants are free in each slot and
list the best times. Every slot tied at the highest count is a best slot.

With --advise, the configured LLM phrases a short recommendation from the
same data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor || asJSON {
				DisableColor()
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := context.Background()
			e, res, err := a.svc.Result(ctx, args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(resultJSON{Slug: e.Slug, Title: e.Title, ExpiresAt: e.ExpiresAt, Result: res})
			}

			printResult(w, e, res, termWidth())

			if advise {
				if model == "" {
					model = a.config.LLM.Model
				}
				client, err := llm.NewClient(a.config.LLM.Provider, model, a.config.LLM.BaseURL)
				if err != nil {
					return fmt.Errorf("creating LLM client: %w", err)
				}
				ctx, cancel := context.WithTimeout(ctx, adviseTimeout)
				defer cancel()
				return printAdvice(ctx, w, llm.NewAdvisor(client), e.Title, res)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&advise, "advise", false, "Ask the configured LLM for a recommendation")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the aggregation result as JSON")
	cmd.Flags().StringVar(&model, "model", "", "LLM model override")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func printResult(w io.Writer, e *event.Event, res aggregate.Result, width int) {
	fmt.Fprintf(w, "%s\n", formatHeader(e.Title))
	switch n := res.TotalParticipants; n {
	case 0:
		fmt.Fprintf(w, "%s\n\n", formatMuted("no responses yet"))
	case 1:
		fmt.Fprintf(w, "%s\n\n", formatMuted("1 response"))
	default:
		fmt.Fprintf(w, "%s\n\n", formatMuted(fmt.Sprintf("%d responses", n)))
	}

	PrintHeatmap(w, res, width)
	PrintBestSlots(w, res)
}

func printAdvice(ctx context.Context, w io.Writer, adv *llm.Advisor, title string, res aggregate.Result) error {
	advice, err := adv.Advise(ctx, title, res)
	if errors.Is(err, llm.ErrNoResponses) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("getting advice: %w", err)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, formatHeader("Advice:"))
	PrintAdviceWrapped(w, advice.Summary, min(termWidth(), 80))
	for _, p := range advice.Picks {
		fmt.Fprintf(w, "  %s %s %s\n", bestSuffix, dayLabel(p.Date), p.Time)
	}
	return nil
}
