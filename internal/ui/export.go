package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/awase/internal/calendar"
	"github.com/javiermolinar/awase/internal/logger"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		candidates bool
		tz         string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "export [slug]",
		Short: "Export best times as an iCalendar file",
		Long: `Export an event as an .ics file.

By default one event is written per best time window. With --candidates
every candidate range is written as a tentative hold instead. Use -o - to
write to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			loc, err := time.LoadLocation(tz)
			if err != nil {
				return fmt.Errorf("unknown time zone %q: %w", tz, err)
			}

			ctx := context.Background()
			e, err := a.svc.Get(ctx, args[0])
			if err != nil {
				return err
			}
			opts := calendar.Options{Location: loc, URL: a.config.ShareURL(e.Slug), Now: a.now()}

			write := func(w io.Writer) error {
				return calendar.WriteCandidates(w, e, opts)
			}
			if !candidates {
				_, res, err := a.svc.Result(ctx, e.Slug)
				if err != nil {
					return err
				}
				write = func(w io.Writer) error {
					return calendar.WriteBest(w, e, res, opts)
				}
			}

			if output == "-" {
				return exportErr(write(cmd.OutOrStdout()))
			}
			if output == "" {
				output = calendar.Filename(e)
			}
			if err := writeFile(output, write); err != nil {
				return exportErr(err)
			}
			logger.Info("exported calendar", "slug", e.Slug, "path", output, "candidates", candidates)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().BoolVar(&candidates, "candidates", false, "Export every candidate range instead of the best times")
	cmd.Flags().StringVar(&tz, "tz", "Local", "Time zone the candidate times are in")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: <title>.ics, - for stdout)")
	return cmd
}

func exportErr(err error) error {
	if errors.Is(err, calendar.ErrNothingToExport) {
		return fmt.Errorf("%w; try --candidates", err)
	}
	return err
}

// writeFile renders into path, removing the file when rendering fails.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}
