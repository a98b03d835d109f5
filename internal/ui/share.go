package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) shareCmd() *cobra.Command {
	var copyLink bool

	cmd := &cobra.Command{
		Use:   "share [slug]",
		Short: "Print an event's share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			e, err := a.svc.Get(context.Background(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			link := a.config.ShareURL(e.Slug)
			fmt.Fprintln(w, link)
			if copyLink {
				copyToClipboard(w, link)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyLink, "copy", false, "Copy the link to the clipboard")
	return cmd
}
