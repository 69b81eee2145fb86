package main

import (
	"fmt"
	"time"

	"mediashelf/media-api/pkg/client"

	"github.com/spf13/cobra"
)

func newUploadCmd(newClient func() *client.Client) *cobra.Command {
	var u client.Upload

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a video and show the gallery afterwards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u.Path = args[0]
			c := newClient()
			out := cmd.OutOrStdout()

			v, err := c.UploadVideo(cmd.Context(), u, func(pct int) {
				fmt.Fprint(out, progressBar(pct))
			})
			if err != nil {
				fmt.Fprintln(out)
				return err
			}

			fmt.Fprintf(out, "\nVideo %q uploaded successfully\n", v.Title)

			select {
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			case <-time.After(client.SuccessRedirectDelay):
			}

			return runList(cmd, c, "")
		},
	}

	cmd.Flags().StringVarP(&u.Title, "title", "t", "", "Video title (required)")
	cmd.Flags().StringVarP(&u.Description, "description", "d", "", "Video description")

	return cmd
}
