package main

import (
	"fmt"

	"mediashelf/media-api/pkg/client"

	"github.com/spf13/cobra"
)

func newDownloadCmd(newClient func() *client.Client) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Download the optimized rendition of a video as <title>.mp4",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()

			videos, err := c.ListVideos(cmd.Context())
			if err != nil {
				return err
			}

			for _, v := range videos {
				if v.ID != args[0] && v.PublicID != args[0] {
					continue
				}

				path, err := c.Download(cmd.Context(), v, dir)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
				return nil
			}

			return fmt.Errorf("no video with id %s", args[0])
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "o", ".", "Directory to save into")

	return cmd
}
