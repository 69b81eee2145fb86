package main

import (
	"mediashelf/media-api/pkg/client"

	"github.com/spf13/cobra"
)

func newListCmd(newClient func() *client.Client) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show your videos, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, newClient(), search)
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show videos whose title contains this text")

	return cmd
}

func runList(cmd *cobra.Command, c *client.Client, search string) error {
	out := cmd.OutOrStdout()

	printSkeleton(cmd.ErrOrStderr())

	videos, err := c.ListVideos(cmd.Context())
	if err != nil {
		return err
	}

	return printVideos(out, client.FilterByTitle(videos, search), search)
}
