package main

import (
	"fmt"
	"strings"

	"mediashelf/media-api/pkg/client"

	"github.com/spf13/cobra"
)

func newShareCmd(newClient func() *client.Client) *cobra.Command {
	var (
		format   string
		publicID string
		dir      string
	)

	cmd := &cobra.Command{
		Use:   "share [image]",
		Short: "Resize an image for a social media format",
		Long: `share uploads an image (or reuses --public-id) and saves it cropped to the
selected social media format.

Formats:
  ` + strings.Join(formatNames(), "\n  "),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ok := client.FindSocialFormat(format)
			if !ok {
				return fmt.Errorf("unknown format %q", format)
			}

			if len(args) == 0 && publicID == "" {
				return fmt.Errorf("pass an image to upload or --public-id")
			}

			c := newClient()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				id, err := c.UploadImage(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				publicID = id
				fmt.Fprintf(out, "Uploaded as %s\n", publicID)
			}

			fmt.Fprintf(out, "%s  %dx%d  %s\n", f.Name, f.Width, f.Height, f.AspectRatio)
			src, err := c.SocialImageURL(publicID, f)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, src)

			if dir == "" {
				return nil
			}

			path, err := c.DownloadSocial(cmd.Context(), publicID, f, dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved %s\n", path)

			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", client.SocialFormats[0].Name, "Social media format")
	cmd.Flags().StringVar(&publicID, "public-id", "", "Use an already uploaded image")
	cmd.Flags().StringVarP(&dir, "dir", "o", "", "Save the rendition into this directory")

	return cmd
}

func formatNames() []string {
	names := make([]string, len(client.SocialFormats))
	for i, f := range client.SocialFormats {
		names[i] = f.Name
	}
	return names
}
