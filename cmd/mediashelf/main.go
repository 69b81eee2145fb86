// Command mediashelf uploads videos to the media API, browses the gallery and
// prepares images for social media.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"mediashelf/media-api/pkg/client"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "mediashelf",
		Short: "Upload, browse and share media stored behind the mediashelf API",
		Long: `mediashelf talks to the mediashelf API the same way the web frontend does.

Every flag can also be set through the environment, e.g. MEDIASHELF_SERVER,
MEDIASHELF_TOKEN and MEDIASHELF_CLOUD_NAME.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("server", "http://localhost:8080", "API base URL")
	root.PersistentFlags().String("token", "", "Session token issued by the identity provider")
	root.PersistentFlags().String("cloud-name", "", "Cloudinary cloud name used for delivery URLs")
	root.PersistentFlags().String("delivery-base", client.DefaultDeliveryBase, "Base URL media is delivered from")

	v.SetEnvPrefix("mediashelf")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.BindPFlags(root.PersistentFlags())

	newClient := func() *client.Client {
		c := client.New(v.GetString("server"), v.GetString("token"), v.GetString("cloud-name"))
		c.DeliveryBase = v.GetString("delivery-base")
		return c
	}

	root.AddCommand(
		newUploadCmd(newClient),
		newListCmd(newClient),
		newDownloadCmd(newClient),
		newShareCmd(newClient),
	)

	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(viper.New()).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
