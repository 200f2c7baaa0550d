package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/jisho/internal/sitemap"
)

var sitemapCmd = &cobra.Command{
	Use:   "sitemap",
	Short: "Print the dictionary sitemap XML",
	Long:  `Builds the sitemap from the backend's slug listing and writes it to stdout. If the listing cannot be fetched only the dictionary root is listed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger()
		if err != nil {
			return err
		}
		client := newBackendClient(cfg, logger)
		defer client.Close()

		builder := sitemap.NewBuilder(client, cfg.SiteURL, sitemap.WithLogger(logger))
		return sitemap.WriteXML(cmd.OutOrStdout(), builder.Build(cmd.Context()))
	},
}

func init() {
	rootCmd.AddCommand(sitemapCmd)
}
