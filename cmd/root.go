package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "jisho",
	Short: "Server-rendered Japanese dictionary front-end",
	Long: `jisho serves the ChatJLPT dictionary web front-end: word pages fetched
from the dictionary backend, search-as-you-type, on-demand example
sentences, recent searches and the dictionary sitemap.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".jisho.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
