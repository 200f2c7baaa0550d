package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/jisho/internal/dictionary"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the dictionary interactively",
	Long:  `Prompts for a query (unless given), lets you pick one of the backend's matches and prints the entry URL.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
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

	query := ""
	if len(args) == 1 {
		query = args[0]
	} else {
		prompt := promptui.Prompt{
			Label: "Search (e.g., sensei, 経済, N1...)",
			Validate: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("query cannot be empty")
				}
				return nil
			},
		}
		query, err = prompt.Run()
		if err != nil {
			return fmt.Errorf("prompt cancelled: %w", err)
		}
	}

	results, err := client.Search(cmd.Context(), strings.TrimSpace(query))
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No results for %q\n", query)
		return nil
	}

	sel := promptui.Select{
		Label: "Select a word",
		Items: searchLabels(results),
		Size:  10,
	}
	idx, _, err := sel.Run()
	if err != nil {
		return fmt.Errorf("selection cancelled: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s/%s\n", cfg.DictionaryURL(), results[idx].Slug)
	return nil
}

func searchLabels(results []dictionary.SearchResult) []string {
	labels := make([]string, len(results))
	for i, r := range results {
		label := fmt.Sprintf("%s  %s  %s", r.Kanji, r.Reading, r.Romaji)
		if r.JLPTLevel != "" {
			label += "  [" + r.JLPTLevel + "]"
		}
		labels[i] = label
	}
	return labels
}
