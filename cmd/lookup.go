package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/jisho/internal/backend"
	"github.com/ziadkadry99/jisho/internal/dictionary"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <slug>",
	Short: "Fetch one dictionary entry from the backend",
	Long:  `Fetches an entry by slug and prints its page title, description and senses.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

func init() {
	lookupCmd.Flags().Bool("json", false, "output the entry as JSON")
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

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

	entry, err := client.FetchEntry(cmd.Context(), args[0])
	if errors.Is(err, backend.ErrNotFound) {
		return fmt.Errorf("no dictionary entry for %q", args[0])
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entry)
	}
	printEntry(out, entry, cfg.DictionaryURL())
	return nil
}

func printEntry(w io.Writer, entry *dictionary.Entry, dictionaryURL string) {
	meta := dictionary.BuildMetadata(entry)
	fmt.Fprintln(w, meta.Title)
	fmt.Fprintln(w, meta.Description)
	fmt.Fprintf(w, "%s/%s\n\n", dictionaryURL, entry.Slug)

	fmt.Fprintf(w, "%s  %s  %s  [%s]", entry.Kanji, entry.Reading, entry.Romaji, dictionary.JLPTBadge(entry.JLPTLevel))
	if entry.IsCommon() {
		fmt.Fprint(w, "  [Common Word]")
	}
	fmt.Fprintln(w)

	for i, sense := range entry.Senses {
		fmt.Fprintf(w, "\n%d. %s", i+1, sense.DefinitionText())
		if len(sense.PartOfSpeech) > 0 {
			fmt.Fprintf(w, " (%s)", strings.Join(sense.PartOfSpeech, ", "))
		}
		fmt.Fprintln(w)
		if sense.Info != "" {
			fmt.Fprintf(w, "   Note: %s\n", sense.Info)
		}
		for _, ex := range sense.Examples {
			fmt.Fprintf(w, "   %s\n   %s\n   %s\n", ex.SentenceJa, ex.SentenceRomaji, ex.SentenceEn)
		}
	}
}
