package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/jisho/internal/backend"
	"github.com/ziadkadry99/jisho/internal/dictionary"
	"github.com/ziadkadry99/jisho/internal/progress"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that every sitemap slug resolves to an entry",
	Long:  `Fetches the sitemap slug listing and requests every entry, reporting slugs that would render the not-found page.`,
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Int("concurrency", 4, "number of parallel entry fetches")
	rootCmd.AddCommand(checkCmd)
}

// EntryFetcher fetches one entry by slug.
type EntryFetcher interface {
	FetchEntry(ctx context.Context, slug string) (*dictionary.Entry, error)
}

// checkResult is the outcome of fetching one slug.
type checkResult struct {
	Slug string
	Err  error
}

func runCheck(cmd *cobra.Command, args []string) error {
	concurrency, _ := cmd.Flags().GetInt("concurrency")

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

	slugs, err := client.SitemapSlugs(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing slugs: %w", err)
	}

	reporter := progress.NewReporter("Checking entries")
	failed := checkSlugs(cmd.Context(), client, slugs, concurrency, reporter)
	return reportCheck(cmd.OutOrStdout(), len(slugs), failed)
}

// checkSlugs fetches every slug with up to concurrency workers and returns
// the failures sorted by slug.
func checkSlugs(ctx context.Context, fetcher EntryFetcher, slugs []dictionary.SitemapSlug, concurrency int, reporter progress.Reporter) []checkResult {
	if concurrency < 1 {
		concurrency = 1
	}

	jobs := make(chan string)
	var (
		mu     sync.Mutex
		done   int
		failed []checkResult
		wg     sync.WaitGroup
	)

	reporter.Start(len(slugs))
	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for slug := range jobs {
				_, err := fetcher.FetchEntry(ctx, slug)

				mu.Lock()
				done++
				if err != nil {
					failed = append(failed, checkResult{Slug: slug, Err: err})
				}
				reporter.Update(done, slug)
				mu.Unlock()
			}
		}()
	}

	for _, s := range slugs {
		jobs <- s.Slug
	}
	close(jobs)
	wg.Wait()
	reporter.Finish()

	sort.Slice(failed, func(i, j int) bool { return failed[i].Slug < failed[j].Slug })
	return failed
}

func reportCheck(w io.Writer, total int, failed []checkResult) error {
	if len(failed) == 0 {
		fmt.Fprintf(w, "All %d entries resolved.\n", total)
		return nil
	}

	for _, f := range failed {
		reason := f.Err.Error()
		if errors.Is(f.Err, backend.ErrNotFound) {
			reason = "not found"
		}
		fmt.Fprintf(w, "  %s: %s\n", f.Slug, reason)
	}
	return fmt.Errorf("%d of %d entries did not resolve", len(failed), total)
}
