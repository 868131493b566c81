package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/maxaizer/opportunity-radar/internal/domain/events"
	"github.com/maxaizer/opportunity-radar/internal/domain/models"
	"github.com/maxaizer/opportunity-radar/internal/services"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func searchCMD(configPath *string) *cobra.Command {

	var interactive bool

	search := &cobra.Command{
		Use:   "search [query]",
		Short: "Search opportunities and keyword searches at once",
		Args: func(cmd *cobra.Command, args []string) error {
			if interactive {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *configPath, func(ctx context.Context, a *app) error {
				if interactive {
					return runInteractiveSearch(ctx, a, cmd.InOrStdin(), cmd.OutOrStdout())
				}

				results, err := a.unifiedSearch().Search(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				printSearchResults(cmd.OutOrStdout(), results)
				return nil
			})
		},
	}
	search.Flags().BoolVarP(&interactive, "interactive", "i", false, "read queries line by line from stdin")

	return search
}

// runInteractiveSearch treats every input line as the next state of a search box.
func runInteractiveSearch(ctx context.Context, a *app, in io.Reader, out io.Writer) error {

	global := services.NewGlobalSearch(a.unifiedSearch(), a.bus, a.cfg.Search.Debounce, a.cfg.Search.MinQueryLength)
	defer global.Close()

	updated := func(e events.SearchResultsUpdated) {
		fmt.Fprintf(out, "results for %q:\n", e.Query)
		printSearchResults(out, e.Results)
	}
	failed := func(e events.SearchFailed) {
		fmt.Fprintf(out, "search for %q failed: %v\n", e.Query, e.Error)
	}
	if err := a.bus.Subscribe(events.SearchResultsUpdatedTopic, updated); err != nil {
		return errors.Wrap(err, "can't subscribe to search results")
	}
	defer a.bus.Unsubscribe(events.SearchResultsUpdatedTopic, updated)
	if err := a.bus.Subscribe(events.SearchFailedTopic, failed); err != nil {
		return errors.Wrap(err, "can't subscribe to search failures")
	}
	defer a.bus.Unsubscribe(events.SearchFailedTopic, failed)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				global.Flush()
				global.Wait()
				return nil
			}
			global.SetQuery(line)
		}
	}
}

func printSearchResults(w io.Writer, results models.SearchResults) {

	if results.Total == 0 {
		fmt.Fprintln(w, "nothing found")
		return
	}

	if len(results.Opportunities) > 0 {
		fmt.Fprintln(w, "Opportunities:")
		for _, r := range results.Opportunities {
			fmt.Fprintf(w, "  %s  %s (%s)\n", r.Url, r.Title, r.Subtitle)
		}
	}
	if len(results.KeywordSearches) > 0 {
		fmt.Fprintln(w, "Keyword searches:")
		for _, r := range results.KeywordSearches {
			fmt.Fprintf(w, "  %s  %s [%s]\n", r.Url, r.Title, r.Subtitle)
		}
	}
	fmt.Fprintf(w, "%d result(s)\n", results.Total)
}
