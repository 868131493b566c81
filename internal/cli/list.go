package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/maxaizer/opportunity-radar/internal/domain/models"
	"github.com/maxaizer/opportunity-radar/internal/services"
	"github.com/spf13/cobra"
)

func listCMD(configPath *string) *cobra.Command {

	spec := models.DefaultFilterSpecification()
	var dateRange string
	var limit int
	var showFacets bool

	list := &cobra.Command{
		Use:   "list",
		Short: "Filter and rank all opportunities",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *configPath, func(ctx context.Context, a *app) error {

				opportunities, err := a.fetchAll(ctx)
				if err != nil {
					return err
				}

				spec.DateRange = models.ParseDateRange(dateRange)
				filtered := services.FilterOpportunities(opportunities, spec, time.Now())

				out := cmd.OutOrStdout()
				printOpportunities(out, filtered, limit)
				if showFacets {
					printFacets(out, services.ExtractFacets(opportunities))
				}
				return nil
			})
		},
	}

	flags := list.Flags()
	flags.StringVarP(&spec.Query, "query", "q", "", "text to look for in title, content, author and keywords")
	flags.StringVar(&spec.Status, "status", models.FilterAll, "status to keep or \"all\"")
	flags.StringVar(&spec.Source, "source", models.FilterAll, "source to keep or \"all\"")
	flags.IntVar(&spec.MinScore, "min-score", 0, "minimum score on the 0..100 scale")
	flags.StringVar(&dateRange, "date-range", string(models.DateRangeAll), "all, today, 7d or 30d")
	flags.StringSliceVar(&spec.HasKeywords, "keyword", nil, "keep opportunities matching any of these keywords")
	flags.IntVarP(&limit, "limit", "n", 50, "rows to print, 0 prints everything")
	flags.BoolVar(&showFacets, "facets", false, "print available sources and keywords")

	return list
}

func printOpportunities(w io.Writer, opportunities []models.Opportunity, limit int) {

	shown := opportunities
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tSTATUS\tSOURCE\tCREATED\tTITLE")
	for _, o := range shown {
		fmt.Fprintf(tw, "%.0f\t%s\t%s\t%s\t%s\n", o.TotalScore*100, o.Status, o.Source,
			o.CreatedAt.Local().Format(time.DateOnly), o.Title)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "%d of %d opportunities\n", len(shown), len(opportunities))
}

func printFacets(w io.Writer, facets models.Facets) {
	fmt.Fprintf(w, "sources: %s\n", strings.Join(facets.Sources, ", "))
	fmt.Fprintf(w, "keywords: %s\n", strings.Join(facets.Keywords, ", "))
}
