package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/maxaizer/opportunity-radar/internal/analytics"
	"github.com/maxaizer/opportunity-radar/internal/domain/models"
	"github.com/spf13/cobra"
)

func funnelCMD(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "funnel",
		Short: "Show the conversion funnel of all opportunities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *configPath, func(ctx context.Context, a *app) error {
				opportunities, err := a.fetchAll(ctx)
				if err != nil {
					return err
				}
				printFunnel(cmd.OutOrStdout(), analytics.CalculateFunnel(opportunities))
				return nil
			})
		},
	}
}

func trendCMD(configPath *string) *cobra.Command {

	var field string
	var days int
	var stored bool

	trend := &cobra.Command{
		Use:   "trend",
		Short: "Classify the trend of a daily snapshot field",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *configPath, func(ctx context.Context, a *app) error {

				snapshots, err := loadSnapshots(ctx, a, days, stored)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if field == "" {
					trends := analytics.CalculateTrends(snapshots)
					for _, f := range models.SnapshotFields {
						printTrend(out, trends[f])
					}
					return nil
				}

				t, err := analytics.CalculateTrend(snapshots, models.SnapshotField(field))
				if err != nil {
					return err
				}
				printTrend(out, t)
				return nil
			})
		},
	}
	trend.Flags().StringVarP(&field, "field", "f", "", "snapshot field, every field when empty")
	trend.Flags().IntVarP(&days, "days", "d", analytics.DefaultSnapshotDays, "length of the window in days")
	trend.Flags().BoolVar(&stored, "stored", false, "use recorded snapshots instead of regenerating them")

	return trend
}

func compareCMD(configPath *string) *cobra.Command {

	var current, previous int

	compare := &cobra.Command{
		Use:   "compare",
		Short: "Compare the number of opportunities created in two adjacent periods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *configPath, func(ctx context.Context, a *app) error {
				opportunities, err := a.fetchAll(ctx)
				if err != nil {
					return err
				}
				comparison := analytics.ComparePeriods(opportunities, current, previous, time.Now())
				fmt.Fprintf(cmd.OutOrStdout(), "last %d days: %d, %d days before: %d, change: %+d (%+.1f%%)\n",
					current, comparison.Current, previous, comparison.Previous,
					comparison.Change, comparison.ChangePercent)
				return nil
			})
		},
	}
	compare.Flags().IntVar(&current, "current", 7, "days in the current period")
	compare.Flags().IntVar(&previous, "previous", 7, "days in the previous period")

	return compare
}

func snapshotsCMD(configPath *string) *cobra.Command {

	var days int
	var stored bool

	snapshots := &cobra.Command{
		Use:   "snapshots",
		Short: "Print daily snapshots, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *configPath, func(ctx context.Context, a *app) error {
				snapshots, err := loadSnapshots(ctx, a, days, stored)
				if err != nil {
					return err
				}
				printSnapshots(cmd.OutOrStdout(), snapshots)
				return nil
			})
		},
	}
	snapshots.Flags().IntVarP(&days, "days", "d", analytics.DefaultSnapshotDays, "length of the window in days")
	snapshots.Flags().BoolVar(&stored, "stored", false, "print recorded snapshots instead of regenerating them")

	return snapshots
}

func loadSnapshots(ctx context.Context, a *app, days int, stored bool) ([]models.DailySnapshot, error) {
	if stored {
		return a.snapshots().Load(ctx, days)
	}

	opportunities, err := a.fetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.GenerateDailySnapshots(opportunities, days, time.Now()), nil
}

func printFunnel(w io.Writer, funnel models.Funnel) {

	if funnel.IsEmpty() {
		fmt.Fprintln(w, "no opportunities yet")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STAGE\tCOUNT\tSHARE\tDROP-OFF")
	for _, stage := range funnel.Stages {
		dropoff := "-"
		if stage.DropoffRate != nil {
			dropoff = fmt.Sprintf("%.2f%%", *stage.DropoffRate)
		}
		fmt.Fprintf(tw, "%s\t%d\t%.2f%%\t%s\n", stage.Name, stage.Count, stage.Percentage, dropoff)
	}
	_ = tw.Flush()

	s := funnel.Summary
	fmt.Fprintf(w, "total: %d, won: %d, conversion: %.1f%%, average drop-off: %.1f%%\n",
		s.TotalOpportunities, s.WonCount, s.ConversionRate, s.AverageDropoff)
}

func printTrend(w io.Writer, trend models.Trend) {
	fmt.Fprintf(w, "%s: %s (%+.1f%%), average %.2f\n", trend.Field, trend.Direction, trend.ChangePercent, trend.Average)
}

func printSnapshots(w io.Writer, snapshots []models.DailySnapshot) {

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTOTAL\tNEW\tCONTACTED\tAPPLIED\tWON\tAVG SCORE")
	for _, s := range snapshots {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%.2f\n", s.Date, s.TotalOpportunities, s.NewOpportunities,
			s.ContactedCount, s.AppliedCount, s.WonCount, s.AverageScore)
	}
	_ = tw.Flush()
}
