package cli

import (
	"context"

	"github.com/maxaizer/opportunity-radar/internal/domain/events"
	"github.com/maxaizer/opportunity-radar/internal/logger"
	"github.com/maxaizer/opportunity-radar/internal/metrics"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func serveCMD(configPath *string) *cobra.Command {

	var skipInitial bool

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Record daily snapshots on schedule and expose metrics until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *configPath, func(ctx context.Context, a *app) error {

				if a.cfg.Metrics.Enabled {
					metrics.StartMetricsServer(a.cfg.Metrics.Address)
				}

				err := a.bus.Subscribe(events.SnapshotRecordedTopic, func(e events.SnapshotRecorded) {
					log.Debugf("snapshot %s: total=%d won=%d", e.Snapshot.Date,
						e.Snapshot.TotalOpportunities, e.Snapshot.WonCount)
				})
				if err != nil {
					return errors.Wrap(err, "can't subscribe to snapshot events")
				}

				recorder, err := a.snapshotRecorder()
				if err != nil {
					return err
				}

				if !skipInitial {
					if _, err = recorder.Record(ctx); err != nil && !errors.Is(err, context.Canceled) {
						log.WithField(logger.ErrorTypeField, logger.ErrorTypeAnalytics).
							Errorf("initial snapshot recording failed: %v", err)
					}
				}

				recorder.Start()
				<-ctx.Done()

				log.Info("Shutting down services...")
				recorder.Stop()
				log.Info("Services stopped.")
				return nil
			})
		},
	}
	serve.Flags().BoolVar(&skipInitial, "skip-initial", false, "don't record snapshots before the first scheduled run")

	return serve
}
