package logger

import (
	"github.com/maxaizer/opportunity-radar/internal/metrics"
	log "github.com/sirupsen/logrus"
)

const unknownErrorType = "unknown"

// prometheusHook counts failures by error_type and level. Warnings count only when tagged,
// which is how degraded collection searches and discarded store entries are reported.
type prometheusHook struct{}

func (h *prometheusHook) Fire(entry *log.Entry) error {
	errorType, tagged := entry.Data[ErrorTypeField].(string)
	if !tagged || errorType == "" {
		if entry.Level == log.WarnLevel {
			return nil
		}
		errorType = unknownErrorType
	}

	metrics.ErrorsCounter.WithLabelValues(errorType, entry.Level.String()).Inc()
	return nil
}

func (h *prometheusHook) Levels() []log.Level {
	return []log.Level{
		log.WarnLevel,
		log.ErrorLevel,
		log.FatalLevel,
		log.PanicLevel,
	}
}

func addPrometheusHook() {
	log.AddHook(&prometheusHook{})
	log.Debug("Prometheus logging enabled")
}
