package logger

import (
	"testing"

	"github.com/maxaizer/opportunity-radar/internal/config"
	"github.com/maxaizer/opportunity-radar/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func Test_LevelOf_WhenUnknown_ShouldDefaultToInfo(t *testing.T) {
	assert.Equal(t, log.InfoLevel, levelOf("VERBOSE"))
	assert.Equal(t, log.DebugLevel, levelOf(config.LevelDebug))
	assert.Equal(t, log.WarnLevel, levelOf(config.LevelWarning))
}

func entryAt(level log.Level, fields log.Fields) *log.Entry {
	entry := log.WithFields(fields)
	entry.Level = level
	return entry
}

func counterValue(errorType string, level log.Level) float64 {
	return testutil.ToFloat64(metrics.ErrorsCounter.WithLabelValues(errorType, level.String()))
}

func Test_PrometheusHook_ShouldCountByErrorTypeAndLevel(t *testing.T) {

	hook := &prometheusHook{}
	storeErrors := counterValue(ErrorTypeStore, log.ErrorLevel)
	remoteWarnings := counterValue(ErrorTypeRemoteApi, log.WarnLevel)
	unknownErrors := counterValue(unknownErrorType, log.ErrorLevel)
	unknownWarnings := counterValue(unknownErrorType, log.WarnLevel)

	assert.NoError(t, hook.Fire(entryAt(log.ErrorLevel, log.Fields{ErrorTypeField: ErrorTypeStore})))
	assert.NoError(t, hook.Fire(entryAt(log.WarnLevel, log.Fields{ErrorTypeField: ErrorTypeRemoteApi})))
	assert.NoError(t, hook.Fire(entryAt(log.ErrorLevel, log.Fields{})))
	assert.NoError(t, hook.Fire(entryAt(log.WarnLevel, log.Fields{"collection": "opportunities"})))

	assert.Equal(t, storeErrors+1, counterValue(ErrorTypeStore, log.ErrorLevel))
	assert.Equal(t, remoteWarnings+1, counterValue(ErrorTypeRemoteApi, log.WarnLevel))
	assert.Equal(t, unknownErrors+1, counterValue(unknownErrorType, log.ErrorLevel))
	assert.Equal(t, unknownWarnings, counterValue(unknownErrorType, log.WarnLevel))
}

func Test_PrometheusHook_ShouldListenFromWarningUp(t *testing.T) {
	levels := (&prometheusHook{}).Levels()
	assert.Contains(t, levels, log.WarnLevel)
	assert.NotContains(t, levels, log.InfoLevel)
}
