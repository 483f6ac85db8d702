package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAnalysis(t *testing.T) {
	RecordAnalysis("test-exp", 20*time.Millisecond, 4, 1.75)

	assert.Equal(t, 4.0, testutil.ToFloat64(analysisClasses.WithLabelValues("test-exp")))
	assert.Equal(t, 1.75, testutil.ToFloat64(analysisEntropy.WithLabelValues("test-exp")))

	RecordAnalysis("test-exp", 10*time.Millisecond, 1, 0)
	assert.Equal(t, 1.0, testutil.ToFloat64(analysisClasses.WithLabelValues("test-exp")))
	assert.Equal(t, 0.0, testutil.ToFloat64(analysisEntropy.WithLabelValues("test-exp")))
}

func TestRecordAnalysisFailure(t *testing.T) {
	before := testutil.ToFloat64(analysisFailures.WithLabelValues("broken"))
	RecordAnalysisFailure("broken")
	assert.Equal(t, before+1, testutil.ToFloat64(analysisFailures.WithLabelValues("broken")))
}

func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(dbQueryTotal.WithLabelValues("postgres", "select"))
	RecordDBQuery("postgres", "select", 150*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(dbQueryTotal.WithLabelValues("postgres", "select")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(dbSlowQueries.WithLabelValues("postgres", "select")), 1.0)

	RecordDBError("postgres", "select")
	assert.GreaterOrEqual(t, testutil.ToFloat64(dbQueryErrors.WithLabelValues("postgres", "select")), 1.0)
}
