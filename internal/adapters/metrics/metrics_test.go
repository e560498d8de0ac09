package metrics

import (
	"testing"
	"time"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestImportRecorder(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	r := NewImportRecorder(reg)

	// Act
	r.RecordOutcome(domain.SourceVimeo, domain.OutcomeImported)
	r.RecordOutcome(domain.SourceVimeo, domain.OutcomeImported)
	r.RecordOutcome(domain.SourceLocal, domain.OutcomeSkipped)
	r.RecordTaskFailure(domain.TaskImportRemote)

	// Assert
	assert.Equal(t, 2.0, testutil.ToFloat64(r.outcomes.WithLabelValues("vimeo", "imported")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.outcomes.WithLabelValues("local", "skipped")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.outcomes.WithLabelValues("local", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.taskFailures.WithLabelValues("import_remote")))
}

func TestHTTPRecorder(t *testing.T) {
	// Arrange
	reg := prometheus.NewRegistry()
	r := NewHTTPRecorder(reg)

	// Act
	r.ObserveRequest("GET", "/api/v1/videos/{videoID}", 200, 15*time.Millisecond)
	r.ObserveRequest("GET", "/api/v1/videos/{videoID}", 404, time.Millisecond)
	r.ObserveRequest("GET", "", 404, time.Millisecond)

	// Assert
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues("GET", "/api/v1/videos/{videoID}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(r.duration))
}
