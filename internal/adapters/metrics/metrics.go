package metrics

import (
	"net/http"

	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/port"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ImportRecorder counts import outcomes and exhausted tasks
type ImportRecorder struct {
	outcomes     *prometheus.CounterVec
	taskFailures *prometheus.CounterVec
}

// NewImportRecorder registers the import collectors on reg
func NewImportRecorder(reg prometheus.Registerer) *ImportRecorder {
	r := &ImportRecorder{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storage_manager",
			Subsystem: "import",
			Name:      "items_total",
			Help:      "Imported, skipped and failed items by source system.",
		}, []string{"system", "outcome"}),
		taskFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storage_manager",
			Subsystem: "import",
			Name:      "task_failures_total",
			Help:      "Queued tasks that ran out of attempts.",
		}, []string{"kind"}),
	}
	reg.MustRegister(r.outcomes, r.taskFailures)
	return r
}

var _ port.ImportRecorder = (*ImportRecorder)(nil)

func (r *ImportRecorder) RecordOutcome(system domain.SourceSystem, outcome domain.ImportOutcome) {
	r.outcomes.WithLabelValues(string(system), string(outcome)).Inc()
}

func (r *ImportRecorder) RecordTaskFailure(kind domain.TaskKind) {
	r.taskFailures.WithLabelValues(string(kind)).Inc()
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// Nop discards everything, used by one-shot CLI runs
type Nop struct{}

func (Nop) RecordOutcome(domain.SourceSystem, domain.ImportOutcome) {}

func (Nop) RecordTaskFailure(domain.TaskKind) {}
