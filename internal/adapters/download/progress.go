package download

import (
	"io"

	"github.com/tjanuki/storage-manager/internal/core/domain"
	"github.com/tjanuki/storage-manager/internal/core/port"
)

// progressWriter counts bytes against the full expected size, resumed bytes included
type progressWriter struct {
	w        io.Writer
	done     int64
	total    int64
	report   port.ProgressFunc
	reported bool
}

func newProgressWriter(w io.Writer, existing, total int64, report port.ProgressFunc) *progressWriter {
	return &progressWriter{w: w, done: existing, total: total, report: report}
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.done += int64(n)
	if n > 0 {
		p.emit()
	}
	return n, err
}

// finish reports completion when the size was unknown up front or nothing was streamed
func (p *progressWriter) finish() {
	if p.total < 0 || p.total < p.done {
		p.total = p.done
	}
	if !p.reported || p.done == p.total {
		p.emit()
	}
}

func (p *progressWriter) emit() {
	if p.report == nil || p.total <= 0 {
		return
	}
	p.reported = true
	p.report(domain.Progress{
		Percent: float64(p.done) / float64(p.total) * 100,
		Bytes:   p.done,
		Total:   p.total,
	})
}
