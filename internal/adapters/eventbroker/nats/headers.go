package nats

import (
	"strconv"
	"time"

	"github.com/tjanuki/storage-manager/internal/core/domain"

	"github.com/nats-io/nats.go"
)

const (
	headerMaxTries      = "Import-Max-Tries"
	headerMaxExceptions = "Import-Max-Exceptions"
	headerNotBefore     = "Import-Not-Before"
	headerKind          = "Import-Kind"
)

// limits are the retry bounds of one message
type limits struct {
	maxTries      int
	maxExceptions int
	notBefore     time.Time
}

func taskHeaders(task domain.ImportTask) nats.Header {
	h := nats.Header{}
	h.Set(headerKind, string(task.Kind))
	if task.MaxTries > 0 {
		h.Set(headerMaxTries, strconv.Itoa(task.MaxTries))
	}
	if task.MaxExceptions > 0 {
		h.Set(headerMaxExceptions, strconv.Itoa(task.MaxExceptions))
	}
	if !task.NotBefore.IsZero() {
		h.Set(headerNotBefore, task.NotBefore.UTC().Format(time.RFC3339Nano))
	}
	return h
}

func limitsFrom(h nats.Header, defaults RetryPolicy) limits {
	l := limits{maxTries: defaults.MaxTries, maxExceptions: defaults.MaxExceptions}
	if h == nil {
		return l
	}
	if v, err := strconv.Atoi(h.Get(headerMaxTries)); err == nil && v > 0 {
		l.maxTries = v
	}
	if v, err := strconv.Atoi(h.Get(headerMaxExceptions)); err == nil && v > 0 {
		l.maxExceptions = v
	}
	if t, err := time.Parse(time.RFC3339Nano, h.Get(headerNotBefore)); err == nil {
		l.notBefore = t
	}
	return l
}
