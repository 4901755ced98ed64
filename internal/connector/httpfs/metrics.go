package httpfs

import "time"

// Metrics receives observations about gateway calls. A nil Metrics passed
// to WithMetrics disables collection.
type Metrics interface {
	// ObserveOperation records one completed operation and its outcome
	ObserveOperation(op Op, duration time.Duration, err error)

	// RecordRedirect records one 307 hop followed by CreateFile
	RecordRedirect()

	// RecordBytes records payload bytes sent ("write") or received ("read")
	RecordBytes(direction string, bytes int64)
}

type noopMetrics struct{}

func (noopMetrics) ObserveOperation(op Op, duration time.Duration, err error) {}
func (noopMetrics) RecordRedirect()                                           {}
func (noopMetrics) RecordBytes(direction string, bytes int64)                 {}
