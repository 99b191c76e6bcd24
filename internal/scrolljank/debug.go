package scrolljank

import (
	"io"
	"log"
)

// The tracker logs on three streams, each tagged with its own prefix so they
// can share a writer:
//
//	ops    rejected TrackerConfig values and other input the tracker refuses
//	diag   per-scroll bookkeeping, e.g. a scroll that presented no frames
//	trace  one line per notable frame: malformed or out of order timestamps,
//	       V1 missed frames and V4 delayed frames
//
// All three are off until SetLogWriters is called.
var (
	opsLogger   *log.Logger
	diagLogger  *log.Logger
	traceLogger *log.Logger
)

const (
	opsPrefix   = "[scrolljank ops] "
	diagPrefix  = "[scrolljank diag] "
	tracePrefix = "[scrolljank trace] "
)

// SetLogWriters routes the ops, diag and trace streams to the given writers.
// A nil writer turns its stream off. It is not safe to call while a Tracker
// is reporting frames on another goroutine.
func SetLogWriters(ops, diag, trace io.Writer) {
	opsLogger = newLogger(opsPrefix, ops)
	diagLogger = newLogger(diagPrefix, diag)
	traceLogger = newLogger(tracePrefix, trace)
}

func newLogger(prefix string, w io.Writer) *log.Logger {
	if w == nil {
		return nil
	}
	return log.New(w, prefix, log.LstdFlags|log.Lmicroseconds)
}

func opsf(format string, args ...interface{}) {
	if opsLogger != nil {
		opsLogger.Printf(format, args...)
	}
}

func diagf(format string, args ...interface{}) {
	if diagLogger != nil {
		diagLogger.Printf(format, args...)
	}
}

// tracef is on the per-frame path; keep its arguments cheap to format.
func tracef(format string, args ...interface{}) {
	if traceLogger != nil {
		traceLogger.Printf(format, args...)
	}
}
