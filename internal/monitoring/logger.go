package monitoring

import "log"

// Logf is the package-level diagnostic logger used for failures that have no
// caller to return an error to, such as fire-and-forget metric writes. It
// defaults to log.Printf but may be replaced by SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// LogError reports a dropped error from op through Logf. A nil err is
// ignored.
func LogError(op string, err error) {
	if err == nil {
		return
	}
	Logf("%s: %v", op, err)
}
