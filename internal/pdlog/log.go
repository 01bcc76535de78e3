// Package pdlog provides the logging facility behind the engine's print
// sinks (spec: printStd/printErr).
package pdlog

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

var debug bool

// Logger is the minimal interface the engine needs from a logger.
type Logger interface {
	Debug(...interface{})
	Info(...interface{})
	Error(...interface{})
}

func init() {
	var err error
	debug, err = strconv.ParseBool(os.Getenv("PDENGINE_DEBUG"))
	if err != nil {
		debug = false
	}
}

// New returns a new logrus-backed logger instance.
func New() *logrus.Logger {
	l := logrus.New()
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// PrintFunc matches the print-sink signature from spec §6: a function that
// accepts a single formatted message.
type PrintFunc func(msg string)

// StdSink returns the default printStd sink: an Info-level log line.
func StdSink(l Logger) PrintFunc {
	return func(msg string) {
		l.Info(msg)
	}
}

// ErrSink returns the default printErr sink: an Error-level log line.
func ErrSink(l Logger) PrintFunc {
	return func(msg string) {
		l.Error(msg)
	}
}
