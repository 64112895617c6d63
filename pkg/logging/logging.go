// Package logging provides structured logging for the control-thread and
// dispatcher-thread components of the engine. The audio thread never
// holds a reference into this package: logging can block on a syscall,
// which is forbidden inside the render callback (§5).
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// base is the shared root logger. Component loggers are derived from it
// with WithField so every line carries which subsystem emitted it.
var base = newBase()

func newBase() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetOutput redirects the base logger's writer (tests use this to capture
// output into a buffer).
func SetOutput(w io.Writer) { base.SetOutput(w) }

// SetLevel adjusts verbosity; accepts logrus level names ("debug", "info",
// "warn", "error").
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	base.SetLevel(lvl)
	return nil
}

// For returns a component-scoped logger, e.g. logging.For("swapper").
func For(component string) *logrus.Entry {
	return base.WithField("component", component)
}
