// Package log provides the small structured-logging facade used across
// this module. It mirrors the call sites bio-rd's protocol servers use
// (log.Debugf, log.Errorf, log.WithFields(...).Debugf) on top of logrus.
package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Fields is a set of key/value pairs attached to a log entry.
type Fields = logrus.Fields

var std = logrus.New()

func init() {
	std.SetOutput(os.Stderr)
	std.SetLevel(logrus.InfoLevel)
}

// SetLevel adjusts the verbosity of the package-wide logger.
func SetLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		std.Warnf("unknown log level %q, keeping %s", level, std.GetLevel())
		return
	}
	std.SetLevel(lvl)
}

// WithFields returns an entry pre-populated with the given fields.
func WithFields(f Fields) *logrus.Entry {
	return std.WithFields(f)
}

func Debug(args ...interface{}) {
	std.Debug(args...)
}

func Debugf(format string, args ...interface{}) {
	std.Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	std.Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	std.Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	std.Errorf(format, args...)
}
