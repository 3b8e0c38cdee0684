package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds the process logger. Unknown levels fall back to info; any
// format other than "json" uses the text formatter.
func New(level, format string, out io.Writer) *logrus.Logger {
	log := logrus.New()

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if strings.EqualFold(strings.TrimSpace(format), "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if out == nil {
		out = os.Stdout
	}
	log.SetOutput(out)
	return log
}

// Init replaces the logrus standard logger settings and returns it.
func Init(level, format string) *logrus.Logger {
	std := logrus.StandardLogger()
	configured := New(level, format, os.Stdout)
	std.SetLevel(configured.GetLevel())
	std.SetFormatter(configured.Formatter)
	std.SetOutput(configured.Out)
	return std
}
