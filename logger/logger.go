package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It is usable before Init is called so that
// packages (and tests) that log during setup do not need ordering guarantees.
var Log = logrus.New()

// Init configures the global logger. Log level and format can be controlled
// with the LOG_LEVEL and LOG_FORMAT environment variables.
func Init() {
	Log.SetOutput(os.Stdout)

	if os.Getenv("LOG_FORMAT") == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}
