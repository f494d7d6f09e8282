package log

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

func init() {
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:          true,
		DisableLevelTruncation: true,
	})
}

// SetDebug raises the process-wide log level to debug.
func SetDebug(debug bool) {
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}
}

func Debug(format string, v ...interface{}) {
	logger.Debugf(format, v...)
}

func Info(format string, v ...interface{}) {
	logger.Infof(format, v...)
}

func Warn(format string, v ...interface{}) {
	logger.Warnf(format, v...)
}

// Error logs the formatted message and returns it, so callers can build an
// error value carrying the same text.
func Error(format string, v ...interface{}) string {
	msg := fmt.Sprintf(format, v...)
	logger.Error(msg)
	return msg
}

func Panic(format string, v ...interface{}) {
	logger.Panicf(format, v...)
}
