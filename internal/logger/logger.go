// Package logger configures the process-wide logrus logger and adapts it for gorm.
package logger

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

// Init sets output, formatter and level of the standard logrus logger.
// An unknown level falls back to info.
func Init(level string) {
	logrus.SetOutput(os.Stdout)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006/01/02 15:04:05",
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.WithField("level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// Gorm returns a gorm logger writing through logrus. SQL statements are only
// traced when logrus runs at debug level or below.
func Gorm() gormlogger.Interface {
	gormLevel := gormlogger.Warn
	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		gormLevel = gormlogger.Info
	}

	return gormlogger.New(logrus.StandardLogger(), gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  gormLevel,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
