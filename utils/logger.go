package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

type Logger struct {
	*logrus.Logger
}

func InitLogger() *Logger {
	logger := logrus.New()

	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		DisableColors:   false,
		ForceColors:     true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.DebugLevel)

	return &Logger{logger}
}

// SetLevelName switches the level from a config string, keeping the current
// level when the name is not recognised.
func (l *Logger) SetLevelName(name string) {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		l.Warnf("Unknown log level %q, keeping %s", name, l.GetLevel())
		return
	}
	l.SetLevel(level)
}
