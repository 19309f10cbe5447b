package obs

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	loggerOnce sync.Once
	logger     *logrus.Logger
)

// Logger returns the shared structured logger used across the service.
// Output is one JSON object per line; the level is taken from
// SPGATE_LOG_LEVEL on first use and defaults to info.
func Logger() *logrus.Logger {
	loggerOnce.Do(func() {
		logger = logrus.New()
		logger.SetOutput(os.Stdout)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
		if lvl, err := logrus.ParseLevel(strings.TrimSpace(os.Getenv("SPGATE_LOG_LEVEL"))); err == nil {
			logger.SetLevel(lvl)
		}
	})
	return logger
}
