package config

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ApplyLogging sets logger's level and formatter from cfg. A nil logger
// configures the standard logrus logger.
func ApplyLogging(logger *logrus.Logger, cfg LogConfig) error {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("%w: log.level %q: %v", ErrInvalid, cfg.Level, err)
	}

	switch cfg.Format {
	case FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{})
	case FormatText, "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalid, cfg.Format)
	}

	logger.SetLevel(level)
	return nil
}
