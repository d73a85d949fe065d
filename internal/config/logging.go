package config

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

// LogLevel is debug in development and info otherwise, unless log.level says
// otherwise.
func (c Config) LogLevel() logrus.Level {
	if c.Log.Level != "" {
		if level, err := logrus.ParseLevel(c.Log.Level); err == nil {
			return level
		}
	}
	if c.Development {
		return logrus.DebugLevel
	}
	return logrus.InfoLevel
}

func NewLogger(c *Config) (*logrus.Logger, error) {
	log := logrus.New()

	level := c.LogLevel()
	log.SetLevel(level)

	if c.Development {
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	if c.Log.File != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   c.Log.File,
			MaxSize:    c.Log.MaxSizeMB,
			MaxBackups: c.Log.MaxBackups,
			MaxAge:     c.Log.MaxAgeDays,
			Level:      level,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return nil, fmt.Errorf("unable to open log file %s: %w", c.Log.File, err)
		}
		log.AddHook(hook)
	}

	return log, nil
}
