// Package logging builds the structured logger shared by the CLI, TUI and
// HTTP server.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"smarttasks/internal/config"
)

// New creates a logger from cfg. Output goes to cfg.File when set, otherwise
// to fallback. The returned close function releases the file.
func New(cfg config.LogConfig, fallback io.Writer) (*logrus.Logger, func(), error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
		defer log.WithFields(logrus.Fields{
			"configured_level": cfg.Level,
			"default_level":    "info",
		}).Warn("invalid log level configured, using default level")
	}
	log.SetLevel(level)

	closeFn := func() {}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		log.SetOutput(f)
		closeFn = func() { _ = f.Close() }
	} else {
		if fallback == nil {
			fallback = io.Discard
		}
		log.SetOutput(fallback)
	}
	return log, closeFn, nil
}
