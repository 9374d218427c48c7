package root

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"smarttasks/internal/config"
	"smarttasks/internal/engine"
	"smarttasks/internal/logging"
	"smarttasks/internal/storage"
)

// session bundles what a command needs to talk to the board.
type session struct {
	cfg *config.Config
	log *logrus.Logger
	svc *engine.Service
}

// openService loads config, builds the logger and opens the configured
// backend. The service is not started; logOut receives logs when no log file
// is configured.
func openService(ctx context.Context, logOut io.Writer) (*session, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	log, closeLog, err := logging.New(cfg.Log, logOut)
	if err != nil {
		return nil, nil, err
	}
	kv, err := storage.OpenKV(ctx, cfg.StorageOptions())
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	log.WithField("backend", cfg.Storage.Backend).Debug("storage opened")

	store := storage.NewEntryStore(kv, log)
	svc := engine.NewService(store,
		engine.WithLogger(log),
		engine.WithCatalog(cfg.Catalog()),
	)
	cleanup := func() {
		_ = kv.Close()
		closeLog()
	}
	return &session{cfg: cfg, log: log, svc: svc}, cleanup, nil
}

// startService opens the board and applies the weekly reset.
func startService(ctx context.Context, logOut io.Writer) (*session, func(), error) {
	s, cleanup, err := openService(ctx, logOut)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.svc.Start(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return s, cleanup, nil
}
