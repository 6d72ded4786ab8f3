package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// NewBadger opens (or creates) an embedded Badger database under dir. Badger's own
// logging is routed through zap at warning level and above.
func NewBadger(dir string, logger *zap.Logger) (*badger.DB, error) {
	if dir == "" {
		dir = "./data"
	}
	path := filepath.Join(dir, "badger")
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create badger directory: %w", err)
	}

	opts := badger.DefaultOptions(path).WithLogger(badgerLogger{logger: logger})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", path, err)
	}
	return db, nil
}

// NewBadgerInMemory opens a Badger instance that never touches disk.
func NewBadgerInMemory(logger *zap.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(badgerLogger{logger: logger})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open in-memory badger: %w", err)
	}
	return db, nil
}

type badgerLogger struct {
	logger *zap.Logger
}

func (l badgerLogger) sugar() *zap.SugaredLogger {
	if l.logger == nil {
		return zap.NewNop().Sugar()
	}
	return l.logger.Sugar().With("component", "badger")
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.sugar().Errorf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.sugar().Warnf(format, args...)
}

func (l badgerLogger) Infof(string, ...interface{}) {}

func (l badgerLogger) Debugf(string, ...interface{}) {}
