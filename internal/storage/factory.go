package storage

import (
	"fmt"
	"io"

	"kazanc/internal/log"
)

// Options selects and configures a KV backend.
type Options struct {
	Backend       string // memory, redis or sqlite
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SQLiteDBPath  string
}

// Open builds the configured backend. The returned closer is a no-op
// for backends without a connection to release.
func Open(opts Options, logger *log.Logger) (KV, io.Closer, error) {
	switch opts.Backend {
	case "memory":
		logger.Info("initialized memory store")
		return NewMemory(), nopCloser{}, nil
	case "redis":
		store, err := NewRedis(opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize redis store: %w", err)
		}
		logger.Info("initialized redis store", "addr", opts.RedisAddr, "db", opts.RedisDB)
		return store, store, nil
	case "sqlite":
		store, err := NewSQLite(opts.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("initialized sqlite store", "path", opts.SQLiteDBPath)
		return store, store, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", opts.Backend)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
