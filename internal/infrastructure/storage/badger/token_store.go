// Package badger keeps client-side state, such as the bearer token, in an
// embedded BadgerDB so it survives between CLI invocations.
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

const DefaultTokenKey = "token"

type Config struct {
	// Path is the directory for BadgerDB files. Ignored when InMemory is true.
	Path     string
	InMemory bool

	// TokenKey is the key the bearer token is stored under.
	TokenKey string

	Logger *zap.Logger
}

// TokenStore is the persisted client storage the request client polls for
// its bearer token on every call.
type TokenStore struct {
	db  *badger.DB
	key []byte
}

type badgerLogger struct {
	logger *zap.SugaredLogger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warnf(format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf(format, args...)
}

func Open(cfg Config) (*TokenStore, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent token store")
	}
	if cfg.TokenKey == "" {
		cfg.TokenKey = DefaultTokenKey
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o700); err != nil {
			return nil, fmt.Errorf("create token store directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger.Sugar()})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}
	return &TokenStore{db: db, key: []byte(cfg.TokenKey)}, nil
}

// Token returns the stored token, or "" when none is set.
func (s *TokenStore) Token(_ context.Context) (string, error) {
	var token string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		token = string(value)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return token, nil
}

func (s *TokenStore) SetToken(token string) error {
	if token == "" {
		return s.ClearToken()
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(s.key, []byte(token))
	})
}

func (s *TokenStore) ClearToken() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(s.key)
	})
}

func (s *TokenStore) Close() error {
	return s.db.Close()
}
