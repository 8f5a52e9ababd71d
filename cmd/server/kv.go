package main

import (
	"context"
	"fmt"
	"io"

	"github.com/soaringjerry/SurveyFlow/internal/cache"
	"github.com/soaringjerry/SurveyFlow/internal/config"
	dbstore "github.com/soaringjerry/SurveyFlow/internal/db"
	"github.com/soaringjerry/SurveyFlow/internal/log"
	"github.com/soaringjerry/SurveyFlow/internal/services"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openRequirementStore opens the configured detected-requirement backend. The closer releases
// the underlying connection.
func openRequirementStore(ctx context.Context, cfg config.Config) (services.RequirementStore, io.Closer, error) {
	switch cfg.KVBackend {
	case config.KVSQLite:
		db, err := dbstore.Open(cfg.SQLitePath, cfg.MigrationsDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		store, err := dbstore.NewKVStore(db)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("init sqlite store: %w", err)
		}
		log.Infof("detected requirements stored in sqlite %s", cfg.SQLitePath)
		return store, db, nil
	case config.KVRedis:
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		log.Infof("detected requirements stored in redis")
		return cache.NewRedisKVStore(client, cfg.RedisPrefix), client, nil
	default:
		log.Warn("detected requirements kept in memory; they are lost on restart")
		return cache.NewMemoryKVStore(), nopCloser{}, nil
	}
}
