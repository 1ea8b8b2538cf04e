package storage

import (
	"context"
	"fmt"

	"github.com/claude/mapty/internal/config"
)

// Open connects the KV backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (KV, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemory(), nil
	case config.DriverSQLite, "":
		kv, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case config.DriverPostgres:
		kv, err := OpenPostgres(ctx, cfg.Postgres.DSN())
		if err != nil {
			return nil, err
		}
		return kv, nil
	case config.DriverRedis:
		kv, err := OpenRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
		if err != nil {
			return nil, err
		}
		return kv, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
