package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/gogotex/issuetracker/internal/config"
	"github.com/gogotex/issuetracker/internal/database"
	"github.com/gogotex/issuetracker/internal/issue/repository"
	"github.com/gogotex/issuetracker/pkg/logger"
)

// Open returns the issue repository selected by cfg.Store.Driver.
// The caller owns the repository and must Close it.
func Open(ctx context.Context, cfg *config.Config) (repository.Repository, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, cfg.MongoDB.ConnectAttempts, time.Second)
		if err != nil {
			return nil, err
		}
		logger.Infof("store: mongo database=%s", cfg.MongoDB.Database)
		return repository.NewMongoRepo(client, client.Database(cfg.MongoDB.Database)), nil
	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		repo, err := repository.NewSQLiteRepo(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Infof("store: sqlite path=%s", cfg.SQLite.Path)
		return repo, nil
	case config.DriverMemory:
		logger.Warnf("store: in-memory, issues are lost on restart")
		return repository.NewMemoryRepo(), nil
	}
	return nil, fmt.Errorf("storage: unknown driver %q", cfg.Store.Driver)
}
