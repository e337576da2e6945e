// Package store opens the backend selected by STORE_DRIVER.
package store

import (
    "context"

    "github.com/pkg/errors"

    "github.com/iliyamo/restaurant-checks/internal/config"
    "github.com/iliyamo/restaurant-checks/internal/database"
    "github.com/iliyamo/restaurant-checks/internal/repository"
    "github.com/iliyamo/restaurant-checks/internal/repository/memrepo"
    "github.com/iliyamo/restaurant-checks/internal/repository/mongorepo"
    "github.com/iliyamo/restaurant-checks/internal/repository/sqlrepo"
)

// Open connects to the configured backend.  For MySQL the schema is migrated
// before the store is returned.  The caller owns Store.Close.
func Open(ctx context.Context, cfg config.Config) (*repository.Store, repository.Seeder, error) {
    switch cfg.StoreDriver {
    case config.DriverMongo:
        client, db, err := database.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
        if err != nil {
            return nil, nil, err
        }
        return mongorepo.NewStore(client, db), mongorepo.NewSeeder(db), nil
    case config.DriverMySQL:
        db, err := database.OpenMySQL(ctx, cfg.MySQL())
        if err != nil {
            return nil, nil, err
        }
        if err := database.MigrateMySQL(db); err != nil {
            _ = db.Close()
            return nil, nil, err
        }
        return sqlrepo.NewStore(db), sqlrepo.NewSeeder(db, database.MigrateMySQL), nil
    case config.DriverMemory:
        db := memrepo.New()
        return memrepo.NewStore(db), memrepo.NewSeeder(db), nil
    }
    return nil, nil, errors.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
