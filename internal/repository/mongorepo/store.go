// Package mongorepo implements the repository contracts on MongoDB.  Each
// entity lives in its own collection; the ordered items of a check are
// embedded sub-documents so that every check mutation is a single
// FindOneAndUpdate.
package mongorepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/iliyamo/restaurant-checks/internal/repository"
)

const (
	tablesCollection = "tables"
	itemsCollection  = "items"
	checksCollection = "checks"
	usersCollection  = "users"
)

// NewStore wires every repository to the given database.  The returned
// store's Close disconnects client.
func NewStore(client *mongo.Client, db *mongo.Database) *repository.Store {
	return &repository.Store{
		Tables: NewTableRepo(db),
		Items:  NewItemRepo(db),
		Checks: NewCheckRepo(db),
		Users:  NewUserRepo(db),
		Ping: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		Close: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	}
}

// now returns the current time at the precision MongoDB stores.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
