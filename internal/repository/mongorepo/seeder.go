package mongorepo

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/restaurant-checks/internal/model"
)

// Seeder bulk loads fixtures into a MongoDB database.
type Seeder struct{ db *mongo.Database }

func NewSeeder(db *mongo.Database) *Seeder { return &Seeder{db: db} }

// DropAll drops the whole database.
func (s *Seeder) DropAll(ctx context.Context) error {
	return errors.Wrap(s.db.Drop(ctx), "drop database")
}

func (s *Seeder) InsertTables(ctx context.Context, tables []model.Table) error {
	docs := make([]interface{}, len(tables))
	for i := range tables {
		docs[i] = tables[i]
	}
	return s.insertMany(ctx, tablesCollection, docs)
}

func (s *Seeder) InsertItems(ctx context.Context, items []model.Item) error {
	docs := make([]interface{}, len(items))
	for i := range items {
		docs[i] = items[i]
	}
	return s.insertMany(ctx, itemsCollection, docs)
}

func (s *Seeder) InsertChecks(ctx context.Context, checks []model.Check) error {
	docs := make([]interface{}, len(checks))
	for i := range checks {
		if checks[i].OrderedItems == nil {
			checks[i].OrderedItems = []model.OrderedItem{}
		}
		docs[i] = checks[i]
	}
	return s.insertMany(ctx, checksCollection, docs)
}

func (s *Seeder) InsertUsers(ctx context.Context, users []model.User) error {
	docs := make([]interface{}, len(users))
	for i := range users {
		docs[i] = users[i]
	}
	return s.insertMany(ctx, usersCollection, docs)
}

// EnsureIndexes creates the unique indexes the entities rely on plus the
// sort index used when listing checks.
func (s *Seeder) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string]mongo.IndexModel{
		tablesCollection: {Keys: bson.D{{Key: "number", Value: 1}}, Options: unique},
		itemsCollection:  {Keys: bson.D{{Key: "name", Value: 1}}, Options: unique},
		usersCollection:  {Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		checksCollection: {Keys: bson.D{{Key: "updatedAt", Value: -1}}},
	}
	for coll, idx := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateOne(ctx, idx); err != nil {
			return errors.Wrapf(err, "create index on %s", coll)
		}
	}
	return nil
}

func (s *Seeder) insertMany(ctx context.Context, coll string, docs []interface{}) error {
	if len(docs) == 0 {
		return nil
	}
	if _, err := s.db.Collection(coll).InsertMany(ctx, docs); err != nil {
		return errors.Wrapf(err, "insert %s", coll)
	}
	return nil
}
