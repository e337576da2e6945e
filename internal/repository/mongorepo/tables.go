package mongorepo

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/restaurant-checks/internal/model"
)

// TableRepo reads the tables collection.
type TableRepo struct{ coll *mongo.Collection }

func NewTableRepo(db *mongo.Database) *TableRepo {
	return &TableRepo{coll: db.Collection(tablesCollection)}
}

// CountByID counts tables with the given id.
func (r *TableRepo) CountByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, errors.Wrap(err, "count tables")
	}
	return n, nil
}

// FindByIDs fetches the tables whose ids appear in ids.
func (r *TableRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Table, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Wrap(err, "find tables")
	}
	var out []model.Table
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode tables")
	}
	return out, nil
}

// List returns every table ordered by number.
func (r *TableRepo) List(ctx context.Context) ([]model.Table, error) {
	opts := options.Find().SetSort(bson.D{{Key: "number", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list tables")
	}
	var out []model.Table
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode tables")
	}
	return out, nil
}
