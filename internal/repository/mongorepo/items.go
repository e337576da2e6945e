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

// ItemRepo reads the items collection.
type ItemRepo struct{ coll *mongo.Collection }

func NewItemRepo(db *mongo.Database) *ItemRepo {
	return &ItemRepo{coll: db.Collection(itemsCollection)}
}

// FindByIDs fetches the items whose ids appear in ids.  Duplicate ids are
// fine; each matching item is returned once.
func (r *ItemRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Wrap(err, "find items")
	}
	var out []model.Item
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode items")
	}
	return out, nil
}

// List returns the whole menu ordered by name.
func (r *ItemRepo) List(ctx context.Context) ([]model.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list items")
	}
	var out []model.Item
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode items")
	}
	return out, nil
}
