package mongorepo

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/restaurant-checks/internal/model"
	"github.com/iliyamo/restaurant-checks/internal/repository"
)

// CheckRepo persists checks with their embedded ordered items.
type CheckRepo struct{ coll *mongo.Collection }

func NewCheckRepo(db *mongo.Database) *CheckRepo {
	return &CheckRepo{coll: db.Collection(checksCollection)}
}

// List returns all checks, most recently updated first.
func (r *CheckRepo) List(ctx context.Context) ([]model.Check, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list checks")
	}
	var out []model.Check
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode checks")
	}
	return out, nil
}

// Get fetches one check by id.
func (r *CheckRepo) Get(ctx context.Context, id primitive.ObjectID) (*model.Check, error) {
	var c model.Check
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrCheckNotFound
		}
		return nil, errors.Wrap(err, "get check")
	}
	return &c, nil
}

// Create inserts an open, empty check for tableID.
func (r *CheckRepo) Create(ctx context.Context, tableID primitive.ObjectID) (*model.Check, error) {
	ts := now()
	c := &model.Check{
		ID:           primitive.NewObjectID(),
		TableID:      tableID,
		Closed:       false,
		OrderedItems: []model.OrderedItem{},
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return nil, errors.Wrap(err, "insert check")
	}
	return c, nil
}

// AddItem pushes a new ordered item entry and returns the updated check.
func (r *CheckRepo) AddItem(ctx context.Context, id, itemID primitive.ObjectID) (*model.Check, error) {
	entry := model.OrderedItem{ID: primitive.NewObjectID(), ItemID: itemID}
	update := bson.M{
		"$push": bson.M{"orderedItems": entry},
		"$set":  bson.M{"updatedAt": now()},
	}
	return r.updateAndFetch(ctx, bson.M{"_id": id}, update)
}

// RemoveItem pulls the entry with id orderedItemID.  Pulling an entry that is
// not there still matches the check, so the unchanged state comes back.
func (r *CheckRepo) RemoveItem(ctx context.Context, id, orderedItemID primitive.ObjectID) (*model.Check, error) {
	update := bson.M{
		"$pull": bson.M{"orderedItems": bson.M{"_id": orderedItemID}},
		"$set":  bson.M{"updatedAt": now()},
	}
	return r.updateAndFetch(ctx, bson.M{"_id": id}, update)
}

// Close flips closed to true on an open check.  An already closed check is
// returned untouched with closedNow=false.
func (r *CheckRepo) Close(ctx context.Context, id primitive.ObjectID) (*model.Check, bool, error) {
	update := bson.M{"$set": bson.M{"closed": true, "updatedAt": now()}}
	c, err := r.updateAndFetch(ctx, bson.M{"_id": id, "closed": false}, update)
	if err == nil {
		return c, true, nil
	}
	if !errors.Is(err, repository.ErrCheckNotFound) {
		return nil, false, err
	}
	// Either closed already or missing.
	c, err = r.Get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return c, false, nil
}

func (r *CheckRepo) updateAndFetch(ctx context.Context, filter, update bson.M) (*model.Check, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c model.Check
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrCheckNotFound
		}
		return nil, errors.Wrap(err, "update check")
	}
	return &c, nil
}
