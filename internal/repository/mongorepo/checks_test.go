package mongorepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/iliyamo/restaurant-checks/internal/repository"
)

const checksNS = "test.checks"

func checkDoc(id, table primitive.ObjectID, closed bool, entries ...primitive.ObjectID) bson.D {
	ts := primitive.NewDateTimeFromTime(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	items := bson.A{}
	for i := 0; i+1 < len(entries); i += 2 {
		items = append(items, bson.D{{Key: "_id", Value: entries[i]}, {Key: "itemId", Value: entries[i+1]}})
	}
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "tableId", Value: table},
		{Key: "closed", Value: closed},
		{Key: "orderedItems", Value: items},
		{Key: "createdAt", Value: ts},
		{Key: "updatedAt", Value: ts},
	}
}

func findAndModifyReply(doc interface{}) bson.D {
	return bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: doc}}
}

func TestCheckRepoClose(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	id, table := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("open check is closed now", func(mt *mtest.T) {
		mt.AddMockResponses(findAndModifyReply(checkDoc(id, table, true)))

		c, closedNow, err := NewCheckRepo(mt.DB).Close(ctx, id)
		require.NoError(mt, err)
		assert.True(mt, closedNow)
		assert.True(mt, c.Closed)
		assert.Equal(mt, id, c.ID)
		assert.Equal(mt, table, c.TableID)
	})

	mt.Run("already closed check is returned unchanged", func(mt *mtest.T) {
		mt.AddMockResponses(
			findAndModifyReply(nil),
			mtest.CreateCursorResponse(0, checksNS, mtest.FirstBatch, checkDoc(id, table, true)),
		)

		c, closedNow, err := NewCheckRepo(mt.DB).Close(ctx, id)
		require.NoError(mt, err)
		assert.False(mt, closedNow)
		assert.True(mt, c.Closed)
		assert.Equal(mt, id, c.ID)
	})

	mt.Run("missing check", func(mt *mtest.T) {
		mt.AddMockResponses(
			findAndModifyReply(nil),
			mtest.CreateCursorResponse(0, checksNS, mtest.FirstBatch),
		)

		c, closedNow, err := NewCheckRepo(mt.DB).Close(ctx, id)
		assert.ErrorIs(mt, err, repository.ErrCheckNotFound)
		assert.False(mt, closedNow)
		assert.Nil(mt, c)
	})

	mt.Run("server error is not a missing check", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "bad update",
		}))

		_, _, err := NewCheckRepo(mt.DB).Close(ctx, id)
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, repository.ErrCheckNotFound)
	})
}

func TestCheckRepoAddItem(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	id, table := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("entries keep their order", func(mt *mtest.T) {
		e1, e2 := primitive.NewObjectID(), primitive.NewObjectID()
		soup, tea := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(findAndModifyReply(checkDoc(id, table, false, e1, soup, e2, tea)))

		c, err := NewCheckRepo(mt.DB).AddItem(ctx, id, tea)
		require.NoError(mt, err)
		require.Len(mt, c.OrderedItems, 2)
		assert.Equal(mt, e1, c.OrderedItems[0].ID)
		assert.Equal(mt, soup, c.OrderedItems[0].ItemID)
		assert.Equal(mt, e2, c.OrderedItems[1].ID)
		assert.Equal(mt, tea, c.OrderedItems[1].ItemID)
	})

	mt.Run("missing check", func(mt *mtest.T) {
		mt.AddMockResponses(findAndModifyReply(nil))

		c, err := NewCheckRepo(mt.DB).AddItem(ctx, id, primitive.NewObjectID())
		assert.ErrorIs(mt, err, repository.ErrCheckNotFound)
		assert.Nil(mt, c)
	})
}

func TestCheckRepoRemoveItem(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	id, table := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("unknown entry leaves the check as it was", func(mt *mtest.T) {
		entry, soup := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(findAndModifyReply(checkDoc(id, table, false, entry, soup)))

		c, err := NewCheckRepo(mt.DB).RemoveItem(ctx, id, primitive.NewObjectID())
		require.NoError(mt, err)
		require.Len(mt, c.OrderedItems, 1)
		assert.Equal(mt, entry, c.OrderedItems[0].ID)
	})

	mt.Run("missing check", func(mt *mtest.T) {
		mt.AddMockResponses(findAndModifyReply(nil))

		_, err := NewCheckRepo(mt.DB).RemoveItem(ctx, id, primitive.NewObjectID())
		assert.ErrorIs(mt, err, repository.ErrCheckNotFound)
	})
}

func TestCheckRepoGetNotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("empty cursor", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, checksNS, mtest.FirstBatch))

		_, err := NewCheckRepo(mt.DB).Get(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(mt, err, repository.ErrCheckNotFound)
	})
}
