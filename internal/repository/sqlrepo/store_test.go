package sqlrepo

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/restaurant-checks/internal/model"
)

func TestHexIDsDeduplicates(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	assert.Equal(t, []string{a.Hex(), b.Hex()}, hexIDs([]primitive.ObjectID{a, b, a}))
	assert.Empty(t, hexIDs(nil))
}

func TestAssembleKeepsEntryOrder(t *testing.T) {
	check, table := primitive.NewObjectID(), primitive.NewObjectID()
	e1, e2 := primitive.NewObjectID(), primitive.NewObjectID()
	item := primitive.NewObjectID()
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))

	c := assemble(
		checkRow{ID: check.Hex(), TableID: table.Hex(), Closed: true, CreatedAt: ts, UpdatedAt: ts},
		[]checkItemRow{
			{ID: e2.Hex(), CheckID: check.Hex(), ItemID: item.Hex()},
			{ID: e1.Hex(), CheckID: check.Hex(), ItemID: item.Hex()},
		},
	)
	assert.Equal(t, check, c.ID)
	assert.Equal(t, table, c.TableID)
	assert.True(t, c.Closed)
	assert.Equal(t, time.UTC, c.CreatedAt.Location())
	assert.Equal(t, []model.OrderedItem{{ID: e2, ItemID: item}, {ID: e1, ItemID: item}}, c.OrderedItems)

	empty := assemble(checkRow{ID: check.Hex(), TableID: table.Hex()}, nil)
	assert.NotNil(t, empty.OrderedItems)
	assert.Empty(t, empty.OrderedItems)
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, isDuplicate(errors.Wrap(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, "insert")))
	assert.False(t, isDuplicate(&mysql.MySQLError{Number: 1452}))
	assert.False(t, isDuplicate(errors.New("boom")))
}
