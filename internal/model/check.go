package model

import (
    "time"

    "go.mongodb.org/mongo-driver/bson/primitive"
)

// Check is an open or closed tab for one table.  It owns its OrderedItems
// list: entries are embedded, have their own identifiers and never exist
// outside the check.  TableID is fixed at creation.
//
// Fields:
//  ID           – document identifier.
//  TableID      – reference to the table the check belongs to.
//  Closed       – true once the check has been closed (defaults to false).
//  OrderedItems – entries in the order they were placed.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – timestamp of the last mutation.
type Check struct {
    ID           primitive.ObjectID `bson:"_id,omitempty"`
    TableID      primitive.ObjectID `bson:"tableId"`
    Closed       bool               `bson:"closed"`
    OrderedItems []OrderedItem      `bson:"orderedItems"`
    CreatedAt    time.Time          `bson:"createdAt"`
    UpdatedAt    time.Time          `bson:"updatedAt"`
}

// OrderedItem is one line on a check.  ID identifies the line itself and is
// what clients use to remove it; several lines may point at the same ItemID.
type OrderedItem struct {
    ID     primitive.ObjectID `bson:"_id"`
    ItemID primitive.ObjectID `bson:"itemId"`
}

// ItemIDs returns the referenced item ids in order, duplicates included.
func (c *Check) ItemIDs() []primitive.ObjectID {
    ids := make([]primitive.ObjectID, 0, len(c.OrderedItems))
    for _, oi := range c.OrderedItems {
        ids = append(ids, oi.ItemID)
    }
    return ids
}
