package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Table represents a physical seating unit in the restaurant.  Tables are
// created by the seed utility and are never updated or deleted through the
// API.  A check is always opened against exactly one table.
//
// Fields:
//  ID     – document identifier (24 hex characters on the wire).
//  Number – unique table label printed on the floor plan.
type Table struct {
    ID     primitive.ObjectID `bson:"_id,omitempty"` // tables._id
    Number int                `bson:"number"`        // tables.number (unique)
}
