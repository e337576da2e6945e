package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Item is a purchasable menu entry.  Items are referenced by the ordered
// item entries of a check; they are not owned by any check.
//
// Fields:
//  ID    – document identifier.
//  Name  – unique menu name.
//  Price – unit price in the restaurant's currency.
type Item struct {
    ID    primitive.ObjectID `bson:"_id,omitempty"` // items._id
    Name  string             `bson:"name"`          // items.name (unique)
    Price float64            `bson:"price"`         // items.price
}
