package model

import (
    "time"

    "go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account allowed to call the protected API.  Only the bcrypt
// hash of the password is stored.
//
// Fields:
//  ID           – document identifier.
//  Username     – unique login name.
//  PasswordHash – bcrypt hash of the password.
//  FirstName    – optional, trimmed.
//  LastName     – optional, trimmed.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           primitive.ObjectID `bson:"_id,omitempty"`
    Username     string             `bson:"username"`
    PasswordHash string             `bson:"password"`
    FirstName    string             `bson:"firstname"`
    LastName     string             `bson:"lastname"`
    CreatedAt    time.Time          `bson:"createdAt"`
    UpdatedAt    time.Time          `bson:"updatedAt"`
}
