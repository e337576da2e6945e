// Package repository defines the storage contracts used by the HTTP layer and
// the sentinel errors shared by every store implementation.  Handlers only
// depend on the interfaces declared here; the concrete MongoDB and MySQL
// stores live in the mongorepo and sqlrepo subpackages.
package repository

import "github.com/pkg/errors"

// ErrCheckNotFound is returned when no check matches the given id.
// Handlers translate it into a plain 404.
var ErrCheckNotFound = errors.New("check not found")

// ErrTableNotFound is returned when a table lookup by id finds nothing.
var ErrTableNotFound = errors.New("table not found")

// ErrUserNotFound is returned when a user lookup finds nothing.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameTaken is returned when inserting a user whose username already
// exists.  Handlers translate it into a 400 response.
var ErrUsernameTaken = errors.New("username already exists")
