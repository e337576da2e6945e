package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/restaurant-checks/internal/model"
)

// TableRepository reads tables.  Tables are immutable through the API.
type TableRepository interface {
	// CountByID returns how many tables carry the given id (0 or 1).
	CountByID(ctx context.Context, id primitive.ObjectID) (int64, error)
	// FindByIDs returns the tables matching ids in no particular order.
	// Unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Table, error)
	// List returns every table ordered by number.
	List(ctx context.Context) ([]model.Table, error)
}

// ItemRepository reads menu items.
type ItemRepository interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Item, error)
	// List returns every item ordered by name.
	List(ctx context.Context) ([]model.Item, error)
}

// CheckRepository persists checks.  Every mutating method is a single atomic
// update-and-fetch: the returned check is the state right after the change.
// Methods return ErrCheckNotFound when id matches no check.
type CheckRepository interface {
	// List returns all checks, most recently updated first.
	List(ctx context.Context) ([]model.Check, error)
	Get(ctx context.Context, id primitive.ObjectID) (*model.Check, error)
	// Create inserts an open check with no ordered items.
	Create(ctx context.Context, tableID primitive.ObjectID) (*model.Check, error)
	// AddItem appends a new ordered item entry referencing itemID.
	AddItem(ctx context.Context, id, itemID primitive.ObjectID) (*model.Check, error)
	// RemoveItem drops the entry whose own id is orderedItemID.  A missing
	// entry is not an error; the unchanged check is returned.
	RemoveItem(ctx context.Context, id, orderedItemID primitive.ObjectID) (*model.Check, error)
	// Close marks the check closed.  closedNow reports whether this call
	// performed the open→closed transition.
	Close(ctx context.Context, id primitive.ObjectID) (check *model.Check, closedNow bool, err error)
}

// UserRepository persists API users.
type UserRepository interface {
	// Create inserts u, filling ID and timestamps.  ErrUsernameTaken is
	// returned on a duplicate username.
	Create(ctx context.Context, u *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

// Store bundles the repositories of one backend together with its lifecycle.
type Store struct {
	Tables TableRepository
	Items  ItemRepository
	Checks CheckRepository
	Users  UserRepository

	// Ping reports whether the backend is reachable.
	Ping func(ctx context.Context) error
	// Close releases the underlying connection pool.
	Close func(ctx context.Context) error
}

// Seeder is implemented by backends that can be wiped and bulk loaded by the
// seed utility.
type Seeder interface {
	DropAll(ctx context.Context) error
	InsertTables(ctx context.Context, tables []model.Table) error
	InsertItems(ctx context.Context, items []model.Item) error
	InsertChecks(ctx context.Context, checks []model.Check) error
	InsertUsers(ctx context.Context, users []model.User) error
	EnsureIndexes(ctx context.Context) error
}
