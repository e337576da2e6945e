// Package sqlrepo implements the repository contracts on MySQL through sqlx.
// Identifiers keep the 24-hex ObjectID format so that clients cannot tell the
// two backends apart.  Check mutations run inside a transaction that locks the
// check row, applies the change and re-reads the check before commit.
package sqlrepo

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/restaurant-checks/internal/repository"
)

// NewStore wires every repository to db.  The returned store's Close closes
// the pool.
func NewStore(db *sqlx.DB) *repository.Store {
	return &repository.Store{
		Tables: NewTableRepo(db),
		Items:  NewItemRepo(db),
		Checks: NewCheckRepo(db),
		Users:  NewUserRepo(db),
		Ping:   db.PingContext,
		Close:  func(context.Context) error { return db.Close() },
	}
}

// now matches the DATETIME(3) precision of the schema.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id.Hex())
	}
	return out
}

// oid parses a stored identifier.  Rows are only ever written with valid hex
// ids, so a parse failure yields the zero id.
func oid(s string) primitive.ObjectID {
	id, _ := primitive.ObjectIDFromHex(s)
	return id
}
