package sqlrepo

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/iliyamo/restaurant-checks/internal/model"
)

// Seeder bulk loads fixtures into the MySQL schema.  The unique keys are part
// of the migration, so EnsureIndexes only re-applies migrations.
type Seeder struct {
	db      *sqlx.DB
	migrate func(*sqlx.DB) error
}

// NewSeeder returns a seeder that calls migrate after dropping data.
func NewSeeder(db *sqlx.DB, migrate func(*sqlx.DB) error) *Seeder {
	return &Seeder{db: db, migrate: migrate}
}

// DropAll empties every table.  Child rows go first because of the foreign key.
func (s *Seeder) DropAll(ctx context.Context) error {
	for _, t := range []string{"check_items", "checks", "items", "dining_tables", "users"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return errors.Wrapf(err, "empty %s", t)
		}
	}
	return nil
}

func (s *Seeder) InsertTables(ctx context.Context, tables []model.Table) error {
	for _, t := range tables {
		if _, err := s.db.ExecContext(ctx,
			"INSERT INTO dining_tables (id, number) VALUES (?, ?)", t.ID.Hex(), t.Number); err != nil {
			return errors.Wrapf(err, "insert table %d", t.Number)
		}
	}
	return nil
}

func (s *Seeder) InsertItems(ctx context.Context, items []model.Item) error {
	for _, it := range items {
		if _, err := s.db.ExecContext(ctx,
			"INSERT INTO items (id, name, price) VALUES (?, ?, ?)", it.ID.Hex(), it.Name, it.Price); err != nil {
			return errors.Wrapf(err, "insert item %q", it.Name)
		}
	}
	return nil
}

// InsertChecks writes each check with its entries in one transaction.
func (s *Seeder) InsertChecks(ctx context.Context, checks []model.Check) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback() }()
	for _, c := range checks {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO checks (id, table_id, closed, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			c.ID.Hex(), c.TableID.Hex(), c.Closed, c.CreatedAt, c.UpdatedAt); err != nil {
			return errors.Wrapf(err, "insert check %s", c.ID.Hex())
		}
		for _, oi := range c.OrderedItems {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO check_items (id, check_id, item_id) VALUES (?, ?, ?)",
				oi.ID.Hex(), c.ID.Hex(), oi.ItemID.Hex()); err != nil {
				return errors.Wrapf(err, "insert check item %s", oi.ID.Hex())
			}
		}
	}
	return errors.Wrap(tx.Commit(), "commit")
}

func (s *Seeder) InsertUsers(ctx context.Context, users []model.User) error {
	for _, u := range users {
		if err := insertUser(ctx, s.db, u); err != nil {
			return errors.Wrapf(err, "insert user %q", u.Username)
		}
	}
	return nil
}

func (s *Seeder) EnsureIndexes(context.Context) error {
	return s.migrate(s.db)
}
