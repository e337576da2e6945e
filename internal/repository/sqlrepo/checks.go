package sqlrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/restaurant-checks/internal/model"
	"github.com/iliyamo/restaurant-checks/internal/repository"
)

type checkRow struct {
	ID        string    `db:"id"`
	TableID   string    `db:"table_id"`
	Closed    bool      `db:"closed"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type checkItemRow struct {
	ID      string `db:"id"`
	CheckID string `db:"check_id"`
	ItemID  string `db:"item_id"`
}

const checkColumns = "id, table_id, closed, created_at, updated_at"

// CheckRepo persists checks in checks/check_items.  check_items.seq keeps the
// order in which entries were added.
type CheckRepo struct{ db *sqlx.DB }

func NewCheckRepo(db *sqlx.DB) *CheckRepo { return &CheckRepo{db: db} }

// List returns all checks, most recently updated first, with their entries.
func (r *CheckRepo) List(ctx context.Context) ([]model.Check, error) {
	var rows []checkRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT "+checkColumns+" FROM checks ORDER BY updated_at DESC, id DESC"); err != nil {
		return nil, errors.Wrap(err, "list checks")
	}
	var items []checkItemRow
	if err := r.db.SelectContext(ctx, &items, "SELECT id, check_id, item_id FROM check_items ORDER BY seq"); err != nil {
		return nil, errors.Wrap(err, "list check items")
	}
	byCheck := make(map[string][]checkItemRow, len(rows))
	for _, it := range items {
		byCheck[it.CheckID] = append(byCheck[it.CheckID], it)
	}
	out := make([]model.Check, 0, len(rows))
	for _, row := range rows {
		out = append(out, assemble(row, byCheck[row.ID]))
	}
	return out, nil
}

func (r *CheckRepo) Get(ctx context.Context, id primitive.ObjectID) (*model.Check, error) {
	return load(ctx, r.db, id.Hex())
}

// Create inserts an open check with no entries.
func (r *CheckRepo) Create(ctx context.Context, tableID primitive.ObjectID) (*model.Check, error) {
	ts := now()
	c := &model.Check{
		ID:           primitive.NewObjectID(),
		TableID:      tableID,
		OrderedItems: []model.OrderedItem{},
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO checks (id, table_id, closed, created_at, updated_at) VALUES (?, ?, 0, ?, ?)",
		c.ID.Hex(), tableID.Hex(), ts, ts)
	if err != nil {
		return nil, errors.Wrap(err, "insert check")
	}
	return c, nil
}

func (r *CheckRepo) AddItem(ctx context.Context, id, itemID primitive.ObjectID) (*model.Check, error) {
	var out *model.Check
	err := r.withLockedCheck(ctx, id, func(tx *sqlx.Tx, _ checkRow) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO check_items (id, check_id, item_id) VALUES (?, ?, ?)",
			primitive.NewObjectID().Hex(), id.Hex(), itemID.Hex()); err != nil {
			return errors.Wrap(err, "insert check item")
		}
		var err error
		out, err = touchAndLoad(ctx, tx, id)
		return err
	})
	return out, err
}

func (r *CheckRepo) RemoveItem(ctx context.Context, id, orderedItemID primitive.ObjectID) (*model.Check, error) {
	var out *model.Check
	err := r.withLockedCheck(ctx, id, func(tx *sqlx.Tx, _ checkRow) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM check_items WHERE check_id = ? AND id = ?",
			id.Hex(), orderedItemID.Hex()); err != nil {
			return errors.Wrap(err, "delete check item")
		}
		var err error
		out, err = touchAndLoad(ctx, tx, id)
		return err
	})
	return out, err
}

func (r *CheckRepo) Close(ctx context.Context, id primitive.ObjectID) (*model.Check, bool, error) {
	var (
		out       *model.Check
		closedNow bool
	)
	err := r.withLockedCheck(ctx, id, func(tx *sqlx.Tx, row checkRow) error {
		var err error
		if row.Closed {
			out, err = load(ctx, tx, id.Hex())
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"UPDATE checks SET closed = 1, updated_at = ? WHERE id = ?", now(), id.Hex()); err != nil {
			return errors.Wrap(err, "close check")
		}
		closedNow = true
		out, err = load(ctx, tx, id.Hex())
		return err
	})
	return out, closedNow, err
}

// withLockedCheck runs fn in a transaction holding a row lock on the check.
func (r *CheckRepo) withLockedCheck(ctx context.Context, id primitive.ObjectID, fn func(tx *sqlx.Tx, row checkRow) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var row checkRow
	if err := tx.GetContext(ctx, &row, "SELECT "+checkColumns+" FROM checks WHERE id = ? FOR UPDATE", id.Hex()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrCheckNotFound
		}
		return errors.Wrap(err, "lock check")
	}
	if err := fn(tx, row); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	committed = true
	return nil
}

func touchAndLoad(ctx context.Context, tx *sqlx.Tx, id primitive.ObjectID) (*model.Check, error) {
	if _, err := tx.ExecContext(ctx, "UPDATE checks SET updated_at = ? WHERE id = ?", now(), id.Hex()); err != nil {
		return nil, errors.Wrap(err, "touch check")
	}
	return load(ctx, tx, id.Hex())
}

// load reads one check and its entries through q (pool or transaction).
func load(ctx context.Context, q sqlx.QueryerContext, id string) (*model.Check, error) {
	var row checkRow
	if err := sqlx.GetContext(ctx, q, &row, "SELECT "+checkColumns+" FROM checks WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrCheckNotFound
		}
		return nil, errors.Wrap(err, "get check")
	}
	var items []checkItemRow
	if err := sqlx.SelectContext(ctx, q, &items,
		"SELECT id, check_id, item_id FROM check_items WHERE check_id = ? ORDER BY seq", id); err != nil {
		return nil, errors.Wrap(err, "get check items")
	}
	c := assemble(row, items)
	return &c, nil
}

func assemble(row checkRow, items []checkItemRow) model.Check {
	c := model.Check{
		ID:           oid(row.ID),
		TableID:      oid(row.TableID),
		Closed:       row.Closed,
		OrderedItems: make([]model.OrderedItem, 0, len(items)),
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}
	for _, it := range items {
		c.OrderedItems = append(c.OrderedItems, model.OrderedItem{ID: oid(it.ID), ItemID: oid(it.ItemID)})
	}
	return c
}
