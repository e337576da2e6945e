package sqlrepo

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/restaurant-checks/internal/model"
)

type itemRow struct {
	ID    string  `db:"id"`
	Name  string  `db:"name"`
	Price float64 `db:"price"`
}

// ItemRepo reads the items table.
type ItemRepo struct{ db *sqlx.DB }

func NewItemRepo(db *sqlx.DB) *ItemRepo { return &ItemRepo{db: db} }

func (r *ItemRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q, args, err := sqlx.In("SELECT id, name, price FROM items WHERE id IN (?)", hexIDs(ids))
	if err != nil {
		return nil, errors.Wrap(err, "build item query")
	}
	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "find items")
	}
	return itemsFromRows(rows), nil
}

func (r *ItemRepo) List(ctx context.Context) ([]model.Item, error) {
	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT id, name, price FROM items ORDER BY name"); err != nil {
		return nil, errors.Wrap(err, "list items")
	}
	return itemsFromRows(rows), nil
}

func itemsFromRows(rows []itemRow) []model.Item {
	out := make([]model.Item, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Item{ID: oid(r.ID), Name: r.Name, Price: r.Price})
	}
	return out
}
