package sqlrepo

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/restaurant-checks/internal/model"
)

type tableRow struct {
	ID     string `db:"id"`
	Number int    `db:"number"`
}

func (r tableRow) model() model.Table {
	return model.Table{ID: oid(r.ID), Number: r.Number}
}

// TableRepo reads the dining_tables table.
type TableRepo struct{ db *sqlx.DB }

func NewTableRepo(db *sqlx.DB) *TableRepo { return &TableRepo{db: db} }

func (r *TableRepo) CountByID(ctx context.Context, id primitive.ObjectID) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM dining_tables WHERE id = ?", id.Hex()); err != nil {
		return 0, errors.Wrap(err, "count tables")
	}
	return n, nil
}

func (r *TableRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Table, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q, args, err := sqlx.In("SELECT id, number FROM dining_tables WHERE id IN (?)", hexIDs(ids))
	if err != nil {
		return nil, errors.Wrap(err, "build table query")
	}
	var rows []tableRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "find tables")
	}
	return tablesFromRows(rows), nil
}

func (r *TableRepo) List(ctx context.Context) ([]model.Table, error) {
	var rows []tableRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT id, number FROM dining_tables ORDER BY number"); err != nil {
		return nil, errors.Wrap(err, "list tables")
	}
	return tablesFromRows(rows), nil
}

func tablesFromRows(rows []tableRow) []model.Table {
	out := make([]model.Table, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.model())
	}
	return out
}
