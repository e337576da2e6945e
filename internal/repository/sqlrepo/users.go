package sqlrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/iliyamo/restaurant-checks/internal/model"
	"github.com/iliyamo/restaurant-checks/internal/repository"
)

// erDupEntry is MySQL's duplicate key error number.
const erDupEntry = 1062

type userRow struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	FirstName    string    `db:"firstname"`
	LastName     string    `db:"lastname"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

const userColumns = "id, username, password_hash, firstname, lastname, created_at, updated_at"

// UserRepo persists users in the users table.
type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	ts := now()
	u.ID = primitive.NewObjectID()
	u.CreatedAt, u.UpdatedAt = ts, ts
	if err := insertUser(ctx, r.db, *u); err != nil {
		if isDuplicate(err) {
			return repository.ErrUsernameTaken
		}
		return errors.Wrap(err, "insert user")
	}
	return nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE username = ? LIMIT 1", username)
}

func (r *UserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id.Hex())
}

func (r *UserRepo) get(ctx context.Context, q string, arg interface{}) (*model.User, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, q, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "get user")
	}
	return &model.User{
		ID:           oid(row.ID),
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}, nil
}

func insertUser(ctx context.Context, e sqlx.ExecerContext, u model.User) error {
	_, err := e.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		u.ID.Hex(), u.Username, u.PasswordHash, u.FirstName, u.LastName, u.CreatedAt, u.UpdatedAt)
	return err
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == erDupEntry
}
