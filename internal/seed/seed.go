package seed

import (
    "context"
    "time"

    "github.com/pkg/errors"
    "github.com/sirupsen/logrus"
    "golang.org/x/sync/errgroup"

    "github.com/iliyamo/restaurant-checks/internal/model"
    "github.com/iliyamo/restaurant-checks/internal/repository"
    "github.com/iliyamo/restaurant-checks/internal/utils"
)

// Run empties the store behind s and loads fx into it.  Passwords are hashed
// concurrently, then the four collections are inserted concurrently, then
// indexes are rebuilt.  The first failure aborts the run.
func Run(ctx context.Context, s repository.Seeder, fx *Fixtures, bcryptCost int, log logrus.FieldLogger) error {
    if err := s.DropAll(ctx); err != nil {
        return errors.Wrap(err, "drop")
    }
    log.Info("store emptied")

    users, err := hashUsers(ctx, fx.Users, bcryptCost)
    if err != nil {
        return err
    }

    g, gctx := errgroup.WithContext(ctx)
    g.Go(func() error { return s.InsertChecks(gctx, fx.Checks) })
    g.Go(func() error { return s.InsertTables(gctx, fx.Tables) })
    g.Go(func() error { return s.InsertItems(gctx, fx.Items) })
    g.Go(func() error { return s.InsertUsers(gctx, users) })
    if err := g.Wait(); err != nil {
        return errors.Wrap(err, "insert")
    }
    log.WithFields(logrus.Fields{
        "tables": len(fx.Tables),
        "items":  len(fx.Items),
        "checks": len(fx.Checks),
        "users":  len(users),
    }).Info("fixtures inserted")

    if err := s.EnsureIndexes(ctx); err != nil {
        return errors.Wrap(err, "indexes")
    }
    return nil
}

func hashUsers(ctx context.Context, in []UserFixture, cost int) ([]model.User, error) {
    out := make([]model.User, len(in))
    now := time.Now().UTC().Truncate(time.Millisecond)

    g, gctx := errgroup.WithContext(ctx)
    for i, u := range in {
        i, u := i, u
        g.Go(func() error {
            if err := gctx.Err(); err != nil {
                return err
            }
            hash, err := utils.HashPassword(u.Password, cost)
            if err != nil {
                return errors.Wrapf(err, "user %q", u.Username)
            }
            out[i] = model.User{
                ID:           u.ID,
                Username:     u.Username,
                PasswordHash: hash,
                FirstName:    u.FirstName,
                LastName:     u.LastName,
                CreatedAt:    now,
                UpdatedAt:    now,
            }
            return nil
        })
    }
    if err := g.Wait(); err != nil {
        return nil, errors.Wrap(err, "hash passwords")
    }
    return out, nil
}
