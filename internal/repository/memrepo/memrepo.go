// Package memrepo keeps every entity in process memory.  It backs
// STORE_DRIVER=memory for local runs and the HTTP tests; all data is lost on
// exit.
package memrepo

import (
    "context"
    "sort"
    "sync"
    "time"

    "github.com/pkg/errors"
    "go.mongodb.org/mongo-driver/bson/primitive"

    "github.com/iliyamo/restaurant-checks/internal/model"
    "github.com/iliyamo/restaurant-checks/internal/repository"
)

// DB is the shared state behind every repository of one store.  A single
// mutex makes each mutation an atomic update-and-fetch.
type DB struct {
    mu     sync.Mutex
    tables map[primitive.ObjectID]model.Table
    items  map[primitive.ObjectID]model.Item
    checks map[primitive.ObjectID]model.Check
    users  map[primitive.ObjectID]model.User

    // Now is the clock used for timestamps.
    Now func() time.Time
}

func New() *DB {
    db := &DB{Now: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }}
    db.reset()
    return db
}

func (db *DB) reset() {
    db.tables = map[primitive.ObjectID]model.Table{}
    db.items = map[primitive.ObjectID]model.Item{}
    db.checks = map[primitive.ObjectID]model.Check{}
    db.users = map[primitive.ObjectID]model.User{}
}

// NewStore wraps db in the repository interfaces.
func NewStore(db *DB) *repository.Store {
    return &repository.Store{
        Tables: tableRepo{db},
        Items:  itemRepo{db},
        Checks: checkRepo{db},
        Users:  userRepo{db},
        Ping:   func(context.Context) error { return nil },
        Close:  func(context.Context) error { return nil },
    }
}

// cloneCheck copies the entry slice so callers never alias stored state.
func cloneCheck(c model.Check) model.Check {
    items := make([]model.OrderedItem, len(c.OrderedItems))
    copy(items, c.OrderedItems)
    c.OrderedItems = items
    return c
}

// ----- tables -----

type tableRepo struct{ db *DB }

func (r tableRepo) CountByID(_ context.Context, id primitive.ObjectID) (int64, error) {
    r.db.mu.Lock()
    defer r.db.mu.Unlock()
    if _, ok := r.db.tables[id]; ok {
        return 1, nil
    }
    return 0, nil
}

func (r tableRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]model.Table, error) {
    r.db.mu.Lock()
    defer r.db.mu.Unlock()
    seen := map[primitive.ObjectID]bool{}
    var out []model.Table
    for _, id := range ids {
        if t, ok := r.db.tables[id]; ok && !seen[id] {
            seen[id] = true
            out = append(out, t)
        }
    }
    return out, nil
}

func (r tableRepo) List(context.Context) ([]model.Table, error) {
    r.db.mu.Lock()
    defer r.db.mu.Unlock()
    out := make([]model.Table, 0, len(r.db.tables))
    for _, t := range r.db.tables {
        out = append(out, t)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
    return out, nil
}

// ----- items -----

type itemRepo struct{ db *DB }

func (r itemRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]model.Item, error) {
    r.db.mu.Lock()
    defer r.db.mu.Unlock()
    seen := map[primitive.ObjectID]bool{}
    var out []model.Item
    for _, id := range ids {
        if it, ok := r.db.items[id]; ok && !seen[id] {
            seen[id] = true
            out = append(out, it)
        }
    }
    return out, nil
}

func (r itemRepo) List(context.Context) ([]model.Item, error) {
    r.db.mu.Lock()
    defer r.db.mu.Unlock()
    out := make([]model.Item, 0, len(r.db.items))
    for _, it := range r.db.items {
        out = append(out, it)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
    return out, nil
}

// ----- checks -----

type checkRepo struct{ db *DB }

func (r checkRepo) List(context.Context) ([]model.Check, error) {
    r.db.mu.Lock()
    defer r.db.mu.Unlock()
    out := make([]model.Check, 0, len(r.db.checks))
    for _, c := range r.db.checks {
        out = append(out, cloneCheck(c))
    }
    sort.SliceStable(out, func(i, j int) bool {
        if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
            return out[i].ID.Hex() > out[j].ID.Hex()
        }
        return out[i].UpdatedAt.After(out[j].UpdatedAt)
    })
    return out, nil
}

func (r checkRepo) Get(_ context.Context, id primitive.ObjectID) (*model.Check, error) {
    r.db.mu.Lock()
    defer r.db.mu.Unlock()
    c, ok := r.db.checks[id]
    if !ok {
        return nil, repository.ErrCheckNotFound
    }
    c = cloneCheck(c)
    return &c, nil
}

func (r checkRepo) Create(_ context.Context, tableID primitive.ObjectID) (*model.Check, error) {
    r.db.mu.Lock()
    defer r.db.mu.Unlock()
    now := r.db.Now()
    c := model.Check{
        ID:           primitive.NewObjectID(),
        TableID:      tableID,
        OrderedItems: []model.OrderedItem{},
        CreatedAt:    now,
        UpdatedAt:    now,
    }
    r.db.checks[c.ID] = c
    c = cloneCheck(c)
    return &c, nil
}

// update applies fn to the stored check under the lock and returns a copy of
// the result.  fn reports whether it changed anything; updatedAt is bumped
// only then.
func (r checkRepo) update(id primitive.ObjectID, fn func(c *model.Check) bool) (*model.Check, bool, error) {
    r.db.mu.Lock()
    defer r.db.mu.Unlock()
    c, ok := r.db.checks[id]
    if !ok {
        return nil, false, repository.ErrCheckNotFound
    }
    c = cloneCheck(c)
    changed := fn(&c)
    if changed {
        c.UpdatedAt = r.db.Now()
        r.db.checks[id] = c
    }
    out := cloneCheck(c)
    return &out, changed, nil
}

func (r checkRepo) AddItem(_ context.Context, id, itemID primitive.ObjectID) (*model.Check, error) {
    c, _, err := r.update(id, func(c *model.Check) bool {
        c.OrderedItems = append(c.OrderedItems, model.OrderedItem{ID: primitive.NewObjectID(), ItemID: itemID})
        return true
    })
    return c, err
}

// RemoveItem bumps updatedAt even when no entry matched, as a $pull update
// does.
func (r checkRepo) RemoveItem(_ context.Context, id, orderedItemID primitive.ObjectID) (*model.Check, error) {
    c, _, err := r.update(id, func(c *model.Check) bool {
        kept := c.OrderedItems[:0]
        for _, oi := range c.OrderedItems {
            if oi.ID != orderedItemID {
                kept = append(kept, oi)
            }
        }
        c.OrderedItems = kept
        return true
    })
    return c, err
}

func (r checkRepo) Close(_ context.Context, id primitive.ObjectID) (*model.Check, bool, error) {
    return r.update(id, func(c *model.Check) bool {
        if c.Closed {
            return false
        }
        c.Closed = true
        return true
    })
}

// ----- users -----

type userRepo struct{ db *DB }

func (r userRepo) Create(_ context.Context, u *model.User) error {
    r.db.mu.Lock()
    defer r.db.mu.Unlock()
    for _, existing := range r.db.users {
        if existing.Username == u.Username {
            return repository.ErrUsernameTaken
        }
    }
    if u.ID.IsZero() {
        u.ID = primitive.NewObjectID()
    }
    now := r.db.Now()
    u.CreatedAt, u.UpdatedAt = now, now
    r.db.users[u.ID] = *u
    return nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
    r.db.mu.Lock()
    defer r.db.mu.Unlock()
    for _, u := range r.db.users {
        if u.Username == username {
            out := u
            return &out, nil
        }
    }
    return nil, repository.ErrUserNotFound
}

func (r userRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
    r.db.mu.Lock()
    defer r.db.mu.Unlock()
    u, ok := r.db.users[id]
    if !ok {
        return nil, repository.ErrUserNotFound
    }
    return &u, nil
}

// ----- seeding -----

// Seeder loads fixtures into db.
type Seeder struct{ db *DB }

func NewSeeder(db *DB) *Seeder { return &Seeder{db: db} }

func (s *Seeder) DropAll(context.Context) error {
    s.db.mu.Lock()
    defer s.db.mu.Unlock()
    s.db.reset()
    return nil
}

func (s *Seeder) InsertTables(_ context.Context, tables []model.Table) error {
    s.db.mu.Lock()
    defer s.db.mu.Unlock()
    for _, t := range tables {
        if t.ID.IsZero() {
            t.ID = primitive.NewObjectID()
        }
        s.db.tables[t.ID] = t
    }
    return nil
}

func (s *Seeder) InsertItems(_ context.Context, items []model.Item) error {
    s.db.mu.Lock()
    defer s.db.mu.Unlock()
    for _, it := range items {
        if it.ID.IsZero() {
            it.ID = primitive.NewObjectID()
        }
        s.db.items[it.ID] = it
    }
    return nil
}

func (s *Seeder) InsertChecks(_ context.Context, checks []model.Check) error {
    s.db.mu.Lock()
    defer s.db.mu.Unlock()
    for _, c := range checks {
        if c.ID.IsZero() {
            c.ID = primitive.NewObjectID()
        }
        s.db.checks[c.ID] = cloneCheck(c)
    }
    return nil
}

func (s *Seeder) InsertUsers(_ context.Context, users []model.User) error {
    s.db.mu.Lock()
    defer s.db.mu.Unlock()
    for _, u := range users {
        if u.ID.IsZero() {
            u.ID = primitive.NewObjectID()
        }
        s.db.users[u.ID] = u
    }
    return nil
}

// EnsureIndexes verifies the uniqueness the persistent stores enforce with
// indexes.
func (s *Seeder) EnsureIndexes(context.Context) error {
    s.db.mu.Lock()
    defer s.db.mu.Unlock()
    numbers := map[int]bool{}
    for _, t := range s.db.tables {
        if numbers[t.Number] {
            return errors.Errorf("duplicate table number %d", t.Number)
        }
        numbers[t.Number] = true
    }
    names := map[string]bool{}
    for _, it := range s.db.items {
        if names[it.Name] {
            return errors.Errorf("duplicate item name %q", it.Name)
        }
        names[it.Name] = true
    }
    usernames := map[string]bool{}
    for _, u := range s.db.users {
        if usernames[u.Username] {
            return errors.Errorf("duplicate username %q", u.Username)
        }
        usernames[u.Username] = true
    }
    return nil
}
