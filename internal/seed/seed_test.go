package seed

import (
    "context"
    "io"
    "sync"
    "testing"
    "testing/fstest"

    "github.com/pkg/errors"
    "github.com/sirupsen/logrus"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"

    "github.com/iliyamo/restaurant-checks/internal/model"
)

type fakeSeeder struct {
    mu     sync.Mutex
    calls  []string
    tables []model.Table
    items  []model.Item
    checks []model.Check
    users  []model.User
    failOn string
}

func (f *fakeSeeder) record(name string) error {
    f.mu.Lock()
    defer f.mu.Unlock()
    f.calls = append(f.calls, name)
    if f.failOn == name {
        return errors.New(name + " failed")
    }
    return nil
}

func (f *fakeSeeder) DropAll(context.Context) error { return f.record("drop") }

func (f *fakeSeeder) InsertTables(_ context.Context, t []model.Table) error {
    f.tables = t
    return f.record("tables")
}

func (f *fakeSeeder) InsertItems(_ context.Context, it []model.Item) error {
    f.items = it
    return f.record("items")
}

func (f *fakeSeeder) InsertChecks(_ context.Context, c []model.Check) error {
    f.checks = c
    return f.record("checks")
}

func (f *fakeSeeder) InsertUsers(_ context.Context, u []model.User) error {
    f.users = u
    return f.record("users")
}

func (f *fakeSeeder) EnsureIndexes(context.Context) error { return f.record("indexes") }

func quietLogger() *logrus.Logger {
    l := logrus.New()
    l.SetOutput(io.Discard)
    return l
}

func TestDefaultsLoad(t *testing.T) {
    fx, err := LoadFixtures(Defaults())
    require.NoError(t, err)

    assert.Len(t, fx.Tables, 6)
    assert.Len(t, fx.Items, 8)
    assert.Len(t, fx.Checks, 3)
    assert.Len(t, fx.Users, 2)

    tables := map[string]bool{}
    for _, tb := range fx.Tables {
        tables[tb.ID.Hex()] = true
    }
    items := map[string]bool{}
    for _, it := range fx.Items {
        items[it.ID.Hex()] = true
    }
    for _, ch := range fx.Checks {
        assert.True(t, tables[ch.TableID.Hex()], "check %s references unknown table", ch.ID.Hex())
        assert.NotNil(t, ch.OrderedItems)
        assert.False(t, ch.UpdatedAt.Before(ch.CreatedAt))
        for _, oi := range ch.OrderedItems {
            assert.True(t, items[oi.ItemID.Hex()], "entry %s references unknown item", oi.ID.Hex())
        }
    }
}

func TestLoadFixturesFromDir(t *testing.T) {
    fsys := fstest.MapFS{
        "tables.yaml": {Data: []byte("- id: 5b9a2c9e8f1d4a0c3e7b1001\n  number: 7\n")},
        "items.yaml":  {Data: []byte("[]\n")},
        "checks.yaml": {Data: []byte("- id: 5b9a2c9e8f1d4a0c3e7b3001\n  tableId: 5b9a2c9e8f1d4a0c3e7b1001\n")},
        "users.yaml":  {Data: []byte("[]\n")},
    }
    fx, err := LoadFixtures(fsys)
    require.NoError(t, err)

    require.Len(t, fx.Tables, 1)
    assert.Equal(t, 7, fx.Tables[0].Number)
    require.Len(t, fx.Checks, 1)
    ch := fx.Checks[0]
    assert.False(t, ch.Closed)
    assert.Empty(t, ch.OrderedItems)
    assert.False(t, ch.CreatedAt.IsZero())
    assert.Equal(t, ch.CreatedAt, ch.UpdatedAt)
}

func TestLoadFixturesErrors(t *testing.T) {
    base := func() fstest.MapFS {
        return fstest.MapFS{
            "tables.yaml": {Data: []byte("[]")},
            "items.yaml":  {Data: []byte("[]")},
            "checks.yaml": {Data: []byte("[]")},
            "users.yaml":  {Data: []byte("[]")},
        }
    }

    missing := base()
    delete(missing, "users.yaml")
    _, err := LoadFixtures(missing)
    assert.ErrorContains(t, err, "users.yaml")

    badID := base()
    badID["tables.yaml"] = &fstest.MapFile{Data: []byte("- id: nope\n  number: 1\n")}
    _, err = LoadFixtures(badID)
    assert.ErrorContains(t, err, "invalid id")
}

func TestRunSeedsEverything(t *testing.T) {
    fx, err := LoadFixtures(Defaults())
    require.NoError(t, err)
    s := &fakeSeeder{}

    require.NoError(t, Run(context.Background(), s, fx, bcrypt.MinCost, quietLogger()))

    require.Len(t, s.calls, 6)
    assert.Equal(t, "drop", s.calls[0])
    assert.ElementsMatch(t, []string{"tables", "items", "checks", "users"}, s.calls[1:5])
    assert.Equal(t, "indexes", s.calls[5])

    assert.Equal(t, fx.Tables, s.tables)
    assert.Equal(t, fx.Items, s.items)
    assert.Equal(t, fx.Checks, s.checks)
    require.Len(t, s.users, len(fx.Users))
    for i, u := range s.users {
        assert.Equal(t, fx.Users[i].Username, u.Username)
        assert.NotEqual(t, fx.Users[i].Password, u.PasswordHash)
        assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(fx.Users[i].Password)))
    }
}

func TestRunStopsOnFailure(t *testing.T) {
    fx, err := LoadFixtures(Defaults())
    require.NoError(t, err)

    s := &fakeSeeder{failOn: "drop"}
    err = Run(context.Background(), s, fx, bcrypt.MinCost, quietLogger())
    assert.ErrorContains(t, err, "drop failed")
    assert.Equal(t, []string{"drop"}, s.calls)

    s = &fakeSeeder{failOn: "items"}
    err = Run(context.Background(), s, fx, bcrypt.MinCost, quietLogger())
    assert.ErrorContains(t, err, "items failed")
    assert.NotContains(t, s.calls, "indexes")
}
