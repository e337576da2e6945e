// Package seed loads fixture data and writes it into an emptied store.
package seed

import (
    "embed"
    "io/fs"
    "time"

    "github.com/pkg/errors"
    "go.mongodb.org/mongo-driver/bson/primitive"
    "gopkg.in/yaml.v3"

    "github.com/iliyamo/restaurant-checks/internal/model"
)

//go:embed fixtures/*.yaml
var embedded embed.FS

// Defaults returns the fixtures compiled into the binary.
func Defaults() fs.FS {
    sub, _ := fs.Sub(embedded, "fixtures")
    return sub
}

// UserFixture is a user before its password is hashed.
type UserFixture struct {
    ID        primitive.ObjectID
    Username  string
    Password  string
    FirstName string
    LastName  string
}

// Fixtures is everything written by Run.
type Fixtures struct {
    Tables []model.Table
    Items  []model.Item
    Checks []model.Check
    Users  []UserFixture
}

// hexID decodes a 24 character hex scalar.
type hexID primitive.ObjectID

func (h *hexID) UnmarshalYAML(n *yaml.Node) error {
    id, err := primitive.ObjectIDFromHex(n.Value)
    if err != nil {
        return errors.Errorf("line %d: invalid id %q", n.Line, n.Value)
    }
    *h = hexID(id)
    return nil
}

type tableDoc struct {
    ID     hexID `yaml:"id"`
    Number int   `yaml:"number"`
}

type itemDoc struct {
    ID    hexID   `yaml:"id"`
    Name  string  `yaml:"name"`
    Price float64 `yaml:"price"`
}

type checkDoc struct {
    ID           hexID     `yaml:"id"`
    TableID      hexID     `yaml:"tableId"`
    Closed       bool      `yaml:"closed"`
    CreatedAt    time.Time `yaml:"createdAt"`
    UpdatedAt    time.Time `yaml:"updatedAt"`
    OrderedItems []struct {
        ID     hexID `yaml:"id"`
        ItemID hexID `yaml:"itemId"`
    } `yaml:"orderedItems"`
}

type userDoc struct {
    ID        hexID  `yaml:"id"`
    Username  string `yaml:"username"`
    Password  string `yaml:"password"`
    FirstName string `yaml:"firstname"`
    LastName  string `yaml:"lastname"`
}

// LoadFixtures reads tables.yaml, items.yaml, checks.yaml and users.yaml
// from fsys.  Checks without timestamps get the load time.
func LoadFixtures(fsys fs.FS) (*Fixtures, error) {
    var (
        tables []tableDoc
        items  []itemDoc
        checks []checkDoc
        users  []userDoc
    )
    for name, dst := range map[string]interface{}{
        "tables.yaml": &tables,
        "items.yaml":  &items,
        "checks.yaml": &checks,
        "users.yaml":  &users,
    } {
        if err := decodeFile(fsys, name, dst); err != nil {
            return nil, err
        }
    }

    out := &Fixtures{}
    for _, t := range tables {
        out.Tables = append(out.Tables, model.Table{ID: primitive.ObjectID(t.ID), Number: t.Number})
    }
    for _, it := range items {
        out.Items = append(out.Items, model.Item{ID: primitive.ObjectID(it.ID), Name: it.Name, Price: it.Price})
    }
    now := time.Now().UTC().Truncate(time.Millisecond)
    for _, c := range checks {
        ch := model.Check{
            ID:           primitive.ObjectID(c.ID),
            TableID:      primitive.ObjectID(c.TableID),
            Closed:       c.Closed,
            OrderedItems: make([]model.OrderedItem, 0, len(c.OrderedItems)),
            CreatedAt:    c.CreatedAt,
            UpdatedAt:    c.UpdatedAt,
        }
        if ch.CreatedAt.IsZero() {
            ch.CreatedAt = now
        }
        if ch.UpdatedAt.IsZero() {
            ch.UpdatedAt = ch.CreatedAt
        }
        for _, oi := range c.OrderedItems {
            ch.OrderedItems = append(ch.OrderedItems, model.OrderedItem{ID: primitive.ObjectID(oi.ID), ItemID: primitive.ObjectID(oi.ItemID)})
        }
        out.Checks = append(out.Checks, ch)
    }
    for _, u := range users {
        out.Users = append(out.Users, UserFixture{
            ID:        primitive.ObjectID(u.ID),
            Username:  u.Username,
            Password:  u.Password,
            FirstName: u.FirstName,
            LastName:  u.LastName,
        })
    }
    return out, nil
}

func decodeFile(fsys fs.FS, name string, dst interface{}) error {
    b, err := fs.ReadFile(fsys, name)
    if err != nil {
        return errors.Wrapf(err, "read %s", name)
    }
    if err := yaml.Unmarshal(b, dst); err != nil {
        return errors.Wrapf(err, "parse %s", name)
    }
    return nil
}
