package handler

import (
    "encoding/json"
    "time"

    "go.mongodb.org/mongo-driver/bson/primitive"

    "github.com/iliyamo/restaurant-checks/internal/model"
)

// ----- wire types -----

type tableResp struct {
    ID     string `json:"id"`
    Number int    `json:"number"`
}

type itemResp struct {
    ID    string  `json:"id"`
    Name  string  `json:"name"`
    Price float64 `json:"price"`
}

// tableRef renders as the bare table id until resolved, then as the table
// object.  A resolved reference whose table no longer exists renders null.
type tableRef struct {
    id       primitive.ObjectID
    resolved bool
    table    *tableResp
}

func (r tableRef) MarshalJSON() ([]byte, error) {
    if !r.resolved {
        return json.Marshal(r.id.Hex())
    }
    return json.Marshal(r.table)
}

// itemRef is the item counterpart of tableRef.
type itemRef struct {
    id       primitive.ObjectID
    resolved bool
    item     *itemResp
}

func (r itemRef) MarshalJSON() ([]byte, error) {
    if !r.resolved {
        return json.Marshal(r.id.Hex())
    }
    return json.Marshal(r.item)
}

type orderedItemResp struct {
    ID     string  `json:"id"`
    ItemID itemRef `json:"itemId"`
}

type checkResp struct {
    ID           string            `json:"id"`
    TableID      tableRef          `json:"tableId"`
    Closed       bool              `json:"closed"`
    OrderedItems []orderedItemResp `json:"orderedItems"`
    CreatedAt    time.Time         `json:"createdAt"`
    UpdatedAt    time.Time         `json:"updatedAt"`
}

type userResp struct {
    ID        string    `json:"id"`
    Username  string    `json:"username"`
    FirstName string    `json:"firstname"`
    LastName  string    `json:"lastname"`
    CreatedAt time.Time `json:"createdAt"`
    UpdatedAt time.Time `json:"updatedAt"`
}

// ----- mapping -----

func toTableResp(t model.Table) tableResp {
    return tableResp{ID: t.ID.Hex(), Number: t.Number}
}

func toItemResp(it model.Item) itemResp {
    return itemResp{ID: it.ID.Hex(), Name: it.Name, Price: it.Price}
}

func toUserResp(u model.User) userResp {
    return userResp{
        ID:        u.ID.Hex(),
        Username:  u.Username,
        FirstName: u.FirstName,
        LastName:  u.LastName,
        CreatedAt: u.CreatedAt,
        UpdatedAt: u.UpdatedAt,
    }
}

// toCheckResp maps a stored check onto its wire shape.  A nil lookup map
// leaves that kind of reference as a bare id; a non-nil map resolves every
// reference of that kind, missing entries becoming null.
func toCheckResp(ch model.Check, tables map[primitive.ObjectID]model.Table, items map[primitive.ObjectID]model.Item) checkResp {
    out := checkResp{
        ID:           ch.ID.Hex(),
        TableID:      tableRef{id: ch.TableID},
        Closed:       ch.Closed,
        OrderedItems: make([]orderedItemResp, 0, len(ch.OrderedItems)),
        CreatedAt:    ch.CreatedAt,
        UpdatedAt:    ch.UpdatedAt,
    }
    if tables != nil {
        out.TableID.resolved = true
        if t, ok := tables[ch.TableID]; ok {
            tr := toTableResp(t)
            out.TableID.table = &tr
        }
    }
    for _, oi := range ch.OrderedItems {
        ref := itemRef{id: oi.ItemID}
        if items != nil {
            ref.resolved = true
            if it, ok := items[oi.ItemID]; ok {
                ir := toItemResp(it)
                ref.item = &ir
            }
        }
        out.OrderedItems = append(out.OrderedItems, orderedItemResp{ID: oi.ID.Hex(), ItemID: ref})
    }
    return out
}
