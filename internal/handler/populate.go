package handler

import (
    "context"

    "go.mongodb.org/mongo-driver/bson/primitive"

    "github.com/iliyamo/restaurant-checks/internal/model"
    "github.com/iliyamo/restaurant-checks/internal/repository"
)

// populateTables loads every table referenced by checks with one lookup.
func populateTables(ctx context.Context, repo repository.TableRepository, checks ...model.Check) (map[primitive.ObjectID]model.Table, error) {
    ids := make([]primitive.ObjectID, 0, len(checks))
    for _, ch := range checks {
        ids = append(ids, ch.TableID)
    }
    out := make(map[primitive.ObjectID]model.Table, len(ids))
    if len(ids) == 0 {
        return out, nil
    }
    tables, err := repo.FindByIDs(ctx, ids)
    if err != nil {
        return nil, err
    }
    for _, t := range tables {
        out[t.ID] = t
    }
    return out, nil
}

// populateItems loads every item referenced by the ordered items of checks
// with one lookup.
func populateItems(ctx context.Context, repo repository.ItemRepository, checks ...model.Check) (map[primitive.ObjectID]model.Item, error) {
    var ids []primitive.ObjectID
    for i := range checks {
        ids = append(ids, checks[i].ItemIDs()...)
    }
    out := make(map[primitive.ObjectID]model.Item, len(ids))
    if len(ids) == 0 {
        return out, nil
    }
    items, err := repo.FindByIDs(ctx, ids)
    if err != nil {
        return nil, err
    }
    for _, it := range items {
        out[it.ID] = it
    }
    return out, nil
}
