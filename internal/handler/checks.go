package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/pkg/errors"
    "github.com/sirupsen/logrus"
    "go.mongodb.org/mongo-driver/bson/primitive"

    "github.com/iliyamo/restaurant-checks/internal/model"
    "github.com/iliyamo/restaurant-checks/internal/queue"
    "github.com/iliyamo/restaurant-checks/internal/repository"
)

// EventPublisher delivers check lifecycle events to the broker.
type EventPublisher interface {
    PublishCheckClosed(ctx context.Context, ev queue.CheckClosedEvent) error
}

// CheckHandler serves the /checks resource.
type CheckHandler struct {
    Tables repository.TableRepository
    Items  repository.ItemRepository
    Checks repository.CheckRepository
    Events EventPublisher // optional
    Log    logrus.FieldLogger
}

func NewCheckHandler(store *repository.Store, events EventPublisher, log logrus.FieldLogger) *CheckHandler {
    if store == nil || store.Tables == nil || store.Items == nil || store.Checks == nil {
        panic("nil repository passed to NewCheckHandler")
    }
    return &CheckHandler{Tables: store.Tables, Items: store.Items, Checks: store.Checks, Events: events, Log: log}
}

type createCheckReq struct {
    TableID interface{} `json:"tableId"`
}

type addItemReq struct {
    ItemID interface{} `json:"itemId"`
}

type removeItemReq struct {
    OrderedItemID interface{} `json:"orderedItemId"`
}

const storeTimeout = 5 * time.Second

// notFound turns the repository sentinel into the generic 404.
func notFound(err error) error {
    if errors.Is(err, repository.ErrCheckNotFound) {
        return echo.ErrNotFound
    }
    return err
}

// List returns every check, most recently updated first, with both the table
// and the ordered items resolved.
func (h *CheckHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
    defer cancel()

    checks, err := h.Checks.List(ctx)
    if err != nil {
        return err
    }
    tables, err := populateTables(ctx, h.Tables, checks...)
    if err != nil {
        return err
    }
    items, err := populateItems(ctx, h.Items, checks...)
    if err != nil {
        return err
    }
    out := make([]checkResp, 0, len(checks))
    for _, ch := range checks {
        out = append(out, toCheckResp(ch, tables, items))
    }
    return c.JSON(http.StatusOK, out)
}

// Get returns one check with its ordered items resolved.
func (h *CheckHandler) Get(c echo.Context) error {
    id, err := parseID("id", c.Param("id"))
    if err != nil {
        return err
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
    defer cancel()

    ch, err := h.Checks.Get(ctx, id)
    if err != nil {
        return notFound(err)
    }
    return h.respond(ctx, c, http.StatusOK, ch)
}

// Create opens a new check for an existing table.
func (h *CheckHandler) Create(c echo.Context) error {
    var req createCheckReq
    if err := bindBody(c, &req); err != nil {
        return err
    }
    if missing(req.TableID) {
        return echo.NewHTTPError(http.StatusBadRequest, "Missing `tableId` in request body")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
    defer cancel()

    if err := validateTableID(ctx, h.Tables, req.TableID); err != nil {
        return err
    }
    tableID, err := parseID("tableId", req.TableID)
    if err != nil {
        return err
    }
    ch, err := h.Checks.Create(ctx, tableID)
    if err != nil {
        return err
    }
    tables, err := populateTables(ctx, h.Tables, *ch)
    if err != nil {
        return err
    }

    loc := strings.TrimSuffix(c.Request().URL.Path, "/") + "/" + ch.ID.Hex()
    c.Response().Header().Set(echo.HeaderLocation, loc)
    return c.JSON(http.StatusCreated, toCheckResp(*ch, tables, nil))
}

// AddItem appends a new ordered item entry to the check.
func (h *CheckHandler) AddItem(c echo.Context) error {
    id, err := parseID("id", c.Param("id"))
    if err != nil {
        return err
    }
    var req addItemReq
    if err := bindBody(c, &req); err != nil {
        return err
    }
    itemID, err := parseID("itemId", req.ItemID)
    if err != nil {
        return err
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
    defer cancel()

    ch, err := h.Checks.AddItem(ctx, id, itemID)
    if err != nil {
        return notFound(err)
    }
    return h.respond(ctx, c, http.StatusOK, ch)
}

// RemoveItem drops one ordered item entry, addressed by the entry's own id.
func (h *CheckHandler) RemoveItem(c echo.Context) error {
    id, err := parseID("id", c.Param("id"))
    if err != nil {
        return err
    }
    var req removeItemReq
    if err := bindBody(c, &req); err != nil {
        return err
    }
    entryID, err := parseID("orderedItemId", req.OrderedItemID)
    if err != nil {
        return err
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
    defer cancel()

    ch, err := h.Checks.RemoveItem(ctx, id, entryID)
    if err != nil {
        return notFound(err)
    }
    return h.respond(ctx, c, http.StatusOK, ch)
}

// Close marks the check closed.  Closing twice succeeds; only the first call
// emits a check.closed event.
func (h *CheckHandler) Close(c echo.Context) error {
    id, err := parseID("id", c.Param("id"))
    if err != nil {
        return err
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
    defer cancel()

    ch, closedNow, err := h.Checks.Close(ctx, id)
    if err != nil {
        return notFound(err)
    }
    items, err := populateItems(ctx, h.Items, *ch)
    if err != nil {
        return err
    }
    if closedNow {
        h.publishClosed(*ch, items)
    }
    return c.JSON(http.StatusOK, toCheckResp(*ch, nil, items))
}

// respond writes ch with its items resolved and the table left as an id.
func (h *CheckHandler) respond(ctx context.Context, c echo.Context, status int, ch *model.Check) error {
    items, err := populateItems(ctx, h.Items, *ch)
    if err != nil {
        return err
    }
    return c.JSON(status, toCheckResp(*ch, nil, items))
}

// publishClosed emits the event in the background.  Broker failures are
// logged and never reach the client.
func (h *CheckHandler) publishClosed(ch model.Check, items map[primitive.ObjectID]model.Item) {
    if h.Events == nil {
        return
    }
    ev := queue.CheckClosedEvent{
        CheckID:   ch.ID.Hex(),
        TableID:   ch.TableID.Hex(),
        ItemCount: len(ch.OrderedItems),
        ItemNames: make([]string, 0, len(ch.OrderedItems)),
        ClosedAt:  ch.UpdatedAt.UTC().Format(time.RFC3339),
    }
    for _, oi := range ch.OrderedItems {
        if it, ok := items[oi.ItemID]; ok {
            ev.Total += it.Price
            ev.ItemNames = append(ev.ItemNames, it.Name)
        }
    }

    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
        defer cancel()
        if tables, err := populateTables(ctx, h.Tables, ch); err == nil {
            if t, ok := tables[ch.TableID]; ok {
                ev.TableNumber = t.Number
            }
        }
        if err := h.Events.PublishCheckClosed(ctx, ev); err != nil && h.Log != nil {
            h.Log.WithError(err).WithField("check_id", ev.CheckID).Warn("publish check.closed failed")
        }
    }()
}
