package handler

import (
    "context"
    "encoding/json"
    "io"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/pkg/errors"
    "github.com/sirupsen/logrus"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "go.mongodb.org/mongo-driver/bson/primitive"

    "github.com/iliyamo/restaurant-checks/internal/model"
    "github.com/iliyamo/restaurant-checks/internal/repository"
    "github.com/iliyamo/restaurant-checks/internal/repository/memrepo"
)

func TestCheckRespReferences(t *testing.T) {
    table := model.Table{ID: primitive.NewObjectID(), Number: 3}
    item := model.Item{ID: primitive.NewObjectID(), Name: "Tea", Price: 2}
    gone := primitive.NewObjectID()
    entry1, entry2 := primitive.NewObjectID(), primitive.NewObjectID()
    ch := model.Check{
        ID:      primitive.NewObjectID(),
        TableID: table.ID,
        OrderedItems: []model.OrderedItem{
            {ID: entry1, ItemID: item.ID},
            {ID: entry2, ItemID: gone},
        },
        CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
        UpdatedAt: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
    }

    t.Run("unresolved", func(t *testing.T) {
        b, err := json.Marshal(toCheckResp(ch, nil, nil))
        require.NoError(t, err)
        assert.JSONEq(t, `{
            "id": "`+ch.ID.Hex()+`",
            "tableId": "`+table.ID.Hex()+`",
            "closed": false,
            "orderedItems": [
                {"id": "`+entry1.Hex()+`", "itemId": "`+item.ID.Hex()+`"},
                {"id": "`+entry2.Hex()+`", "itemId": "`+gone.Hex()+`"}
            ],
            "createdAt": "2024-01-01T00:00:00Z",
            "updatedAt": "2024-01-02T00:00:00Z"
        }`, string(b))
    })

    t.Run("resolved", func(t *testing.T) {
        tables := map[primitive.ObjectID]model.Table{table.ID: table}
        items := map[primitive.ObjectID]model.Item{item.ID: item}
        b, err := json.Marshal(toCheckResp(ch, tables, items))
        require.NoError(t, err)
        assert.JSONEq(t, `{
            "id": "`+ch.ID.Hex()+`",
            "tableId": {"id": "`+table.ID.Hex()+`", "number": 3},
            "closed": false,
            "orderedItems": [
                {"id": "`+entry1.Hex()+`", "itemId": {"id": "`+item.ID.Hex()+`", "name": "Tea", "price": 2}},
                {"id": "`+entry2.Hex()+`", "itemId": null}
            ],
            "createdAt": "2024-01-01T00:00:00Z",
            "updatedAt": "2024-01-02T00:00:00Z"
        }`, string(b))
    })

    t.Run("empty items render as array", func(t *testing.T) {
        b, err := json.Marshal(toCheckResp(model.Check{ID: ch.ID, TableID: table.ID}, nil, nil))
        require.NoError(t, err)
        assert.Contains(t, string(b), `"orderedItems":[]`)
    })
}

func TestParseID(t *testing.T) {
    id := primitive.NewObjectID()
    got, err := parseID("id", id.Hex())
    require.NoError(t, err)
    assert.Equal(t, id, got)

    for _, raw := range []interface{}{"", "zz", id.Hex() + "0", 12, nil, true} {
        _, err := parseID("itemId", raw)
        var he *echo.HTTPError
        require.True(t, errors.As(err, &he), "%v", raw)
        assert.Equal(t, http.StatusBadRequest, he.Code)
        assert.Equal(t, "The `itemId` is not valid", he.Message)
    }
}

func TestValidateTableID(t *testing.T) {
    ctx := context.Background()
    db := memrepo.New()
    table := model.Table{ID: primitive.NewObjectID(), Number: 1}
    require.NoError(t, memrepo.NewSeeder(db).InsertTables(ctx, []model.Table{table}))
    tables := memrepo.NewStore(db).Tables

    assert.NoError(t, validateTableID(ctx, tables, nil))
    assert.NoError(t, validateTableID(ctx, tables, ""))
    assert.NoError(t, validateTableID(ctx, tables, table.ID.Hex()))
    assert.EqualError(t, validateTableID(ctx, tables, "bad"), "code=400, message=The `tableId` is not valid")
    assert.EqualError(t, validateTableID(ctx, tables, primitive.NewObjectID().Hex()), "code=400, message=The `tableId` is not valid")
}

func TestMissing(t *testing.T) {
    for _, v := range []interface{}{nil, "", false, float64(0)} {
        assert.True(t, missing(v), "%#v", v)
    }
    for _, v := range []interface{}{"x", true, float64(1), map[string]interface{}{}} {
        assert.False(t, missing(v), "%#v", v)
    }
}

func TestValidateUserBodyAcceptsMinimal(t *testing.T) {
    assert.NoError(t, validateUserBody(map[string]interface{}{"username": "a", "password": "12345678"}))
}

func TestHTTPErrorHandler(t *testing.T) {
    log := logrus.New()
    log.SetOutput(io.Discard)
    h := HTTPErrorHandler(log)

    cases := []struct {
        name string
        err  error
        want string
        code int
    }{
        {"http error", echo.NewHTTPError(http.StatusBadRequest, "The `id` is not valid"), `{"status":400,"message":"The `+"`id`"+` is not valid"}`, http.StatusBadRequest},
        {"not found", echo.ErrNotFound, `{"status":404,"message":"Not Found"}`, http.StatusNotFound},
        {"sentinel", errors.Wrap(repository.ErrCheckNotFound, "get"), `{"status":404,"message":"Not Found"}`, http.StatusNotFound},
        {"unknown", errors.New("mongo: connection reset"), `{"status":500,"message":"Internal Server Error"}`, http.StatusInternalServerError},
        {"validation", newValidationError("username", "Missing '%s' in request body", "username"),
            `{"status":422,"reason":"ValidationError","message":"Missing 'username' in request body","location":"username"}`, http.StatusUnprocessableEntity},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            e := echo.New()
            rec := httptest.NewRecorder()
            c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
            h(tc.err, c)
            assert.Equal(t, tc.code, rec.Code)
            assert.JSONEq(t, tc.want, rec.Body.String())
        })
    }
}

func TestHealthReportsPingFailure(t *testing.T) {
    e := echo.New()
    rec := httptest.NewRecorder()
    c := e.NewContext(httptest.NewRequest(http.MethodGet, "/healthz", nil), rec)
    require.NoError(t, Health(func(context.Context) error { return errors.New("down") })(c))
    assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
    assert.Equal(t, "unavailable", rec.Body.String())
}
