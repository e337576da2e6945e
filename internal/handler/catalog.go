package handler

import (
    "context"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/restaurant-checks/internal/repository"
)

// CatalogHandler exposes the read-only tables and menu items.
type CatalogHandler struct {
    Tables repository.TableRepository
    Items  repository.ItemRepository
}

func NewCatalogHandler(tables repository.TableRepository, items repository.ItemRepository) *CatalogHandler {
    if tables == nil || items == nil {
        panic("nil repository passed to NewCatalogHandler")
    }
    return &CatalogHandler{Tables: tables, Items: items}
}

// ListTables returns every table ordered by number.
func (h *CatalogHandler) ListTables(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
    defer cancel()

    tables, err := h.Tables.List(ctx)
    if err != nil {
        return err
    }
    out := make([]tableResp, 0, len(tables))
    for _, t := range tables {
        out = append(out, toTableResp(t))
    }
    return c.JSON(http.StatusOK, out)
}

// ListItems returns the menu ordered by name.
func (h *CatalogHandler) ListItems(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
    defer cancel()

    items, err := h.Items.List(ctx)
    if err != nil {
        return err
    }
    out := make([]itemResp, 0, len(items))
    for _, it := range items {
        out = append(out, toItemResp(it))
    }
    return c.JSON(http.StatusOK, out)
}
