package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stockroom/internal/flash"
	"github.com/Skotchmaster/stockroom/internal/logging"
	"github.com/Skotchmaster/stockroom/internal/service"
	"github.com/Skotchmaster/stockroom/internal/web"
)

type CategoryHTTP struct {
	Svc *service.InventoryService
}

func (h *CategoryHTTP) Categories(c echo.Context) error {
	ctx := c.Request().Context()
	counts, err := h.Svc.Categories(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("categories_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load categories")
	}
	return render(c, "categories", "Categories", counts)
}

func (h *CategoryHTTP) NewCategoryForm(c echo.Context) error {
	return render(c, "category_form", "Create category", web.CategoryForm{Action: "Create"})
}

func (h *CategoryHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create_category")

	cat, err := h.Svc.CreateCategory(ctx,
		strings.TrimSpace(c.FormValue("name")),
		strings.TrimSpace(c.FormValue("subcategory")),
	)
	if err != nil {
		l.Error("category_create_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create category")
	}

	l.Info("create_category_success", "id", cat.ID)
	return redirectWith(c, flash.KindSuccess, "Category created", "/categories")
}

func (h *CategoryHTTP) EditCategoryForm(c echo.Context) error {
	ctx := c.Request().Context()
	cat, err := h.Svc.GetCategory(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return redirectWith(c, flash.KindDanger, "Category not found", "/categories")
		}
		logging.FromContext(ctx).Error("category_get_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load category")
	}
	return render(c, "category_form", "Edit category", web.CategoryForm{Action: "Edit", Category: cat})
}

func (h *CategoryHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	l := logging.FromContext(ctx).With("handler", "update_category", "id", id)

	_, err := h.Svc.UpdateCategory(ctx, id,
		strings.TrimSpace(c.FormValue("name")),
		strings.TrimSpace(c.FormValue("subcategory")),
	)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return redirectWith(c, flash.KindDanger, "Category not found", "/categories")
		}
		l.Error("category_update_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update category")
	}

	l.Info("update_category_success")
	return redirectWith(c, flash.KindSuccess, "Category updated", "/categories")
}
