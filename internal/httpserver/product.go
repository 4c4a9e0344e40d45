package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stockroom/internal/flash"
	"github.com/Skotchmaster/stockroom/internal/logging"
	"github.com/Skotchmaster/stockroom/internal/models"
	"github.com/Skotchmaster/stockroom/internal/service"
	"github.com/Skotchmaster/stockroom/internal/upload"
	"github.com/Skotchmaster/stockroom/internal/util"
	"github.com/Skotchmaster/stockroom/internal/web"
)

type InventoryHTTP struct {
	Svc     *service.InventoryService
	Uploads *upload.Store
}

func (h *InventoryHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "dashboard")

	stats, err := h.Svc.Dashboard(ctx)
	if err != nil {
		l.Error("dashboard_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load dashboard")
	}
	return render(c, "dashboard", "Dashboard", stats)
}

func (h *InventoryHTTP) Inventory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory")

	page, err := h.Svc.Inventory(ctx, service.InventoryQuery{
		Q:    c.QueryParam("q"),
		Page: util.ParseIntDefault(c.QueryParam("page"), 1),
		Size: util.ParseIntDefault(c.QueryParam("size"), 0),
	})
	if err != nil {
		l.Error("inventory_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load inventory")
	}
	return render(c, "inventory", "Inventory", page)
}

func (h *InventoryHTTP) NewProductForm(c echo.Context) error {
	return h.productForm(c, "Create", nil)
}

func (h *InventoryHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create_product")

	in, err := parseProductForm(c)
	if err != nil {
		l.Warn("product_create_error", "status", 302, "reason", "invalid form", "error", err)
		return redirectWith(c, flash.KindDanger, err.Error(), "/product/new")
	}
	if in.Image, err = h.saveImage(c); err != nil {
		return imageError(l, "product_create_error", err)
	}

	p, err := h.Svc.CreateProduct(ctx, in)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("product_create_error", "status", 302, "reason", "invalid form", "error", err)
			return redirectWith(c, flash.KindDanger, validationMessage(err), "/product/new")
		}
		l.Error("product_create_error", "status", 500, "reason", "cannot add product to db", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create product")
	}

	l.Info("create_product_success", "id", p.ID)
	return redirectWith(c, flash.KindSuccess, "Product added", "/inventory")
}

func (h *InventoryHTTP) EditProductForm(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "edit_product_form")

	p, err := h.Svc.GetProduct(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return redirectWith(c, flash.KindDanger, "Product not found", "/inventory")
		}
		l.Error("product_get_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load product")
	}
	return h.productForm(c, "Edit", p)
}

func (h *InventoryHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	l := logging.FromContext(ctx).With("handler", "update_product", "id", id)

	if _, err := h.Svc.GetProduct(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return redirectWith(c, flash.KindDanger, "Product not found", "/inventory")
		}
		l.Error("product_update_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load product")
	}

	back := "/product/edit/" + id
	in, err := parseProductForm(c)
	if err != nil {
		l.Warn("product_update_error", "status", 302, "reason", "invalid form", "error", err)
		return redirectWith(c, flash.KindDanger, err.Error(), back)
	}
	if in.Image, err = h.saveImage(c); err != nil {
		return imageError(l, "product_update_error", err)
	}

	if _, err := h.Svc.UpdateProduct(ctx, id, in); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return redirectWith(c, flash.KindDanger, "Product not found", "/inventory")
		case errors.Is(err, service.ErrValidation):
			l.Warn("product_update_error", "status", 302, "reason", "invalid form", "error", err)
			return redirectWith(c, flash.KindDanger, validationMessage(err), back)
		}
		l.Error("product_update_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update product")
	}

	l.Info("update_product_success")
	return redirectWith(c, flash.KindSuccess, "Product updated", "/inventory")
}

func (h *InventoryHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	l := logging.FromContext(ctx).With("handler", "delete_product", "id", id)

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		l.Error("product_delete_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete product")
	}

	l.Info("delete_product_success")
	return redirectWith(c, flash.KindInfo, "Product deleted", "/inventory")
}

func (h *InventoryHTTP) productForm(c echo.Context, action string, p *models.Product) error {
	ctx := c.Request().Context()
	cats, err := h.Svc.Repo.GetCategories(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("product_form_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load categories")
	}
	return render(c, "product_form", action+" product", web.ProductForm{
		Action:     action,
		Product:    p,
		Categories: cats,
	})
}

var errBadUpload = errors.New("unreadable upload")

// saveImage stores the uploaded "image" file. It returns nil when no
// acceptable file was sent. Call it only once the form is valid so rejected
// forms leave nothing on disk.
func (h *InventoryHTTP) saveImage(c echo.Context) (*string, error) {
	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("%w: %w", errBadUpload, err)
	}
	name, err := h.Uploads.Save(fh)
	if err != nil || name == "" {
		return nil, err
	}
	return &name, nil
}

func imageError(l *slog.Logger, event string, err error) error {
	if errors.Is(err, errBadUpload) {
		l.Warn(event, "status", 400, "reason", "bad multipart body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid upload")
	}
	l.Error(event, "status", 500, "reason", "cannot save image", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "cannot save image")
}

// formError is a message meant for the user as is.
type formError string

func (e formError) Error() string { return string(e) }

// parseProductForm reads and validates the product fields; empty numbers
// default to 0.
func parseProductForm(c echo.Context) (service.ProductInput, error) {
	in := service.ProductInput{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Description: strings.TrimSpace(c.FormValue("description")),
		CategoryID:  c.FormValue("category_id"),
	}

	if raw := strings.TrimSpace(c.FormValue("quantity")); raw != "" {
		q, err := strconv.Atoi(raw)
		if err != nil {
			return in, formError("Quantity must be a whole number")
		}
		in.Quantity = q
	}
	if raw := strings.TrimSpace(c.FormValue("price")); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
			return in, formError("Price must be a number")
		}
		in.Price = p
	}
	if err := in.Validate(); err != nil {
		return in, formError(validationMessage(err))
	}
	return in, nil
}

func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")
	if msg == "" {
		return "Invalid form"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
