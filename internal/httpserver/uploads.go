package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/stockroom/internal/store"
	"github.com/Skotchmaster/stockroom/internal/upload"
)

type UploadsHTTP struct {
	Uploads *upload.Store
}

func (h *UploadsHTTP) Serve(c echo.Context) error {
	path, ok := h.Uploads.Path(c.Param("filename"))
	if !ok {
		return echo.ErrNotFound
	}
	return c.File(path)
}

type HealthHTTP struct {
	Store store.Store
}

func (h *HealthHTTP) Live(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (h *HealthHTTP) Ready(c echo.Context) error {
	if err := h.Store.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable", "backend": h.Store.Backend()})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "backend": h.Store.Backend()})
}
