package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/stockroom/internal/middleware/auth"
	"github.com/Skotchmaster/stockroom/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/stockroom/internal/middleware/logging"
	"github.com/Skotchmaster/stockroom/internal/service"
	"github.com/Skotchmaster/stockroom/internal/session"
	"github.com/Skotchmaster/stockroom/internal/store"
	"github.com/Skotchmaster/stockroom/internal/upload"
	"github.com/Skotchmaster/stockroom/internal/web"
)

type Deps struct {
	Store     store.Store
	Auth      *service.AuthService
	Inventory *service.InventoryService
	Uploads   *upload.Store
	Sessions  *session.Manager
	// CSRF is nil to turn protection off.
	CSRF *csrf.Config
}

// New builds the echo instance with the middleware chain and every route.
func New(d *Deps, logger *slog.Logger) (*echo.Echo, error) {
	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.HTTPErrorHandler = ErrorHandler

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(loggingmw.RequestLogger(logger))
	if d.CSRF != nil {
		e.Use(csrf.Middleware(*d.CSRF))
	}

	Register(e, d)
	return e, nil
}

func Register(e *echo.Echo, d *Deps) {
	sessions := &auth.Sessions{Manager: d.Sessions, Users: d.Auth}
	authH := &AuthHTTP{Svc: d.Auth, Sessions: d.Sessions}
	inv := &InventoryHTTP{Svc: d.Inventory, Uploads: d.Uploads}
	cats := &CategoryHTTP{Svc: d.Inventory}
	files := &UploadsHTTP{Uploads: d.Uploads}
	health := &HealthHTTP{Store: d.Store}

	e.Use(sessions.Load)

	e.GET("/health/live", health.Live)
	e.GET("/health/ready", health.Ready)
	e.GET("/static/uploads/:filename", files.Serve)

	e.GET("/", authH.Home)
	e.GET("/register", authH.RegisterForm)
	e.POST("/register", authH.Register)
	e.GET("/login", authH.LoginForm)
	e.POST("/login", authH.Login)

	login := sessions.RequireLogin
	e.GET("/logout", authH.Logout, login)

	e.GET("/dashboard", inv.Dashboard, login)
	e.GET("/inventory", inv.Inventory, login)
	e.GET("/product/new", inv.NewProductForm, login)
	e.POST("/product/new", inv.CreateProduct, login)
	e.GET("/product/edit/:id", inv.EditProductForm, login)
	e.POST("/product/edit/:id", inv.UpdateProduct, login)
	e.POST("/product/delete/:id", inv.DeleteProduct, login)

	e.GET("/categories", cats.Categories, login)
	e.GET("/category/new", cats.NewCategoryForm, login, auth.AdminOnly)
	e.POST("/category/new", cats.CreateCategory, login, auth.AdminOnly)
	e.GET("/category/edit/:id", cats.EditCategoryForm, login, auth.AdminOnly)
	e.POST("/category/edit/:id", cats.UpdateCategory, login, auth.AdminOnly)
}
