package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/dhnshshettigar/sweet-shop-backend/internal/handlers"
	authmw "github.com/dhnshshettigar/sweet-shop-backend/internal/middleware/auth"
)

type Deps struct {
	DB           *gorm.DB
	AuthHandler  *handlers.AuthHandler
	SweetHandler *handlers.SweetHandler
	AuthMW       *authmw.Middleware
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", health(d.DB))

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)

	sweets := api.Group("/sweets", d.AuthMW.RequireAuth)
	sweets.GET("", d.SweetHandler.List)
	sweets.GET("/search", d.SweetHandler.Search)
	sweets.POST("", d.SweetHandler.Create, d.AuthMW.AdminOnly)
}

func health(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		status := "connected"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
			status = "disconnected"
		}
		return c.JSON(http.StatusOK, echo.Map{
			"message":   "Sweet Shop API is running!",
			"db_status": status,
		})
	}
}

// ErrorHandler is the process-wide catch-all: known HTTP errors keep
// their status and message, anything else is logged and answered with a
// generic 500 so internals never leak.
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			if msg, ok := he.Message.(string); ok {
				_ = c.JSON(he.Code, echo.Map{"message": msg})
			} else {
				_ = c.JSON(he.Code, he.Message)
			}
			return
		}

		log.Error("unhandled error", "method", c.Request().Method, "path", c.Request().URL.Path, "error", err)
		_ = c.JSON(http.StatusInternalServerError, echo.Map{
			"message": "Something went wrong on the server!",
		})
	}
}
