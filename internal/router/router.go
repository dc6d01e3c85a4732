package router // package router defines how HTTP routes are registered for the API

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/lodging-booking/internal/handler"
	"github.com/iliyamo/lodging-booking/internal/middleware"
)

// Options carries what New needs besides the handlers.  Cache and RateLimit
// may be nil, in which case listings are not cached and nothing is limited.
type Options struct {
	JWTSecret   string
	CORSOrigins []string
	Logger      *slog.Logger
	Cache       echo.MiddlewareFunc
	RateLimit   echo.MiddlewareFunc
}

// New builds the Echo instance with the global middleware chain and every
// route registered.
func New(opts Options, auth *handler.AuthHandler, bookings *handler.BookingHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     opts.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, middleware.RequestIDHeader},
		AllowCredentials: true,
	}))
	e.Use(echomw.BodyLimit("1M"))
	e.Use(middleware.Session(opts.JWTSecret))

	RegisterRoutes(e)
	api := e.Group("/api")
	RegisterAuth(api, auth, opts.RateLimit)
	RegisterBookings(api, bookings, opts.Cache, opts.RateLimit)
	return e
}

// RegisterRoutes registers the routes that live outside /api: the health
// check and the root banner.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/", handler.Root)
	e.GET("/healthz", handler.Health)
}

// RegisterAuth mounts /api/auth.  Signup and login are rate limited; me
// needs a session.
func RegisterAuth(api *echo.Group, a *handler.AuthHandler, limit echo.MiddlewareFunc) {
	g := api.Group("/auth")
	g.POST("/signup", a.Signup, orNoop(limit))
	g.POST("/login", a.Login, orNoop(limit))
	g.POST("/logout", a.Logout)
	g.GET("/me", a.Me, middleware.RequireAuth())
}

// RegisterBookings mounts /api/bookings.  Guests may read the calendar;
// creating and releasing bookings is reserved to the administrator.
func RegisterBookings(api *echo.Group, b *handler.BookingHandler, cache, limit echo.MiddlewareFunc) {
	g := api.Group("/bookings")

	g.GET("/current-month-dates", b.CurrentMonthDates, orNoop(cache))
	g.GET("/current-month-ranges", b.CurrentMonthRanges, orNoop(cache))
	g.GET("/calendar", b.Calendar, orNoop(cache))
	g.GET("/availability", b.Availability)
	g.GET("/:id", b.Get)

	admin := []echo.MiddlewareFunc{middleware.RequireAdmin(), orNoop(limit)}
	g.POST("", b.Create, admin...)
	g.DELETE("/release", b.Release, admin...)
}

func orNoop(m echo.MiddlewareFunc) echo.MiddlewareFunc {
	if m == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return m
}
