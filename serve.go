package pensieve

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/eringen/pensieve/views"
)

// NewServer returns an echo instance serving the built site from
// cfg.OutputDir, with the 404 and 500 pages rendered by views.
func NewServer(cfg SiteConfig, logger *slog.Logger) *echo.Echo {
	cfg.setDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	site := cfg.viewConfig()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpErrorHandler(e, site, logger)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{Level: 5}))
	e.Use(cacheControlMiddleware)
	e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
		Root:  cfg.OutputDir,
		Index: "index.html",
	}))

	return e
}

// cacheControlMiddleware keeps previews fresh: pages are rebuilt between
// requests, so nothing may be cached for long.
func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		switch {
		case path == "/sitemap.xml" || path == "/feed.xml" || path == "/robots.txt":
			c.Response().Header().Set("Cache-Control", "public, max-age=60")
		case strings.HasSuffix(path, "/") || strings.HasSuffix(path, ".html"):
			c.Response().Header().Set("Cache-Control", "no-cache")
		default:
			c.Response().Header().Set("Cache-Control", "public, max-age=3600")
		}
		return next(c)
	}
}

func httpErrorHandler(e *echo.Echo, site views.SiteConfig, logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		ok := errors.As(err, &he)
		if ok && he.Code == http.StatusNotFound {
			_ = renderStatus(c, http.StatusNotFound, views.NotFound(site))
			return
		}
		code := http.StatusInternalServerError
		if ok {
			code = he.Code
		}
		if code >= 500 {
			logger.Error("server error", "uri", c.Request().RequestURI, "error", err)
			_ = renderStatus(c, code, views.ServerError(site))
			return
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}

func renderStatus(c echo.Context, code int, cmp templ.Component) error {
	var buf bytes.Buffer
	if err := cmp.Render(c.Request().Context(), &buf); err != nil {
		return err
	}
	return c.HTMLBlob(code, buf.Bytes())
}

// Serve serves the output directory on Config.Addr until ctx is canceled.
func (a *App) Serve(ctx context.Context) error {
	e := NewServer(a.Config, a.logger)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("serving", "addr", a.Config.Addr, "dir", a.Config.OutputDir)
		if err := e.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
