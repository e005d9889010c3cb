package config

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// CSRFFormField is the form field carrying the CSRF token.
const CSRFFormField = "csrfmiddlewaretoken"

// SetupMiddleware installs the global middleware chain.
func SetupMiddleware(e *echo.Echo, cfg *Config, logger *zap.Logger) {
	e.Pre(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return strings.HasPrefix(p, "/media/") || p == "/health"
		},
	}))

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	// JSON endpoints may be called from other origins; the HTML pages may not.
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p != "/health" && !strings.HasPrefix(p, "/auth/firebase/")
		},
		AllowOrigins: cfg.CORSOrigins,
	}))
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit(bodyLimit(cfg.MaxUploadBytes)))

	if cfg.CSRFEnabled {
		e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
			Skipper: func(c echo.Context) bool {
				p := c.Request().URL.Path
				return strings.HasPrefix(p, "/media/") || strings.HasPrefix(p, "/auth/firebase/")
			},
			TokenLookup:    "form:" + CSRFFormField + ",header:X-CSRFToken",
			CookieName:     "csrftoken",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSecure:   cfg.SecureCookies,
			CookieSameSite: http.SameSiteLaxMode,
		}))
	}
}

// bodyLimit leaves room for the other multipart fields next to the largest upload.
func bodyLimit(maxUpload int64) string {
	const headroom = 1 << 20
	return strconv.FormatInt((maxUpload+headroom)/1024, 10) + "K"
}
