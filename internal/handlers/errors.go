package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HTTPErrorHandler renders error pages: 404 for missing resources and
// unknown paths, 403 for CSRF failures, a generic page for other client
// errors and 500 for everything else.
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
		}

		if code >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}

		if c.Request().Header.Get(echo.HeaderAccept) == echo.MIMEApplicationJSON {
			msg := http.StatusText(code)
			if he != nil && code < http.StatusInternalServerError {
				msg = messageOf(he)
			}
			_ = c.JSON(code, echo.Map{"error": msg})
			return
		}

		template := "core/500.html"
		switch {
		case code == http.StatusNotFound:
			template = "core/404.html"
		case code == http.StatusForbidden:
			template = "core/403csrf.html"
		case code >= 400 && code < 500:
			template = "core/4xx.html"
		}
		data := echo.Map{"path": c.Request().URL.Path, "status": code, "status_text": http.StatusText(code)}
		if rerr := c.Render(code, template, data); rerr != nil {
			logger.Error("render error page", zap.Error(rerr))
			_ = c.String(code, http.StatusText(code))
		}
	}
}

func messageOf(he *echo.HTTPError) string {
	if s, ok := he.Message.(string); ok {
		return s
	}
	return http.StatusText(he.Code)
}
