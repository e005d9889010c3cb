package cache

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// KeyFunc derives the cache key of a request.
type KeyFunc func(c echo.Context) string

type cachedPage struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Page caches successful GET responses of the wrapped handler for ttl.
// Cache failures are logged and the request is served uncached.
func Page(store Store, ttl time.Duration, key KeyFunc, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet || ttl <= 0 {
				return next(c)
			}
			ctx := c.Request().Context()
			k := "page:" + key(c)

			raw, ok, err := store.Get(ctx, k)
			if err != nil {
				logger.Warn("page cache read failed", zap.String("key", k), zap.Error(err))
			}
			if ok {
				var page cachedPage
				if err := json.Unmarshal(raw, &page); err == nil {
					c.Response().Header().Set("X-Cache", "HIT")
					return c.Blob(page.Status, page.ContentType, page.Body)
				}
			}

			res := c.Response()
			buf := new(bytes.Buffer)
			writer := res.Writer
			res.Writer = &teeWriter{ResponseWriter: writer, buf: buf}
			err = next(c)
			res.Writer = writer
			if err != nil {
				return err
			}

			if res.Status == http.StatusOK {
				page := cachedPage{
					Status:      res.Status,
					ContentType: res.Header().Get(echo.HeaderContentType),
					Body:        buf.Bytes(),
				}
				if raw, err := json.Marshal(page); err == nil {
					if err := store.Set(ctx, k, raw, ttl); err != nil {
						logger.Warn("page cache write failed", zap.String("key", k), zap.Error(err))
					}
				}
			}
			return nil
		}
	}
}

type teeWriter struct {
	http.ResponseWriter
	buf *bytes.Buffer
}

func (w *teeWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}
