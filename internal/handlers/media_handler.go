package handlers

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"

	"github.com/anonto42/yatube/internal/media"
	"github.com/labstack/echo/v4"
)

// MediaHandler serves uploaded files
type MediaHandler struct {
	storage media.Storage
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(storage media.Storage) *MediaHandler {
	return &MediaHandler{storage: storage}
}

// RegisterMediaRoutes registers the media route
func (h *MediaHandler) RegisterMediaRoutes(g *echo.Group) {
	g.GET("/media/*", h.Serve)
}

// Serve streams a stored file with its sniffed content type
func (h *MediaHandler) Serve(c echo.Context) error {
	key, ok := media.CleanKey(c.Param("*"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}

	rc, err := h.storage.Open(c.Request().Context(), key)
	if errors.Is(err, media.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "File not found")
	}
	if err != nil {
		return fmt.Errorf("open media %s: %w", key, err)
	}
	defer rc.Close()

	br := bufio.NewReaderSize(rc, 3072)
	head, _ := br.Peek(3072)
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Stream(http.StatusOK, media.DetectContentType(head), br)
}
