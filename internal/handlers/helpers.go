package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/anonto42/yatube/internal/models"
	"github.com/anonto42/yatube/internal/paginator"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// paramID parses a numeric path parameter. Anything else is a 404, as if the
// route had not matched.
func paramID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Not found")
	}
	return uint(id), nil
}

// notFoundOr maps a missing record to a 404 and wraps any other error.
func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, what+" not found")
	}
	return fmt.Errorf("load %s: %w", what, err)
}

// paginatePosts counts the filtered posts, resolves ?page= and loads that page.
func paginatePosts(c echo.Context, posts repositories.PostRepository, filter repositories.PostFilter, perPage int) (*paginator.Page[models.Post], error) {
	ctx := c.Request().Context()

	total, err := posts.CountPosts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	p := paginator.New(int(total), perPage)
	number := p.Resolve(c.QueryParam("page"))
	offset, limit := p.Bounds(number)

	items, err := posts.GetPosts(ctx, filter, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return paginator.NewPage(items, number, p), nil
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func postURL(id uint) string {
	return "/posts/" + strconv.FormatUint(uint64(id), 10) + "/"
}
