package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anonto42/yatube/internal/middleware"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// FollowHandler handles follow/unfollow requests
type FollowHandler struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
	logger           *zap.Logger
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, logger *zap.Logger) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		userRepository:   userRepo,
		logger:           logger,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, requireLogin echo.MiddlewareFunc) {
	g.GET("/profile/:username/follow/", h.ProfileFollow, requireLogin)
	g.GET("/profile/:username/unfollow/", h.ProfileUnfollow, requireLogin)
}

// ProfileFollow makes the viewer follow the author. Following yourself or
// following twice changes nothing.
func (h *FollowHandler) ProfileFollow(c echo.Context) error {
	ctx := c.Request().Context()
	viewer := middleware.CurrentViewer(c)

	author, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		return notFoundOr(err, "user")
	}

	if !viewer.Is(author.ID) {
		created, err := h.followRepository.Follow(ctx, viewer.ID(), author.ID)
		if err != nil {
			return fmt.Errorf("follow: %w", err)
		}
		if created {
			h.logger.Info("follow created", zap.Uint("user_id", viewer.ID()), zap.Uint("author_id", author.ID))
		}
	}

	return c.Redirect(http.StatusFound, profileURL(author.Username))
}

// ProfileUnfollow removes the viewer's follow edge to the author, 404 if there is none
func (h *FollowHandler) ProfileUnfollow(c echo.Context) error {
	ctx := c.Request().Context()
	viewer := middleware.CurrentViewer(c)

	author, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		return notFoundOr(err, "user")
	}

	if err := h.followRepository.Unfollow(ctx, viewer.ID(), author.ID); err != nil {
		if errors.Is(err, repositories.ErrFollowNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Not following this user")
		}
		return fmt.Errorf("unfollow: %w", err)
	}

	return c.Redirect(http.StatusFound, profileURL(author.Username))
}
