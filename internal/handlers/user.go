package handlers

import (
	"fmt"
	"net/http"

	"github.com/anonto42/yatube/internal/middleware"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler serves author profiles
type UserHandler struct {
	userRepository   repositories.UserRepository
	postRepository   repositories.PostRepository
	followRepository repositories.FollowRepository
	perPage          int
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, postRepo repositories.PostRepository, followRepo repositories.FollowRepository, perPage int) *UserHandler {
	return &UserHandler{
		userRepository:   userRepo,
		postRepository:   postRepo,
		followRepository: followRepo,
		perPage:          perPage,
	}
}

// RegisterUserRoutes registers profile routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/profile/:username/", h.Profile)
}

// Profile lists an author's posts and whether the viewer follows them
func (h *UserHandler) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	author, err := h.userRepository.GetUserByUsername(ctx, c.Param("username"))
	if err != nil {
		return notFoundOr(err, "user")
	}

	page, err := paginatePosts(c, h.postRepository, repositories.PostFilter{AuthorID: &author.ID}, h.perPage)
	if err != nil {
		return err
	}

	following := false
	if viewer := middleware.CurrentViewer(c); viewer.IsAuthenticated() {
		if following, err = h.followRepository.IsFollowing(ctx, viewer.ID(), author.ID); err != nil {
			return fmt.Errorf("check follow: %w", err)
		}
	}

	followers, err := h.followRepository.GetFollowersCount(ctx, author.ID)
	if err != nil {
		return fmt.Errorf("count followers: %w", err)
	}
	followingCount, err := h.followRepository.GetFollowingCount(ctx, author.ID)
	if err != nil {
		return fmt.Errorf("count following: %w", err)
	}

	return c.Render(http.StatusOK, "posts/profile.html", echo.Map{
		"author":          author,
		"page_obj":        page,
		"following":       following,
		"followers_count": followers,
		"following_count": followingCount,
	})
}
