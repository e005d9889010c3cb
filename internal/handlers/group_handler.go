package handlers

import (
	"net/http"

	"github.com/anonto42/yatube/internal/repositories"
	"github.com/labstack/echo/v4"
)

// GroupHandler serves group pages
type GroupHandler struct {
	groupRepository repositories.GroupRepository
	postRepository  repositories.PostRepository
	perPage         int
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(groupRepo repositories.GroupRepository, postRepo repositories.PostRepository, perPage int) *GroupHandler {
	return &GroupHandler{groupRepository: groupRepo, postRepository: postRepo, perPage: perPage}
}

// RegisterGroupRoutes registers group-related routes
func (h *GroupHandler) RegisterGroupRoutes(g *echo.Group) {
	g.GET("/group/:slug/", h.GroupPosts)
}

// GroupPosts lists the posts of one group
func (h *GroupHandler) GroupPosts(c echo.Context) error {
	group, err := h.groupRepository.GetGroupBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return notFoundOr(err, "group")
	}

	page, err := paginatePosts(c, h.postRepository, repositories.PostFilter{GroupID: &group.ID}, h.perPage)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "posts/group_list.html", echo.Map{
		"group":    group,
		"page_obj": page,
	})
}
