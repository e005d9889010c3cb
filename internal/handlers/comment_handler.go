package handlers

import (
	"fmt"
	"net/http"

	"github.com/anonto42/yatube/internal/forms"
	"github.com/anonto42/yatube/internal/middleware"
	"github.com/anonto42/yatube/internal/models"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles comment submissions
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	validator         forms.Validator
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, v forms.Validator) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		validator:         v,
	}
}

// RegisterCommentRoutes registers comment-related routes. The detail page
// itself also accepts the comment form.
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, requireLogin echo.MiddlewareFunc) {
	g.POST("/posts/:post_id/comment/", h.AddComment, requireLogin)
	g.POST("/posts/:post_id/", h.AddComment, requireLogin)
}

// AddComment stores a valid comment and always returns to the post
func (h *CommentHandler) AddComment(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := paramID(c, "post_id")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "post")
	}

	var in forms.CommentInput
	if err := c.Bind(&in); err != nil {
		return c.Redirect(http.StatusFound, postURL(post.ID))
	}

	res := forms.CleanComment(h.validator, in)
	if res.Valid() {
		comment := &models.Comment{
			PostID:   &post.ID,
			AuthorID: middleware.CurrentViewer(c).ID(),
			Text:     res.Value.Text,
		}
		if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
	}

	return c.Redirect(http.StatusFound, postURL(post.ID))
}
