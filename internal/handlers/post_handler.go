package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/anonto42/yatube/internal/forms"
	"github.com/anonto42/yatube/internal/media"
	"github.com/anonto42/yatube/internal/middleware"
	"github.com/anonto42/yatube/internal/models"
	"github.com/anonto42/yatube/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PostHandler serves the post listing, detail, create and edit pages
type PostHandler struct {
	postRepository    repositories.PostRepository
	groupRepository   repositories.GroupRepository
	commentRepository repositories.CommentRepository
	storage           media.Storage
	postForm          *forms.PostForm
	perPage           int
	logger            *zap.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	groupRepo repositories.GroupRepository,
	commentRepo repositories.CommentRepository,
	storage media.Storage,
	postForm *forms.PostForm,
	perPage int,
	logger *zap.Logger,
) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		groupRepository:   groupRepo,
		commentRepository: commentRepo,
		storage:           storage,
		postForm:          postForm,
		perPage:           perPage,
		logger:            logger,
	}
}

// RegisterPostRoutes registers post-related routes. indexCache wraps the index page only.
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, requireLogin, indexCache echo.MiddlewareFunc) {
	g.GET("/", h.Index, indexCache)
	g.GET("/posts/:post_id/", h.PostDetail)
	g.GET("/create/", h.PostCreate, requireLogin)
	g.POST("/create/", h.PostCreate, requireLogin)
	g.GET("/posts/:post_id/edit/", h.PostEdit, requireLogin)
	g.POST("/posts/:post_id/edit/", h.PostEdit, requireLogin)
}

// Index lists every post, newest first
func (h *PostHandler) Index(c echo.Context) error {
	page, err := paginatePosts(c, h.postRepository, repositories.PostFilter{}, h.perPage)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "posts/index.html", echo.Map{"page_obj": page})
}

// PostDetail shows one post with its comments and the comment form
func (h *PostHandler) PostDetail(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := paramID(c, "post_id")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "post")
	}

	comments, err := h.commentRepository.GetCommentsByPostID(ctx, post.ID)
	if err != nil {
		return fmt.Errorf("list comments: %w", err)
	}

	authorID := post.AuthorID
	count, err := h.postRepository.CountPosts(ctx, repositories.PostFilter{AuthorID: &authorID})
	if err != nil {
		return fmt.Errorf("count author posts: %w", err)
	}

	return c.Render(http.StatusOK, "posts/post_detail.html", echo.Map{
		"post":               post,
		"comments":           comments,
		"author_posts_count": count,
		"form":               forms.CommentInput{},
		"errors":             forms.FieldErrors(nil),
	})
}

// PostCreate shows the empty post form and creates a post authored by the viewer
func (h *PostHandler) PostCreate(c echo.Context) error {
	ctx := c.Request().Context()
	viewer := middleware.CurrentViewer(c)

	groups, err := h.groupRepository.GetGroups(ctx)
	if err != nil {
		return fmt.Errorf("list groups: %w", err)
	}

	if c.Request().Method != http.MethodPost {
		return h.renderForm(c, forms.PostInput{}, nil, groups, nil)
	}

	var in forms.PostInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form data")
	}
	image, err := formImage(c)
	if err != nil {
		return err
	}

	res, err := h.postForm.Clean(ctx, in, image)
	if err != nil {
		return err
	}
	if !res.Valid() {
		return h.renderForm(c, in, res.Errors, groups, nil)
	}

	post := &models.Post{AuthorID: viewer.ID()}
	res.Value.Apply(post)
	if res.Value.Image != nil {
		if post.Image, err = h.saveImage(ctx, res.Value.Image); err != nil {
			return err
		}
	}

	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		h.discardImage(ctx, post.Image)
		return fmt.Errorf("create post: %w", err)
	}

	h.logger.Info("post created", zap.Uint("post_id", post.ID), zap.String("author", viewer.User.Username))
	return c.Redirect(http.StatusFound, profileURL(viewer.User.Username))
}

// PostEdit lets the author change a post. Anyone else is sent back to the post.
func (h *PostHandler) PostEdit(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := paramID(c, "post_id")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "post")
	}

	if !middleware.CurrentViewer(c).Is(post.AuthorID) {
		return c.Redirect(http.StatusFound, postURL(post.ID))
	}

	groups, err := h.groupRepository.GetGroups(ctx)
	if err != nil {
		return fmt.Errorf("list groups: %w", err)
	}

	if c.Request().Method != http.MethodPost {
		return h.renderForm(c, forms.PostInputFrom(post), nil, groups, post)
	}

	var in forms.PostInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form data")
	}
	image, err := formImage(c)
	if err != nil {
		return err
	}

	res, err := h.postForm.Clean(ctx, in, image)
	if err != nil {
		return err
	}
	if !res.Valid() {
		return h.renderForm(c, in, res.Errors, groups, post)
	}

	oldImage := post.Image
	res.Value.Apply(post)
	switch {
	case res.Value.Image != nil:
		if post.Image, err = h.saveImage(ctx, res.Value.Image); err != nil {
			return err
		}
	case res.Value.ClearImage:
		post.Image = ""
	}

	if err := h.postRepository.UpdatePost(ctx, post); err != nil {
		if post.Image != oldImage {
			h.discardImage(ctx, post.Image)
		}
		return fmt.Errorf("update post: %w", err)
	}
	if post.Image != oldImage {
		h.discardImage(ctx, oldImage)
	}

	return c.Redirect(http.StatusFound, postURL(post.ID))
}

func (h *PostHandler) renderForm(c echo.Context, in forms.PostInput, errs forms.FieldErrors, groups []models.Group, post *models.Post) error {
	return c.Render(http.StatusOK, "posts/create_post.html", echo.Map{
		"form":    in,
		"errors":  errs,
		"groups":  groups,
		"post":    post,
		"is_edit": post != nil,
	})
}

func (h *PostHandler) saveImage(ctx context.Context, upload *forms.Upload) (string, error) {
	file, err := upload.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	key, err := h.storage.Save(ctx, "posts/"+upload.Filename, file)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return key, nil
}

func (h *PostHandler) discardImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := h.storage.Delete(ctx, key); err != nil && !errors.Is(err, media.ErrNotFound) {
		h.logger.Warn("failed to delete image", zap.String("key", key), zap.Error(err))
	}
}

// formImage returns the uploaded "image" file, or nil when none was sent.
func formImage(c echo.Context) (*multipart.FileHeader, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid upload")
	}
	return fh, nil
}
