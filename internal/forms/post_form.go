package forms

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"

	"github.com/anonto42/yatube/internal/media"
	"github.com/anonto42/yatube/internal/models"
	"gorm.io/gorm"
)

const (
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
	msgInvalidImage  = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
)

// GroupFinder resolves the group chosen in a post form.
type GroupFinder interface {
	GetGroupByID(ctx context.Context, id uint) (*models.Group, error)
}

// PostInput is the raw post form as submitted.
type PostInput struct {
	Text       string `form:"text" validate:"required"`
	Group      string `form:"group" validate:"omitempty,numeric"`
	ImageClear string `form:"image-clear"`
}

// PostInputFrom pre-fills the form from an existing post.
func PostInputFrom(p *models.Post) PostInput {
	in := PostInput{Text: p.Text}
	if p.GroupID != nil {
		in.Group = strconv.FormatUint(uint64(*p.GroupID), 10)
	}
	return in
}

// SelectedGroup reports whether the group with id is the chosen one.
func (in PostInput) SelectedGroup(id uint) bool {
	return in.Group == strconv.FormatUint(uint64(id), 10)
}

// Upload is an accepted image file.
type Upload struct {
	Header      *multipart.FileHeader
	Filename    string
	ContentType string
}

func (u *Upload) Open() (multipart.File, error) {
	return u.Header.Open()
}

// PostData is a cleaned post form.
type PostData struct {
	Text       string
	GroupID    *uint
	Image      *Upload
	ClearImage bool
}

// Apply copies the cleaned fields onto p. The image is handled by the caller.
func (d PostData) Apply(p *models.Post) {
	p.Text = d.Text
	p.GroupID = d.GroupID
	p.Group = nil
}

// PostForm validates post submissions.
type PostForm struct {
	validator     Validator
	groups        GroupFinder
	maxImageBytes int64
}

func NewPostForm(v Validator, groups GroupFinder, maxImageBytes int64) *PostForm {
	return &PostForm{validator: v, groups: groups, maxImageBytes: maxImageBytes}
}

// Clean validates in and the optional image. The error is reserved for
// failures of the group lookup or of reading the upload.
func (f *PostForm) Clean(ctx context.Context, in PostInput, image *multipart.FileHeader) (Result[PostData], error) {
	in.Text = strip(in.Text)
	in.Group = strip(in.Group)
	errs := validate(f.validator, &in)

	data := PostData{Text: in.Text, ClearImage: in.ImageClear != ""}

	if in.Group != "" && len(errs.Get("group")) == 0 {
		id, err := strconv.ParseUint(in.Group, 10, 64)
		if err != nil {
			errs.Add("group", msgInvalidChoice)
		} else if _, err := f.groups.GetGroupByID(ctx, uint(id)); errors.Is(err, gorm.ErrRecordNotFound) {
			errs.Add("group", msgInvalidChoice)
		} else if err != nil {
			return Result[PostData]{}, fmt.Errorf("lookup group %d: %w", id, err)
		} else {
			gid := uint(id)
			data.GroupID = &gid
		}
	}

	if image != nil {
		upload, msg, err := f.cleanImage(image)
		if err != nil {
			return Result[PostData]{}, err
		}
		if msg != "" {
			errs.Add("image", msg)
		}
		data.Image = upload
	}

	if len(errs) > 0 {
		return Result[PostData]{Errors: errs}, nil
	}
	return Result[PostData]{Value: data}, nil
}

func (f *PostForm) cleanImage(fh *multipart.FileHeader) (*Upload, string, error) {
	if fh.Size == 0 {
		return nil, "The submitted file is empty.", nil
	}
	if f.maxImageBytes > 0 && fh.Size > f.maxImageBytes {
		return nil, fmt.Sprintf("Ensure the image is at most %d bytes.", f.maxImageBytes), nil
	}

	file, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	contentType, err := media.DetectImage(file)
	if errors.Is(err, media.ErrNotImage) {
		return nil, msgInvalidImage, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	return &Upload{Header: fh, Filename: media.ValidFilename(fh.Filename), ContentType: contentType}, "", nil
}
