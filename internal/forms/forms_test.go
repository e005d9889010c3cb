package forms

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/anonto42/yatube/internal/models"
	"github.com/anonto42/yatube/validators"
	"gorm.io/gorm"
)

var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}

type fakeGroups map[uint]*models.Group

func (g fakeGroups) GetGroupByID(_ context.Context, id uint) (*models.Group, error) {
	if grp, ok := g[id]; ok {
		return grp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type brokenGroups struct{}

func (brokenGroups) GetGroupByID(context.Context, uint) (*models.Group, error) {
	return nil, errors.New("connection reset")
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", name)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(content)
	w.Close()

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["image"][0]
}

func TestPostFormClean(t *testing.T) {
	ctx := context.Background()
	groups := fakeGroups{1: {ID: 1, Title: "Cats", Slug: "cats"}}
	form := NewPostForm(validators.NewValidator(), groups, 1<<20)

	tests := []struct {
		name       string
		in         PostInput
		image      *multipart.FileHeader
		wantErrors []string
		wantGroup  *uint
	}{
		{name: "text only", in: PostInput{Text: "hello"}},
		{name: "with group", in: PostInput{Text: "hello", Group: "1"}, wantGroup: ptr(1)},
		{name: "blank text", in: PostInput{Text: "   "}, wantErrors: []string{"text"}},
		{name: "unknown group", in: PostInput{Text: "hello", Group: "7"}, wantErrors: []string{"group"}},
		{name: "garbage group", in: PostInput{Text: "hello", Group: "cats"}, wantErrors: []string{"group"}},
		{name: "gif image", in: PostInput{Text: "hello"}, image: fileHeader(t, "small.gif", smallGIF)},
		{name: "text file as image", in: PostInput{Text: "hello"}, image: fileHeader(t, "notes.gif", []byte("plain text")), wantErrors: []string{"image"}},
		{name: "everything wrong", in: PostInput{Group: "9"}, wantErrors: []string{"text", "group"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := form.Clean(ctx, tt.in, tt.image)
			if err != nil {
				t.Fatalf("Clean: %v", err)
			}
			if res.Valid() != (len(tt.wantErrors) == 0) {
				t.Fatalf("Valid() = %v, errors %v", res.Valid(), res.Errors)
			}
			for _, field := range tt.wantErrors {
				if len(res.Errors.Get(field)) == 0 {
					t.Errorf("expected an error on %q, got %v", field, res.Errors)
				}
			}
			if !res.Valid() {
				return
			}
			if res.Value.Text != "hello" {
				t.Errorf("Text = %q", res.Value.Text)
			}
			if (tt.wantGroup == nil) != (res.Value.GroupID == nil) ||
				(tt.wantGroup != nil && *tt.wantGroup != *res.Value.GroupID) {
				t.Errorf("GroupID = %v, want %v", res.Value.GroupID, tt.wantGroup)
			}
			if tt.image != nil {
				if res.Value.Image == nil || res.Value.Image.ContentType != "image/gif" || res.Value.Image.Filename != "small.gif" {
					t.Errorf("Image = %+v", res.Value.Image)
				}
			}
		})
	}
}

func TestPostFormRejectsLargeImage(t *testing.T) {
	form := NewPostForm(validators.NewValidator(), fakeGroups{}, 10)
	res, err := form.Clean(context.Background(), PostInput{Text: "hi"}, fileHeader(t, "small.gif", smallGIF))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Errors.Get("image")) == 0 {
		t.Fatalf("expected an image size error, got %v", res.Errors)
	}
}

func TestPostFormLookupFailure(t *testing.T) {
	form := NewPostForm(validators.NewValidator(), brokenGroups{}, 0)
	if _, err := form.Clean(context.Background(), PostInput{Text: "hi", Group: "1"}, nil); err == nil {
		t.Fatal("expected the lookup error to be returned")
	}
}

func TestPostInputFrom(t *testing.T) {
	in := PostInputFrom(&models.Post{Text: "body", GroupID: ptr(3)})
	if in.Text != "body" || in.Group != "3" || !in.SelectedGroup(3) || in.SelectedGroup(4) {
		t.Fatalf("PostInputFrom = %+v", in)
	}
}

func TestCleanComment(t *testing.T) {
	v := validators.NewValidator()
	if res := CleanComment(v, CommentInput{Text: "  nice  "}); !res.Valid() || res.Value.Text != "nice" {
		t.Fatalf("valid comment: %+v", res)
	}
	if res := CleanComment(v, CommentInput{Text: "\n\t"}); res.Valid() {
		t.Fatal("blank comment accepted")
	}
}

type fakeUsers map[string]bool

func (u fakeUsers) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	if u[username] {
		return &models.User{Username: username}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestCleanSignup(t *testing.T) {
	ctx := context.Background()
	v := validators.NewValidator()
	users := fakeUsers{"leo": true}

	res, err := CleanSignup(ctx, v, users, SignupInput{Username: "anna", Password1: "karenina1", Password2: "karenina1"})
	if err != nil || !res.Valid() {
		t.Fatalf("valid signup rejected: %v %v", err, res.Errors)
	}

	res, err = CleanSignup(ctx, v, users, SignupInput{Username: "leo", Password1: "karenina1", Password2: "karenina2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Errors.Get("username")) == 0 || len(res.Errors.Get("password2")) == 0 {
		t.Fatalf("errors = %v", res.Errors)
	}
}

func TestCleanLogin(t *testing.T) {
	res := CleanLogin(validators.NewValidator(), LoginInput{Username: " leo "})
	if res.Valid() || res.Value.Username != "leo" || len(res.Errors.Get("password")) == 0 {
		t.Fatalf("CleanLogin = %+v", res)
	}
}

func ptr(n uint) *uint { return &n }
