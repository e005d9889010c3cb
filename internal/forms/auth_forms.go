package forms

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/yatube/internal/models"
	"gorm.io/gorm"
)

// UserFinder checks usernames during signup.
type UserFinder interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type LoginInput struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

func CleanLogin(v Validator, in LoginInput) Result[LoginInput] {
	in.Username = strip(in.Username)
	if errs := validate(v, &in); len(errs) > 0 {
		return Result[LoginInput]{Value: in, Errors: errs}
	}
	return Result[LoginInput]{Value: in}
}

type SignupInput struct {
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Username  string `form:"username" validate:"required,max=150,username"`
	Email     string `form:"email" validate:"omitempty,email,max=254"`
	Password1 string `form:"password1" validate:"required,min=8"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

// CleanSignup validates the signup form and rejects taken usernames.
func CleanSignup(ctx context.Context, v Validator, users UserFinder, in SignupInput) (Result[SignupInput], error) {
	in.FirstName = strip(in.FirstName)
	in.LastName = strip(in.LastName)
	in.Username = strip(in.Username)
	in.Email = strip(in.Email)
	errs := validate(v, &in)

	if len(errs.Get("username")) == 0 {
		_, err := users.GetUserByUsername(ctx, in.Username)
		switch {
		case err == nil:
			errs.Add("username", "A user with that username already exists.")
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return Result[SignupInput]{}, fmt.Errorf("lookup user: %w", err)
		}
	}

	if len(errs) > 0 {
		return Result[SignupInput]{Value: in, Errors: errs}, nil
	}
	return Result[SignupInput]{Value: in}, nil
}
