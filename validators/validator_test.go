package validators

import (
	"errors"
	"testing"
)

type signup struct {
	Username  string `form:"username" validate:"required,max=150,username"`
	Email     string `form:"email" validate:"omitempty,email"`
	Password  string `form:"password1" validate:"required,min=8"`
	Password2 string `form:"password2" validate:"required,eqfield=Password"`
}

func TestValidateMessages(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&signup{Username: "bad name!", Email: "nope", Password: "short", Password2: "other"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	msgs := Messages(err)
	for _, field := range []string{"username", "email", "password1", "password2"} {
		if len(msgs[field]) == 0 {
			t.Errorf("no message for %q in %v", field, msgs)
		}
	}
	if got := msgs["password1"][0]; got != "Ensure this value has at least 8 characters." {
		t.Errorf("password1 message = %q", got)
	}
}

func TestValidateOK(t *testing.T) {
	v := NewValidator()
	in := &signup{Username: "leo.tolstoy+1@ya", Password: "war-and-peace", Password2: "war-and-peace"}
	if err := v.Validate(in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Messages(nil) != nil {
		t.Error("Messages(nil) should be nil")
	}
}

func TestMessagesForeignError(t *testing.T) {
	msgs := Messages(errors.New("boom"))
	if msgs["__all__"][0] != "boom" {
		t.Errorf("got %v", msgs)
	}
}
