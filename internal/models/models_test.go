package models

import "testing"

func TestPostString(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"short", "short"},
		{"exactly fifteen", "exactly fifteen"},
		{"This text is longer than fifteen characters", "This text is lo"},
		{"Длинный текст на кириллице", "Длинный текст н"},
	}
	for _, tt := range tests {
		if got := (Post{Text: tt.text}).String(); got != tt.want {
			t.Errorf("Post{%q}.String() = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestPostImageURL(t *testing.T) {
	if got := (Post{}).ImageURL(); got != "" {
		t.Errorf("no image: %q", got)
	}
	if got := (Post{Image: "posts/cat.png"}).ImageURL(); got != "/media/posts/cat.png" {
		t.Errorf("ImageURL = %q", got)
	}
}

func TestPostInGroup(t *testing.T) {
	id := uint(3)
	p := Post{GroupID: &id}
	if !p.InGroup(3) || p.InGroup(4) || (Post{}).InGroup(3) {
		t.Error("InGroup mismatch")
	}
}

func TestStringers(t *testing.T) {
	if got := (Group{Title: "Cats"}).String(); got != "Cats" {
		t.Errorf("Group.String() = %q", got)
	}
	u := User{Username: "leo"}
	if u.FullName() != "leo" {
		t.Errorf("FullName without names = %q", u.FullName())
	}
	u.FirstName, u.LastName = "Leo", "Tolstoy"
	if u.FullName() != "Leo Tolstoy" || u.String() != "leo" {
		t.Errorf("FullName = %q, String = %q", u.FullName(), u.String())
	}
}
