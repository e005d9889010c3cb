package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	key, err := s.Save(ctx, "posts/small.gif", bytes.NewReader(smallGIF))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if key != "posts/small.gif" {
		t.Fatalf("key = %q, want posts/small.gif", key)
	}

	second, err := s.Save(ctx, "posts/small.gif", bytes.NewReader(smallGIF))
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if second == key || !strings.HasPrefix(second, "posts/small_") || !strings.HasSuffix(second, ".gif") {
		t.Fatalf("second key = %q", second)
	}

	rc, err := s.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, _ := io.ReadAll(rc)
	rc.Close()
	if !bytes.Equal(got, smallGIF) {
		t.Error("content mismatch")
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Open(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open after delete: %v, want ErrNotFound", err)
	}
	if _, err := s.Open(ctx, "../etc/passwd"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open traversal: %v, want ErrNotFound", err)
	}
}

func TestValidFilename(t *testing.T) {
	tests := map[string]string{
		"small.gif":            "small.gif",
		"my cat.png":           "my_cat.png",
		"../../etc/passwd":     "passwd",
		`C:\Users\me\face.jpg`: "face.jpg",
		"привет?.gif":          "привет.gif",
		"":                     "upload",
	}
	for in, want := range tests {
		if got := ValidFilename(in); got != want {
			t.Errorf("ValidFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"posts/a.gif", "posts/a.gif", true},
		{"/posts/a.gif", "posts/a.gif", true},
		{"posts/../a.gif", "", false},
		{"../a.gif", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := CleanKey(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("CleanKey(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestDetectImage(t *testing.T) {
	mt, err := DetectImage(bytes.NewReader(smallGIF))
	if err != nil || mt != "image/gif" {
		t.Fatalf("DetectImage(gif) = %q, %v", mt, err)
	}
	if _, err := DetectImage(strings.NewReader("just some text")); !errors.Is(err, ErrNotImage) {
		t.Fatalf("DetectImage(text) err = %v, want ErrNotImage", err)
	}
}
