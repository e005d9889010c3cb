package firebase

import (
	"context"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitFirebaseDisabledWithoutCredentials(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	app, err := InitFirebase(context.Background(), "", zap.New(core))
	if err != nil || app != nil {
		t.Fatalf("InitFirebase(\"\") = %v, %v", app, err)
	}
	if logs.FilterMessageSnippet("firebase login disabled").Len() != 1 {
		t.Errorf("disabled firebase not logged: %v", logs.All())
	}
}

func TestInitFirebaseMissingCredentialsFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")
	if _, err := InitFirebase(context.Background(), missing, zap.NewNop()); err == nil {
		t.Fatal("expected an error for a missing credentials file")
	}
}
