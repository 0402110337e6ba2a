package auth

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestSaveToken_ThenTokenFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	want := &oauth2.Token{
		AccessToken:  "ya29.access",
		RefreshToken: "1//refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	if err := SaveToken(path, want); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	got, err := TokenFromFile(path)
	if err != nil {
		t.Fatalf("TokenFromFile: %v", err)
	}
	if got.AccessToken != want.AccessToken || got.RefreshToken != want.RefreshToken || !got.Expiry.Equal(want.Expiry) {
		t.Errorf("token = %+v, want %+v", got, want)
	}
}

func TestTokenFromFile_Missing(t *testing.T) {
	if _, err := TokenFromFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTokenFromWeb_NoCodeEntered(t *testing.T) {
	config := &oauth2.Config{
		ClientID: "client",
		Endpoint: oauth2.Endpoint{AuthURL: "https://accounts.example/auth", TokenURL: "https://accounts.example/token"},
	}
	var out strings.Builder

	_, err := TokenFromWeb(context.Background(), config, strings.NewReader("\n"), &out)
	if err == nil {
		t.Fatal("expected error when no code is entered")
	}
	if !strings.Contains(out.String(), "https://accounts.example/auth") {
		t.Errorf("consent URL not printed, got %q", out.String())
	}
}

func TestTokenFromWeb_ClosedInput(t *testing.T) {
	config := &oauth2.Config{Endpoint: oauth2.Endpoint{AuthURL: "https://accounts.example/auth"}}
	if _, err := TokenFromWeb(context.Background(), config, strings.NewReader(""), io.Discard); err == nil {
		t.Error("expected error on closed input")
	}
}

func TestNewGmailService_EmptyToken(t *testing.T) {
	if _, err := NewGmailService(context.Background(), "  "); err == nil {
		t.Error("expected error for blank access token")
	}
}

func TestLoadOAuthConfig_MissingFile(t *testing.T) {
	if _, err := LoadOAuthConfig(filepath.Join(t.TempDir(), "credentials.json")); err == nil {
		t.Error("expected error for missing credentials file")
	}
}
