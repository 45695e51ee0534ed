package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
)

const testOAuthClient = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", filepath.Base(path), err)
	}
}

// TestLoginCommand_NoOAuthClient verifies login explains how to set up Drive credentials
func TestLoginCommand_NoOAuthClient(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}

	var outBuf, errBuf bytes.Buffer
	code := (&commands.LoginCmd{}).Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if outBuf.String() != "" {
		t.Errorf("expected no stdout, got %q", outBuf.String())
	}
	for _, want := range []string{"oauth_client.json not found", "Google Drive API", cfg.OAuthClientPath(), "todo login"} {
		if !strings.Contains(errBuf.String(), want) {
			t.Errorf("expected stderr to mention %q, got %q", want, errBuf.String())
		}
	}
}

// TestLoginCommand_UnusableToken verifies login starts a new flow when the
// stored token cannot be used.
func TestLoginCommand_UnusableToken(t *testing.T) {
	tokens := map[string]string{
		"corrupt":    `{not json`,
		"no refresh": `{"access_token":"test","token_type":"Bearer","expiry":"2020-01-01T00:00:00Z"}`,
	}
	for name, token := range tokens {
		t.Run(name, func(t *testing.T) {
			tmpDir := t.TempDir()
			writeFile(t, filepath.Join(tmpDir, config.OAuthClientFile), testOAuthClient)
			writeFile(t, filepath.Join(tmpDir, config.TokenFile), token)
			cfg := &config.Config{Dir: tmpDir}

			// Cancelled context so the flow gives up instead of waiting for the browser
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			var outBuf, errBuf bytes.Buffer
			code := (&commands.LoginCmd{}).Run(ctx, cfg, nil, nil, &outBuf, &errBuf)

			if outBuf.String() == "already logged in\n" {
				t.Error("should not say 'already logged in' with an unusable token")
			}
			if code != exitcode.AuthError {
				t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
			}
			if !strings.Contains(errBuf.String(), "Open this URL in your browser:") {
				t.Errorf("expected the auth URL prompt, got %q", errBuf.String())
			}
		})
	}
}

// TestLogoutCommand_OnlyRemovesToken verifies logout only removes token.json
func TestLogoutCommand_OnlyRemovesToken(t *testing.T) {
	tmpDir := t.TempDir()
	oauthPath := filepath.Join(tmpDir, config.OAuthClientFile)
	tokenPath := filepath.Join(tmpDir, config.TokenFile)
	writeFile(t, oauthPath, testOAuthClient)
	writeFile(t, tokenPath, `{"access_token":"test","refresh_token":"test"}`)
	cfg := &config.Config{Dir: tmpDir}

	var outBuf, errBuf bytes.Buffer
	code := (&commands.LogoutCmd{}).Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if errBuf.String() != "" {
		t.Errorf("expected no stderr, got %q", errBuf.String())
	}
	if outBuf.String() != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", outBuf.String())
	}
	if _, err := os.Stat(tokenPath); !os.IsNotExist(err) {
		t.Error("token.json should have been deleted")
	}
	if _, err := os.Stat(oauthPath); err != nil {
		t.Error("oauth_client.json should NOT have been deleted")
	}
}

// TestLogoutCommand_NotLoggedIn verifies logout handles not being logged in
func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	for _, quiet := range []bool{false, true} {
		cfg := &config.Config{Dir: t.TempDir(), Quiet: quiet}

		var outBuf, errBuf bytes.Buffer
		code := (&commands.LogoutCmd{}).Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

		if code != exitcode.Success {
			t.Errorf("quiet=%v: expected exit code %d, got %d", quiet, exitcode.Success, code)
		}
		if errBuf.String() != "" {
			t.Errorf("quiet=%v: expected no stderr, got %q", quiet, errBuf.String())
		}
		want := "not logged in\n"
		if quiet {
			want = ""
		}
		if outBuf.String() != want {
			t.Errorf("quiet=%v: expected %q, got %q", quiet, want, outBuf.String())
		}
	}
}
