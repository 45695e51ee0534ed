// Package drivestore implements store.Store on the Google Drive app-data
// folder. Each key is one private file only this application can see.
package drivestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"todo/internal/config"
	"todo/internal/store"
)

const (
	// AppDataFolder is the special parent ID for the app-data space.
	AppDataFolder = "appDataFolder"

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the OAuth scope requested by login.
	Scope = drive.DriveAppdataScope

	mimeJSON = "application/json"
)

// Client implements store.Store using the Google Drive API.
type Client struct {
	svc *drive.Service

	// fileIDs caches the Drive file ID for each key.
	fileIDs map[string]string
}

// New creates a new Drive client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	// Load OAuth client config
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	// Load token
	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Token source refreshes automatically
	tokenSource := oauthConfig.TokenSource(ctx, &token)
	httpClient := oauth2.NewClient(ctx, tokenSource)

	return NewWithHTTPClient(ctx, httpClient)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &Client{
		svc:     svc,
		fileIDs: make(map[string]string),
	}, nil
}

// Get implements store.Store.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if err := store.ValidateKey(key); err != nil {
		return nil, err
	}

	id, err := c.lookup(ctx, key)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	resp, err := c.svc.Files.Get(id).Context(ctx).Download()
	if err != nil {
		if isNotFound(err) {
			delete(c.fileIDs, key)
			return nil, store.ErrNotExist
		}
		return nil, wrapError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapError(err)
	}
	return data, nil
}

// Put implements store.Store. The file is created on first write and
// updated in place afterwards.
func (c *Client) Put(ctx context.Context, key string, value []byte) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}

	id, err := c.lookup(ctx, key)
	if err != nil && !errors.Is(err, store.ErrNotExist) {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	if id != "" {
		_, err = c.svc.Files.Update(id, &drive.File{}).
			Media(bytes.NewReader(value), googleapi.ContentType(mimeJSON)).
			Context(ctx).
			Do()
		if err != nil {
			return wrapError(err)
		}
		return nil
	}

	created, err := c.svc.Files.Create(&drive.File{
		Name:     key,
		Parents:  []string{AppDataFolder},
		MimeType: mimeJSON,
	}).
		Media(bytes.NewReader(value), googleapi.ContentType(mimeJSON)).
		Fields("id").
		Context(ctx).
		Do()
	if err != nil {
		return wrapError(err)
	}
	c.fileIDs[key] = created.Id
	return nil
}

// Close implements store.Store.
func (c *Client) Close() error {
	return nil
}

// lookup finds the Drive file ID holding key.
func (c *Client) lookup(ctx context.Context, key string) (string, error) {
	if id, ok := c.fileIDs[key]; ok {
		return id, nil
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	q := fmt.Sprintf("name = '%s' and trashed = false", escapeQuery(key))
	list, err := c.svc.Files.List().
		Spaces(AppDataFolder).
		Q(q).
		Fields("files(id, name)").
		PageSize(10).
		Context(ctx).
		Do()
	if err != nil {
		return "", wrapError(err)
	}

	for _, f := range list.Files {
		if f.Name == key {
			c.fileIDs[key] = f.Id
			return f.Id, nil
		}
	}
	return "", store.ErrNotExist
}

// escapeQuery escapes a value for a Drive query string literal.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("token expired or revoked (run: todo login)")
		case http.StatusNotFound:
			return fmt.Errorf("not found")
		}
	}

	return err
}
