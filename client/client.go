// Package client is the consumer side of the live listing API: an HTTP
// client for bulk reads and mutations, a websocket change-feed client, and
// the fetch-then-subscribe screen machinery that keeps an in-memory list
// consistent with server state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/aliblock43/point-property-hub/models"
)

// ErrNotFound marks a single-record lookup miss, e.g. an unknown slug.
// Distinct from transport or server errors so callers can render a
// not-found page instead of an error notice.
var ErrNotFound = errors.New("record not found")

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken attaches an admin bearer token to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, dest interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
			return fmt.Errorf("%s %s: %s", method, path, payload.Error)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	if dest == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// ListProperties fetches active listings with optional filters
// (type, location, price_min, price_max, bedrooms, featured).
func (c *Client) ListProperties(ctx context.Context, filters url.Values) ([]models.Property, error) {
	var properties []models.Property
	if err := c.do(ctx, http.MethodGet, "/api/properties", filters, nil, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

// GetPropertyBySlug resolves a public listing URL. Returns ErrNotFound for
// an unknown or non-active slug.
func (c *Client) GetPropertyBySlug(ctx context.Context, slug string) (*models.Property, error) {
	var property models.Property
	if err := c.do(ctx, http.MethodGet, "/api/properties/"+url.PathEscape(slug), nil, nil, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

// ListPosts fetches published blog posts, newest first.
func (c *Client) ListPosts(ctx context.Context) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	if err := c.do(ctx, http.MethodGet, "/api/blog", nil, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPostBySlug resolves a public blog URL. Returns ErrNotFound for an
// unknown or unpublished slug.
func (c *Client) GetPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := c.do(ctx, http.MethodGet, "/api/blog/"+url.PathEscape(slug), nil, nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// SubmitContact sends an anonymous contact form submission.
func (c *Client) SubmitContact(ctx context.Context, message models.ContactMessage) (*models.ContactMessage, error) {
	var created models.ContactMessage
	if err := c.do(ctx, http.MethodPost, "/api/contact", nil, message, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Login authenticates an admin and stores the session token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/admin/login", nil, req, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// Admin reads. All of these include drafts/unread records and require a
// token.

func (c *Client) AdminListProperties(ctx context.Context) ([]models.Property, error) {
	var properties []models.Property
	if err := c.do(ctx, http.MethodGet, "/api/admin/properties", nil, nil, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

func (c *Client) AdminListPosts(ctx context.Context) ([]models.BlogPost, error) {
	var posts []models.BlogPost
	if err := c.do(ctx, http.MethodGet, "/api/admin/blog", nil, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) AdminListMessages(ctx context.Context) ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	if err := c.do(ctx, http.MethodGet, "/api/admin/messages", nil, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkMessageRead transitions a message from unread to read. Opening an
// already-read message is a no-op server-side.
func (c *Client) MarkMessageRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPatch, "/api/admin/messages/"+url.PathEscape(id)+"/read", nil, nil, nil)
}

func (c *Client) CreateProperty(ctx context.Context, property models.Property) (*models.Property, error) {
	var created models.Property
	if err := c.do(ctx, http.MethodPost, "/api/admin/properties", nil, property, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateProperty(ctx context.Context, id string, property models.Property) (*models.Property, error) {
	var updated models.Property
	if err := c.do(ctx, http.MethodPut, "/api/admin/properties/"+url.PathEscape(id), nil, property, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteProperty(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/properties/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) CreatePost(ctx context.Context, post models.BlogPost) (*models.BlogPost, error) {
	var created models.BlogPost
	if err := c.do(ctx, http.MethodPost, "/api/admin/blog", nil, post, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdatePost(ctx context.Context, id string, post models.BlogPost) (*models.BlogPost, error) {
	var updated models.BlogPost
	if err := c.do(ctx, http.MethodPut, "/api/admin/blog/"+url.PathEscape(id), nil, post, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/blog/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/admin/messages/"+url.PathEscape(id), nil, nil, nil)
}
