// Package client talks to the posts REST resource.
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
	"os"
	"posts-app/models"
	"strings"
)

// NetworkError reports a request that never produced an HTTP response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError reports a non-2xx response or a body that could not be decoded.
type ServerError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: server responded %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: server responded %d: %s", e.Op, e.StatusCode, e.Body)
}

type Config struct {
	BaseURL string
	Headers http.Header
}

// LoadConfig reads POSTS_API_URL and the optional POSTS_API_TOKEN.
func LoadConfig() (Config, error) {
	baseURL := os.Getenv("POSTS_API_URL")
	if baseURL == "" {
		return Config{}, errors.New("posts API URL (POSTS_API_URL) environment variable is not set")
	}

	headers := http.Header{}
	if token := os.Getenv("POSTS_API_TOKEN"); token != "" {
		headers.Set("Authorization", "Bearer "+token)
	}

	return Config{BaseURL: baseURL, Headers: headers}, nil
}

type Client struct {
	base       *url.URL
	headers    http.Header
	httpClient *http.Client
}

// New returns a Client for cfg. A nil httpClient means http.DefaultClient.
func New(cfg Config, httpClient *http.Client) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", cfg.BaseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		base:       base,
		headers:    cfg.Headers.Clone(),
		httpClient: httpClient,
	}, nil
}

func (c *Client) List(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := c.do(ctx, "list posts", http.MethodGet, "posts", nil, &posts); err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

func (c *Client) Create(ctx context.Context, fields models.PostFields) (models.Post, error) {
	var post models.Post
	err := c.do(ctx, "create post", http.MethodPost, "posts", fields, &post)
	return post, err
}

func (c *Client) Update(ctx context.Context, id models.PostID, fields models.PostFields) (models.Post, error) {
	var post models.Post
	err := c.do(ctx, "update post "+id.String(), http.MethodPut, postPath(id), fields, &post)
	return post, err
}

func (c *Client) Delete(ctx context.Context, id models.PostID) error {
	return c.do(ctx, "delete post "+id.String(), http.MethodDelete, postPath(id), nil, nil)
}

func postPath(id models.PostID) string {
	return "posts/" + url.PathEscape(id.String())
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+"/"+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &ServerError{Op: op, StatusCode: res.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ServerError{Op: op, StatusCode: res.StatusCode, Body: "undecodable response: " + err.Error()}
	}
	return nil
}
