package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// HTTPError is returned when the content API answers with an error
// status. It carries the status code and response body for diagnosis.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("wordpress: HTTP %d: %s", e.StatusCode, e.Body)
}

// ConnectionError is returned when the content system cannot be
// reached at the network level.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("wordpress: connection to %s failed: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// renderedField matches WordPress's {"rendered": "..."} wrappers.
type renderedField struct {
	Rendered string `json:"rendered"`
}

// Post is a WordPress post as returned by the REST API.
type Post struct {
	ID      int           `json:"id"`
	Link    string        `json:"link"`
	Title   renderedField `json:"title"`
	Excerpt renderedField `json:"excerpt"`
}

// Category is a WordPress category.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Media is an uploaded WordPress media item.
type Media struct {
	ID        int    `json:"id"`
	SourceURL string `json:"source_url"`
}

// PostInput is the payload for publishing a post. CategoryID and
// FeaturedMediaID of zero mean "none".
type PostInput struct {
	Title           string
	Content         string
	Excerpt         string
	Status          string
	CategoryID      int
	FeaturedMediaID int
}

// WordPressClient wraps the WordPress REST API with fixed credentials.
type WordPressClient struct {
	apiURL      string
	username    string
	appPassword string
	client      *http.Client
	log         *logrus.Logger
}

// NewWordPressClient builds a client for the given site.
func NewWordPressClient(siteURL, username, appPassword string, log *logrus.Logger) *WordPressClient {
	return &WordPressClient{
		apiURL:      strings.TrimRight(siteURL, "/") + "/wp-json/wp/v2",
		username:    username,
		appPassword: appPassword,
		client:      &http.Client{Timeout: 60 * time.Second},
		log:         log,
	}
}

// PublishPost submits a post and returns the created record.
func (c *WordPressClient) PublishPost(input PostInput) (*Post, error) {
	status := input.Status
	if status == "" {
		status = "draft"
	}

	body := map[string]any{
		"title":          input.Title,
		"content":        input.Content,
		"status":         status,
		"excerpt":        input.Excerpt,
		"comment_status": "open",
	}
	if input.CategoryID > 0 {
		body["categories"] = []int{input.CategoryID}
	}
	if input.FeaturedMediaID > 0 {
		body["featured_media"] = input.FeaturedMediaID
	}

	var post Post
	if err := c.postJSON(c.apiURL+"/posts", body, &post); err != nil {
		return nil, err
	}
	if post.ID == 0 {
		return nil, fmt.Errorf("wordpress: created post has no id")
	}
	return &post, nil
}

// CategoryID resolves a category name to its id, creating the category
// when it does not exist. Any failure yields 0 so publishing can
// proceed without a category.
func (c *WordPressClient) CategoryID(name string) int {
	endpoint := c.apiURL + "/categories?search=" + url.QueryEscape(name)

	var categories []Category
	if err := c.getJSON(endpoint, &categories); err != nil {
		c.log.WithError(err).WithField("category", name).Warn("category lookup failed")
		return 0
	}

	for _, cat := range categories {
		if strings.EqualFold(cat.Name, name) {
			c.log.WithFields(logrus.Fields{"category": name, "category_id": cat.ID}).Debug("category found")
			return cat.ID
		}
	}

	var created Category
	if err := c.postJSON(c.apiURL+"/categories", map[string]any{"name": name}, &created); err != nil {
		c.log.WithError(err).WithField("category", name).Warn("category creation failed")
		return 0
	}
	c.log.WithFields(logrus.Fields{"category": name, "category_id": created.ID}).Info("category created")
	return created.ID
}

// UploadMedia streams a local file to the media endpoint. Any failure
// returns nil so publishing can proceed without a featured image.
func (c *WordPressClient) UploadMedia(path, title string) *Media {
	file, err := os.Open(path)
	if err != nil {
		c.log.WithError(err).WithField("file", path).Warn("media file not readable")
		return nil
	}
	defer file.Close()

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	req, err := http.NewRequest(http.MethodPost, c.apiURL+"/media", file)
	if err != nil {
		c.log.WithError(err).Warn("media upload request failed")
		return nil
	}
	req.SetBasicAuth(c.username, c.appPassword)
	req.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filepath.Base(path)))
	req.Header.Set("Content-Type", mimeType)
	if title != "" {
		req.Header.Set("Title", title)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("file", path).Warn("media upload failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.WithFields(logrus.Fields{
			"file":   path,
			"status": resp.StatusCode,
			"body":   strings.TrimSpace(string(body)),
		}).Warn("media upload rejected")
		return nil
	}

	var media Media
	if err := json.NewDecoder(resp.Body).Decode(&media); err != nil {
		c.log.WithError(err).Warn("media upload response unreadable")
		return nil
	}
	c.log.WithFields(logrus.Fields{"file": path, "media_id": media.ID}).Info("media uploaded")
	return &media
}

// Posts lists existing posts, newest first per the API default.
func (c *WordPressClient) Posts(perPage, page int) ([]Post, error) {
	endpoint := fmt.Sprintf("%s/posts?per_page=%d&page=%d", c.apiURL, perPage, page)
	var posts []Post
	if err := c.getJSON(endpoint, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost applies a partial update to an existing post.
func (c *WordPressClient) UpdatePost(postID int, fields map[string]any) (*Post, error) {
	var post Post
	if err := c.postJSON(c.apiURL+"/posts/"+strconv.Itoa(postID), fields, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

const maxErrorBody = 2048

func (c *WordPressClient) getJSON(endpoint string, out any) error {
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("wordpress: new request: %w", err)
	}
	return c.do(req, out)
}

func (c *WordPressClient) postJSON(endpoint string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("wordpress: marshal payload: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("wordpress: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *WordPressClient) do(req *http.Request, out any) error {
	req.SetBasicAuth(c.username, c.appPassword)

	resp, err := c.client.Do(req)
	if err != nil {
		return &ConnectionError{URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("wordpress: decode response: %w", err)
	}
	return nil
}
