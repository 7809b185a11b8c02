package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishPostPayload(t *testing.T) {
	var payload map[string]any
	var auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/wp-json/wp/v2/posts", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": 42})
	}))
	defer server.Close()

	client := NewWordPressClient(server.URL, "editor", "secret", testLogger())
	post, err := client.PublishPost(PostInput{
		Title:           "Título",
		Content:         "<p>corpo</p>",
		Excerpt:         "resumo",
		CategoryID:      7,
		FeaturedMediaID: 99,
	})
	require.NoError(t, err)
	assert.Equal(t, 42, post.ID)

	assert.NotEmpty(t, auth, "expected basic auth header")
	assert.Equal(t, "Título", payload["title"])
	assert.Equal(t, "<p>corpo</p>", payload["content"])
	assert.Equal(t, "resumo", payload["excerpt"])
	assert.Equal(t, "draft", payload["status"], "status defaults to draft")
	assert.Equal(t, "open", payload["comment_status"])
	assert.Equal(t, []any{float64(7)}, payload["categories"])
	assert.Equal(t, float64(99), payload["featured_media"])
}

func TestPublishPostOmitsEmptyOptionals(t *testing.T) {
	var payload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&payload)
		json.NewEncoder(w).Encode(map[string]any{"id": 1})
	}))
	defer server.Close()

	client := NewWordPressClient(server.URL, "editor", "secret", testLogger())
	_, err := client.PublishPost(PostInput{Title: "T", Content: "C", Status: "publish"})
	require.NoError(t, err)

	assert.Equal(t, "publish", payload["status"])
	assert.NotContains(t, payload, "categories")
	assert.NotContains(t, payload, "featured_media")
}

func TestPublishPostHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"code":"rest_cannot_create"}`))
	}))
	defer server.Close()

	client := NewWordPressClient(server.URL, "editor", "secret", testLogger())
	_, err := client.PublishPost(PostInput{Title: "T", Content: "C"})
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.StatusCode)
	assert.Contains(t, httpErr.Body, "rest_cannot_create")
}

func TestPublishPostConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewWordPressClient(server.URL, "editor", "secret", testLogger())
	_, err := client.PublishPost(PostInput{Title: "T", Content: "C"})
	require.Error(t, err)

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
}

func TestCategoryIDFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "marketing", r.URL.Query().Get("search"))
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 3, "name": "Marketing Digital"},
			{"id": 5, "name": "MARKETING"},
		})
	}))
	defer server.Close()

	client := NewWordPressClient(server.URL, "editor", "secret", testLogger())
	// Case-insensitive exact match wins over the partial match.
	assert.Equal(t, 5, client.CategoryID("marketing"))
}

func TestCategoryIDCreatesMissing(t *testing.T) {
	var searches, creates int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			searches++
			json.NewEncoder(w).Encode([]map[string]any{})
		case http.MethodPost:
			creates++
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			require.Equal(t, "Marketing", body["name"])
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]any{"id": 11, "name": "Marketing"})
		}
	}))
	defer server.Close()

	client := NewWordPressClient(server.URL, "editor", "secret", testLogger())
	assert.Equal(t, 11, client.CategoryID("Marketing"))
	assert.Equal(t, 1, searches)
	assert.Equal(t, 1, creates)
}

func TestCategoryIDFailureYieldsZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewWordPressClient(server.URL, "editor", "secret", testLogger())
	assert.Equal(t, 0, client.CategoryID("Marketing"))
}

func TestUploadMedia(t *testing.T) {
	imgPath := filepath.Join(t.TempDir(), "featured_seo.png")
	require.NoError(t, os.WriteFile(imgPath, []byte("png-bytes"), 0644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wp-json/wp/v2/media", r.URL.Path)
		assert.Equal(t, "attachment; filename=featured_seo.png", r.Header.Get("Content-Disposition"))
		assert.Equal(t, "image/png", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": 77, "source_url": "https://example.com/featured_seo.png"})
	}))
	defer server.Close()

	client := NewWordPressClient(server.URL, "editor", "secret", testLogger())
	media := client.UploadMedia(imgPath, "Featured")
	require.NotNil(t, media)
	assert.Equal(t, 77, media.ID)
	assert.Equal(t, "https://example.com/featured_seo.png", media.SourceURL)
}

func TestUploadMediaFailureYieldsNil(t *testing.T) {
	imgPath := filepath.Join(t.TempDir(), "img.png")
	require.NoError(t, os.WriteFile(imgPath, []byte("png-bytes"), 0644))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewWordPressClient(server.URL, "editor", "secret", testLogger())
	assert.Nil(t, client.UploadMedia(imgPath, ""))
	assert.Nil(t, client.UploadMedia(filepath.Join(t.TempDir(), "missing.png"), ""))
}

func TestPostsAndUpdatePost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/wp-json/wp/v2/posts":
			assert.Equal(t, "10", r.URL.Query().Get("per_page"))
			assert.Equal(t, "1", r.URL.Query().Get("page"))
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": 1, "link": "https://example.com/a", "title": map[string]any{"rendered": "A"}},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/wp-json/wp/v2/posts/1":
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "novo corpo", body["content"])
			json.NewEncoder(w).Encode(map[string]any{"id": 1})
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewWordPressClient(server.URL, "editor", "secret", testLogger())

	posts, err := client.Posts(10, 1)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "A", posts[0].Title.Rendered)

	updated, err := client.UpdatePost(1, map[string]any{"content": "novo corpo"})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.ID)
}
