package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ImageClient generates one image per call and returns a URL the
// result can be downloaded from.
type ImageClient interface {
	GenerateImage(prompt string) (string, error)
}

// ImageGenerator produces featured and in-content images and persists
// them to a local scratch directory.
type ImageGenerator struct {
	client     ImageClient
	httpClient *http.Client
	tempDir    string
	stepDelay  time.Duration
	log        *logrus.Logger
}

// NewImageGenerator ensures the scratch directory exists and returns a
// generator writing into it.
func NewImageGenerator(client ImageClient, tempDir string, log *logrus.Logger) (*ImageGenerator, error) {
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("creating images temp directory: %w", err)
	}
	return &ImageGenerator{
		client:     client,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		tempDir:    tempDir,
		stepDelay:  2 * time.Second,
		log:        log,
	}, nil
}

// GenerateFeaturedImage generates the primary image for a post.
func (g *ImageGenerator) GenerateFeaturedImage(title, keyword string) (string, error) {
	prompt := imagePrompt(title, keyword, true)
	path, err := g.generateAndSave(prompt, "featured_"+sanitizeFilename(title))
	if err != nil {
		return "", fmt.Errorf("featured image for %q: %w", title, err)
	}
	g.log.WithField("file", path).Info("featured image generated")
	return path, nil
}

// GenerateContentImages generates up to count images, one per leading
// subtopic. Failures are logged and skipped; the successfully saved
// paths are returned.
func (g *ImageGenerator) GenerateContentImages(title, keyword string, subtopics []string, count int) []string {
	if count > len(subtopics) {
		count = len(subtopics)
	}

	var paths []string
	for i := 0; i < count; i++ {
		subtopic := subtopics[i]
		prompt := imagePrompt(subtopic, keyword, false)

		path, err := g.generateAndSave(prompt, fmt.Sprintf("content_%d_%s", i+1, sanitizeFilename(subtopic)))
		if err != nil {
			g.log.WithError(err).WithField("subtopic", subtopic).Warn("content image skipped")
			continue
		}
		paths = append(paths, path)

		if i < count-1 {
			time.Sleep(g.stepDelay)
		}
	}
	return paths
}

// Cleanup removes scratch image files after publishing.
func (g *ImageGenerator) Cleanup(paths []string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			g.log.WithError(err).WithField("file", path).Warn("temp image not removed")
		}
	}
}

func (g *ImageGenerator) generateAndSave(prompt, prefix string) (string, error) {
	imageURL, err := g.client.GenerateImage(prompt)
	if err != nil {
		return "", err
	}

	resp, err := g.httpClient.Get(imageURL)
	if err != nil {
		return "", fmt.Errorf("downloading image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading image: HTTP %d", resp.StatusCode)
	}

	filename := fmt.Sprintf("%s_%s.png", prefix, uuid.NewString()[:8])
	path := filepath.Join(g.tempDir, filename)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating image file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("saving image: %w", err)
	}
	return path, nil
}

func imagePrompt(topic, keyword string, featured bool) string {
	if featured {
		return fmt.Sprintf("Create a professional, modern featured image for a blog post titled '%s'. "+
			"The image should be relevant to '%s', visually appealing, with good composition and lighting. "+
			"Make it suitable for SEO and social media sharing. No text overlay. "+
			"Photorealistic or professional stock photo style.", topic, keyword)
	}
	return fmt.Sprintf("Create an informative illustration related to '%s' for a blog post about '%s'. "+
		"The image should complement the text, be clear and professional. Suitable for web content. "+
		"No text overlay. Photorealistic or professional stock photo style.", topic, keyword)
}

// insertAfterHeading inserts html after the n-th closing H2 tag
// (1-based); when the content has fewer headings the block is appended.
func insertAfterHeading(content, html string, n int) string {
	idx := -1
	rest := content
	offset := 0
	for i := 0; i < n; i++ {
		j := strings.Index(rest, "</h2>")
		if j < 0 {
			idx = -1
			break
		}
		idx = offset + j + len("</h2>")
		rest = rest[j+len("</h2>"):]
		offset = idx
	}
	if idx < 0 {
		return content + "\n" + html
	}
	return content[:idx] + "\n" + html + content[idx:]
}
