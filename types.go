package main

import "strings"

// Keyword is one unit of work: a target search term plus optional
// free-text context given after a colon in the keywords file.
type Keyword struct {
	Term    string
	Context string
}

// ParseKeyword splits a keywords-file line into term and context.
func ParseKeyword(line string) Keyword {
	term, context, found := strings.Cut(line, ":")
	if !found {
		return Keyword{Term: strings.TrimSpace(line)}
	}
	return Keyword{
		Term:    strings.TrimSpace(term),
		Context: strings.TrimSpace(context),
	}
}

// ContentPlan is the structured plan extracted from the planning
// response. Every field is optional; consumers supply defaults.
type ContentPlan struct {
	Title             string   `json:"title"`
	Subtopics         []string `json:"subtopics"`
	SecondaryKeywords []string `json:"secondary_keywords"`
	ContentTypes      []string `json:"content_types"`
	FAQs              []string `json:"faqs"`
	VisualElements    []string `json:"visual_elements"`
	InternalLinks     []string `json:"internal_links"`
	FriendlyURL       string   `json:"friendly_url"`
	MetaDescription   string   `json:"meta_description"`
}

// SeoMetadata is independently regenerated SEO metadata. It may
// override the plan's title, description and slug.
type SeoMetadata struct {
	SEOTitle        string `json:"seo_title"`
	MetaDescription string `json:"meta_description"`
	FriendlyURL     string `json:"friendly_url"`
}

// Article is a complete article record. Each pipeline stage replaces
// it wholesale; there are no partial merges.
type Article struct {
	Title           string `json:"title"`
	Content         string `json:"content"`
	MetaDescription string `json:"meta_description"`
	FriendlyURL     string `json:"friendly_url"`
}

// Stage identifies a pipeline step, used in logs and results.
type Stage string

const (
	StagePlan     Stage = "plan"
	StageMetadata Stage = "metadata"
	StageDraft    Stage = "draft"
	StageReview   Stage = "review"
	StageImage    Stage = "image"
	StagePublish  Stage = "publish"
)

// ProcessingStatus represents the outcome status of processing a keyword
type ProcessingStatus string

const (
	StatusSuccess ProcessingStatus = "success"
	StatusFailed  ProcessingStatus = "failed"
)

// ProcessingResult tracks the outcome of processing each keyword
type ProcessingResult struct {
	Keyword string
	Status  ProcessingStatus
	Stage   Stage
	PostID  int
	Err     error
}
