package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const defaultSettingsFile = "settings.yaml"

// ConfigError signals missing or unreadable settings. It is fatal and
// aborts before any run.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "config: " + e.Reason
}

// Settings is the validated, immutable configuration record.
type Settings struct {
	Provider  string            `yaml:"provider"`
	OpenAI    OpenAISettings    `yaml:"openai"`
	Anthropic AnthropicSettings `yaml:"anthropic"`
	WordPress WordPressSettings `yaml:"wordpress"`
	Keywords  KeywordSettings   `yaml:"keywords"`
	Content   ContentSettings   `yaml:"content"`
	CTA       CTASettings       `yaml:"cta"`
}

// OpenAISettings configures the OpenAI-compatible generation API.
type OpenAISettings struct {
	APIKey       string `yaml:"api_key"`
	BaseURL      string `yaml:"base_url"`
	Model        string `yaml:"model"`
	ImageModel   string `yaml:"image_model"`
	ImageSize    string `yaml:"image_size"`
	ImageQuality string `yaml:"image_quality"`
}

// AnthropicSettings configures the alternate Anthropic text provider.
type AnthropicSettings struct {
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// WordPressSettings holds the content-system endpoint and credentials.
type WordPressSettings struct {
	SiteURL     string `yaml:"site_url"`
	Username    string `yaml:"username"`
	AppPassword string `yaml:"app_password"`
}

// KeywordSettings points at the keyword store.
type KeywordSettings struct {
	File string `yaml:"file"`
}

// ContentSettings bounds the generated content and publishing behavior.
type ContentSettings struct {
	PostsPerRun    int    `yaml:"posts_per_run"`
	MinWords       int    `yaml:"min_words"`
	MaxWords       int    `yaml:"max_words"`
	TargetCategory string `yaml:"target_category"`
	PostStatus     string `yaml:"post_status"`
	GenerateImages bool   `yaml:"generate_images"`
	ImagesTempDir  string `yaml:"images_temp_dir"`
}

// CTASettings configures the call-to-action appended to every article.
type CTASettings struct {
	URL  string `yaml:"url"`
	Text string `yaml:"text"`
}

// LoadSettings reads and validates the YAML settings file. Validation
// happens once here; the rest of the program trusts the record.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("settings file %s not readable: %v (run the setup command to create it)", path, err)}
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("cannot parse %s: %v", path, err)}
	}

	settings.applyDefaults()
	settings.applyEnvOverrides()

	if err := settings.validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

func (s *Settings) applyDefaults() {
	if s.Provider == "" {
		s.Provider = "openai"
	}
	if s.OpenAI.BaseURL == "" {
		s.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if s.OpenAI.Model == "" {
		s.OpenAI.Model = "gpt-4o-mini"
	}
	if s.OpenAI.ImageModel == "" {
		s.OpenAI.ImageModel = "dall-e-3"
	}
	if s.OpenAI.ImageSize == "" {
		s.OpenAI.ImageSize = "1024x1024"
	}
	if s.OpenAI.ImageQuality == "" {
		s.OpenAI.ImageQuality = "standard"
	}
	if s.Anthropic.Model == "" {
		s.Anthropic.Model = "claude-sonnet-4-20250514"
	}
	if s.Anthropic.MaxTokens == 0 {
		s.Anthropic.MaxTokens = 6000
	}
	if s.Keywords.File == "" {
		s.Keywords.File = "keywords.txt"
	}
	if s.Content.PostsPerRun == 0 {
		s.Content.PostsPerRun = 1
	}
	if s.Content.MinWords == 0 {
		s.Content.MinWords = 800
	}
	if s.Content.MaxWords == 0 {
		s.Content.MaxWords = 1500
	}
	if s.Content.PostStatus == "" {
		s.Content.PostStatus = "draft"
	}
	if s.Content.ImagesTempDir == "" {
		s.Content.ImagesTempDir = "images_temp"
	}
	if s.CTA.Text == "" {
		s.CTA.Text = "Quero Crescer"
	}
}

func (s *Settings) applyEnvOverrides() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		s.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		s.OpenAI.Model = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		s.Anthropic.APIKey = v
	}
	if v := os.Getenv("WORDPRESS_SITE_URL"); v != "" {
		s.WordPress.SiteURL = v
	}
	if v := os.Getenv("WORDPRESS_USERNAME"); v != "" {
		s.WordPress.Username = v
	}
	if v := os.Getenv("WORDPRESS_APP_PASSWORD"); v != "" {
		s.WordPress.AppPassword = v
	}
}

func (s *Settings) validate() error {
	var missing []string

	switch s.Provider {
	case "openai":
		if s.OpenAI.APIKey == "" {
			missing = append(missing, "openai.api_key")
		}
	case "anthropic":
		if s.Anthropic.APIKey == "" {
			missing = append(missing, "anthropic.api_key")
		}
		// Images always go through the OpenAI API.
		if s.Content.GenerateImages && s.OpenAI.APIKey == "" {
			missing = append(missing, "openai.api_key")
		}
	default:
		return &ConfigError{Reason: fmt.Sprintf("unknown provider %q (want openai or anthropic)", s.Provider)}
	}

	if s.WordPress.SiteURL == "" {
		missing = append(missing, "wordpress.site_url")
	}
	if s.WordPress.Username == "" {
		missing = append(missing, "wordpress.username")
	}
	if s.WordPress.AppPassword == "" {
		missing = append(missing, "wordpress.app_password")
	}

	if len(missing) > 0 {
		return &ConfigError{Reason: "required settings missing: " + strings.Join(missing, ", ")}
	}
	return nil
}
