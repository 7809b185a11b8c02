package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettingsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadSettingsComplete(t *testing.T) {
	path := writeSettingsFile(t, `
openai:
  api_key: sk-test
wordpress:
  site_url: https://example.com
  username: editor
  app_password: secret
content:
  posts_per_run: 3
  target_category: Marketing
`)

	settings, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", settings.Provider)
	assert.Equal(t, "sk-test", settings.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o-mini", settings.OpenAI.Model)
	assert.Equal(t, "https://api.openai.com/v1", settings.OpenAI.BaseURL)
	assert.Equal(t, 3, settings.Content.PostsPerRun)
	assert.Equal(t, "Marketing", settings.Content.TargetCategory)
	assert.Equal(t, 800, settings.Content.MinWords)
	assert.Equal(t, 1500, settings.Content.MaxWords)
	assert.Equal(t, "draft", settings.Content.PostStatus)
	assert.Equal(t, "keywords.txt", settings.Keywords.File)
	assert.Equal(t, "Quero Crescer", settings.CTA.Text)
}

func TestLoadSettingsMissingRequired(t *testing.T) {
	path := writeSettingsFile(t, `
openai:
  api_key: sk-test
wordpress:
  site_url: https://example.com
`)

	_, err := LoadSettings(path)
	require.Error(t, err)

	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Contains(t, configErr.Reason, "wordpress.username")
	assert.Contains(t, configErr.Reason, "wordpress.app_password")
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	var configErr *ConfigError
	require.ErrorAs(t, err, &configErr)
	assert.Contains(t, configErr.Reason, "setup")
}

func TestLoadSettingsUnknownProvider(t *testing.T) {
	path := writeSettingsFile(t, `
provider: cohere
wordpress:
  site_url: https://example.com
  username: editor
  app_password: secret
`)

	_, err := LoadSettings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cohere")
}

func TestLoadSettingsEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("WORDPRESS_APP_PASSWORD", "env-secret")

	path := writeSettingsFile(t, `
openai:
  api_key: sk-file
wordpress:
  site_url: https://example.com
  username: editor
  app_password: file-secret
`)

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", settings.OpenAI.APIKey)
	assert.Equal(t, "env-secret", settings.WordPress.AppPassword)
}

func TestLoadSettingsAnthropicProviderNeedsOpenAIKeyForImages(t *testing.T) {
	path := writeSettingsFile(t, `
provider: anthropic
anthropic:
  api_key: sk-ant
wordpress:
  site_url: https://example.com
  username: editor
  app_password: secret
content:
  generate_images: true
`)

	_, err := LoadSettings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai.api_key")
}
