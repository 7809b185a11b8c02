package main

import (
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestLoadKeywordsFiltering(t *testing.T) {
	content := `# comentário inicial
marketing digital: estratégias para pequenas empresas

seo para iniciantes
# outro comentário
seo para iniciantes
   técnicas de copywriting
`
	path := filepath.Join(t.TempDir(), "keywords.txt")
	os.WriteFile(path, []byte(content), 0644)

	keywords, err := LoadKeywords(path, testLogger())
	if err != nil {
		t.Fatalf("LoadKeywords() error = %v", err)
	}

	expected := []Keyword{
		{Term: "marketing digital", Context: "estratégias para pequenas empresas"},
		{Term: "seo para iniciantes"},
		{Term: "seo para iniciantes"},
		{Term: "técnicas de copywriting"},
	}
	if !reflect.DeepEqual(keywords, expected) {
		t.Errorf("keywords = %v, want %v", keywords, expected)
	}
}

func TestLoadKeywordsCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.txt")

	keywords, err := LoadKeywords(path, testLogger())
	if err != nil {
		t.Fatalf("LoadKeywords() error = %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("keywords file was not created: %v", err)
	}
	if len(keywords) == 0 {
		t.Error("expected example keywords from the created file")
	}
	if keywords[0].Term != "marketing digital" {
		t.Errorf("first example keyword = %q", keywords[0].Term)
	}
}

func TestLoadKeywordsOnlyComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.txt")
	os.WriteFile(path, []byte("# só comentários\n\n# nada útil\n"), 0644)

	_, err := LoadKeywords(path, testLogger())
	if err == nil {
		t.Fatal("expected error for keyword file without entries")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Errorf("expected *ConfigError, got %T", err)
	}
}

func TestLoadKeywordsLatin1Encoding(t *testing.T) {
	// "conteúdo" with ú encoded as Latin-1 byte 0xFA.
	raw := []byte("conte\xfado para redes sociais\n")
	path := filepath.Join(t.TempDir(), "keywords.txt")
	os.WriteFile(path, raw, 0644)

	keywords, err := LoadKeywords(path, testLogger())
	if err != nil {
		t.Fatalf("LoadKeywords() error = %v", err)
	}
	if len(keywords) != 1 {
		t.Fatalf("got %d keywords, want 1", len(keywords))
	}
	if !strings.Contains(keywords[0].Term, "conteúdo") {
		t.Errorf("Term = %q, want decoded conteúdo", keywords[0].Term)
	}
}

func TestSelectKeywords(t *testing.T) {
	keywords := []Keyword{{Term: "a"}, {Term: "b"}, {Term: "c"}}

	tests := []struct {
		name     string
		count    int
		expected []string
	}{
		{"first two", 2, []string{"a", "b"}},
		{"all available", 3, []string{"a", "b", "c"}},
		{"more than available", 10, []string{"a", "b", "c"}},
		{"zero", 0, []string{}},
		{"negative", -1, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected := SelectKeywords(keywords, tt.count)
			terms := make([]string, 0, len(selected))
			for _, kw := range selected {
				terms = append(terms, kw.Term)
			}
			if !reflect.DeepEqual(terms, tt.expected) {
				t.Errorf("SelectKeywords(%d) = %v, want %v", tt.count, terms, tt.expected)
			}
		})
	}
}

func TestParseKeyword(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected Keyword
	}{
		{"term only", "seo para iniciantes", Keyword{Term: "seo para iniciantes"}},
		{"with context", "marketing: para empresas", Keyword{Term: "marketing", Context: "para empresas"}},
		{"extra colons stay in context", "a: b: c", Keyword{Term: "a", Context: "b: c"}},
		{"whitespace trimmed", "  seo  :  dicas  ", Keyword{Term: "seo", Context: "dicas"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseKeyword(tt.line); got != tt.expected {
				t.Errorf("ParseKeyword(%q) = %+v, want %+v", tt.line, got, tt.expected)
			}
		})
	}
}
