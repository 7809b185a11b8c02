package main

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"
)

const defaultKeywordsContent = `# Coloque suas palavras-chave aqui (uma por linha)
# Você pode adicionar contexto após dois-pontos
marketing digital: estratégias para pequenas empresas
seo para iniciantes
como aumentar tráfego no site
conteúdo para redes sociais
técnicas de copywriting
`

// LoadKeywords reads the keyword store, creating it with example
// entries when missing. Lines starting with # and blank lines are
// skipped; order is preserved and duplicates are kept.
func LoadKeywords(path string, log *logrus.Logger) ([]Keyword, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte(defaultKeywordsContent), 0644); err != nil {
			return nil, &ConfigError{Reason: fmt.Sprintf("cannot create keywords file %s: %v", path, err)}
		}
		log.WithField("file", path).Info("keywords file created with example entries")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("cannot read keywords file %s: %v", path, err)}
	}

	text, encoding, err := decodeKeywordData(data)
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("cannot decode keywords file %s: %v", path, err)}
	}
	log.WithFields(logrus.Fields{"file": path, "encoding": encoding}).Debug("keywords file read")

	var keywords []Keyword
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keywords = append(keywords, ParseKeyword(line))
	}

	if len(keywords) == 0 {
		return nil, &ConfigError{Reason: fmt.Sprintf("no keywords found in %s, add at least one", path)}
	}

	return keywords, nil
}

// decodeKeywordData cycles through the accepted encodings in order and
// returns the first successful decode along with the encoding name.
func decodeKeywordData(data []byte) (string, string, error) {
	if utf8.Valid(data) {
		return string(data), "utf-8", nil
	}

	charmaps := []struct {
		name string
		cm   *charmap.Charmap
	}{
		{"windows-1252", charmap.Windows1252},
		{"iso-8859-1", charmap.ISO8859_1},
	}
	for _, c := range charmaps {
		decoded, err := c.cm.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		return string(decoded), c.name, nil
	}

	return "", "", fmt.Errorf("no supported encoding matched")
}

// SelectKeywords takes the first count keywords in file order. Shorter
// sources return everything; there is no rotation or deduplication.
func SelectKeywords(keywords []Keyword, count int) []Keyword {
	if count < 0 {
		count = 0
	}
	if count > len(keywords) {
		count = len(keywords)
	}
	return keywords[:count]
}
