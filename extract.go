package main

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedJSONRe = regexp.MustCompile("```json\\s*([\\s\\S]*?)\\s*```")
	braceSpanRe  = regexp.MustCompile(`(?s)\{.*\}`)
)

// RawContentKey is the sentinel key carrying the verbatim input when no
// JSON could be extracted from a model response.
const RawContentKey = "raw_content"

// ExtractJSON pulls a JSON object out of loosely formatted model output.
// Attempts, first match wins:
//  1. a fenced ```json block
//  2. the widest brace-delimited span
//  3. the entire input
//
// If nothing parses, the original text is returned verbatim under
// RawContentKey. ExtractJSON never fails.
func ExtractJSON(text string) map[string]any {
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		if data, ok := tryParseObject(m[1]); ok {
			return data
		}
	}

	if m := braceSpanRe.FindString(text); m != "" {
		if data, ok := tryParseObject(m); ok {
			return data
		}
	}

	if data, ok := tryParseObject(text); ok {
		return data
	}

	return map[string]any{RawContentKey: text}
}

func tryParseObject(s string) (map[string]any, bool) {
	var data map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &data); err != nil {
		return nil, false
	}
	return data, true
}

// stringField resolves the first alias present in data to a string.
// Aliases are ordered; Portuguese and English keys are both accepted.
func stringField(data map[string]any, aliases ...string) string {
	for _, key := range aliases {
		if v, ok := data[key]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

// listField resolves the first alias present in data to a string slice.
// Non-string elements are flattened defensively: object elements
// contribute their first recognized text value, everything else is
// rendered with %v.
func listField(data map[string]any, aliases ...string) []string {
	for _, key := range aliases {
		raw, ok := data[key].([]any)
		if !ok {
			continue
		}
		var out []string
		for _, item := range raw {
			switch v := item.(type) {
			case string:
				if s := strings.TrimSpace(v); s != "" {
					out = append(out, s)
				}
			case map[string]any:
				if s := stringField(v, "pergunta", "question", "titulo", "title", "texto", "text"); s != "" {
					out = append(out, s)
				}
			default:
				out = append(out, fmt.Sprintf("%v", v))
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// ParseContentPlan resolves an extracted mapping into a ContentPlan,
// synthesizing defaults so the plan is always usable downstream.
func ParseContentPlan(keyword Keyword, data map[string]any) ContentPlan {
	plan := ContentPlan{
		Title:             stringField(data, "titulo", "title"),
		Subtopics:         listField(data, "subtopicos", "subtopics"),
		SecondaryKeywords: listField(data, "keywords_secundarias", "palavras_chave_secundarias", "secondary_keywords"),
		ContentTypes:      listField(data, "tipos_de_conteudo", "content_types"),
		FAQs:              listField(data, "perguntas_frequentes", "faqs"),
		VisualElements:    listField(data, "elementos_visuais", "visual_elements"),
		InternalLinks:     listField(data, "links_internos", "internal_links"),
		FriendlyURL:       stringField(data, "url_amigavel", "friendly_url", "slug"),
		MetaDescription:   stringField(data, "meta_descricao", "meta_description"),
	}

	if plan.Title == "" {
		plan.Title = "Artigo sobre " + keyword.Term
	}
	if plan.FriendlyURL == "" {
		plan.FriendlyURL = slugify(plan.Title)
	}

	return plan
}

// ParseSeoMetadata resolves an extracted mapping into SeoMetadata.
// Empty fields mean "keep what the plan already provided".
func ParseSeoMetadata(data map[string]any) SeoMetadata {
	return SeoMetadata{
		SEOTitle:        stringField(data, "seo_title", "titulo_seo", "title", "titulo"),
		MetaDescription: stringField(data, "meta_description", "meta_descricao"),
		FriendlyURL:     stringField(data, "friendly_url", "url_amigavel", "slug"),
	}
}
