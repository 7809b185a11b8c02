package main

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// Fixed waits to stay under external rate limits. Not adaptive.
	defaultStageDelay      = 2 * time.Second
	defaultKeywordCooldown = 30 * time.Second

	internalLinkPosts = 10
	contentImageCount = 1
	excerptPreviewLen = 120
)

// SEOContentGenerator sequences plan, metadata, draft, review and
// publish for each selected keyword, isolating per-keyword failures.
type SEOContentGenerator struct {
	settings  *Settings
	text      TextGenerator
	images    *ImageGenerator
	wp        *WordPressClient
	log       *logrus.Logger
	converter *md.Converter
	runID     string

	stageDelay      time.Duration
	keywordCooldown time.Duration
}

// NewSEOContentGenerator wires the pipeline. images may be nil when
// image generation is disabled.
func NewSEOContentGenerator(settings *Settings, text TextGenerator, images *ImageGenerator, wp *WordPressClient, log *logrus.Logger) *SEOContentGenerator {
	return &SEOContentGenerator{
		settings:        settings,
		text:            text,
		images:          images,
		wp:              wp,
		log:             log,
		converter:       md.NewConverter("", true, nil),
		runID:           uuid.NewString()[:8],
		stageDelay:      defaultStageDelay,
		keywordCooldown: defaultKeywordCooldown,
	}
}

// Run processes posts_per_run keywords start to finish. A keyword's
// failure never aborts the run; success means every selected keyword
// was attempted.
func (g *SEOContentGenerator) Run() ([]ProcessingResult, error) {
	keywords, err := LoadKeywords(g.settings.Keywords.File, g.log)
	if err != nil {
		return nil, err
	}

	selected := SelectKeywords(keywords, g.settings.Content.PostsPerRun)
	g.log.WithFields(logrus.Fields{"run_id": g.runID, "keywords": len(selected)}).Info("starting content generation run")

	results := make([]ProcessingResult, 0, len(selected))
	for i, kw := range selected {
		g.log.WithField("run_id", g.runID).Infof("[%d/%d] processing keyword: %s", i+1, len(selected), kw.Term)

		result := g.processKeyword(kw)
		results = append(results, result)

		if result.Status == StatusSuccess {
			g.entry(kw, StagePublish).WithField("post_id", result.PostID).Info("keyword published")
		} else {
			g.entry(kw, result.Stage).WithError(result.Err).Error("keyword failed")
		}

		if i < len(selected)-1 {
			g.log.WithField("run_id", g.runID).Infof("waiting %s before next keyword", g.keywordCooldown)
			time.Sleep(g.keywordCooldown)
		}
	}

	g.log.WithField("run_id", g.runID).Info("content generation run finished")
	return results, nil
}

// processKeyword runs the staged pipeline for one keyword. Plan, draft
// and publish failures are fatal for the keyword; metadata, review and
// image failures fall back to the previous complete record.
func (g *SEOContentGenerator) processKeyword(kw Keyword) ProcessingResult {
	plan, err := g.generateContentPlan(kw)
	if err != nil {
		return ProcessingResult{Keyword: kw.Term, Status: StatusFailed, Stage: StagePlan, Err: err}
	}
	g.entry(kw, StagePlan).WithField("title", plan.Title).Info("content plan ready")
	g.pause()

	meta := g.metadataFromPlan(plan)
	if generated, err := g.generateSeoMetadata(kw, plan); err != nil {
		g.entry(kw, StageMetadata).WithError(err).Warn("keeping plan-derived metadata")
	} else {
		meta = mergeMetadata(meta, generated)
		g.entry(kw, StageMetadata).WithField("seo_title", meta.SEOTitle).Info("seo metadata ready")
	}
	g.pause()

	article, err := g.generateArticle(kw, plan, meta)
	if err != nil {
		return ProcessingResult{Keyword: kw.Term, Status: StatusFailed, Stage: StageDraft, Err: err}
	}
	g.entry(kw, StageDraft).WithField("words", wordCount(article.Content)).Info("draft ready")
	g.pause()

	if reviewed, err := g.reviewArticle(kw, article); err != nil {
		g.entry(kw, StageReview).WithError(err).Warn("review failed, publishing pre-review draft")
	} else {
		article = reviewed
		g.entry(kw, StageReview).Info("article reviewed")
	}

	featuredMediaID := g.attachImages(kw, plan, &article)

	categoryID := 0
	if g.settings.Content.TargetCategory != "" {
		categoryID = g.wp.CategoryID(g.settings.Content.TargetCategory)
	}

	words := wordCount(article.Content)
	if words < g.settings.Content.MinWords || words > g.settings.Content.MaxWords {
		g.entry(kw, StagePublish).WithFields(logrus.Fields{
			"words": words,
			"min":   g.settings.Content.MinWords,
			"max":   g.settings.Content.MaxWords,
		}).Warn("word count outside configured bounds")
	}

	post, err := g.wp.PublishPost(PostInput{
		Title:           article.Title,
		Content:         article.Content,
		Excerpt:         article.MetaDescription,
		Status:          g.settings.Content.PostStatus,
		CategoryID:      categoryID,
		FeaturedMediaID: featuredMediaID,
	})
	if err != nil {
		return ProcessingResult{Keyword: kw.Term, Status: StatusFailed, Stage: StagePublish, Err: err}
	}

	return ProcessingResult{Keyword: kw.Term, Status: StatusSuccess, Stage: StagePublish, PostID: post.ID}
}

// generateContentPlan asks for a structured plan and resolves it into
// a ContentPlan. Extraction never fails; only the remote call can.
func (g *SEOContentGenerator) generateContentPlan(kw Keyword) (ContentPlan, error) {
	var context string
	if kw.Context != "" {
		context = fmt.Sprintf("\nContexto adicional sobre o tema: %s\n", kw.Context)
	}

	prompt := fmt.Sprintf(`Crie um plano detalhado para um artigo de blog focado na palavra-chave "%s".
O artigo precisa ser otimizado para SEO e gerar tráfego orgânico.
%s
Forneça:
1. Um título atraente que inclua a palavra-chave principal
2. Pelo menos 5 subtópicos relevantes para estruturar o artigo
3. Palavras-chave secundárias relacionadas para incluir naturalmente
4. Sugestões de tipos de conteúdo que funcionam bem para este tópico (listas, tutoriais, etc.)
5. Sugestões de perguntas frequentes que podem ser respondidas
6. Sugestões de elementos visuais para ilustrar o artigo
7. Sugestões de tópicos para links internos
8. Uma URL amigável (slug) para o artigo
9. Meta descrição otimizada para SEO (até 160 caracteres)

Apresente os resultados em formato JSON estruturado para processamento automático.`, kw.Term, context)

	response, err := g.text.Chat(prompt)
	if err != nil {
		return ContentPlan{}, fmt.Errorf("generating content plan: %w", err)
	}

	return ParseContentPlan(kw, ExtractJSON(response)), nil
}

// generateSeoMetadata regenerates title, description and slug in a
// dedicated call. Failures are non-fatal; the caller keeps the
// plan-derived metadata.
func (g *SEOContentGenerator) generateSeoMetadata(kw Keyword, plan ContentPlan) (SeoMetadata, error) {
	prompt := fmt.Sprintf(`Crie metadados SEO para um artigo de blog sobre a palavra-chave "%s" com o título provisório "%s".

Forneça em formato JSON:
1. "seo_title": título otimizado para SEO (até 60 caracteres, incluindo a palavra-chave)
2. "meta_description": meta descrição persuasiva (até 160 caracteres)
3. "friendly_url": URL amigável (slug em minúsculas, palavras separadas por hífen)`, kw.Term, plan.Title)

	response, err := g.text.Chat(prompt)
	if err != nil {
		return SeoMetadata{}, fmt.Errorf("generating seo metadata: %w", err)
	}

	meta := ParseSeoMetadata(ExtractJSON(response))
	if meta.SEOTitle == "" && meta.MetaDescription == "" && meta.FriendlyURL == "" {
		return SeoMetadata{}, fmt.Errorf("no seo metadata fields in response")
	}
	return meta, nil
}

// generateArticle drafts the complete HTML article from the plan.
func (g *SEOContentGenerator) generateArticle(kw Keyword, plan ContentPlan, meta SeoMetadata) (Article, error) {
	subtopics := "- " + strings.Join(plan.Subtopics, "\n- ")
	if len(plan.Subtopics) == 0 {
		subtopics = "(estruture o artigo livremente)"
	}

	var linkBlock string
	if context := g.internalLinkContext(); context != "" {
		linkBlock = fmt.Sprintf("\nArtigos já publicados no site, para links internos quando fizer sentido:\n%s\n", context)
	}

	prompt := fmt.Sprintf(`Crie um artigo de blog completo e otimizado para SEO com base nas seguintes informações:

Título: %s

Estrutura de subtópicos:
%s

Palavras-chave secundárias a incluir naturalmente: %s
%s
Diretrizes:
1. Escreva um artigo com %d a %d palavras
2. Inclua uma introdução atraente que mencione a palavra-chave principal "%s"
3. Desenvolva cada subtópico com informações valiosas e específicas
4. Inclua uma seção de perguntas frequentes respondendo às seguintes perguntas: %s
5. Termine com uma conclusão que incentive o engajamento
6. Use subtítulos H2 e H3 adequadamente
7. Inclua algumas sugestões de links internos indicados com [LINK INTERNO: tópico sugerido]
8. Termine com uma conclusão motivacional e inclua um call-to-action (CTA) natural usando este template:
"Quer acelerar seu crescimento? Conheça nossa solução premium que entrega resultados reais.
<a href="%s" target="_blank">%s</a>"

Forneça apenas o conteúdo do artigo formatado em HTML, sem comentários adicionais.`,
		meta.SEOTitle,
		subtopics,
		strings.Join(plan.SecondaryKeywords, ", "),
		linkBlock,
		g.settings.Content.MinWords,
		g.settings.Content.MaxWords,
		kw.Term,
		strings.Join(plan.FAQs, ", "),
		g.settings.CTA.URL,
		g.settings.CTA.Text,
	)

	response, err := g.text.Chat(prompt)
	if err != nil {
		return Article{}, fmt.Errorf("generating article: %w", err)
	}

	content := stripHTMLFence(response)
	if content == "" {
		return Article{}, fmt.Errorf("generating article: empty content in response")
	}

	return Article{
		Title:           meta.SEOTitle,
		Content:         content,
		MetaDescription: meta.MetaDescription,
		FriendlyURL:     meta.FriendlyURL,
	}, nil
}

// reviewArticle runs the best-effort quality pass. On any failure the
// caller keeps the pre-review draft; there is never a partial merge.
func (g *SEOContentGenerator) reviewArticle(kw Keyword, article Article) (Article, error) {
	prompt := fmt.Sprintf(`Revise este artigo de blog para otimização SEO e qualidade editorial:

Título: %s

Conteúdo:
%s

Palavra-chave principal: %s

Por favor, revise e corrija:
1. Qualquer erro gramatical ou ortográfico
2. Melhore a densidade da palavra-chave (deve aparecer naturalmente, sem exagero)
3. Verifique se os subtítulos usam as tags H2 e H3 corretamente
4. Certifique-se de que o conteúdo está completo e coerente
5. Melhore a meta descrição se necessário

Forneça o conteúdo revisado em HTML e uma meta descrição atualizada em formato JSON.`,
		article.Title, article.Content, kw.Term)

	response, err := g.text.Chat(prompt)
	if err != nil {
		return Article{}, fmt.Errorf("reviewing article: %w", err)
	}

	reviewed := Article{
		Title:           article.Title,
		MetaDescription: article.MetaDescription,
		FriendlyURL:     article.FriendlyURL,
	}

	data := ExtractJSON(response)
	if desc := stringField(data, "meta_description", "meta_descricao"); desc != "" {
		reviewed.MetaDescription = desc
		reviewed.Content = stripHTMLFence(jsonBlockRe.ReplaceAllString(response, ""))
		if reviewed.Content == "" {
			reviewed.Content = article.Content
		}
		return reviewed, nil
	}

	reviewed.Content = stripHTMLFence(response)
	if reviewed.Content == "" {
		return Article{}, fmt.Errorf("reviewing article: empty content in response")
	}
	return reviewed, nil
}

// attachImages generates, uploads and wires images into the article.
// Every step is best-effort: any failure leaves the article untouched
// and the post without media.
func (g *SEOContentGenerator) attachImages(kw Keyword, plan ContentPlan, article *Article) int {
	if g.images == nil {
		return 0
	}

	featuredMediaID := 0
	if path, err := g.images.GenerateFeaturedImage(article.Title, kw.Term); err != nil {
		g.entry(kw, StageImage).WithError(err).Warn("featured image skipped")
	} else {
		if media := g.wp.UploadMedia(path, article.Title); media != nil {
			featuredMediaID = media.ID
		}
		g.images.Cleanup([]string{path})
	}

	paths := g.images.GenerateContentImages(article.Title, kw.Term, plan.Subtopics, contentImageCount)
	for i, path := range paths {
		media := g.wp.UploadMedia(path, plan.Subtopics[i])
		if media != nil && media.SourceURL != "" {
			figure := fmt.Sprintf(`<figure class="wp-block-image"><img src="%s" alt="%s"/></figure>`,
				media.SourceURL, plan.Subtopics[i])
			article.Content = insertAfterHeading(article.Content, figure, i+1)
		}
	}
	g.images.Cleanup(paths)

	return featuredMediaID
}

// internalLinkContext summarizes existing posts for the draft prompt.
// Fetching is best-effort; an empty string disables the block.
func (g *SEOContentGenerator) internalLinkContext() string {
	posts, err := g.wp.Posts(internalLinkPosts, 1)
	if err != nil {
		g.log.WithError(err).Debug("existing posts not available for internal links")
		return ""
	}

	var lines []string
	for _, post := range posts {
		if post.Title.Rendered == "" || post.Link == "" {
			continue
		}
		line := fmt.Sprintf("- %s (%s)", post.Title.Rendered, post.Link)
		if excerpt := g.excerptText(post.Excerpt.Rendered); excerpt != "" {
			line += ": " + excerpt
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// excerptText reduces a rendered HTML excerpt to a short plain-text
// preview.
func (g *SEOContentGenerator) excerptText(html string) string {
	if html == "" {
		return ""
	}
	text, err := g.converter.ConvertString(html)
	if err != nil {
		return ""
	}
	text = strings.TrimSpace(whitespaceRunRe.ReplaceAllString(text, " "))
	if len(text) > excerptPreviewLen {
		text = text[:excerptPreviewLen] + "..."
	}
	return text
}

func (g *SEOContentGenerator) metadataFromPlan(plan ContentPlan) SeoMetadata {
	return SeoMetadata{
		SEOTitle:        plan.Title,
		MetaDescription: plan.MetaDescription,
		FriendlyURL:     plan.FriendlyURL,
	}
}

func mergeMetadata(base, generated SeoMetadata) SeoMetadata {
	if generated.SEOTitle != "" {
		base.SEOTitle = generated.SEOTitle
	}
	if generated.MetaDescription != "" {
		base.MetaDescription = generated.MetaDescription
	}
	if generated.FriendlyURL != "" {
		base.FriendlyURL = generated.FriendlyURL
	}
	return base
}

func (g *SEOContentGenerator) entry(kw Keyword, stage Stage) *logrus.Entry {
	return g.log.WithFields(logrus.Fields{
		"run_id":  g.runID,
		"keyword": kw.Term,
		"stage":   stage,
	})
}

func (g *SEOContentGenerator) pause() {
	time.Sleep(g.stageDelay)
}

var jsonBlockRe = regexp.MustCompile("(?s)```json\\s*.*?\\s*```|\\{.*\\}")

// stripHTMLFence removes a surrounding markdown code fence some models
// wrap HTML output in.
func stripHTMLFence(s string) string {
	s = strings.TrimSpace(s)
	for _, marker := range []string{"```html", "```"} {
		if strings.HasPrefix(s, marker) && strings.HasSuffix(s, "```") && len(s) > len(marker)+3 {
			s = strings.TrimPrefix(s, marker)
			s = strings.TrimSuffix(s, "```")
			return strings.TrimSpace(s)
		}
	}
	return s
}
