// internal/assistant/scrape/extractor.go
package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"finassist/internal/assistant/genai"
	"finassist/internal/common/config"
	"finassist/internal/common/httpx"
	"finassist/internal/common/logger"
	"finassist/internal/common/metrics"
	"finassist/internal/models"
)

var (
	ErrPageFetchFailed   = errors.New("PAGE_FETCH_FAILED")
	ErrPageEmptyContent  = errors.New("PAGE_EMPTY_CONTENT")
	ErrAnalysisMalformed = errors.New("ANALYSIS_MALFORMED")
)

// skipTags are elements whose text never belongs in the extracted content.
var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"nav":      true,
	"header":   true,
	"footer":   true,
	"noscript": true,
}

// Extractor fetches a web page, reduces it to visible text, and asks the
// language model whether the page is relevant to the user's search phrase.
type Extractor struct {
	cfg    config.ScraperConfig
	client *httpx.Client
	llm    genai.Generator
	logger logger.Logger
}

// NewExtractor builds a page extractor. llm may be nil when no API key is
// configured; Extract then fails with API_KEY_MISSING.
func NewExtractor(cfg config.ScraperConfig, llm genai.Generator, log logger.Logger) *Extractor {
	return &Extractor{
		cfg:    cfg,
		client: httpx.NewClient(cfg.TimeoutDuration(), cfg.UserAgent),
		llm:    llm,
		logger: log.With(map[string]interface{}{"collaborator": "scrape"}),
	}
}

// Extract fetches url, strips it down to text, and runs the relevance
// analysis against searchPhrase.
func (e *Extractor) Extract(ctx context.Context, url, searchPhrase string) (*models.PageExtract, error) {
	if e.llm == nil {
		return nil, genai.ErrAPIKeyMissing
	}

	e.logger.Info("scraping page", map[string]interface{}{
		"url":    url,
		"search": searchPhrase,
	})

	content, err := e.fetchText(ctx, url)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, fmt.Errorf("%w: %s", ErrPageEmptyContent, url)
	}
	if len(content) > e.cfg.MaxChars {
		content = content[:e.cfg.MaxChars]
	}

	analysis, err := e.analyzeRelevance(ctx, content, searchPhrase)
	if err != nil {
		return nil, err
	}

	metrics.CollaboratorCalls.WithLabelValues("scrape", "success").Inc()
	return &models.PageExtract{
		URL:       url,
		Relevant:  analysis.Relevant,
		Summary:   analysis.Summary,
		KeyPoints: analysis.KeyPoints,
	}, nil
}

func (e *Extractor) fetchText(ctx context.Context, url string) (string, error) {
	resp, err := e.client.Get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s returned %d", ErrPageFetchFailed, url, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: parse error: %v", ErrPageFetchFailed, err)
	}
	return collectText(doc), nil
}

// collectText walks the parse tree and joins visible text, skipping chrome
// elements like navigation and scripts.
func collectText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

type relevanceAnalysis struct {
	Relevant  bool     `json:"relevant"`
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
}

func (e *Extractor) analyzeRelevance(ctx context.Context, content, searchPhrase string) (*relevanceAnalysis, error) {
	prompt := buildRelevancePrompt(content, searchPhrase)
	raw, err := e.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	cleaned := genai.StripCodeFence(raw)
	var analysis relevanceAnalysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		e.logger.Warn("relevance analysis was not valid JSON", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrAnalysisMalformed, err)
	}
	return &analysis, nil
}

func buildRelevancePrompt(content, searchPhrase string) string {
	return fmt.Sprintf(`Analyze this webpage content and determine if it contains information relevant to: "%s"

Webpage content:
%s

Respond in JSON format:
{
    "relevant": true or false,
    "summary": "brief summary of relevant information found, or empty string",
    "key_points": ["point 1", "point 2"] or []
}`, searchPhrase, content)
}
