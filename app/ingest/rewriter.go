package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
)

const (
	// Rewrite results at or below this length are discarded in favor of
	// the deterministic expansion.
	minRewriteLength = 300
	// At most this much extracted content is sent as rewrite context.
	maxPromptContext = 3000
	rewriteMaxTokens = 1500
	// Sentences shorter than this are not usable for expansion.
	minSentenceLength = 20
	sentencesPerParagraph = 3
)

var sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

// TextGenerator produces text for a prompt. The remote rewrite service sits
// behind this seam so tests can substitute a fake.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenRouterClient calls an OpenAI-compatible chat-completions endpoint.
type OpenRouterClient struct {
	endpoint   string
	model      string
	apiKey     string
	referer    string
	httpClient *http.Client
}

var _ TextGenerator = (*OpenRouterClient)(nil)

func NewOpenRouterClient(endpoint, model, apiKey, referer string, httpClient *http.Client) *OpenRouterClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &OpenRouterClient{
		endpoint:   endpoint,
		model:      model,
		apiKey:     apiKey,
		referer:    referer,
		httpClient: httpClient,
	}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *OpenRouterClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("rewrite client misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens": rewriteMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal rewrite payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
		req.Header.Set("X-Title", "NewsForge")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("rewrite request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("rewrite service error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode rewrite response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("rewrite response has no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// Rewriter produces the final article content. With a configured generator
// it delegates to the remote service; in every failure mode it falls back
// to the deterministic expansion, so Run never fails.
type Rewriter struct {
	generator TextGenerator
}

// NewRewriter builds a rewriter. A nil generator means the remote tier is
// unconfigured and only the expansion fallback runs.
func NewRewriter(generator TextGenerator) *Rewriter {
	return &Rewriter{generator: generator}
}

// Run returns the final content and whether the remote service produced it.
func (r *Rewriter) Run(ctx context.Context, extracted *Extracted) (string, bool) {
	if r.generator != nil {
		out, err := r.generator.Generate(ctx, buildRewritePrompt(extracted))
		if err == nil {
			out = strings.TrimSpace(out)
			if len(out) > minRewriteLength {
				return out, true
			}
			slog.Warn("Rewrite result too short, using expansion fallback",
				"url", extracted.SourceURL, "length", len(out))
		} else {
			slog.Warn("Rewrite failed, using expansion fallback",
				"url", extracted.SourceURL, "error", err)
		}
	}

	return ExpandContent(extracted.Content), false
}

func buildRewritePrompt(extracted *Extracted) string {
	content := truncate(extracted.Content, maxPromptContext)

	return fmt.Sprintf(`You are a professional news journalist. Rewrite this news article to be original, engaging, and 600-900 words long. Keep all facts accurate. Use proper journalism style with an engaging intro, well-structured body paragraphs, and a conclusion.

Title: %s

Original content:
%s

Write the full rewritten article (600-900 words). Only output the article text, no headers or meta info.`, extracted.Title, content)
}

// ExpandContent reflows raw text into paragraphs of three sentences each.
// Content with fewer than five usable sentences is returned unchanged.
func ExpandContent(content string) string {
	var sentences []string
	for _, s := range sentenceSplitRe.Split(content, -1) {
		s = strings.TrimSpace(s)
		if len(s) >= minSentenceLength {
			sentences = append(sentences, s)
		}
	}

	if len(sentences) < 5 {
		return content
	}

	var paragraphs []string
	for i := 0; i < len(sentences); i += sentencesPerParagraph {
		end := min(i+sentencesPerParagraph, len(sentences))
		chunk := strings.Join(sentences[i:end], ". ")
		if len(chunk) > minParagraphLength {
			paragraphs = append(paragraphs, chunk+".")
		}
	}

	return strings.Join(paragraphs, "\n\n")
}
