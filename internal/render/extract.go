package render

import (
	"bytes"
	"fmt"
	"net/url"

	readability "github.com/go-shiori/go-readability"

	"github.com/modsurf/modsurf/internal/snippet"
)

// Article holds readable content extracted from a whole page.
type Article struct {
	Title       string
	Byline      string
	Content     string // cleaned HTML
	TextContent string // plain text
	Excerpt     string
	SiteName    string
}

// Extract pulls the readable article out of a fetched payload. Non-HTML
// responses come back wrapped as preformatted text.
func Extract(p *snippet.Payload) (*Article, error) {
	if !snippet.IsHTML(p.ContentType) {
		return &Article{
			Title:       p.URL,
			Content:     "<pre>" + string(p.Body) + "</pre>",
			TextContent: string(p.Body),
		}, nil
	}

	parsedURL, err := url.Parse(p.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing URL: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(p.Body), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("extracting article: %w", err)
	}

	return &Article{
		Title:       article.Title,
		Byline:      article.Byline,
		Content:     article.Content,
		TextContent: article.TextContent,
		Excerpt:     article.Excerpt,
		SiteName:    article.SiteName,
	}, nil
}
