// Package render turns fetched content into styled terminal text:
// snippet regions and modal fragments through an HTML-to-markdown
// conversion styled by glamour, whole pages through readability
// extraction when a response carries no snippet regions.
package render

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/glamour"

	"github.com/modsurf/modsurf/internal/snippet"
)

// Page holds terminal-ready output and the links harvested while
// rendering, numbered in display order.
type Page struct {
	Title   string
	Content string
	Links   []*snippet.Element
}

// Cached glamour renderer to avoid recreation on every render call.
var (
	cachedRenderer      *glamour.TermRenderer
	cachedRendererWidth int
	rendererMu          sync.Mutex
)

// Snippets renders a payload's snippet regions in stable key order.
// The payload must carry snippets; use FullPage otherwise.
func Snippets(p *snippet.Payload, width int) *Page {
	conv := newConverter(p.URL, false)

	var md strings.Builder
	if p.Title != "" {
		md.WriteString("# " + p.Title + "\n\n")
	}

	keys := make([]string, 0, len(p.Snippets))
	for k := range p.Snippets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 {
			md.WriteString("---\n\n")
		}
		md.WriteString(conv.convertFragment(p.Snippets[k]))
	}

	return finish(p.Title, md.String(), width, conv)
}

// Fragment renders one HTML fragment, marking harvested links as
// modal-interior content when inModal is set. Used for the modal
// overlay's body.
func Fragment(fragment, baseURL string, width int, inModal bool) *Page {
	conv := newConverter(baseURL, inModal)
	md := conv.convertFragment(fragment)
	return finish("", md, width, conv)
}

// FullPage renders a payload that carried no snippet regions:
// readable content is extracted first, then converted like any other
// fragment.
func FullPage(p *snippet.Payload, width int) (*Page, error) {
	article, err := Extract(p)
	if err != nil {
		return nil, err
	}

	conv := newConverter(p.URL, false)
	var md strings.Builder
	if article.Title != "" {
		md.WriteString("# " + article.Title + "\n\n")
	}
	if article.Byline != "" {
		md.WriteString("*" + article.Byline + "*\n\n")
	}
	md.WriteString("---\n\n")
	md.WriteString(conv.convertFragment(article.Content))

	page := finish(article.Title, md.String(), width, conv)
	return page, nil
}

func finish(title, md string, width int, conv *converter) *Page {
	if width <= 0 {
		width = 80
	}
	contentWidth := width - 4
	if contentWidth > 100 {
		contentWidth = 100
	}

	rendered, err := renderWithGlamour(md, contentWidth)
	if err != nil {
		// Fallback: raw markdown is still readable.
		rendered = md
	}
	return &Page{Title: title, Content: rendered, Links: conv.links}
}

// renderWithGlamour renders markdown into styled terminal output,
// reusing the renderer until the width changes.
func renderWithGlamour(markdown string, width int) (string, error) {
	rendererMu.Lock()
	defer rendererMu.Unlock()

	if cachedRenderer == nil || cachedRendererWidth != width {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		cachedRenderer = renderer
		cachedRendererWidth = width
	}

	return cachedRenderer.Render(markdown)
}

// converter walks goquery HTML nodes and emits markdown, harvesting
// links into numbered elements as it goes.
type converter struct {
	base    *url.URL
	inModal bool
	links   []*snippet.Element
}

func newConverter(baseURL string, inModal bool) *converter {
	base, _ := url.Parse(baseURL)
	return &converter{base: base, inModal: inModal}
}

func (c *converter) convertFragment(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	var sb strings.Builder
	doc.Find("body").Children().Each(func(_ int, s *goquery.Selection) {
		sb.WriteString(c.convertNode(s, 0))
	})
	return sb.String()
}

func (c *converter) convertNode(s *goquery.Selection, depth int) string {
	var sb strings.Builder

	switch goquery.NodeName(s) {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		sb.WriteString(c.convertHeading(s))
	case "p":
		sb.WriteString(c.convertParagraph(s))
	case "a":
		sb.WriteString(c.convertLink(s))
	case "ul":
		sb.WriteString(c.convertList(s, false, depth))
	case "ol":
		sb.WriteString(c.convertList(s, true, depth))
	case "blockquote":
		sb.WriteString(c.convertBlockquote(s))
	case "pre":
		sb.WriteString(c.convertCodeBlock(s))
	case "code":
		sb.WriteString("`" + s.Text() + "`")
	case "img":
		sb.WriteString(c.convertImage(s))
	case "hr":
		sb.WriteString("\n---\n\n")
	case "table":
		sb.WriteString(c.convertTable(s))
	case "br":
		sb.WriteString("  \n")
	case "strong", "b":
		sb.WriteString("**")
		c.convertInlineChildren(s, &sb)
		sb.WriteString("**")
	case "em", "i":
		sb.WriteString("*")
		c.convertInlineChildren(s, &sb)
		sb.WriteString("*")
	case "div", "article", "section", "main", "header", "footer", "figure", "span", "nav":
		s.Children().Each(func(_ int, child *goquery.Selection) {
			sb.WriteString(c.convertNode(child, depth))
		})
	case "figcaption":
		if text := strings.TrimSpace(s.Text()); text != "" {
			sb.WriteString("*" + text + "*\n\n")
		}
	default:
		if text := strings.TrimSpace(s.Text()); text != "" {
			sb.WriteString(text)
			sb.WriteString("\n\n")
		}
	}

	return sb.String()
}

func (c *converter) convertHeading(s *goquery.Selection) string {
	text := strings.TrimSpace(s.Text())
	if text == "" {
		return ""
	}
	level := int(goquery.NodeName(s)[1] - '0')
	return strings.Repeat("#", level) + " " + text + "\n\n"
}

func (c *converter) convertParagraph(s *goquery.Selection) string {
	var sb strings.Builder
	c.convertInlineChildren(s, &sb)
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return ""
	}
	return text + "\n\n"
}

func (c *converter) convertInlineChildren(s *goquery.Selection, sb *strings.Builder) {
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		switch goquery.NodeName(child) {
		case "#text":
			sb.WriteString(child.Text())
		case "a":
			sb.WriteString(c.convertLink(child))
		case "strong", "b":
			sb.WriteString("**")
			c.convertInlineChildren(child, sb)
			sb.WriteString("**")
		case "em", "i":
			sb.WriteString("*")
			c.convertInlineChildren(child, sb)
			sb.WriteString("*")
		case "code":
			sb.WriteString("`" + child.Text() + "`")
		case "br":
			sb.WriteString("  \n")
		default:
			c.convertInlineChildren(child, sb)
		}
	})
}

func (c *converter) convertLink(s *goquery.Selection) string {
	href, exists := s.Attr("href")
	text := strings.TrimSpace(s.Text())
	if text == "" {
		text = href
	}
	if !exists || href == "" || strings.HasPrefix(href, "#") {
		return text
	}

	el := &snippet.Element{
		Index:   len(c.links) + 1,
		Text:    text,
		Href:    c.resolve(href),
		InModal: c.inModal,
	}
	for _, attr := range s.Nodes[0].Attr {
		if strings.HasPrefix(attr.Key, "data-") {
			el.SetAttr(attr.Key, attr.Val)
		}
	}
	c.links = append(c.links, el)

	marker := fmt.Sprintf(" **[%d]**", el.Index)
	if el.Has(snippet.AttrModal) {
		marker = fmt.Sprintf(" **[%d◈]**", el.Index)
	}
	return fmt.Sprintf("[%s](%s)%s", text, el.Href, marker)
}

func (c *converter) resolve(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if c.base == nil || ref.IsAbs() {
		return ref.String()
	}
	return c.base.ResolveReference(ref).String()
}

func (c *converter) convertList(s *goquery.Selection, ordered bool, depth int) string {
	var sb strings.Builder
	indent := strings.Repeat("  ", depth)
	itemNum := 0

	s.Find("> li").Each(func(_ int, li *goquery.Selection) {
		itemNum++
		prefix := indent + "- "
		if ordered {
			prefix = fmt.Sprintf("%s%d. ", indent, itemNum)
		}

		var itemSb strings.Builder
		c.convertInlineChildren(li, &itemSb)
		sb.WriteString(prefix + strings.TrimSpace(itemSb.String()) + "\n")

		li.Children().Each(func(_ int, child *goquery.Selection) {
			switch goquery.NodeName(child) {
			case "ul":
				sb.WriteString(c.convertList(child, false, depth+1))
			case "ol":
				sb.WriteString(c.convertList(child, true, depth+1))
			}
		})
	})

	return sb.String() + "\n"
}

func (c *converter) convertBlockquote(s *goquery.Selection) string {
	var sb strings.Builder
	s.Children().Each(func(_ int, child *goquery.Selection) {
		content := c.convertNode(child, 0)
		for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
			sb.WriteString("> " + line + "\n")
		}
	})
	if sb.Len() == 0 {
		if text := strings.TrimSpace(s.Text()); text != "" {
			sb.WriteString("> " + text + "\n")
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func (c *converter) convertCodeBlock(s *goquery.Selection) string {
	code := s.Find("code")

	lang := ""
	if code.Length() > 0 {
		class, _ := code.Attr("class")
		if idx := strings.Index(class, "language-"); idx >= 0 {
			lang = strings.Fields(class[idx+len("language-"):])[0]
		}
	}

	text := s.Text()
	if code.Length() > 0 {
		text = code.Text()
	}

	return "```" + lang + "\n" + text + "\n```\n\n"
}

func (c *converter) convertImage(s *goquery.Selection) string {
	alt, _ := s.Attr("alt")
	src, _ := s.Attr("src")
	if alt == "" {
		alt = "image"
	}
	return fmt.Sprintf("![%s](%s)\n\n", alt, src)
}

func (c *converter) convertTable(s *goquery.Selection) string {
	var headers []string
	s.Find("thead th, thead td").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(th.Text()))
	})

	var rows [][]string
	s.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.Find("td, th").Each(func(_ int, td *goquery.Selection) {
			row = append(row, strings.TrimSpace(td.Text()))
		})
		rows = append(rows, row)
	})

	if len(headers) == 0 {
		s.Find("tr").First().Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			headers = append(headers, strings.TrimSpace(cell.Text()))
		})
	}

	numCols := len(headers)
	for _, row := range rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}
	if numCols == 0 {
		return ""
	}
	for len(headers) < numCols {
		headers = append(headers, "")
	}

	var sb strings.Builder
	sb.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	separators := make([]string, numCols)
	for i := range separators {
		separators[i] = "---"
	}
	sb.WriteString("| " + strings.Join(separators, " | ") + " |\n")
	for _, row := range rows {
		for len(row) < numCols {
			row = append(row, "")
		}
		sb.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	sb.WriteString("\n")
	return sb.String()
}
