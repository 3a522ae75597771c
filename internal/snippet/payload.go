package snippet

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CloseModalHeader on a response signals that the modal session the
// request belonged to should end.
const CloseModalHeader = "X-Modal-Close"

// Payload is the parsed result of one content fetch: the snippet
// regions found in the response, the harvested links, and the signals
// the modal extension reacts to.
type Payload struct {
	URL         string
	Title       string
	ContentType string
	Body        []byte
	Snippets    map[string]string
	Links       []*Element
	CloseModal  bool
}

// HasSnippets reports whether the response carried snippet regions.
// Responses without regions are rendered as whole pages instead.
func (p *Payload) HasSnippets() bool { return len(p.Snippets) > 0 }

// ParsePayload extracts snippet regions, the document title, links,
// and the close-modal signal from a fetch result. Non-HTML responses
// come back with only URL, body and content type set.
func ParsePayload(result *FetchResult) (*Payload, error) {
	p := &Payload{
		URL:         result.FinalURL,
		ContentType: result.ContentType,
		Body:        result.Body,
	}
	if !IsHTML(result.ContentType) {
		return p, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(result.Body))
	if err != nil {
		return nil, fmt.Errorf("parsing payload: %w", err)
	}

	p.Title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("[data-snippet]").Each(func(_ int, s *goquery.Selection) {
		id := s.AttrOr("data-snippet", "")
		if id == "" {
			id = s.AttrOr("id", "")
		}
		if id == "" {
			return
		}
		if p.Snippets == nil {
			p.Snippets = make(map[string]string)
		}
		html, err := s.Html()
		if err != nil {
			return
		}
		p.Snippets[id] = html
	})

	if doc.Find("[data-modal-close]").Length() > 0 {
		p.CloseModal = true
	}
	if result.Header.Get(CloseModalHeader) != "" {
		p.CloseModal = true
	}

	base, _ := url.Parse(result.FinalURL)
	p.Links = harvestLinks(doc.Selection, base, false)

	return p, nil
}

// HarvestLinks parses an HTML fragment and returns its links, with
// hrefs resolved against baseURL. inModal marks elements as coming
// from the modal overlay's content.
func HarvestLinks(fragment, baseURL string, inModal bool) []*Element {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil
	}
	base, _ := url.Parse(baseURL)
	return harvestLinks(doc.Selection, base, inModal)
}

func harvestLinks(sel *goquery.Selection, base *url.URL, inModal bool) []*Element {
	var links []*Element
	sel.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := s.AttrOr("href", "")
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		el := &Element{
			Index:   len(links) + 1,
			Text:    strings.TrimSpace(s.Text()),
			Href:    resolveHref(base, href),
			InModal: inModal,
		}
		for _, attr := range s.Nodes[0].Attr {
			if strings.HasPrefix(attr.Key, "data-") {
				el.SetAttr(attr.Key, attr.Val)
			}
		}
		links = append(links, el)
	})
	return links
}

func resolveHref(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if base == nil || ref.IsAbs() {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
