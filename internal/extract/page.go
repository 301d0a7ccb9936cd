package extract

import (
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/ppiankov/credence/internal/extract/adapters"
)

// Page holds the readable parts of an HTML document
type Page struct {
	Title       string
	Author      string
	PublishDate *time.Time
	Text        string
}

// PageExtractor pulls metadata and visible text out of HTML
type PageExtractor struct {
	policy   *bluemonday.Policy
	adapters *adapters.Registry
}

// NewPageExtractor creates a page extractor that keeps only text-bearing elements
func NewPageExtractor() *PageExtractor {
	policy := bluemonday.StrictPolicy()
	policy.AllowElements("p", "br", "h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "blockquote", "article", "section", "main", "div", "span",
		"strong", "em", "b", "i", "td", "th")

	return &PageExtractor{policy: policy, adapters: adapters.NewRegistry()}
}

// Extract parses htmlContent with the generic adapter
func (e *PageExtractor) Extract(htmlContent string) (*Page, error) {
	return e.ExtractFrom("", htmlContent)
}

// ExtractFrom parses htmlContent served from pageURL. Text comes only from the
// article region the site's adapter selects.
func (e *PageExtractor) ExtractFrom(pageURL, htmlContent string) (*Page, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}

	page := &Page{}
	readMeta(doc, page)

	adapter := e.adapters.Find(pageURL)
	root := adapter.ContentRoot(doc)
	adapters.Prune(adapter, root)

	// Strip scripts, styles, forms and attributes before collecting text
	var raw strings.Builder
	if err := html.Render(&raw, root); err != nil {
		return nil, err
	}

	clean, err := html.Parse(strings.NewReader(e.policy.Sanitize(raw.String())))
	if err != nil {
		return nil, err
	}
	page.Text = strings.Join(strings.Fields(extractVisibleText(clean)), " ")

	return page, nil
}

// readMeta fills title, author and publish date from <head>
func readMeta(doc *html.Node, page *Page) {
	var ogTitle string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if page.Title == "" && n.FirstChild != nil {
					page.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				key := strings.ToLower(attr(n, "name"))
				if key == "" {
					key = strings.ToLower(attr(n, "property"))
				}
				content := strings.TrimSpace(attr(n, "content"))
				switch key {
				case "og:title":
					ogTitle = content
				case "author", "article:author":
					if page.Author == "" {
						page.Author = content
					}
				case "article:published_time", "date", "pubdate", "publish-date":
					if page.PublishDate == nil {
						page.PublishDate = parseDate(content)
					}
				}
			case "body":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	if page.Title == "" {
		page.Title = ogTitle
	}
}

// parseDate accepts the handful of layouts publishers use in meta tags
func parseDate(value string) *time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02", time.RFC1123} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
