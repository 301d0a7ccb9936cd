// Package adapters narrows a parsed HTML page to the region holding its article text.
package adapters

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Adapter selects the article region of pages from one kind of site
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle reports whether the adapter knows pages served from host
	CanHandle(host string) bool

	// ContentRoot returns the node whose text is the article body
	ContentRoot(doc *html.Node) *html.Node

	// Skip reports whether a subtree is page furniture rather than article text
	Skip(n *html.Node) bool
}

// Registry picks the adapter for a page URL
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a registry with the built-in adapters and the generic fallback
func NewRegistry() *Registry {
	registry := &Registry{}

	registry.Register(NewWikipediaAdapter())
	registry.Register(NewLegalAdapter())

	registry.generic = NewGenericAdapter()

	return registry
}

// Register adds an adapter ahead of the generic fallback
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// Find returns the first adapter that handles rawURL's host, else the generic one
func (r *Registry) Find(rawURL string) Adapter {
	host := hostOf(rawURL)
	if host != "" {
		for _, adapter := range r.adapters {
			if adapter.CanHandle(host) {
				return adapter
			}
		}
	}
	return r.generic
}

// Prune removes every subtree of n that the adapter skips
func Prune(a Adapter, n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode && a.Skip(c) {
			n.RemoveChild(c)
		} else {
			Prune(a, c)
		}
		c = next
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// matchesDomain reports whether host is domain or one of its subdomains
func matchesDomain(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func hasClass(n *html.Node, className string) bool {
	for _, class := range strings.Fields(attr(n, "class")) {
		if class == className {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// findFirst returns the first element in document order matching predicate
func findFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && predicate(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, predicate); found != nil {
			return found
		}
	}
	return nil
}

// firstOf tries each predicate in turn and returns the first match
func firstOf(doc *html.Node, predicates ...func(*html.Node) bool) *html.Node {
	for _, p := range predicates {
		if found := findFirst(doc, p); found != nil {
			return found
		}
	}
	return nil
}

func tag(name string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Data == name }
}
