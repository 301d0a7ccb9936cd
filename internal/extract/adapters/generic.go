package adapters

import "golang.org/x/net/html"

// GenericAdapter is the fallback for sites without a dedicated adapter
type GenericAdapter struct{}

// NewGenericAdapter creates the fallback adapter
func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

// Name returns the adapter name
func (a *GenericAdapter) Name() string {
	return "generic"
}

// CanHandle always returns true
func (a *GenericAdapter) CanHandle(host string) bool {
	return true
}

// ContentRoot prefers <article>, then <main>, then <body>
func (a *GenericAdapter) ContentRoot(doc *html.Node) *html.Node {
	if root := firstOf(doc, tag("article"), tag("main"), tag("body")); root != nil {
		return root
	}
	return doc
}

// Skip drops navigation and chrome elements
func (a *GenericAdapter) Skip(n *html.Node) bool {
	switch n.Data {
	case "nav", "header", "footer", "aside", "form":
		return true
	}
	return attr(n, "role") == "navigation"
}
