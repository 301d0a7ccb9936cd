package adapters

import "golang.org/x/net/html"

// WikipediaAdapter keeps the parsed article and drops citations and navboxes
type WikipediaAdapter struct{}

// NewWikipediaAdapter creates a new Wikipedia adapter
func NewWikipediaAdapter() *WikipediaAdapter {
	return &WikipediaAdapter{}
}

// Name returns the adapter name
func (a *WikipediaAdapter) Name() string {
	return "wikipedia"
}

// CanHandle checks for any language edition of Wikipedia
func (a *WikipediaAdapter) CanHandle(host string) bool {
	return matchesDomain(host, "wikipedia.org")
}

// ContentRoot returns the mw-parser-output div, else mw-content-text, else body
func (a *WikipediaAdapter) ContentRoot(doc *html.Node) *html.Node {
	root := firstOf(doc,
		func(n *html.Node) bool { return n.Data == "div" && hasClass(n, "mw-parser-output") },
		func(n *html.Node) bool { return attr(n, "id") == "mw-content-text" },
		tag("body"),
	)
	if root == nil {
		return doc
	}
	return root
}

// Skip drops citation markers, reference lists, infoboxes, navboxes and edit links
func (a *WikipediaAdapter) Skip(n *html.Node) bool {
	if n.Data == "sup" && hasClass(n, "reference") {
		return true
	}
	if n.Data == "table" && (hasClass(n, "infobox") || hasClass(n, "navbox")) {
		return true
	}
	for _, class := range []string{"reflist", "mw-references-wrap", "navbox", "mw-editsection", "hatnote", "toc", "noprint"} {
		if hasClass(n, class) {
			return true
		}
	}
	return attr(n, "id") == "toc"
}
