package adapters

import (
	"strings"

	"golang.org/x/net/html"
)

// LegalAdapter handles legislation and court portals
type LegalAdapter struct {
	legalDomains []string
}

// NewLegalAdapter creates a new legal document adapter
func NewLegalAdapter() *LegalAdapter {
	return &LegalAdapter{
		legalDomains: []string{
			"legislation.gov.uk",
			"law.cornell.edu",
			"justice.gov",
			"supremecourt.gov",
			"congress.gov",
			"eur-lex.europa.eu",
		},
	}
}

// Name returns the adapter name
func (a *LegalAdapter) Name() string {
	return "legal"
}

// CanHandle checks for a known legal domain
func (a *LegalAdapter) CanHandle(host string) bool {
	for _, domain := range a.legalDomains {
		if matchesDomain(host, domain) {
			return true
		}
	}
	return false
}

// ContentRoot prefers <main>, an element with role=main, then <article>
func (a *LegalAdapter) ContentRoot(doc *html.Node) *html.Node {
	root := firstOf(doc,
		tag("main"),
		func(n *html.Node) bool { return attr(n, "role") == "main" },
		tag("article"),
		tag("body"),
	)
	if root == nil {
		return doc
	}
	return root
}

// Skip drops chrome plus breadcrumb and print/share toolbars
func (a *LegalAdapter) Skip(n *html.Node) bool {
	switch n.Data {
	case "nav", "header", "footer", "aside", "form":
		return true
	}
	class := strings.ToLower(attr(n, "class"))
	return strings.Contains(class, "breadcrumb") || strings.Contains(class, "toolbar")
}
