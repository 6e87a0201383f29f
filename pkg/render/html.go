package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/jingkaihe/docpal/pkg/search"
)

// HTMLRenderer renders the results panel as markup for the documentation site
type HTMLRenderer struct{}

// Render writes the grouped results as an HTML fragment
func (HTMLRenderer) Render(v View) string {
	var b strings.Builder

	if v.Empty() {
		fmt.Fprintf(&b, "<div class=\"palette-empty\" aria-disabled=\"true\">%s</div>\n", html.EscapeString(NoResultsText(v.Query)))
		return b.String()
	}

	mark := func(s string) string { return "<mark>" + s + "</mark>" }
	escape := func(s string) string { return html.EscapeString(SanitizeText(s)) }

	row := 0
	for _, g := range v.Groups {
		fmt.Fprintf(&b, "<div class=\"palette-group\" data-kind=%q>\n", string(g.Kind))
		fmt.Fprintf(&b, "  <div class=\"palette-group-label\">%s</div>\n", html.EscapeString(g.Label))
		for _, res := range g.Results {
			class := "palette-item"
			if row == v.Selected {
				class += " selected"
			}
			fmt.Fprintf(&b, "  <div class=%q data-kind=%q data-id=%q data-index=\"%d\">", class, string(res.Item.Kind), html.EscapeString(res.Item.ID), row)
			if res.Item.Icon != "" {
				fmt.Fprintf(&b, "<span class=\"palette-item-icon\">%s</span>", escape(res.Item.Icon))
			}
			fmt.Fprintf(&b, "<span class=\"palette-item-title\">%s</span>", Highlight(res.Item.Title, res.TitlePositions, mark, escape))
			if res.Item.Description != "" {
				fmt.Fprintf(&b, "<span class=\"palette-item-desc\">%s</span>", Highlight(res.Item.Description, res.DescriptionPositions, mark, escape))
			}
			if res.Item.Kind == search.KindCommand && res.Item.Category != "" {
				fmt.Fprintf(&b, "<span class=\"palette-item-category\">%s</span>", escape(res.Item.Category))
			}
			b.WriteString("</div>\n")
			row++
		}
		b.WriteString("</div>\n")
	}

	return b.String()
}
