// Package page models the documentation page the palette navigates. A page is
// a list of anchored sections, some of which carry command cards.
package page

import (
	"context"
	"io"
	"os"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"github.com/jingkaihe/docpal/pkg/logger"
)

const (
	sectionSelector = "section[id]"
	cardSelector    = ".command-card"
)

// Card is a command card as it appears on the page
type Card struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Search is free text matched against but never displayed
	Search string `json:"search,omitempty" yaml:"search,omitempty"`
}

// Section is an anchored region of the page
type Section struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body,omitempty" yaml:"body,omitempty"`
	Cards []Card `json:"cards,omitempty" yaml:"cards,omitempty"`
}

// Page is a parsed documentation page
type Page struct {
	Title    string    `json:"title" yaml:"title"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// Section returns the section with the given anchor id
func (p *Page) Section(id string) (Section, bool) {
	for _, s := range p.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Cards returns every command card on the page in document order
func (p *Page) Cards() []Card {
	var cards []Card
	for _, s := range p.Sections {
		cards = append(cards, s.Cards...)
	}
	return cards
}

// Load reads and parses the HTML page at path
func Load(ctx context.Context, path string) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open page %s", path)
	}
	defer f.Close()

	p, err := Parse(ctx, f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse page %s", path)
	}
	return p, nil
}

// Parse builds a Page from HTML. Cards missing optional fields are kept with
// empty values; cards with no usable name are skipped.
func Parse(ctx context.Context, r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read html")
	}

	p := &Page{Title: cleanText(doc.Find("title").First().Text())}
	if p.Title == "" {
		p.Title = cleanText(doc.Find("h1").First().Text())
	}

	converter := md.NewConverter("", true, nil)
	log := logger.G(ctx)

	doc.Find(sectionSelector).Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("id")
		id = strings.TrimSpace(id)
		if id == "" {
			return
		}

		section := Section{
			ID:    id,
			Title: sectionTitle(sel, id),
		}

		sel.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
			c, ok := parseCard(card)
			if !ok {
				log.WithField("section", id).Debug("skipping command card without a name")
				return
			}
			section.Cards = append(section.Cards, c)
		})

		body := sel.Clone()
		body.Find(cardSelector).Remove()
		body.Find("h1, h2, h3").First().Remove()
		section.Body = strings.TrimSpace(converter.Convert(body))

		p.Sections = append(p.Sections, section)
	})

	return p, nil
}

func sectionTitle(sel *goquery.Selection, id string) string {
	if title, ok := sel.Attr("data-title"); ok && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title)
	}
	if title := cleanText(sel.Find("h1, h2, h3").First().Text()); title != "" {
		return title
	}
	return id
}

func parseCard(sel *goquery.Selection) (Card, bool) {
	name := attr(sel, "data-command")
	if name == "" {
		name = attr(sel, "data-name")
	}
	if name == "" {
		name = cleanText(sel.Find(".command-name, code").First().Text())
	}
	id := CommandID(name)
	if id == "" {
		return Card{}, false
	}

	desc := cleanText(sel.Find(".command-desc").First().Text())
	if desc == "" {
		desc = cleanText(sel.Find("p").First().Text())
	}

	return Card{
		ID:          id,
		Name:        "/" + id,
		Category:    attr(sel, "data-category"),
		Description: desc,
		Search:      attr(sel, "data-search"),
	}, true
}

// CommandID normalizes a command name to its id: no leading slash, no
// surrounding whitespace, and only the first word.
func CommandID(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimLeft(fields[0], "/")
}

func attr(sel *goquery.Selection, name string) string {
	v, _ := sel.Attr(name)
	return strings.TrimSpace(v)
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
