// Package index builds the immutable list of searchable items the palette
// ranks: page sections first, then commands gathered from the page's command
// cards, markdown command files and skill documents.
package index

import (
	"github.com/hashicorp/go-multierror"

	"github.com/jingkaihe/docpal/pkg/page"
	"github.com/jingkaihe/docpal/pkg/search"
)

// Index is an immutable set of search items. Sections always precede
// commands and ids are unique within a kind.
type Index struct {
	items    []search.Item
	byKey    map[key]int
	problems *multierror.Error
}

type key struct {
	kind search.Kind
	id   string
}

// New builds an index from items, keeping encounter order within each kind
// and dropping later duplicates.
func New(items []search.Item) *Index {
	idx := &Index{byKey: make(map[key]int)}

	for _, kind := range []search.Kind{search.KindSection, search.KindCommand} {
		for _, item := range items {
			if item.Kind != kind || item.ID == "" {
				continue
			}
			k := key{kind: item.Kind, id: item.ID}
			if _, dup := idx.byKey[k]; dup {
				continue
			}
			idx.byKey[k] = len(idx.items)
			idx.items = append(idx.items, item)
		}
	}

	return idx
}

// Items returns a copy of every item in display order
func (idx *Index) Items() []search.Item {
	out := make([]search.Item, len(idx.items))
	copy(out, idx.items)
	return out
}

// Len is the number of items
func (idx *Index) Len() int {
	return len(idx.items)
}

// Sections returns the section items
func (idx *Index) Sections() []search.Item {
	return idx.ofKind(search.KindSection)
}

// Commands returns the command items
func (idx *Index) Commands() []search.Item {
	return idx.ofKind(search.KindCommand)
}

// Section looks up a section by id
func (idx *Index) Section(id string) (search.Item, bool) {
	return idx.lookup(search.KindSection, id)
}

// Command looks up a command by id. A leading slash is ignored.
func (idx *Index) Command(id string) (search.Item, bool) {
	return idx.lookup(search.KindCommand, page.CommandID(id))
}

// Problems returns the source problems tolerated while building, or nil
func (idx *Index) Problems() error {
	return idx.problems.ErrorOrNil()
}

// Page lays the index out as a page: one section per section item, with
// every command listed under commandsSection. It is used when no HTML page
// is configured.
func (idx *Index) Page(title, commandsSection string) *page.Page {
	p := &page.Page{Title: title}

	var cards []page.Card
	for _, c := range idx.Commands() {
		cards = append(cards, page.Card{
			ID:          c.ID,
			Name:        c.Title,
			Category:    c.Category,
			Description: c.Description,
			Search:      c.Keywords,
		})
	}

	placed := false
	for _, s := range idx.Sections() {
		section := page.Section{ID: s.ID, Title: s.Title, Body: s.Description}
		if s.ID == commandsSection {
			section.Cards = cards
			placed = true
		}
		p.Sections = append(p.Sections, section)
	}
	if !placed && len(cards) > 0 {
		p.Sections = append(p.Sections, page.Section{ID: commandsSection, Title: "Commands", Cards: cards})
	}

	return p
}

func (idx *Index) ofKind(kind search.Kind) []search.Item {
	var out []search.Item
	for _, item := range idx.items {
		if item.Kind == kind {
			out = append(out, item)
		}
	}
	return out
}

func (idx *Index) lookup(kind search.Kind, id string) (search.Item, bool) {
	i, ok := idx.byKey[key{kind: kind, id: id}]
	if !ok {
		return search.Item{}, false
	}
	return idx.items[i], true
}
