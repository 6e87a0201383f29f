package index

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/jingkaihe/docpal/pkg/page"
	"github.com/jingkaihe/docpal/pkg/search"
)

// DefaultCommandGlob matches markdown slash-command definitions
const DefaultCommandGlob = ".claude/commands/**/*.md"

func commandItem(name, description, category, keywords, icon string) search.Item {
	id := page.CommandID(name)
	return search.Item{
		Kind:        search.KindCommand,
		ID:          id,
		Title:       "/" + id,
		Description: description,
		Keywords:    keywords,
		Category:    category,
		Icon:        icon,
	}
}

func cardItems(p *page.Page) []search.Item {
	var items []search.Item
	for _, c := range p.Cards() {
		items = append(items, commandItem(c.ID, c.Description, c.Category, c.Search, ""))
	}
	return items
}

// commandFiles expands pattern relative to the builder root. Absolute
// patterns are matched against the filesystem directly.
func (b *Builder) commandFiles(pattern string) ([]string, error) {
	if filepath.IsAbs(pattern) {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Wrapf(err, "invalid command glob %q", pattern)
		}
		return matches, nil
	}

	matches, err := doublestar.Glob(os.DirFS(b.root), filepath.ToSlash(pattern), doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Wrapf(err, "invalid command glob %q", pattern)
	}
	for i, m := range matches {
		matches[i] = filepath.Join(b.root, filepath.FromSlash(m))
	}
	return matches, nil
}

// loadCommandFile reads a markdown command. The name defaults to the file
// stem, the description to the first paragraph and the category to the first
// directory below the glob's base.
func loadCommandFile(file, pattern string) (search.Item, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return search.Item{}, errors.Wrap(err, "failed to read command file")
	}

	doc, err := parseMarkdown(content)
	if err != nil {
		return search.Item{}, err
	}

	fm := doc.meta
	name := fm.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	if page.CommandID(name) == "" {
		return search.Item{}, errors.New("command has no name")
	}

	description := fm.Description
	if description == "" {
		description = doc.summary
	}

	category := fm.Category
	if category == "" {
		category = categoryFromPath(file, pattern)
	}

	return commandItem(name, description, category, fm.keywords(), fm.Icon), nil
}

func categoryFromPath(file, pattern string) string {
	base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
	slashed := filepath.ToSlash(file)

	idx := strings.Index(slashed, strings.TrimPrefix(base, "./")+"/")
	if base == "." || idx < 0 {
		return ""
	}
	rel := slashed[idx+len(strings.TrimPrefix(base, "./"))+1:]

	dir := path.Dir(rel)
	if dir == "." {
		return ""
	}
	return strings.SplitN(dir, "/", 2)[0]
}
