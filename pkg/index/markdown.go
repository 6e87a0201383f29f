package index

import (
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// frontmatter is the subset of command and skill frontmatter the index reads
type frontmatter struct {
	Name        string   `mapstructure:"name"`
	Description string   `mapstructure:"description"`
	Category    string   `mapstructure:"category"`
	Keywords    []string `mapstructure:"keywords"`
	Tags        []string `mapstructure:"tags"`
	Search      string   `mapstructure:"search"`
	Icon        string   `mapstructure:"icon"`
}

func (f frontmatter) keywords() string {
	words := append(append([]string{}, f.Keywords...), f.Tags...)
	if f.Search != "" {
		words = append(words, f.Search)
	}
	return strings.Join(words, " ")
}

// document is a parsed markdown file
type document struct {
	meta    frontmatter
	hasMeta bool
	// summary is the text of the first paragraph
	summary string
}

func parseMarkdown(content []byte) (*document, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	pctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(content), parser.WithContext(pctx))

	doc := &document{}

	raw, err := meta.TryGet(pctx)
	if err != nil {
		return nil, errors.Wrap(err, "invalid frontmatter")
	}
	if len(raw) > 0 {
		doc.hasMeta = true
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &doc.meta,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create frontmatter decoder")
		}
		if err := decoder.Decode(raw); err != nil {
			return nil, errors.Wrap(err, "failed to decode frontmatter")
		}
	}

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		p, ok := n.(*ast.Paragraph)
		if !ok {
			return ast.WalkContinue, nil
		}
		var parts []string
		lines := p.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			parts = append(parts, string(seg.Value(content)))
		}
		doc.summary = strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
		return ast.WalkStop, nil
	})

	return doc, nil
}
