package index

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/docpal/pkg/page"
	"github.com/jingkaihe/docpal/pkg/search"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func ids(items []search.Item) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestNewOrdersAndDedupes(t *testing.T) {
	idx := New([]search.Item{
		{Kind: search.KindCommand, ID: "feature", Title: "/feature", Description: "first"},
		{Kind: search.KindSection, ID: "overview", Title: "Overview"},
		{Kind: search.KindCommand, ID: "feature", Title: "/feature", Description: "second"},
		{Kind: search.KindSection, ID: "commands", Title: "Commands"},
		{Kind: search.KindCommand, ID: "", Title: "/"},
		{Kind: search.KindCommand, ID: "commands", Title: "/commands"},
	})

	assert.Equal(t, []string{"overview", "commands", "feature", "commands"}, ids(idx.Items()))
	assert.Equal(t, 4, idx.Len())

	feature, ok := idx.Command("/feature")
	require.True(t, ok)
	assert.Equal(t, "first", feature.Description)

	_, ok = idx.Section("commands")
	assert.True(t, ok)
	_, ok = idx.Section("feature")
	assert.False(t, ok)
}

func TestItemsReturnsCopy(t *testing.T) {
	idx := New([]search.Item{{Kind: search.KindSection, ID: "overview", Title: "Overview"}})

	items := idx.Items()
	items[0].Title = "changed"

	assert.Equal(t, "Overview", idx.Items()[0].Title)
}

func TestBuildDefaultSections(t *testing.T) {
	b, err := NewBuilder(WithRoot(t.TempDir()))
	require.NoError(t, err)

	idx, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Len(t, idx.Sections(), len(DefaultSections))
	assert.Empty(t, idx.Commands())
	assert.NoError(t, idx.Problems())
}

func TestBuildFromPage(t *testing.T) {
	html := `<html><body>
<section id="intro"><h2>Intro</h2><p>Start here.</p></section>
<section id="commands"><h2>Commands</h2>
  <div class="command-card" data-command="/feature" data-category="workflow" data-search="plan build">
    <p class="command-desc">Implement a new feature</p>
  </div>
  <div class="command-card" data-command="/legacy-deploy"><p>Old deploy</p></div>
  <div class="command-card" data-command="/test"></div>
</section>
</body></html>`
	p, err := page.Parse(context.Background(), strings.NewReader(html))
	require.NoError(t, err)

	b, err := NewBuilder(WithRoot(t.TempDir()), WithPage(p), WithExclude("legacy-*"))
	require.NoError(t, err)

	idx, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"intro", "commands", "feature", "test"}, ids(idx.Items()))

	intro, _ := idx.Section("intro")
	assert.Equal(t, "Start here.", intro.Description)

	feature, ok := idx.Command("feature")
	require.True(t, ok)
	assert.Equal(t, search.Item{
		Kind:        search.KindCommand,
		ID:          "feature",
		Title:       "/feature",
		Description: "Implement a new feature",
		Keywords:    "plan build",
		Category:    "workflow",
	}, feature)

	test, _ := idx.Command("test")
	assert.Empty(t, test.Description, "missing description becomes empty")
}

func TestBuildConfiguredSectionsWin(t *testing.T) {
	p := &page.Page{Sections: []page.Section{{ID: "from-page", Title: "From Page"}}}

	b, err := NewBuilder(
		WithRoot(t.TempDir()),
		WithPage(p),
		WithSections(SectionSpec{ID: "custom", Title: "Custom", Icon: "*", Keywords: "mine"}),
	)
	require.NoError(t, err)

	idx, err := b.Build(context.Background())
	require.NoError(t, err)

	sections := idx.Sections()
	require.Len(t, sections, 1)
	assert.Equal(t, "custom", sections[0].ID)
	assert.Equal(t, "*", sections[0].Icon)
	assert.Equal(t, "mine", sections[0].Keywords)
}

func TestBuildMarkdownCommands(t *testing.T) {
	root := t.TempDir()
	commands := filepath.Join(root, ".claude", "commands")

	writeFile(t, filepath.Join(commands, "feature.md"), `---
description: Implement a new feature end to end
keywords: [plan, build]
---

# Feature

Ignored body.
`)
	writeFile(t, filepath.Join(commands, "git", "commit.md"), `# Commit

Create a conventional
commit from staged changes.
`)
	writeFile(t, filepath.Join(commands, "git", "pr.md"), `---
name: /pull-request
category: review
tags: github
---
Open a pull request.
`)
	writeFile(t, filepath.Join(commands, "broken.md"), "---\nname: [unclosed\n---\nbody\n")
	writeFile(t, filepath.Join(commands, "notes.txt"), "not a command")

	b, err := NewBuilder(WithRoot(root), WithSections(SectionSpec{ID: "commands", Title: "Commands"}))
	require.NoError(t, err)

	idx, err := b.Build(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"feature", "commit", "pull-request"}, ids(idx.Commands()))

	feature, _ := idx.Command("feature")
	assert.Equal(t, "/feature", feature.Title)
	assert.Equal(t, "Implement a new feature end to end", feature.Description)
	assert.Equal(t, "plan build", feature.Keywords)
	assert.Empty(t, feature.Category)

	commit, _ := idx.Command("commit")
	assert.Equal(t, "Create a conventional commit from staged changes.", commit.Description)
	assert.Equal(t, "git", commit.Category)

	pr, _ := idx.Command("pull-request")
	assert.Equal(t, "/pull-request", pr.Title)
	assert.Equal(t, "review", pr.Category)
	assert.Equal(t, "github", pr.Keywords)

	require.Error(t, idx.Problems())
	assert.Contains(t, idx.Problems().Error(), "broken.md")
}

func TestBuildSkills(t *testing.T) {
	root := t.TempDir()
	skills := filepath.Join(root, "skills")

	writeFile(t, filepath.Join(skills, "pdf", "SKILL.md"), `---
name: pdf
description: Read and fill PDF forms
---
# PDF
`)
	writeFile(t, filepath.Join(skills, "nameless", "SKILL.md"), `---
description: Missing a name
---
`)
	writeFile(t, filepath.Join(skills, "plain", "SKILL.md"), "# No frontmatter\n")
	writeFile(t, filepath.Join(skills, "empty", "README.md"), "not a skill")
	writeFile(t, filepath.Join(skills, "loose.md"), "not a directory")

	b, err := NewBuilder(WithRoot(root), WithCommandGlobs(), WithSkillDirs("skills", filepath.Join(root, "missing")))
	require.NoError(t, err)

	idx, err := b.Build(context.Background())
	require.NoError(t, err)

	require.Len(t, idx.Commands(), 1)
	pdf, ok := idx.Command("pdf")
	require.True(t, ok)
	assert.Equal(t, SkillCategory, pdf.Category)
	assert.Equal(t, "/pdf", pdf.Title)
	assert.Equal(t, "Read and fill PDF forms", pdf.Description)

	problems := idx.Problems()
	require.Error(t, problems)
	assert.Contains(t, problems.Error(), "skill name is required")
	assert.Contains(t, problems.Error(), "missing frontmatter")
}

func TestBuildPageCardsComeFirst(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".claude", "commands", "feature.md"), "---\ndescription: from markdown\n---\n")

	p := &page.Page{Sections: []page.Section{{
		ID:    "commands",
		Title: "Commands",
		Cards: []page.Card{{ID: "feature", Name: "/feature", Description: "from page"}},
	}}}

	b, err := NewBuilder(WithRoot(root), WithPage(p))
	require.NoError(t, err)

	idx, err := b.Build(context.Background())
	require.NoError(t, err)

	feature, _ := idx.Command("feature")
	assert.Equal(t, "from page", feature.Description)
	assert.Len(t, idx.Commands(), 1)
}

func TestInvalidExclude(t *testing.T) {
	_, err := NewBuilder(WithExclude("[unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid exclude pattern")
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b, err := NewBuilder(WithRoot(t.TempDir()))
	require.NoError(t, err)

	_, err = b.Build(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIndexPage(t *testing.T) {
	idx := New([]search.Item{
		{Kind: search.KindSection, ID: "overview", Title: "Overview", Description: "About"},
		{Kind: search.KindSection, ID: "commands", Title: "Commands"},
		{Kind: search.KindCommand, ID: "feature", Title: "/feature", Description: "Build it", Category: "workflow"},
	})

	p := idx.Page("Docs", "commands")
	assert.Equal(t, "Docs", p.Title)
	require.Len(t, p.Sections, 2)
	assert.Equal(t, "About", p.Sections[0].Body)
	require.Len(t, p.Sections[1].Cards, 1)
	assert.Equal(t, "/feature", p.Sections[1].Cards[0].Name)

	p = idx.Page("Docs", "slash")
	require.Len(t, p.Sections, 3)
	assert.Equal(t, "slash", p.Sections[2].ID)
	assert.Len(t, p.Sections[2].Cards, 1)
}
