package index

import (
	"context"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/jingkaihe/docpal/pkg/logger"
	"github.com/jingkaihe/docpal/pkg/page"
	"github.com/jingkaihe/docpal/pkg/search"
)

// Builder collects sections and commands from the configured sources
type Builder struct {
	root         string
	sections     []SectionSpec
	page         *page.Page
	commandGlobs []string
	skillDirs    []string
	exclude      []glob.Glob
}

// Option configures a Builder
type Option func(*Builder) error

// WithRoot sets the directory relative globs and skill directories resolve
// against
func WithRoot(dir string) Option {
	return func(b *Builder) error {
		b.root = dir
		return nil
	}
}

// WithSections sets hand-authored section descriptors
func WithSections(sections ...SectionSpec) Option {
	return func(b *Builder) error {
		b.sections = sections
		return nil
	}
}

// WithPage scans p for sections and command cards
func WithPage(p *page.Page) Option {
	return func(b *Builder) error {
		b.page = p
		return nil
	}
}

// WithCommandGlobs sets the doublestar patterns for markdown command files
func WithCommandGlobs(patterns ...string) Option {
	return func(b *Builder) error {
		b.commandGlobs = patterns
		return nil
	}
}

// WithSkillDirs sets directories scanned for <name>/SKILL.md
func WithSkillDirs(dirs ...string) Option {
	return func(b *Builder) error {
		b.skillDirs = dirs
		return nil
	}
}

// WithExclude drops commands whose id matches any of the glob patterns
func WithExclude(patterns ...string) Option {
	return func(b *Builder) error {
		for _, pattern := range patterns {
			g, err := glob.Compile(pattern)
			if err != nil {
				return errors.Wrapf(err, "invalid exclude pattern %q", pattern)
			}
			b.exclude = append(b.exclude, g)
		}
		return nil
	}
}

// NewBuilder creates a builder. Without options it reads markdown commands
// from DefaultCommandGlob under the working directory.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		root:         ".",
		commandGlobs: []string{DefaultCommandGlob},
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Build gathers every source into an Index. Unreadable or malformed sources
// are skipped and reported through Index.Problems; only cancellation fails
// the build.
func (b *Builder) Build(ctx context.Context) (*Index, error) {
	log := logger.G(ctx).WithField("component", "index")

	var (
		items    []search.Item
		problems *multierror.Error
	)

	for _, spec := range b.sectionSpecs() {
		items = append(items, spec.item())
	}

	if b.page != nil {
		items = append(items, b.filter(cardItems(b.page))...)
	}

	for _, pattern := range b.commandGlobs {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "index build cancelled")
		}

		files, err := b.commandFiles(pattern)
		if err != nil {
			problems = multierror.Append(problems, err)
			continue
		}
		for _, file := range files {
			item, err := loadCommandFile(file, pattern)
			if err != nil {
				problems = multierror.Append(problems, errors.Wrapf(err, "command %s", file))
				continue
			}
			items = append(items, b.filter([]search.Item{item})...)
		}
	}

	for _, dir := range b.skillDirs {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "index build cancelled")
		}

		skills, errs := b.discoverSkills(b.resolve(dir))
		problems = multierror.Append(problems, errs...)
		items = append(items, b.filter(skills)...)
	}

	idx := New(items)
	idx.problems = problems

	entry := log.WithFields(map[string]interface{}{
		"sections": len(idx.Sections()),
		"commands": len(idx.Commands()),
	})
	if err := idx.Problems(); err != nil {
		entry.WithError(err).Debug("index built with skipped sources")
	} else {
		entry.Debug("index built")
	}

	return idx, nil
}

func (b *Builder) sectionSpecs() []SectionSpec {
	switch {
	case len(b.sections) > 0:
		return b.sections
	case b.page != nil && len(b.page.Sections) > 0:
		return sectionsFromPage(b.page)
	default:
		return DefaultSections
	}
}

func (b *Builder) filter(items []search.Item) []search.Item {
	if len(b.exclude) == 0 {
		return items
	}
	kept := items[:0:0]
	for _, item := range items {
		if b.excluded(item.ID) {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

func (b *Builder) excluded(id string) bool {
	for _, g := range b.exclude {
		if g.Match(id) || g.Match("/"+id) {
			return true
		}
	}
	return false
}

func (b *Builder) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(b.root, dir)
}
