package index

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/jingkaihe/docpal/pkg/search"
)

const (
	skillFileName = "SKILL.md"
	// SkillCategory is the category every skill command is filed under
	SkillCategory = "skill"
)

// discoverSkills loads every <dir>/<skill>/SKILL.md. A skill needs both a
// name and a description in its frontmatter; anything else is reported as a
// problem and skipped.
func (b *Builder) discoverSkills(dir string) ([]search.Item, []error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []error{errors.Wrapf(err, "failed to read skill directory %s", dir)}
	}

	var (
		items    []search.Item
		problems []error
	)
	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())

		// Stat follows symlinked skill directories
		info, err := os.Stat(entryPath)
		if err != nil || !info.IsDir() {
			continue
		}

		skillPath := filepath.Join(entryPath, skillFileName)
		if _, err := os.Stat(skillPath); err != nil {
			continue
		}

		item, err := loadSkill(skillPath)
		if err != nil {
			problems = append(problems, errors.Wrapf(err, "skill %s", skillPath))
			continue
		}
		items = append(items, item)
	}

	return items, problems
}

func loadSkill(path string) (search.Item, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return search.Item{}, errors.Wrap(err, "failed to read skill file")
	}

	doc, err := parseMarkdown(content)
	if err != nil {
		return search.Item{}, err
	}
	if !doc.hasMeta {
		return search.Item{}, errors.New("missing frontmatter")
	}
	if doc.meta.Name == "" {
		return search.Item{}, errors.New("skill name is required in frontmatter")
	}
	if doc.meta.Description == "" {
		return search.Item{}, errors.New("skill description is required in frontmatter")
	}

	return commandItem(doc.meta.Name, doc.meta.Description, SkillCategory, doc.meta.keywords(), doc.meta.Icon), nil
}
