package index

import (
	"strings"

	"github.com/jingkaihe/docpal/pkg/page"
	"github.com/jingkaihe/docpal/pkg/search"
)

// SectionSpec is a hand-authored section descriptor
type SectionSpec struct {
	ID          string `mapstructure:"id" json:"id" yaml:"id"`
	Title       string `mapstructure:"title" json:"title" yaml:"title"`
	Icon        string `mapstructure:"icon" json:"icon,omitempty" yaml:"icon,omitempty"`
	Description string `mapstructure:"description" json:"description,omitempty" yaml:"description,omitempty"`
	Keywords    string `mapstructure:"keywords" json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// DefaultSections are used when neither configuration nor a page supplies
// any sections
var DefaultSections = []SectionSpec{
	{ID: "overview", Title: "Overview", Icon: "📘", Description: "What the toolkit is and how it fits together", Keywords: "intro start about"},
	{ID: "commands", Title: "Commands", Icon: "⚡", Description: "Every slash command with its purpose", Keywords: "slash reference"},
	{ID: "skills", Title: "Skills", Icon: "🧠", Description: "Reusable skill documents loaded on demand", Keywords: "skill capability"},
	{ID: "agents", Title: "Agents", Icon: "🤖", Description: "Specialised agent prompt templates", Keywords: "subagent prompt"},
	{ID: "rules", Title: "Rules", Icon: "📏", Description: "Rule files applied to every session", Keywords: "guidelines conventions"},
	{ID: "workflow", Title: "Workflow", Icon: "🔁", Description: "How plans, commands and reviews chain together", Keywords: "process plan"},
}

func (s SectionSpec) item() search.Item {
	return search.Item{
		Kind:        search.KindSection,
		ID:          strings.TrimSpace(s.ID),
		Title:       s.Title,
		Description: s.Description,
		Keywords:    s.Keywords,
		Icon:        s.Icon,
	}
}

// sectionsFromPage derives descriptors from the page's anchored sections.
// The description is the first line of the section body.
func sectionsFromPage(p *page.Page) []SectionSpec {
	specs := make([]SectionSpec, 0, len(p.Sections))
	for _, s := range p.Sections {
		specs = append(specs, SectionSpec{
			ID:          s.ID,
			Title:       s.Title,
			Description: firstLine(s.Body),
		})
	}
	return specs
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
