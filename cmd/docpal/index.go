package main

import (
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/docpal/pkg/config"
	"github.com/jingkaihe/docpal/pkg/index"
	"github.com/jingkaihe/docpal/pkg/presenter"
	"github.com/jingkaihe/docpal/pkg/search"
)

// IndexConfig holds flags for the index command
type IndexConfig struct {
	Strict bool
}

// NewIndexConfig creates an IndexConfig with default values
func NewIndexConfig() *IndexConfig {
	return &IndexConfig{
		Strict: false,
	}
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "List the sections and commands the palette searches",
	Long: `Build the search index from the configured page and command sources and
list every entry. Sources that could not be read are reported as warnings,
or as an error with --strict.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		indexConfig := getIndexConfigFromFlags(cmd)

		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			presenter.Error(err, "Invalid configuration")
			os.Exit(1)
		}

		content, err := loadContent(ctx, cfg)
		if err != nil {
			presenter.Error(err, "Failed to build index")
			os.Exit(1)
		}

		if !showIndex(presenter.New(), content.Index, indexConfig) {
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewIndexConfig()
	indexCmd.Flags().Bool("strict", defaults.Strict, "Exit with an error when any command source is skipped")
}

func getIndexConfigFromFlags(cmd *cobra.Command) *IndexConfig {
	indexConfig := NewIndexConfig()
	if strict, err := cmd.Flags().GetBool("strict"); err == nil {
		indexConfig.Strict = strict
	}
	return indexConfig
}

// showIndex prints idx and reports whether the run counts as a success
func showIndex(p presenter.Presenter, idx *index.Index, indexConfig *IndexConfig) bool {
	sections := idx.Sections()
	commands := idx.Commands()

	p.Section("Sections")
	for _, item := range sections {
		p.Item(itemLabel(item), item.Title, item.Description)
	}
	p.Separator()
	p.Section("Commands")
	for _, item := range commands {
		p.Item(itemLabel(item), item.Title, item.Description)
	}
	p.Separator()

	var problems []error
	if merr, ok := idx.Problems().(*multierror.Error); ok {
		problems = merr.WrappedErrors()
	}
	for _, problem := range problems {
		p.Warning(problem.Error())
	}

	p.Stats(&presenter.IndexStats{
		Sections: len(sections),
		Commands: len(commands),
		Problems: len(problems),
	})

	if indexConfig.Strict && len(problems) > 0 {
		p.Error(idx.Problems(), "Index has skipped sources")
		return false
	}
	return true
}

func itemLabel(item search.Item) string {
	if item.Kind == search.KindSection {
		if item.Icon != "" {
			return item.Icon
		}
		return "#" + item.ID
	}
	if item.Category != "" {
		return item.Category
	}
	return "command"
}
