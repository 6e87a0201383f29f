package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/jingkaihe/docpal/pkg/config"
	"github.com/jingkaihe/docpal/pkg/presenter"
	"github.com/jingkaihe/docpal/pkg/render"
	"github.com/jingkaihe/docpal/pkg/search"
)

// SearchConfig holds flags for the search command
type SearchConfig struct {
	Format string
	Limit  int
}

// NewSearchConfig creates a SearchConfig with default values
func NewSearchConfig() *SearchConfig {
	return &SearchConfig{
		Format: "text",
		Limit:  0,
	}
}

// Validate rejects unknown formats and negative limits
func (c *SearchConfig) Validate() error {
	switch c.Format {
	case "text", "json", "yaml", "html":
	default:
		return errors.Errorf("invalid format %q, must be one of: text, json, yaml, html", c.Format)
	}
	if c.Limit < 0 {
		return errors.Errorf("limit cannot be negative: %d", c.Limit)
	}
	return nil
}

// searchOutput is the structured form of a search
type searchOutput struct {
	Query  string         `json:"query" yaml:"query"`
	Total  int            `json:"total" yaml:"total"`
	Groups []search.Group `json:"groups" yaml:"groups"`
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search sections and commands without opening the palette",
	Long: `Rank sections and commands against a query the same way the palette does
and print the grouped results. An empty query lists everything.

Examples:
  docpal search feat
  docpal search "pull request" --format json
  docpal search test --limit 3 --format html`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		searchConfig := getSearchConfigFromFlags(cmd)
		if err := searchConfig.Validate(); err != nil {
			presenter.Error(err, "Invalid flags")
			os.Exit(1)
		}

		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			presenter.Error(err, "Invalid configuration")
			os.Exit(1)
		}

		content, err := loadContent(ctx, cfg)
		if err != nil {
			presenter.Error(err, "Failed to load content")
			os.Exit(1)
		}

		query := strings.Join(args, " ")
		view := searchView(cfg.Matcher(), content.Index.Items(), query, searchConfig.Limit)
		if err := writeSearch(os.Stdout, view, searchConfig.Format); err != nil {
			presenter.Error(err, "Failed to write results")
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewSearchConfig()
	searchCmd.Flags().StringP("format", "f", defaults.Format, "Output format (text, json, yaml, html)")
	searchCmd.Flags().IntP("limit", "n", defaults.Limit, "Maximum number of results (0 for no limit)")
}

func getSearchConfigFromFlags(cmd *cobra.Command) *SearchConfig {
	searchConfig := NewSearchConfig()
	if format, err := cmd.Flags().GetString("format"); err == nil {
		searchConfig.Format = format
	}
	if limit, err := cmd.Flags().GetInt("limit"); err == nil {
		searchConfig.Limit = limit
	}
	return searchConfig
}

// searchView ranks items and keeps the best limit results, 0 meaning all
func searchView(matcher *search.Matcher, items []search.Item, query string, limit int) render.View {
	results := matcher.Rank(items, query)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return render.NewView(query, results, 0)
}

func writeSearch(w io.Writer, view render.View, format string) error {
	out := searchOutput{Query: view.Query, Total: view.Len(), Groups: view.Groups}
	if out.Groups == nil {
		out.Groups = []search.Group{}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(out), "failed to encode results")
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return errors.Wrap(err, "failed to encode results")
		}
		return enc.Close()
	case "html":
		_, err := io.WriteString(w, render.HTMLRenderer{}.Render(view))
		return err
	default:
		return writeSearchText(w, view)
	}
}

func writeSearchText(w io.Writer, view render.View) error {
	if view.Empty() {
		_, err := fmt.Fprintln(w, render.NoResultsText(view.Query))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, g := range view.Groups {
		fmt.Fprintf(tw, "%s\n", g.Label)
		for _, res := range g.Results {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n",
				render.SanitizeText(res.Item.Title),
				res.Item.Category,
				render.SanitizeText(res.Item.Description))
		}
	}
	return tw.Flush()
}
