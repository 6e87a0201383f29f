package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/jingkaihe/docpal/pkg/config"
	"github.com/jingkaihe/docpal/pkg/index"
	"github.com/jingkaihe/docpal/pkg/logger"
	"github.com/jingkaihe/docpal/pkg/page"
	"github.com/jingkaihe/docpal/pkg/tui"
)

// loadContent loads the configured page, when there is one, and builds the
// index from it and the command sources. Without a page one is assembled
// from the index.
func loadContent(ctx context.Context, cfg config.Config) (*tui.Content, error) {
	var p *page.Page
	if path := cfg.PagePath(); path != "" {
		loaded, err := page.Load(ctx, path)
		if err != nil {
			return nil, err
		}
		p = loaded
	}

	opts := cfg.IndexOptions()
	if p != nil {
		opts = append(opts, index.WithPage(p))
	}
	builder, err := index.NewBuilder(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to configure index")
	}
	idx, err := builder.Build(ctx)
	if err != nil {
		return nil, err
	}

	if problems := idx.Problems(); problems != nil {
		logger.G(ctx).WithError(problems).Warn("some command sources were skipped")
	}

	switch {
	case p == nil:
		p = idx.Page(cfg.Title, cfg.CommandsSection)
	case p.Title == "":
		p.Title = cfg.Title
	}

	return &tui.Content{Page: p, Index: idx}, nil
}

// watchPaths lists what a running palette reloads on
func watchPaths(cfg config.Config) []string {
	root := cfg.Root
	if root == "" {
		root = "."
	}
	paths := []string{root}
	if path := cfg.PagePath(); path != "" {
		paths = append(paths, path)
	}
	return paths
}

// watchIgnore lists files written or owned by docpal itself. A reload logs,
// so a log file under the root would otherwise trigger reloads forever.
func watchIgnore(cfg config.Config, configFile string) []string {
	var files []string
	for _, f := range []string{cfg.LogFile, configFile} {
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}
