package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/docpal/pkg/config"
	"github.com/jingkaihe/docpal/pkg/logger"
	"github.com/jingkaihe/docpal/pkg/presenter"
	"github.com/jingkaihe/docpal/pkg/tui"
)

// logCloser releases the log file opened by setupLogging
var logCloser io.Closer

// OpenConfig holds flags for the interactive palette
type OpenConfig struct {
	Watch bool
}

// NewOpenConfig creates an OpenConfig with default values
func NewOpenConfig() *OpenConfig {
	return &OpenConfig{
		Watch: false,
	}
}

var rootCmd = &cobra.Command{
	Use:   "docpal",
	Short: "Search and navigate an agent toolkit's documentation from the terminal",
	Long: `docpal shows a documentation page for a coding-agent toolkit and a command
palette over it. Press ctrl+k or / to search sections and slash commands,
use the arrow keys to choose, and enter to jump to the result.

The page is read from --page when set. Otherwise it is assembled from the
commands and skills found under --root.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()
		openConfig := getOpenConfigFromFlags(cmd)

		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			presenter.Error(err, "Invalid configuration")
			os.Exit(1)
		}

		if err := runOpen(ctx, cfg, openConfig); err != nil {
			presenter.Error(err, "Failed to run the palette")
			os.Exit(1)
		}
	},
}

func init() {
	config.Init(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default is ./config.yaml or $HOME/.docpal/config.yaml)")
	flags.String("page", "", "HTML documentation page to show")
	flags.String("root", ".", "Directory commands and skills are discovered under")
	flags.String("title", "", "Page title when the page is assembled from the index")
	flags.String("commands-section", "", "Section id command cards are listed under")
	flags.String("profile", "", "Configuration profile to apply")
	flags.String("log-level", "", "Log level (panic, fatal, error, warn, info, debug, trace)")
	flags.String("log-format", "", "Log format (fmt, json)")
	flags.String("log-file", "", "Write logs to this file")

	for key, flag := range map[string]string{
		"page":             "page",
		"root":             "root",
		"title":            "title",
		"commands_section": "commands-section",
		"profile":          "profile",
		"log_level":        "log-level",
		"log_format":       "log-format",
		"log_file":         "log-file",
	} {
		viper.BindPFlag(key, flags.Lookup(flag))
	}

	defaults := NewOpenConfig()
	rootCmd.Flags().BoolP("watch", "w", defaults.Watch, "Reload when the page or command sources change")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if err := readConfigFile(cmd); err != nil {
			return err
		}
		// The palette owns the terminal, so logs only go to a file there.
		return setupLogging(!cmd.HasParent())
	}
}

func getOpenConfigFromFlags(cmd *cobra.Command) *OpenConfig {
	openConfig := NewOpenConfig()
	if watch, err := cmd.Flags().GetBool("watch"); err == nil {
		openConfig.Watch = watch
	}
	return openConfig
}

func readConfigFile(cmd *cobra.Command) error {
	if file, _ := cmd.Flags().GetString("config"); file != "" {
		viper.SetConfigFile(file)
		return errors.Wrapf(viper.ReadInConfig(), "failed to read config file %s", file)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(err, "failed to read config file")
	}
	return nil
}

func setupLogging(interactive bool) error {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	opts := cfg.LoggerOptions()
	opts.Discard = interactive

	closer, err := logger.Configure(opts)
	if err != nil {
		return err
	}
	logCloser = closer
	return nil
}

func runOpen(ctx context.Context, cfg config.Config, openConfig *OpenConfig) error {
	load := func() (*tui.Content, error) {
		return loadContent(ctx, cfg)
	}

	opts := tui.StartOptions{
		Model: []tui.Option{
			tui.WithCommandsSection(cfg.CommandsSection),
			tui.WithDebounce(cfg.Palette.Debounce),
			tui.WithMatcher(cfg.Matcher()),
		},
	}
	if openConfig.Watch {
		opts.WatchPaths = watchPaths(cfg)
		opts.WatchIgnore = watchIgnore(cfg, viper.ConfigFileUsed())
	}
	return tui.Start(ctx, load, opts)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(versionCmd)

	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if logCloser != nil {
		logCloser.Close()
	}
	if err != nil {
		presenter.Error(err, "")
		os.Exit(1)
	}
}
