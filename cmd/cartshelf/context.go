package main

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"cartshelf/internal/config"
	"cartshelf/internal/logging"
	"cartshelf/internal/naming"
	"cartshelf/internal/services"
	"cartshelf/internal/services/ipfs"
	"cartshelf/internal/services/itch"
	"cartshelf/internal/services/tic80"
)

// namingFlagValues holds the global flags that override the configured
// filename generation preferences. Empty means "use the config value".
type namingFlagValues struct {
	folderOrganization  string
	filenameCase        string
	categoryParenthesis string
	useCustomFilenames  string
	useCustomGamenames  string
}

func (f *namingFlagValues) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&f.folderOrganization, "folder-organization", "", `ROM layout: "single" or "multiple"`)
	flags.StringVar(&f.filenameCase, "filename-case", "", `Filename case: "unchanged", "uppercase", or "lowercase"`)
	flags.StringVar(&f.categoryParenthesis, "category-parenthesis", "", `Append the category in parenthesis to filenames: true or false`)
	flags.StringVar(&f.useCustomFilenames, "use-custom-filenames", "", `Prefer name_overwrite for filenames: true or false`)
	flags.StringVar(&f.useCustomGamenames, "use-custom-gamenames", "", `Prefer name_overwrite for display names: true or false`)
}

func (f *namingFlagValues) apply(opts *naming.Options) {
	if v := strings.TrimSpace(f.folderOrganization); v != "" {
		opts.FolderOrganization = v
	}
	if v := strings.TrimSpace(f.filenameCase); v != "" {
		opts.FilenameCase = v
	}
	applyBoolFlag(&opts.CategoryParenthesis, f.categoryParenthesis)
	applyBoolFlag(&opts.UseCustomFilenames, f.useCustomFilenames)
	applyBoolFlag(&opts.UseCustomGamenames, f.useCustomGamenames)
}

func applyBoolFlag(target *bool, raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}
	if v, err := strconv.ParseBool(strings.ToLower(raw)); err == nil {
		*target = v
	}
}

type commandContext struct {
	configFlag  *string
	namingFlags *namingFlagValues

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, namingFlags *namingFlagValues) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		namingFlags: namingFlags,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// namingOptions resolves the effective filename preferences: the configured
// defaults with any set global flag applied on top.
func (c *commandContext) namingOptions(cfg *config.Config) naming.Options {
	opts := naming.Options{
		FolderOrganization:  cfg.Naming.FolderOrganization,
		FilenameCase:        cfg.Naming.FilenameCase,
		CategoryParenthesis: cfg.Naming.CategoryParenthesis,
		UseCustomFilenames:  cfg.Naming.UseCustomFilenames,
		UseCustomGamenames:  cfg.Naming.UseCustomGamenames,
	}
	if c.namingFlags != nil {
		c.namingFlags.apply(&opts)
	}
	return opts
}

func (c *commandContext) requestTimeout(cfg *config.Config) time.Duration {
	if cfg.Network.RequestTimeout > 0 {
		return time.Duration(cfg.Network.RequestTimeout) * time.Second
	}
	return 30 * time.Second
}

func (c *commandContext) tic80Client(cfg *config.Config, logger *slog.Logger) *tic80.Client {
	return tic80.NewClient(logger, cfg.Network.UserAgent, c.requestTimeout(cfg))
}

// itchClient loads saved browser headers when the configured header file
// exists. Without them itch.io tends to answer with a challenge page.
func (c *commandContext) itchClient(cfg *config.Config, logger *slog.Logger) *itch.Client {
	var opts []itch.Option
	if path := strings.TrimSpace(cfg.Paths.ItchHeaderPath); path != "" {
		if raw, err := os.ReadFile(path); err == nil {
			opts = append(opts, itch.WithHeaders(services.ParseRawHeaders(string(raw))))
		}
	}
	return itch.NewClient(logger, cfg.Network.UserAgent, c.requestTimeout(cfg), opts...)
}

func (c *commandContext) ipfsClient(cfg *config.Config, logger *slog.Logger) *ipfs.Client {
	return ipfs.NewClient(logger, cfg.Network.IPFSGateways, cfg.Network.UserAgent, c.requestTimeout(cfg))
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
