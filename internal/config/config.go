package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/adrg/xdg"

	"github.com/nao1215/todolint/internal/filter"
	"github.com/nao1215/todolint/internal/matcher"
	"github.com/nao1215/todolint/internal/model"
)

const (
	// AppName is the application name used for XDG directory paths.
	AppName = "todolint"

	// DefaultRoot is scanned when no root is configured.
	DefaultRoot = "."

	// FormatText is the colored terminal report.
	FormatText = "text"

	// FormatMarkdown is the Markdown report.
	FormatMarkdown = "markdown"
)

// Config holds all options of a todolint run.
// It is built once from the configuration file and CLI flags and passed
// down explicitly; no package keeps global configuration state.
type Config struct {
	// Roots are the directories to scan.
	Roots []string

	// Tags are the tag definitions, in the order they are tried on a line.
	Tags []model.TagDefinition

	// Ignore are glob patterns of excluded paths. Finalize appends the
	// configuration file itself.
	Ignore []string

	// WarnLimit is the number of warn-eligible annotations tolerated.
	// Nil disables the threshold and the banner.
	WarnLimit *int

	// WarnTags lists the tags counted toward WarnLimit. Nil means every tag.
	WarnTags []string

	// WarnMessage overrides the generated banner text.
	WarnMessage string

	// WarnFail makes the run fail when WarnLimit is exceeded.
	WarnFail bool

	// ConfigFilePath is the path of the loaded configuration file, if any.
	ConfigFilePath string

	// Verbose enables debug logging.
	Verbose bool

	// Format is the report format, FormatText or FormatMarkdown.
	Format string

	// ColorMode is "auto", "always" or "never".
	ColorMode string

	// ReportFile is the output file path for the report. Empty means stdout.
	ReportFile string

	// Record saves a summary of the run to the history database.
	Record bool

	// DBDir is the directory of the history database.
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Roots:     []string{DefaultRoot},
		Format:    FormatText,
		ColorMode: "auto",
		DBDir:     XDGDataDir(),
	}
}

// ApplyFile copies the settings of a configuration file loaded from path
// into c. Empty settings in f leave the defaults in place.
func (c *Config) ApplyFile(f *File, path string) {
	c.ConfigFilePath = path
	// An explicit empty list is kept so that Validate rejects it.
	if f.Root != nil {
		c.Roots = []string(f.Root)
	}
	if len(f.Tags) > 0 {
		c.Tags = f.Tags
	}
	if len(f.Ignore) > 0 {
		c.Ignore = append(c.Ignore, f.Ignore...)
	}
	c.WarnLimit = f.Warn.Limit
	c.WarnTags = f.Warn.Tags
	c.WarnMessage = f.Warn.Message
	c.WarnFail = f.Warn.Fail
}

// Finalize appends the configuration file, relative to the working
// directory, to the ignore patterns. The file is never scanned.
func (c *Config) Finalize() {
	name := DefaultConfigFile
	if c.ConfigFilePath != "" {
		name = c.ConfigFilePath
		if abs, err := filepath.Abs(c.ConfigFilePath); err == nil {
			if wd, err := os.Getwd(); err == nil {
				if rel, err := filepath.Rel(wd, abs); err == nil {
					name = rel
				}
			}
		}
	}
	name = filepath.ToSlash(name)
	if !slices.Contains(c.Ignore, name) {
		c.Ignore = append(c.Ignore, name)
	}
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Roots) == 0 {
		return ErrNoRoot
	}
	for _, root := range c.Roots {
		if root == "" {
			return fmt.Errorf("%w: empty path", ErrInvalidRoot)
		}
	}

	names := make(map[string]bool, len(c.Tags))
	for i, tag := range c.Tags {
		if tag.Name == "" {
			return fmt.Errorf("%w: tag #%d", ErrNoTagName, i+1)
		}
		if names[tag.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateTag, tag.Name)
		}
		names[tag.Name] = true
		if tag.Regex == "" {
			return fmt.Errorf("%w: tag %q", ErrEmptyRegex, tag.Name)
		}
	}

	if c.WarnLimit != nil && *c.WarnLimit < 0 {
		return ErrNegativeLimit
	}
	for _, name := range c.WarnTags {
		if !names[name] {
			return fmt.Errorf("%w: %q", ErrUnknownWarnTag, name)
		}
	}

	if c.Format != FormatText && c.Format != FormatMarkdown {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Format)
	}
	return nil
}

// WarnEligible reports whether matches of the named tag count toward the
// warn limit.
func (c *Config) WarnEligible(name string) bool {
	if c.WarnTags == nil {
		return true
	}
	return slices.Contains(c.WarnTags, name)
}

// Banner returns the message printed when the warn limit is exceeded.
func (c *Config) Banner() string {
	if c.WarnMessage != "" {
		return c.WarnMessage
	}
	if c.WarnLimit != nil && *c.WarnLimit > 0 {
		return fmt.Sprintf("⚠ ⚠  WARNING!! There are more than %d items that need addressing!! ⚠ ⚠", *c.WarnLimit)
	}
	return "⚠ ⚠  WARNING!! There are items that need addressing!! ⚠ ⚠"
}

// CompileTags compiles the tag definitions in order.
func (c *Config) CompileTags() ([]*matcher.Tag, error) {
	tags := make([]*matcher.Tag, 0, len(c.Tags))
	for _, def := range c.Tags {
		tag, err := matcher.Compile(def, c.WarnEligible(def.Name))
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// Filter builds the ignore filter.
func (c *Config) Filter() (*filter.Filter, error) {
	return filter.New(c.Ignore...)
}

// XDGDataDir returns the XDG data directory for todolint.
// On Linux: ~/.local/share/todolint
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for todolint.
// On Linux: ~/.config/todolint
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}
