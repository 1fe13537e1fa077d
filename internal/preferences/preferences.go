// Package preferences manages the user's query and output defaults, stored as
// JSON in ~/.gsc-cli/config.json next to the credential file.
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default preference values
const (
	DefaultDimensions   = "query"
	DefaultMetrics      = "clicks,impressions,ctr,position"
	DefaultRowLimit     = 100
	DefaultStartDaysAgo = 30
	DefaultEndDaysAgo   = 3
	DefaultOutputFormat = "table"
)

const (
	defaultDirName  = ".gsc-cli"
	defaultFileName = "config.json"
	dateLayout      = "2006-01-02"

	preferencesFileMode = 0600
	preferencesDirMode  = 0700
)

// Preferences are the user's defaults for queries and output.
type Preferences struct {
	DefaultSite         string `json:"defaultSite,omitempty"`
	DefaultDimensions   string `json:"defaultDimensions" validate:"required"`
	DefaultMetrics      string `json:"defaultMetrics" validate:"required"`
	DefaultRowLimit     int    `json:"defaultRowLimit" validate:"min=1,max=25000"`
	DefaultStartDaysAgo int    `json:"defaultStartDaysAgo" validate:"min=0"`
	DefaultEndDaysAgo   int    `json:"defaultEndDaysAgo" validate:"min=0"`
	OutputFormat        string `json:"outputFormat" validate:"oneof=table json csv"`
}

// Default returns the built-in preferences.
func Default() Preferences {
	return Preferences{
		DefaultDimensions:   DefaultDimensions,
		DefaultMetrics:      DefaultMetrics,
		DefaultRowLimit:     DefaultRowLimit,
		DefaultStartDaysAgo: DefaultStartDaysAgo,
		DefaultEndDaysAgo:   DefaultEndDaysAgo,
		OutputFormat:        DefaultOutputFormat,
	}
}

// Validate checks value ranges and enums.
func (p Preferences) Validate() error {
	return validator.New().Struct(p)
}

// DateRange returns the default start and end dates relative to now, in UTC.
func (p Preferences) DateRange(now time.Time) (start, end string) {
	now = now.UTC()
	start = now.AddDate(0, 0, -p.DefaultStartDaysAgo).Format(dateLayout)
	end = now.AddDate(0, 0, -p.DefaultEndDaysAgo).Format(dateLayout)
	return start, end
}

// Keys lists the settable preference keys.
func Keys() []string {
	return []string{
		"defaultSite",
		"defaultDimensions",
		"defaultMetrics",
		"defaultRowLimit",
		"defaultStartDaysAgo",
		"defaultEndDaysAgo",
		"outputFormat",
	}
}

// Set assigns value to the preference named key. The result is validated as a
// whole, so p is unchanged on error.
func (p *Preferences) Set(key, value string) error {
	next := *p
	value = strings.TrimSpace(value)

	switch key {
	case "defaultSite":
		next.DefaultSite = value
	case "defaultDimensions":
		next.DefaultDimensions = value
	case "defaultMetrics":
		next.DefaultMetrics = value
	case "outputFormat":
		next.OutputFormat = strings.ToLower(value)
	case "defaultRowLimit", "defaultStartDaysAgo", "defaultEndDaysAgo":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		switch key {
		case "defaultRowLimit":
			next.DefaultRowLimit = n
		case "defaultStartDaysAgo":
			next.DefaultStartDaysAgo = n
		default:
			next.DefaultEndDaysAgo = n
		}
	default:
		return fmt.Errorf("unknown preference %q (expected one of %s)", key, strings.Join(Keys(), ", "))
	}

	if err := next.Validate(); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*p = next
	return nil
}

// DefaultPath returns ~/.gsc-cli/config.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, defaultDirName, defaultFileName), nil
}

// File reads and writes preferences at a fixed path.
type File struct {
	path string
}

// NewFile creates a File. No I/O is performed.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("preferences file path is required")
	}
	return &File{path: path}, nil
}

// Path returns the file location.
func (f *File) Path() string {
	return f.path
}

// Load returns the stored preferences layered over the defaults. A missing file
// yields the defaults; an unreadable or invalid one logs a warning and yields the
// defaults too.
func (f *File) Load(ctx context.Context) Preferences {
	defaults := Default()

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaultsMap(defaults), "."), nil); err != nil {
		slog.WarnContext(ctx, "could not load preference defaults", "error", err)
		return defaults
	}

	if err := k.Load(file.Provider(f.path), kjson.Parser()); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.WarnContext(ctx, "could not load config file, using defaults", "path", f.path, "error", err)
		}
		return defaults
	}

	var prefs Preferences
	if err := k.UnmarshalWithConf("", &prefs, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		slog.WarnContext(ctx, "could not load config file, using defaults", "path", f.path, "error", err)
		return defaults
	}
	if err := prefs.Validate(); err != nil {
		slog.WarnContext(ctx, "config file has invalid values, using defaults", "path", f.path, "error", err)
		return defaults
	}

	return prefs
}

// Save writes prefs with owner-only permissions, creating the directory if needed.
func (f *File) Save(ctx context.Context, prefs Preferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := prefs.Validate(); err != nil {
		return fmt.Errorf("invalid preferences: %w", err)
	}

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), preferencesDirMode); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}
	if err := os.WriteFile(f.path, append(data, '\n'), preferencesFileMode); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(f.path, preferencesFileMode); err != nil {
		return fmt.Errorf("failed to set preferences file permissions: %w", err)
	}

	slog.DebugContext(ctx, "preferences saved", "path", f.path)
	return nil
}

func defaultsMap(p Preferences) map[string]any {
	m := map[string]any{
		"defaultDimensions":   p.DefaultDimensions,
		"defaultMetrics":      p.DefaultMetrics,
		"defaultRowLimit":     p.DefaultRowLimit,
		"defaultStartDaysAgo": p.DefaultStartDaysAgo,
		"defaultEndDaysAgo":   p.DefaultEndDaysAgo,
		"outputFormat":        p.OutputFormat,
	}
	if p.DefaultSite != "" {
		m["defaultSite"] = p.DefaultSite
	}
	return m
}
