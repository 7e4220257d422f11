package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// File names read by Load.
const (
	GlobalFile  = "config.yaml"
	ProjectFile = ".nbjekyll.yaml"
	envPrefix   = "NBJEKYLL"
)

// ErrInvalid wraps unreadable config files and failed validation.
var ErrInvalid = errors.New("invalid config")

// Header types accepted by header_type.
var headerTypes = []any{"markdown", "raw"}

var logLevels = []any{"debug", "info", "warn", "error"}

// Config is the resolved nbjekyll configuration.
type Config struct {
	HeaderType     string `mapstructure:"header_type"`
	FrontMatterTag string `mapstructure:"front_matter_tag"`
	RawTag         string `mapstructure:"raw_tag"`
	Template       string `mapstructure:"template"`
	LogLevel       string `mapstructure:"log_level"`
	Jobs           int    `mapstructure:"jobs"`

	Trust TrustConfig `mapstructure:"trust"`
	Hooks HooksConfig `mapstructure:"hooks"`
	Watch WatchConfig `mapstructure:"watch"`

	// Files lists the configuration files that were read, in order.
	Files []string `mapstructure:"-"`
}

// TrustConfig controls notebook signing.
type TrustConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	SecretFile string `mapstructure:"secret_file"`
	DBPath     string `mapstructure:"db_path"`
}

// HooksConfig selects the notebooks git hooks act on.
type HooksConfig struct {
	Patterns []string `mapstructure:"patterns"`
}

// WatchConfig tunes the directory watcher.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// LoadOptions tells Load where to look.
type LoadOptions struct {
	// ConfigFile replaces the global and project files when set.
	ConfigFile string
	// ProjectDir holds .nbjekyll.yaml. Defaults to the working directory.
	ProjectDir string
	// Flags are bound to keys by FlagKeys (config key to flag name).
	Flags    *pflag.FlagSet
	FlagKeys map[string]string
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		HeaderType:     "markdown",
		FrontMatterTag: "jekyll_front_matter",
		RawTag:         "jekyll_raw_tag",
		Template:       "default",
		LogLevel:       "info",
		Jobs:           runtime.NumCPU(),
		Trust: TrustConfig{
			Enabled:    true,
			SecretFile: Path("notebook_secret"),
			DBPath:     Path("nbsignatures.db"),
		},
		Hooks: HooksConfig{Patterns: []string{"*.ipynb"}},
		Watch: WatchConfig{Debounce: 200 * time.Millisecond},
	}
}

// Load resolves the configuration from defaults, the global config file,
// the project file, NBJEKYLL_* environment variables and bound flags, in
// increasing precedence, then validates it.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetConfigType("yaml")

	files, err := readFiles(v, opts)
	if err != nil {
		return nil, err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for key, name := range opts.FlagKeys {
			flag := opts.Flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("binding flag --%s: %w", name, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Files = files

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("header_type", d.HeaderType)
	v.SetDefault("front_matter_tag", d.FrontMatterTag)
	v.SetDefault("raw_tag", d.RawTag)
	v.SetDefault("template", d.Template)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("jobs", d.Jobs)
	v.SetDefault("trust.enabled", d.Trust.Enabled)
	v.SetDefault("trust.secret_file", d.Trust.SecretFile)
	v.SetDefault("trust.db_path", d.Trust.DBPath)
	v.SetDefault("hooks.patterns", d.Hooks.Patterns)
	v.SetDefault("watch.debounce", d.Watch.Debounce)
}

// readFiles merges the config files into v and returns the ones read.
func readFiles(v *viper.Viper, opts LoadOptions) ([]string, error) {
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: reading config %s: %w", ErrInvalid, opts.ConfigFile, err)
		}
		return []string{opts.ConfigFile}, nil
	}

	projectDir := opts.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}
	candidates := []string{filepath.Join(projectDir, ProjectFile)}
	if global := Path(GlobalFile); global != "" {
		candidates = append([]string{global}, candidates...)
	}

	var read []string
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("checking config %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("%w: reading config %s: %w", ErrInvalid, path, err)
		}
		read = append(read, path)
	}
	return read, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.HeaderType, validation.Required, validation.In(headerTypes...).
			Error("must be markdown or raw")),
		validation.Field(&c.FrontMatterTag, validation.Required),
		validation.Field(&c.RawTag, validation.Required, validation.NotIn(c.FrontMatterTag).
			Error("must differ from front_matter_tag")),
		validation.Field(&c.Template, validation.Required),
		validation.Field(&c.LogLevel, validation.Required, validation.In(logLevels...)),
		validation.Field(&c.Jobs, validation.Required, validation.Min(1)),
	)
	if err != nil {
		return err
	}
	if err := c.Trust.Validate(); err != nil {
		return fmt.Errorf("trust: %w", err)
	}
	if err := c.Hooks.Validate(); err != nil {
		return fmt.Errorf("hooks: %w", err)
	}
	if err := c.Watch.Validate(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}

// Validate requires the secret and database paths when signing is on.
func (c *TrustConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SecretFile, validation.When(c.Enabled, validation.Required)),
		validation.Field(&c.DBPath, validation.When(c.Enabled, validation.Required)),
	)
}

// Validate requires at least one well-formed glob pattern.
func (c *HooksConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Patterns, validation.Required, validation.Each(validation.Required, validation.By(validPattern))),
	)
}

// Validate bounds the debounce delay.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Min(time.Duration(0)), validation.Max(time.Minute)),
	)
}

func validPattern(value any) error {
	pattern, _ := value.(string)
	if _, err := filepath.Match(pattern, ""); err != nil {
		return fmt.Errorf("bad pattern %q", pattern)
	}
	return nil
}
