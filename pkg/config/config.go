package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ghodss/yaml"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/sidkik/pushsync/pkg/errors"
)

const (
	// DefaultPath is where the config is read from if no path is given.
	DefaultPath = "~/.pushsync/pushsync.yaml"

	// SupportedVersion is the config version understood by this binary.
	// Config files that don't specify a version default to it.
	SupportedVersion = "v1alpha1"

	// EnvPrefix prefixes the environment variables that override config
	// values. For example, PUSHSYNC_REMOTE_NAME overrides `remote.name`.
	EnvPrefix = "PUSHSYNC"
)

// parseConfigErrTemplate is a template for when the config file can't be
// parsed. The underlying parsers construct errors in a way that loses
// context, so we can only pass the error message on.
const parseConfigErrTemplate = "Configuration file could not be parsed. " +
	"Please review %q.\n" +
	"Common pitfalls include:\n" +
	" - Using the wrong types for fields\n" +
	" - Having extra fields inside the config file\n\n" +
	"For reference, here is the error from the parser:\n" +
	"%s"

// Config is the pushsync configuration.
type Config struct {
	Version  string         `json:"version,omitempty" mapstructure:"version"`
	Tool     ToolConfig     `json:"tool" mapstructure:"tool"`
	Files    FilesConfig    `json:"files" mapstructure:"files"`
	Remote   RemoteConfig   `json:"remote" mapstructure:"remote"`
	Schedule ScheduleConfig `json:"schedule" mapstructure:"schedule"`
	Transfer TransferConfig `json:"transfer" mapstructure:"transfer"`
	Logs     LogsConfig     `json:"logs" mapstructure:"logs"`
	Metrics  MetricsConfig  `json:"metrics" mapstructure:"metrics"`
}

// ToolConfig configures the external transfer tool.
type ToolConfig struct {
	// Executable is a path to the tool, or a name to look up in $PATH.
	Executable string `json:"executable" mapstructure:"executable"`
}

// FilesConfig configures the local directory being synced.
type FilesConfig struct {
	LocalDirectory string `json:"local_directory" mapstructure:"local_directory"`

	// Ignore contains gitignore-style patterns for files that shouldn't be
	// synced.
	Ignore []string `json:"ignore,omitempty" mapstructure:"ignore"`
}

// RemoteConfig configures where files are pushed to.
type RemoteConfig struct {
	// Name is the name of the remote configured in the transfer tool.
	Name      string `json:"name" mapstructure:"name"`
	Directory string `json:"directory" mapstructure:"directory"`
}

// ScheduleConfig configures how often passes run.
type ScheduleConfig struct {
	IntervalMinutes int `json:"interval_minutes" mapstructure:"interval_minutes"`

	// Watch starts a pass early when a file in the local directory
	// changes.
	Watch bool `json:"watch" mapstructure:"watch"`
}

// TransferConfig configures individual transfers.
type TransferConfig struct {
	// TimeoutSeconds bounds each copy. Zero disables the timeout.
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// LogsConfig configures where logs are written.
type LogsConfig struct {
	Directory string `json:"directory" mapstructure:"directory"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Address to serve metrics on, such as `localhost:9090`. Empty disables
	// the endpoint.
	Address string `json:"address,omitempty" mapstructure:"address"`
}

// Interval returns the time to wait between passes.
func (c Config) Interval() time.Duration {
	return time.Duration(c.Schedule.IntervalMinutes) * time.Minute
}

// TransferTimeout returns the maximum duration of a single copy, or zero
// for no limit.
func (c Config) TransferTimeout() time.Duration {
	return time.Duration(c.Transfer.TimeoutSeconds) * time.Second
}

// Default returns the config used when no config file exists.
func Default() Config {
	executable := "rclone"
	if runtime.GOOS == "windows" {
		executable = "rclone.exe"
	}

	return Config{
		Version:  SupportedVersion,
		Tool:     ToolConfig{Executable: executable},
		Files:    FilesConfig{LocalDirectory: "~/pushsync"},
		Remote:   RemoteConfig{Name: "gdrive", Directory: "pushsync"},
		Schedule: ScheduleConfig{IntervalMinutes: 5},
		Logs:     LogsConfig{Directory: "~/.pushsync/logs"},
	}
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("version", def.Version)
	v.SetDefault("tool.executable", def.Tool.Executable)
	v.SetDefault("files.local_directory", def.Files.LocalDirectory)
	v.SetDefault("files.ignore", []string{})
	v.SetDefault("remote.name", def.Remote.Name)
	v.SetDefault("remote.directory", def.Remote.Directory)
	v.SetDefault("schedule.interval_minutes", def.Schedule.IntervalMinutes)
	v.SetDefault("schedule.watch", def.Schedule.Watch)
	v.SetDefault("transfer.timeout_seconds", def.Transfer.TimeoutSeconds)
	v.SetDefault("logs.directory", def.Logs.Directory)
	v.SetDefault("metrics.address", def.Metrics.Address)
}

type incompatibleVersionError struct {
	path, exp, actual string
}

func (err incompatibleVersionError) Error() string {
	return err.FriendlyMessage()
}

func (err incompatibleVersionError) FriendlyMessage() string {
	return fmt.Sprintf("The configuration file %q is incompatible "+
		"with this version of pushsync.\n"+
		"Expected version %q, but got %q.", err.path, err.exp, err.actual)
}

// Mocked out for unit testing.
var (
	fs            = afero.NewOsFs()
	homedirExpand = homedir.Expand
)

// Load reads the config at `path`, falling back to the defaults for any
// value that isn't set. Values can be overridden with environment variables.
// A missing config file isn't an error: the returned bool reports whether
// the file existed.
func Load(path string) (Config, bool, error) {
	path, err := homedirExpand(path)
	if err != nil {
		return Config{}, false, errors.WithContext(err, "expand config path")
	}

	v := viper.New()
	v.SetFs(fs)
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	found, err := afero.Exists(fs, path)
	if err != nil {
		return Config{}, false, errors.WithContext(err, "stat config")
	}

	if found {
		v.SetConfigFile(path)
		v.SetConfigType(configType(path))
		if err := v.ReadInConfig(); err != nil {
			return Config{}, true, errors.NewFriendlyError(parseConfigErrTemplate, path, err)
		}
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg); err != nil {
		return Config{}, found, errors.NewFriendlyError(parseConfigErrTemplate, path, err)
	}

	if cfg.Version != SupportedVersion {
		return Config{}, found, incompatibleVersionError{path, SupportedVersion, cfg.Version}
	}

	if err := cfg.expandPaths(); err != nil {
		return Config{}, found, errors.WithContext(err, "expand paths")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, found, err
	}
	return cfg, found, nil
}

func configType(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "yaml"
}

func (c *Config) expandPaths() (err error) {
	for _, path := range []*string{&c.Files.LocalDirectory, &c.Logs.Directory, &c.Tool.Executable} {
		if *path, err = homedirExpand(*path); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that the config can be used to run the sync loop.
func (c Config) Validate() error {
	required := []struct {
		field, value string
	}{
		{"tool.executable", c.Tool.Executable},
		{"files.local_directory", c.Files.LocalDirectory},
		{"remote.name", c.Remote.Name},
		{"logs.directory", c.Logs.Directory},
	}
	for _, r := range required {
		if r.value == "" {
			return errors.NewFriendlyError("Invalid configuration: %s",
				errors.MissingFieldError{Field: r.field})
		}
	}

	if c.Schedule.IntervalMinutes <= 0 {
		return errors.NewFriendlyError("Invalid configuration: "+
			"schedule.interval_minutes must be a positive number of minutes, got %d.",
			c.Schedule.IntervalMinutes)
	}

	if c.Transfer.TimeoutSeconds < 0 {
		return errors.NewFriendlyError("Invalid configuration: "+
			"transfer.timeout_seconds can't be negative, got %d.",
			c.Transfer.TimeoutSeconds)
	}
	return nil
}

// Write writes `cfg` to `path` as YAML, creating the parent directory if
// needed.
func Write(path string, cfg Config) error {
	path, err := homedirExpand(path)
	if err != nil {
		return errors.WithContext(err, "expand config path")
	}

	cfg.Version = SupportedVersion
	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WithContext(err, "marshal")
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WithContext(err, "create config directory")
	}

	if err := afero.WriteFile(fs, path, yamlBytes, 0644); err != nil {
		return errors.WithContext(err, "write")
	}
	return nil
}

// Init writes the default config to `path`. An existing file is only
// replaced if `force` is set. It returns the expanded path that was written.
func Init(path string, force bool) (string, error) {
	expanded, err := homedirExpand(path)
	if err != nil {
		return "", errors.WithContext(err, "expand config path")
	}

	exists, err := afero.Exists(fs, expanded)
	if err != nil {
		return "", errors.WithContext(err, "stat config")
	}
	if exists && !force {
		return "", errors.NewFriendlyError("%q already exists. "+
			"Use --force to overwrite it.", expanded)
	}

	if err := Write(expanded, Default()); err != nil {
		return "", errors.WithContext(err, "write config")
	}
	return expanded, nil
}

// Marshal returns `cfg` formatted as YAML.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
