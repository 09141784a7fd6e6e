// Package config manages the per-user autodataman configuration file.
//
// The file is a YAML document (JSON files written by earlier clients load as well) holding
// simple key/value settings: the default local repository, the default server and the
// commands used to process downloaded files, e.g. "tgz_open_command: tar -xzf".
//
// Settings may be overridden by environment variables, e.g. AUTODATAMAN_DEFAULT_SERVER.
// Overrides are never written back to the file.
package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/oneconcern/autodataman/pkg/errors"
	"github.com/oneconcern/autodataman/pkg/storage"
	"github.com/oneconcern/autodataman/pkg/storage/localfs"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

const (
	// EnvConfigLocation is the environment variable overriding the location of the config file
	EnvConfigLocation = "AUTODATAMAN_CONFIG"

	// DefaultConfigFile is the name of the config file in the home directory of the user
	DefaultConfigFile = ".autodataman"

	envPrefix = "autodataman"

	// KeyLocalRepo holds the default local repository
	KeyLocalRepo = "default_local_repo"

	// KeyServer holds the default remote server
	KeyServer = "default_server"

	commandSuffix = "_command"
)

var (
	// ErrConfigLocation indicates that the location of the config file could not be determined
	ErrConfigLocation = errors.New("cannot locate the configuration file")

	// ErrConfigFile indicates that the config file could not be read or written
	ErrConfigFile = errors.New("invalid configuration file")

	// ErrInvalidVariable indicates an attempt to set an unknown configuration variable
	ErrInvalidVariable = errors.New("invalid configuration variable")

	keyRex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// Defaults written to a new config file
func Defaults() map[string]string {
	return map[string]string{
		CommandKey("tgz", "open"): "tar -xzf",
	}
}

// CommandKey yields the name of the setting holding the command for some format and action
func CommandKey(format, action string) string {
	return strings.ToLower(format + "_" + action + commandSuffix)
}

// IsValidVariable tells if a setting may be set with Set
func IsValidVariable(key string) bool {
	key = strings.ToLower(key)
	if !keyRex.MatchString(key) {
		return false
	}
	return key == KeyLocalRepo || key == KeyServer || strings.HasSuffix(key, commandSuffix)
}

// Location of the config file: $AUTODATAMAN_CONFIG or $HOME/.autodataman
func Location() (string, error) {
	if loc := os.Getenv(EnvConfigLocation); loc != "" {
		return loc, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", ErrConfigLocation.Wrap(err)
	}
	if fi, err := os.Stat(home); err != nil || !fi.IsDir() {
		return "", ErrConfigLocation.Wrapf("invalid home directory path %q", home)
	}
	return filepath.Join(home, DefaultConfigFile), nil
}

// Config holds the settings of the user
type Config struct {
	location string
	settings map[string]string
	v        *viper.Viper
}

// LoadDefault loads the config from its default location.
func LoadDefault(ctx context.Context) (*Config, error) {
	location, err := Location()
	if err != nil {
		return nil, err
	}
	return Load(ctx, location)
}

// Load the config file at some location.
//
// A missing file is created with default settings.
func Load(ctx context.Context, location string) (*Config, error) {
	c := &Config{
		location: location,
		settings: make(map[string]string),
	}

	data, err := os.ReadFile(location)
	switch {
	case os.IsNotExist(err):
		c.settings = Defaults()
		if err = c.Save(ctx); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, ErrConfigFile.Wrap(err)
	default:
		if err = c.parse(data); err != nil {
			return nil, err
		}
	}

	c.v = c.newViper()
	return c, nil
}

func (c *Config) parse(data []byte) error {
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	v.SetConfigType("yaml")
	if len(bytes.TrimSpace(data)) > 0 {
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return ErrConfigFile.Wrapf("%s: %v", c.location, err)
		}
	}
	for _, key := range v.AllKeys() {
		if !keyRex.MatchString(key) {
			return ErrConfigFile.Wrapf("%s: malformed key %q", c.location, key)
		}
		c.settings[key] = v.GetString(key)
	}
	return nil
}

// newViper builds the lookup layer: file settings, overridden by the environment
func (c *Config) newViper() *viper.Viper {
	v := viper.NewWithOptions(viper.KeyDelimiter("::"))
	for key, value := range c.settings {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	return v
}

// Location of the config file
func (c *Config) Location() string {
	return c.location
}

// Get a setting. The empty string is returned for unknown settings.
func (c *Config) Get(key string) string {
	return c.v.GetString(strings.ToLower(key))
}

// LocalRepo is the default local repository
func (c *Config) LocalRepo() string {
	return c.Get(KeyLocalRepo)
}

// Server is the default remote server
func (c *Config) Server() string {
	return c.Get(KeyServer)
}

// ActionCommand yields the command template to run for some file format and action
func (c *Config) ActionCommand(format, action string) (string, bool) {
	cmd := strings.TrimSpace(c.Get(CommandKey(format, action)))
	return cmd, cmd != ""
}

// Set a setting. Call Save to persist it.
func (c *Config) Set(key, value string) error {
	key = strings.ToLower(key)
	if !IsValidVariable(key) {
		return ErrInvalidVariable.Wrapf("%q: expected one of %s, %s or <format>_<action>%s", key, KeyLocalRepo, KeyServer, commandSuffix)
	}
	c.settings[key] = value
	c.v.SetDefault(key, value)
	return nil
}

// Settings in the config file, sorted by name
func (c *Config) Settings() []Setting {
	keys := make([]string, 0, len(c.settings))
	for key := range c.settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	res := make([]Setting, 0, len(keys))
	for _, key := range keys {
		res = append(res, Setting{Key: key, Value: c.settings[key], Effective: c.Get(key)})
	}
	return res
}

// Setting is a key/value pair from the config file, with its value after environment overrides
type Setting struct {
	Key       string
	Value     string
	Effective string
}

// Marshal the settings of the config file as YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c.settings)
}

// Save the config file, atomically replacing any previous version
func (c *Config) Save(ctx context.Context) error {
	data, err := c.Marshal()
	if err != nil {
		return ErrConfigFile.Wrap(err)
	}
	location, err := filepath.Abs(c.location)
	if err != nil {
		return ErrConfigFile.Wrap(err)
	}
	store := localfs.NewAtomic(afero.NewOsFs())
	if err = store.Put(ctx, filepath.ToSlash(location), bytes.NewReader(data), storage.OverWrite); err != nil {
		return ErrConfigFile.Wrapf("%s: %v", c.location, err)
	}
	return nil
}
