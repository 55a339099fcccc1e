package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/mtgio/internal/constants"
	"github.com/fivetwenty-io/mtgio/pkg/mtg"
)

const (
	configDirName  = ".mtgio"
	configFileName = "config.yml"
	configSetArgs  = 2
)

// Config represents the persisted CLI configuration. Keys match the global
// flags so viper reads the file back without translation.
type Config struct {
	API       string      `json:"api,omitempty"        yaml:"api,omitempty"`
	Output    string      `json:"output,omitempty"     yaml:"output,omitempty"`
	Verbose   bool        `json:"verbose,omitempty"    yaml:"verbose,omitempty"`
	NoColor   bool        `json:"no-color,omitempty"   yaml:"no-color,omitempty"`
	RetryMax  int         `json:"retry-max,omitempty"  yaml:"retry-max,omitempty"`
	RateLimit int         `json:"rate-limit,omitempty" yaml:"rate-limit,omitempty"`
	Timeout   string      `json:"timeout,omitempty"    yaml:"timeout,omitempty"`
	Cache     CacheConfig `json:"cache,omitempty"      yaml:"cache,omitempty"`
}

// CacheConfig holds the response cache settings.
type CacheConfig struct {
	Type string          `json:"type,omitempty" yaml:"type,omitempty"`
	TTL  string          `json:"ttl,omitempty"  yaml:"ttl,omitempty"`
	NATS NATSCacheConfig `json:"nats,omitempty" yaml:"nats,omitempty"`
}

// NATSCacheConfig holds the NATS KV cache settings.
type NATSCacheConfig struct {
	URL    string `json:"url,omitempty"    yaml:"url,omitempty"`
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
}

// configKey binds a dotted key to its field in Config.
type configKey struct {
	get   func(*Config) string
	set   func(*Config, string) error
	unset func(*Config)
}

var configKeys = map[string]configKey{
	"api": {
		get:   func(c *Config) string { return c.API },
		set:   func(c *Config, v string) error { c.API = v; return nil },
		unset: func(c *Config) { c.API = "" },
	},
	"output": {
		get: func(c *Config) string { return c.Output },
		set: func(c *Config, v string) error {
			v = strings.ToLower(v)
			if !slices.Contains([]string{OutputFormatTable, OutputFormatJSON, OutputFormatYAML}, v) {
				return fmt.Errorf("%w: %q", constants.ErrInvalidOutputFormat, v)
			}

			c.Output = v

			return nil
		},
		unset: func(c *Config) { c.Output = "" },
	},
	"verbose": {
		get:   func(c *Config) string { return strconv.FormatBool(c.Verbose) },
		set:   boolSetter(func(c *Config) *bool { return &c.Verbose }),
		unset: func(c *Config) { c.Verbose = false },
	},
	"no-color": {
		get:   func(c *Config) string { return strconv.FormatBool(c.NoColor) },
		set:   boolSetter(func(c *Config) *bool { return &c.NoColor }),
		unset: func(c *Config) { c.NoColor = false },
	},
	"retry-max": {
		get:   func(c *Config) string { return strconv.Itoa(c.RetryMax) },
		set:   intSetter(func(c *Config) *int { return &c.RetryMax }),
		unset: func(c *Config) { c.RetryMax = 0 },
	},
	"rate-limit": {
		get:   func(c *Config) string { return strconv.Itoa(c.RateLimit) },
		set:   intSetter(func(c *Config) *int { return &c.RateLimit }),
		unset: func(c *Config) { c.RateLimit = 0 },
	},
	"timeout": {
		get:   func(c *Config) string { return c.Timeout },
		set:   durationSetter(func(c *Config) *string { return &c.Timeout }),
		unset: func(c *Config) { c.Timeout = "" },
	},
	"cache.type": {
		get: func(c *Config) string { return c.Cache.Type },
		set: func(c *Config, v string) error {
			cacheType := mtg.CacheType(strings.ToLower(v))
			if !slices.Contains([]mtg.CacheType{mtg.CacheTypeNone, mtg.CacheTypeMemory, mtg.CacheTypeNATS}, cacheType) {
				return fmt.Errorf("%w: cache.type %q", constants.ErrInvalidConfigValue, v)
			}

			c.Cache.Type = string(cacheType)

			return nil
		},
		unset: func(c *Config) { c.Cache.Type = "" },
	},
	"cache.ttl": {
		get:   func(c *Config) string { return c.Cache.TTL },
		set:   durationSetter(func(c *Config) *string { return &c.Cache.TTL }),
		unset: func(c *Config) { c.Cache.TTL = "" },
	},
	"cache.nats.url": {
		get:   func(c *Config) string { return c.Cache.NATS.URL },
		set:   func(c *Config, v string) error { c.Cache.NATS.URL = v; return nil },
		unset: func(c *Config) { c.Cache.NATS.URL = "" },
	},
	"cache.nats.bucket": {
		get:   func(c *Config) string { return c.Cache.NATS.Bucket },
		set:   func(c *Config, v string) error { c.Cache.NATS.Bucket = v; return nil },
		unset: func(c *Config) { c.Cache.NATS.Bucket = "" },
	},
}

func boolSetter(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %q is not a boolean", constants.ErrInvalidConfigValue, v)
		}

		*field(c) = parsed

		return nil
	}
}

func intSetter(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return fmt.Errorf("%w: %q is not a non-negative integer", constants.ErrInvalidConfigValue, v)
		}

		*field(c) = parsed

		return nil
	}
}

func durationSetter(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed < 0 {
			return fmt.Errorf("%w: %q is not a duration", constants.ErrInvalidConfigValue, v)
		}

		*field(c) = parsed.String()

		return nil
	}
}

func sortedConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for key := range configKeys {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long: "Manage mtgio CLI configuration.\n\nKeys: " + strings.Join(sortedConfigKeys(), ", ") +
			"\n\nSettings are stored in ~/" + configDirName + "/" + configFileName +
			" and may be overridden by MTGIO_* environment variables and flags.",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration after applying the config file, environment and flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := effectiveConfig()

			output, err := OutputFormat()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			switch output {
			case OutputFormatJSON:
				return StandardJSONRenderer(out, config)
			case OutputFormatYAML:
				return StandardYAMLRenderer(out, config)
			default:
				return displayConfigTable(out, config)
			}
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "set KEY VALUE",
		Short:   "Set a configuration value",
		Example: "  mtgio config set cache.type memory\n  mtgio config set cache.ttl 30m",
		Args:    cobra.ExactArgs(configSetArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			err := setConfigValue(key, value)
			if err != nil {
				return err
			}

			return outputConfigUpdateResult(cmd.OutOrStdout(), "Set", key, value)
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := unsetConfigValue(args[0])
			if err != nil {
				return err
			}

			return outputConfigUpdateResult(cmd.OutOrStdout(), "Unset", args[0], "")
		},
	}
}

func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear configuration",
		Long:  "Remove the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, err := configFilePath()
			if err != nil {
				return err
			}

			err = os.Remove(configFile)
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to remove config file: %w", err)
			}

			return outputConfigUpdateResult(cmd.OutOrStdout(), "Cleared", "all configuration", "")
		},
	}
}

func setConfigValue(key, value string) error {
	key = strings.ToLower(key)

	binding, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	config := loadConfig()

	err := binding.set(config, value)
	if err != nil {
		return err
	}

	err = saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	viper.Set(key, binding.get(config))

	return nil
}

func unsetConfigValue(key string) error {
	if key == "" {
		return constants.ErrConfigKeyRequired
	}

	key = strings.ToLower(key)

	binding, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	config := loadConfig()
	binding.unset(config)

	err := saveConfigStruct(config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// loadConfig reads the persisted configuration. Values coming only from
// flags or the environment are not copied, so saving never bakes them in.
func loadConfig() *Config {
	config := &Config{}

	configFile, err := configFilePath()
	if err != nil {
		return config
	}

	// configFile is built from the user's home directory or --config.
	// #nosec G304
	data, err := os.ReadFile(configFile)
	if err != nil {
		return config
	}

	_ = yaml.Unmarshal(data, config)

	return config
}

func configFilePath() (string, error) {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, configDirName, configFileName), nil
}

func saveConfigStruct(config *Config) error {
	configFile, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(configFile, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func displayConfigTable(w io.Writer, config *Config) error {
	table := newTable(w, "Property", "Value")

	for _, key := range sortedConfigKeys() {
		_ = table.Append(key, orNotAvailable(configKeys[key].get(config)))
	}

	return renderTable(table)
}

func outputConfigUpdateResult(w io.Writer, action, key, value string) error {
	result := map[string]string{
		"action": action,
		"key":    key,
	}

	if value != "" {
		result["value"] = value
	}

	output, err := OutputFormat()
	if err != nil {
		return err
	}

	switch output {
	case OutputFormatJSON:
		return StandardJSONRenderer(w, result)
	case OutputFormatYAML:
		return StandardYAMLRenderer(w, result)
	}

	if value != "" {
		_, _ = fmt.Fprintf(w, "%s %s = %s\n", action, key, value)
	} else {
		_, _ = fmt.Fprintf(w, "%s %s\n", action, key)
	}

	return nil
}
