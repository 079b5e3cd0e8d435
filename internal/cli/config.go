package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/newsdataio/newsdata-go/pkg/errors"
	"github.com/newsdataio/newsdata-go/pkg/newsdata"
)

const configFileName = "config.toml"

// fileConfig is the on-disk configuration. Empty fields keep the
// library defaults.
type fileConfig struct {
	APIKey         string   `toml:"api_key"`
	BaseURL        string   `toml:"base_url,omitempty"`
	Timeout        duration `toml:"timeout,omitempty"`
	ConnectTimeout duration `toml:"connect_timeout,omitempty"`
	Retries        int      `toml:"retries"`
	RetryDelay     duration `toml:"retry_delay,omitempty"`
	Proxy          string   `toml:"proxy,omitempty"`
	Decode         string   `toml:"decode,omitempty"`
}

// duration reads and writes time.Duration as a string such as "30s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/newsdata/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// configFile returns the --config path or the default location.
func (c *CLI) configFile() (string, error) {
	if c.global.configPath != "" {
		return c.global.configPath, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, configFileName), nil
}

// =============================================================================
// Loading
// =============================================================================

// loadFileConfig reads path. A missing file yields an empty config.
func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fc, nil
	}
	if err != nil {
		return fc, fmt.Errorf("read config: %w", err)
	}

	md, err := toml.Decode(string(data), &fc)
	if err != nil {
		return fc, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fc, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	return fc, nil
}

func lookupEnv(key string) (string, bool) { return os.LookupEnv(key) }

// applyEnv overrides the file values with non-empty environment variables.
func (fc *fileConfig) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(envAPIKey); ok && v != "" {
		fc.APIKey = v
	}
	if v, ok := lookup(envBaseURL); ok && v != "" {
		fc.BaseURL = v
	}
}

// clientConfig converts the file values into a client configuration.
func (fc fileConfig) clientConfig() (newsdata.Config, error) {
	cfg := newsdata.DefaultConfig(fc.APIKey)

	if fc.BaseURL != "" {
		cfg = cfg.WithBaseURL(fc.BaseURL)
	}

	connect, read := cfg.ConnectTimeout, cfg.Timeout
	if fc.ConnectTimeout.Duration > 0 {
		connect = fc.ConnectTimeout.Duration
	}
	if fc.Timeout.Duration > 0 {
		read = fc.Timeout.Duration
	}
	cfg = cfg.WithTimeouts(connect, read)

	delay := cfg.RetryDelay
	if fc.RetryDelay.Duration > 0 {
		delay = fc.RetryDelay.Duration
	}
	cfg = cfg.WithRetries(fc.Retries, delay)

	if fc.Proxy != "" {
		p, err := newsdata.ParseProxy(fc.Proxy)
		if err != nil {
			return cfg, err
		}
		cfg = cfg.WithProxy(p)
	}

	mode, err := newsdata.ParseDecodeMode(fc.Decode)
	if err != nil {
		return cfg, err
	}
	return cfg.WithDecodeMode(mode), nil
}

// writeFileConfig writes fc to path with owner-only permissions.
func writeFileConfig(path string, fc fileConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# newsdata configuration\n")
	buf.WriteString("# " + envAPIKey + " and " + envBaseURL + " override the values below.\n\n")
	if err := toml.NewEncoder(&buf).Encode(fc); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	return os.WriteFile(path, buf.Bytes(), 0o600)
}

// maskKey hides all but the first four characters of an API key.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}

// =============================================================================
// Commands
// =============================================================================

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())

	return cmd
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configFile()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after applying the config file, the
environment and any flags given on the command line. The API key is masked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.resolveConfig(cmd)
			if err != nil {
				return err
			}
			path, _ := c.configFile()
			printConfig(cmd.OutOrStdout(), path, cfg)
			return nil
		},
	}
}

func printConfig(w io.Writer, path string, cfg newsdata.Config) {
	proxy := "(none)"
	if u := cfg.Proxy.URL(); u != nil {
		proxy = u.Redacted()
	}

	fprintKeyValue(w, "file", path)
	fprintKeyValue(w, "api_key", maskKey(cfg.APIKey))
	fprintKeyValue(w, "base_url", cfg.BaseURL)
	fprintKeyValue(w, "timeout", cfg.Timeout.String())
	fprintKeyValue(w, "connect", cfg.ConnectTimeout.String())
	fprintKeyValue(w, "retries", fmt.Sprintf("%d (delay %s)", cfg.MaxRetries, cfg.RetryDelay))
	fprintKeyValue(w, "proxy", proxy)
	fprintKeyValue(w, "decode", cfg.Decode.String())
	fprintKeyValue(w, "user_agent", cfg.UserAgent)
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file",
		Long: `Write a config file holding the API key and the connection settings
given as flags. An existing file is kept unless --force is set.`,
		Example: `  newsdata config init --api-key pub_xxx
  newsdata config init --api-key pub_xxx --retries 2 --proxy proxy.local:3128`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configFile()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
			}

			cfg, err := c.applyFlags(cmd, newsdata.DefaultConfig(""))
			if err != nil {
				return err
			}
			if err := errors.ValidateAPIKey(cfg.APIKey); err != nil && cfg.APIKey != "" {
				return err
			}

			fc := fileConfig{
				APIKey:         cfg.APIKey,
				Timeout:        duration{cfg.Timeout},
				ConnectTimeout: duration{cfg.ConnectTimeout},
				Retries:        cfg.MaxRetries,
				RetryDelay:     duration{cfg.RetryDelay},
			}
			if cmd.Flags().Changed("base-url") {
				fc.BaseURL = cfg.BaseURL
			}
			if cmd.Flags().Changed("proxy") {
				fc.Proxy = c.global.proxy
			}
			if cmd.Flags().Changed("decode") {
				fc.Decode = cfg.Decode.String()
			}

			if err := writeFileConfig(path, fc); err != nil {
				return err
			}

			printSuccess("Wrote %s", path)
			if fc.APIKey == "" {
				printDetail("No API key stored; edit the file or set %s", envAPIKey)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
