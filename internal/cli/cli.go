package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/newsdataio/newsdata-go/pkg/buildinfo"
	"github.com/newsdataio/newsdata-go/pkg/errors"
	"github.com/newsdataio/newsdata-go/pkg/newsdata"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "newsdata"

	// Environment variables that override the config file.
	envAPIKey  = "NEWSDATA_API_KEY"
	envBaseURL = "NEWSDATA_BASE_URL"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	global globalOpts
}

// globalOpts holds the persistent flags shared by every command.
type globalOpts struct {
	configPath     string
	apiKey         string
	baseURL        string
	timeout        time.Duration
	connectTimeout time.Duration
	retries        int
	retryDelay     time.Duration
	proxy          string
	decode         string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "newsdata queries the NewsData.io news API",
		Long: `newsdata is a command-line client for the NewsData.io REST API.

It searches the latest news, the news archive, crypto news and the list of
news sources, printing results as a table, as JSON, or in an interactive
picker.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.global.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/newsdata/config.toml)")
	pf.StringVar(&c.global.apiKey, "api-key", "", "API key (overrides "+envAPIKey+")")
	pf.StringVar(&c.global.baseURL, "base-url", "", "API base URL (overrides "+envBaseURL+")")
	pf.DurationVar(&c.global.timeout, "timeout", newsdata.DefaultTimeout, "per-attempt response timeout")
	pf.DurationVar(&c.global.connectTimeout, "connect-timeout", newsdata.DefaultConnectTimeout, "connection timeout")
	pf.IntVar(&c.global.retries, "retries", 0, "retries on server errors (0 disables)")
	pf.DurationVar(&c.global.retryDelay, "retry-delay", time.Second, "fixed delay between retries")
	pf.StringVar(&c.global.proxy, "proxy", "", "HTTP proxy as [user:pass@]host[:port]")
	pf.StringVar(&c.global.decode, "decode", "", "JSON decode mode: object or map")
	_ = root.RegisterFlagCompletionFunc("decode", completeDecode)

	root.AddCommand(c.newsCommand())
	root.AddCommand(c.archiveCommand())
	root.AddCommand(c.sourcesCommand())
	root.AddCommand(c.cryptoCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Client Factory
// =============================================================================

// newClient resolves the configuration for cmd and builds an API client
// that logs through the CLI logger.
func (c *CLI) newClient(cmd *cobra.Command) (*newsdata.Client, error) {
	cfg, err := c.resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	client, err := newsdata.New(cfg, newsdata.WithLogger(c.Logger))
	if err != nil {
		if cfg.APIKey == "" {
			return nil, errors.New(errors.ErrCodeInvalidConfig,
				"no API key: set %s, pass --api-key, or run '%s config init --api-key <key>'", envAPIKey, appName)
		}
		return nil, err
	}
	return client, nil
}

// resolveConfig layers the config file, the environment and the flags
// explicitly set on cmd, in that order.
func (c *CLI) resolveConfig(cmd *cobra.Command) (newsdata.Config, error) {
	path, err := c.configFile()
	if err != nil {
		return newsdata.Config{}, err
	}

	fc, err := loadFileConfig(path)
	if err != nil {
		return newsdata.Config{}, err
	}
	fc.applyEnv(lookupEnv)

	cfg, err := fc.clientConfig()
	if err != nil {
		return newsdata.Config{}, err
	}
	return c.applyFlags(cmd, cfg)
}

// applyFlags overrides cfg with every persistent flag the user set.
func (c *CLI) applyFlags(cmd *cobra.Command, cfg newsdata.Config) (newsdata.Config, error) {
	flags := cmd.Flags()
	g := c.global

	if flags.Changed("api-key") {
		cfg = cfg.WithAPIKey(g.apiKey)
	}
	if flags.Changed("base-url") {
		cfg = cfg.WithBaseURL(g.baseURL)
	}
	if flags.Changed("timeout") || flags.Changed("connect-timeout") {
		connect, read := cfg.ConnectTimeout, cfg.Timeout
		if flags.Changed("connect-timeout") {
			connect = g.connectTimeout
		}
		if flags.Changed("timeout") {
			read = g.timeout
		}
		cfg = cfg.WithTimeouts(connect, read)
	}
	if flags.Changed("retries") || flags.Changed("retry-delay") {
		retries, delay := cfg.MaxRetries, cfg.RetryDelay
		if flags.Changed("retries") {
			retries = g.retries
		}
		if flags.Changed("retry-delay") {
			delay = g.retryDelay
		}
		cfg = cfg.WithRetries(retries, delay)
	}
	if flags.Changed("proxy") {
		p, err := newsdata.ParseProxy(g.proxy)
		if err != nil {
			return cfg, err
		}
		cfg = cfg.WithProxy(p)
	}
	if flags.Changed("decode") {
		m, err := newsdata.ParseDecodeMode(g.decode)
		if err != nil {
			return cfg, err
		}
		cfg = cfg.WithDecodeMode(m)
	}
	return cfg, nil
}
