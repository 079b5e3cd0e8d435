package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/newsdataio/newsdata-go/pkg/errors"
	"github.com/newsdataio/newsdata-go/pkg/newsdata"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

// endpoint describes one API operation exposed as a command.
type endpoint struct {
	name    string // command name
	path    string // API path under the base URL
	sources bool   // results are sources rather than articles
	call    func(*newsdata.Client, context.Context, newsdata.Params) (any, error)
}

// queryOpts holds the flags shared by the endpoint commands.
type queryOpts struct {
	params      []string // raw key=value pairs from -p
	shortcuts   map[string]*string
	output      string
	interactive bool
	stats       bool
}

// newsCommand creates the "news" command for the latest news endpoint.
func (c *CLI) newsCommand() *cobra.Command {
	ep := endpoint{name: "news", path: newsdata.PathLatest, call: (*newsdata.Client).LatestNews}
	cmd := c.endpointCommand(ep, "Search the latest news",
		`  newsdata news --q ronaldo --country ie
  newsdata news -p qInTitle=bitcoin -p category=business --output json
  newsdata news --language en -i`,
		"q", "qInTitle", "country", "language", "category", "domain")
	return cmd
}

// archiveCommand creates the "archive" command for the news archive endpoint.
func (c *CLI) archiveCommand() *cobra.Command {
	ep := endpoint{name: "archive", path: newsdata.PathArchive, call: (*newsdata.Client).Archive}
	return c.endpointCommand(ep, "Search the news archive",
		`  newsdata archive --q elections --from_date 2024-01-01 --to_date 2024-01-31`,
		"q", "country", "language", "category", "from_date", "to_date")
}

// sourcesCommand creates the "sources" command.
func (c *CLI) sourcesCommand() *cobra.Command {
	ep := endpoint{name: "sources", path: newsdata.PathSources, sources: true, call: (*newsdata.Client).Sources}
	return c.endpointCommand(ep, "List news sources",
		`  newsdata sources --country ie --language en`,
		"country", "language", "category")
}

// cryptoCommand creates the "crypto" command.
func (c *CLI) cryptoCommand() *cobra.Command {
	ep := endpoint{name: "crypto", path: newsdata.PathCrypto, call: (*newsdata.Client).Crypto}
	return c.endpointCommand(ep, "Search crypto news",
		`  newsdata crypto --coin btc,eth --language en`,
		"q", "coin", "language")
}

// endpointCommand builds a command for ep. Each name in shortcuts becomes
// a string flag forwarded as the parameter of the same name.
func (c *CLI) endpointCommand(ep endpoint, short, example string, shortcuts ...string) *cobra.Command {
	opts := queryOpts{output: outputTable, shortcuts: make(map[string]*string, len(shortcuts))}

	cmd := &cobra.Command{
		Use:     ep.name,
		Short:   short,
		Example: example,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runQuery(cmd, ep, &opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.params, "param", "p", nil, "query parameter as key=value (repeatable)")
	for _, name := range shortcuts {
		v := new(string)
		opts.shortcuts[name] = v
		cmd.Flags().StringVar(v, name, "", fmt.Sprintf("%s parameter", name))
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output format: table, json or yaml")
	_ = cmd.RegisterFlagCompletionFunc("output", completeOutput)
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print a request summary to stderr")
	if !ep.sources {
		cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick an article interactively")
	}

	return cmd
}

// buildParams merges the shortcut flags and -p pairs. A -p pair wins over
// a shortcut with the same name.
func (o *queryOpts) buildParams() (newsdata.Params, error) {
	params := newsdata.Params{}
	for name, v := range o.shortcuts {
		if *v != "" {
			params[name] = *v
		}
	}
	for _, raw := range o.params {
		k, v, ok := newsdata.ParseParam(raw)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidParam, "parameter %q is not key=value", raw)
		}
		if err := errors.ValidateParamKey(k); err != nil {
			return nil, err
		}
		params[k] = v
	}
	return params, nil
}

// runQuery calls ep and renders the result.
func (c *CLI) runQuery(cmd *cobra.Command, ep endpoint, opts *queryOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	out := cmd.OutOrStdout()

	switch opts.output {
	case outputTable, outputJSON, outputYAML:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown output format %q (want table, json or yaml)", opts.output)
	}

	if opts.interactive && !isTerminal(os.Stdin) {
		return errors.New(errors.ErrCodeInvalidInput, "--interactive needs a terminal")
	}

	params, err := opts.buildParams()
	if err != nil {
		return err
	}

	client, err := c.newClient(cmd)
	if err != nil {
		return err
	}

	var stats *requestStats
	if opts.stats {
		stats = newRequestStats()
		defer stats.install()()
	}

	logger.Debug("Querying", "endpoint", ep.path, "params", newsdata.EncodeQuery(params))
	prog := newProgress(logger)

	spinner := newSpinner(ctx, cmd.ErrOrStderr(), "Querying "+ep.path+"...")
	if opts.output == outputTable && !opts.interactive && isTerminal(os.Stderr) {
		spinner.Start()
	}
	body, err := ep.call(client, ctx, params)
	resp := client.LastResponse()
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return err
		}
		spinner.StopWithError(fmt.Sprintf("%s failed", ep.path))
		return err
	}
	spinner.Stop()

	if stats != nil {
		defer printStats(cmd.ErrOrStderr(), stats.Summary())
	}
	if err := newsdata.CheckResponse(resp); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Fetched %s (HTTP %d)", ep.path, resp.StatusCode))

	switch opts.output {
	case outputJSON:
		return writeJSON(out, body)
	case outputYAML:
		return writeYAML(out, resp.Raw)
	}

	if ep.sources {
		sources, err := newsdata.DecodeSources(body)
		if err != nil {
			return err
		}
		renderSources(out, sources)
		return nil
	}

	page, err := newsdata.DecodeArticles(body)
	if err != nil {
		return err
	}
	if opts.interactive {
		return runArticlePicker(ctx, page.Articles)
	}

	renderArticles(out, page)
	if page.NextPage != "" {
		printNextStep(out, "Next page", nextPageCommand(ep.name, params, page.NextPage))
	}
	return nil
}

// nextPageCommand rebuilds the invocation with the page token set.
func nextPageCommand(name string, params newsdata.Params, token string) string {
	keys := make([]string, 0, len(params)+1)
	for k := range params {
		if k != "page" {
			keys = append(keys, k)
		}
	}
	keys = append(keys, "page")
	sort.Strings(keys)

	parts := []string{appName, name}
	for _, k := range keys {
		v := token
		if k != "page" {
			v = fmt.Sprint(params[k])
		}
		parts = append(parts, "-p", shellQuote(k+"="+v))
	}
	return strings.Join(parts, " ")
}

// shellQuote single-quotes s when a POSIX shell would split or expand it.
func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"$`\\*?&;|<>()[]{}!#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// =============================================================================
// Rendering
// =============================================================================

func writeJSON(w io.Writer, body any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(body)
}

func renderArticles(w io.Writer, page *newsdata.ArticlePage) {
	if len(page.Articles) == 0 {
		fmt.Fprintln(w, StyleDim.Render("No articles found"))
		return
	}

	rows := make([][]string, 0, len(page.Articles))
	for _, a := range page.Articles {
		rows = append(rows, []string{
			truncate(a.Title, 60),
			a.SourceID,
			a.PubDate,
			strings.Join(a.Category, ","),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Title", "Source", "Published", "Category").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case col == 0:
				return StyleValue
			default:
				return StyleDim
			}
		})

	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("  %d of %d results", len(page.Articles), page.TotalResults)))
}

func renderSources(w io.Writer, sources []newsdata.Source) {
	if len(sources) == 0 {
		fmt.Fprintln(w, StyleDim.Render("No sources found"))
		return
	}

	rows := make([][]string, 0, len(sources))
	for _, s := range sources {
		rows = append(rows, []string{
			s.ID,
			truncate(s.Name, 40),
			s.URL,
			strings.Join(s.Country, ","),
			strings.Join(s.Language, ","),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "URL", "Country", "Language").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case col == 2:
				return StyleLink
			default:
				return StyleValue
			}
		})

	fmt.Fprintln(w, t.Render())
}

// writeYAML re-encodes a JSON body as YAML. Numbers become plain YAML
// numbers rather than the strings a json.Number would produce.
func writeYAML(w io.Writer, raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return errors.Wrap(errors.ErrCodeDecode, err, "decode body for yaml")
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(f.Fd())
}
