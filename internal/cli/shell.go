package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/colorstring"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"lexis/internal/domain"
	"lexis/internal/logger"
)

const unsupportedMessage = "Sorry, I don't understand the command. Supported commands are :search, :add, :rm, :ls, :suggest, :stats, :stopwords, :history, :help and :exit"

var errExit = errors.New("exit")

// shell reads commands line by line and prints their results.
type shell struct {
	app   *app
	in    io.Reader
	out   io.Writer
	color colorstring.Colorize
	root  *cobra.Command
}

func newShell(a *app, in io.Reader, out io.Writer, color bool) *shell {
	s := &shell{
		app:   a,
		in:    in,
		out:   out,
		color: errorColor(color),
	}
	s.root = s.commands()
	return s
}

func errorColor(enabled bool) colorstring.Colorize {
	return colorstring.Colorize{
		Colors:  colorstring.DefaultColors,
		Disable: !enabled,
		Reset:   true,
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Run processes commands until exit, quit or end of input.
func (s *shell) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, s.color.Color("[cyan]>> "))
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}

		err := s.Exec(ctx, scanner.Text())
		if errors.Is(err, errExit) {
			fmt.Fprintln(s.out, "Bye!")
			return nil
		}
		if err != nil {
			s.printError(capitalize(err.Error()))
		}
	}
}

// Exec runs a single command line. A leading ':' on the command is optional.
func (s *shell) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	fields[0] = strings.ToLower(strings.TrimPrefix(fields[0], ":"))

	cmd, _, err := s.root.Find(fields)
	if err != nil || cmd == s.root {
		s.printError(unsupportedMessage)
		return nil
	}

	commandID := uuid.NewString()
	ctx = logger.WithCommandID(ctx, commandID)
	logger.FromContext(ctx).Debug("command", "name", cmd.Name(), "args", fields[1:])
	s.app.metrics.CommandsTotal.WithLabelValues(cmd.Name()).Inc()

	// cobra hands the root context to a subcommand only once, so refresh it per line.
	cmd.SetContext(ctx)
	s.root.SetArgs(fields)
	defer resetHelpFlags(s.root)
	return s.root.ExecuteContext(ctx)
}

// resetHelpFlags clears --help so it does not stick to the next line.
func resetHelpFlags(root *cobra.Command) {
	for _, c := range root.Commands() {
		if f := c.Flags().Lookup("help"); f != nil && f.Changed {
			f.Value.Set("false")
			f.Changed = false
		}
	}
}

func (s *shell) printError(msg string) {
	fmt.Fprintln(s.out, s.color.Color("[red]"+msg))
}

func (s *shell) printStats() {
	stats := s.app.index.Stats()
	fmt.Fprintf(s.out, "Dictionary stats: %d words in %d files\n", stats.Terms, stats.Documents)
}

func (s *shell) commands() *cobra.Command {
	root := &cobra.Command{
		Use:           "lexis",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetHelpCommand(&cobra.Command{
		Use:   "help",
		Short: "List commands",
		RunE:  s.runHelp,
	})
	root.SetOut(s.out)
	root.SetErr(s.out)

	root.AddCommand(
		&cobra.Command{
			Use:                "search <terms...>",
			Short:              "Rank files by the given terms",
			DisableFlagParsing: true,
			RunE:               s.runSearch,
		},
		&cobra.Command{
			Use:                "add <paths...>",
			Short:              "Load or reload files",
			DisableFlagParsing: true,
			RunE:               s.runAdd,
		},
		&cobra.Command{
			Use:                "rm <paths...>",
			Short:              "Unload files",
			DisableFlagParsing: true,
			RunE:               s.runRemove,
		},
		&cobra.Command{
			Use:   "ls",
			Short: "List loaded files",
			RunE:  s.runList,
		},
		&cobra.Command{
			Use:                "suggest <count> <terms...>",
			Short:              "Suggest terms found alongside a query",
			DisableFlagParsing: true,
			RunE:               s.runSuggest,
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Show index and query counters",
			RunE:  s.runStats,
		},
		&cobra.Command{
			Use:   "stopwords",
			Short: "List ignored words",
			RunE:  s.runStopwords,
		},
		&cobra.Command{
			Use:                "history [clear]",
			Short:              "Show or clear recent queries",
			DisableFlagParsing: true,
			RunE:               s.runHistory,
		},
		&cobra.Command{
			Use:     "exit",
			Aliases: []string{"quit"},
			Short:   "Leave the shell",
			RunE: func(cmd *cobra.Command, args []string) error {
				return errExit
			},
		},
	)
	root.InitDefaultHelpCmd()
	return root
}

func (s *shell) runSearch(cmd *cobra.Command, args []string) error {
	results, elapsed := s.app.query.Search(cmd.Context(), args)
	if len(results) == 0 {
		fmt.Fprintln(s.out, "No matches found")
		return nil
	}

	fmt.Fprintf(s.out, "Done in %s\n", elapsed.Round(time.Microsecond))
	for _, r := range results {
		fmt.Fprintln(s.out, formatResult(r))
	}
	return nil
}

func formatResult(r domain.SearchResult) string {
	hits := make([]string, len(r.Matches))
	for i, m := range r.Matches {
		hits[i] = fmt.Sprintf("%s: %d hits", m.Key, m.Count)
	}
	return fmt.Sprintf("%s -> %d%% (%s)", r.DocumentID, r.Score, strings.Join(hits, ", "))
}

func (s *shell) runAdd(cmd *cobra.Command, args []string) error {
	result, err := s.app.index.Add(cmd.Context(), args)
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		s.printError(capitalize(e.Error()))
	}
	s.printStats()
	return nil
}

func (s *shell) runRemove(cmd *cobra.Command, args []string) error {
	s.app.index.Remove(args)
	s.printStats()
	return nil
}

func (s *shell) runList(cmd *cobra.Command, args []string) error {
	for _, id := range s.app.index.Documents() {
		fmt.Fprintln(s.out, id)
	}
	return nil
}

func (s *shell) runSuggest(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		s.printError("Invalid number of suggestions")
		return nil
	}
	count, err := parseCount(args[0])
	if err != nil {
		s.printError("Invalid number of suggestions")
		return nil
	}

	terms := args[1:]
	suggestions := s.app.query.Suggest(cmd.Context(), terms, count)
	prefix := strings.ToLower(strings.Join(terms, " "))
	for _, term := range suggestions {
		fmt.Fprintf(s.out, "%s %s\n", prefix, term)
	}
	return nil
}

// parseCount reads a non-negative suggestion count.
func parseCount(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, &domain.InvalidCountError{Value: value}
	}
	return n, nil
}

func (s *shell) runStats(cmd *cobra.Command, args []string) error {
	s.printStats()
	samples, err := s.app.metrics.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to read metrics: %w", err)
	}
	for _, sample := range samples {
		fmt.Fprintf(s.out, "  %-34s %g\n", sample.Name, sample.Value)
	}
	return nil
}

func (s *shell) runHistory(cmd *cobra.Command, args []string) error {
	if !s.app.historyEnabled {
		fmt.Fprintln(s.out, "History is disabled")
		return nil
	}
	if len(args) > 0 && strings.EqualFold(args[0], "clear") {
		if err := s.app.query.ClearHistory(); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Fprintln(s.out, "History cleared")
		return nil
	}
	entries, err := s.app.query.History(s.app.historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	for _, e := range entries {
		fmt.Fprintf(s.out, "%s %s %s (%d results)\n",
			e.At.Local().Format(time.DateTime), e.Command, strings.Join(e.Terms, " "), e.Results)
	}
	return nil
}

func (s *shell) runStopwords(cmd *cobra.Command, args []string) error {
	for _, w := range s.app.stopwords.Words() {
		fmt.Fprintln(s.out, w)
	}
	return nil
}

func (s *shell) runHelp(cmd *cobra.Command, args []string) error {
	for _, c := range s.root.Commands() {
		if c.Hidden {
			continue
		}
		fmt.Fprintf(s.out, "  :%-28s %s\n", c.Use, c.Short)
	}
	return nil
}
