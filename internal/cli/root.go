package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lexis/config"
	"lexis/internal/logger"
)

var (
	cfgFile       string
	cfg           *config.Config
	stopwordsFile string
	maxResults    int
	noProgress    bool
)

var rootCmd = &cobra.Command{
	Use:   "lexis <dir> [stopwords-file]",
	Short: "Interactive full-text search over a folder of text files",
	Long: `lexis loads every readable file under a folder into an in-memory index and
opens a shell for ranked multi-term search and related-term suggestions.

Example usage:
  lexis ~/dict                 # Load ~/dict and start the shell
  lexis ~/dict stopwords.txt   # Ignore the words listed in stopwords.txt

Shell commands:
  search <terms...>            # Rank files by the given terms
  suggest <count> <terms...>   # Terms that co-occur with a fully matched query
  add <paths...>, rm <paths...>, ls, stats, history, help, exit`,
	Args:          cobra.RangeArgs(1, 2),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			dir, werr := os.Getwd()
			if werr != nil {
				return fmt.Errorf("failed to get working directory: %w", werr)
			}
			cfg, err = config.LoadFromDir(dir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if maxResults > 0 {
			cfg.Search.MaxResults = maxResults
		}
		if stopwordsFile != "" {
			cfg.Index.StopwordsFile = stopwordsFile
		}
		if len(args) == 2 {
			cfg.Index.StopwordsFile = args[1]
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		logger.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
		return nil
	},
	RunE: runRoot,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printFatal(os.Stderr, err, isTerminal(os.Stderr))
		os.Exit(1)
	}
}

func printFatal(w io.Writer, err error, color bool) {
	c := errorColor(color)
	fmt.Fprintln(w, c.Color("[red]"+capitalize(err.Error())))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./lexis.yaml)")
	rootCmd.Flags().StringVar(&stopwordsFile, "stopwords", "", "file with words to ignore")
	rootCmd.Flags().IntVarP(&maxResults, "max-results", "n", 0, "maximum search results (default from config)")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "do not show the load progress bar")
}

func runRoot(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg, cfg.Index.StopwordsFile)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if err := loadDirectory(ctx, a, args[0], cmd.OutOrStdout(), !noProgress); err != nil {
		return err
	}

	sh := newShell(a, cmd.InOrStdin(), cmd.OutOrStdout(), isTerminal(os.Stdout))
	return sh.Run(ctx)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
