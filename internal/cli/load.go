package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// loadDirectory populates the index from dir and prints the load summary.
func loadDirectory(ctx context.Context, a *app, dir string, out io.Writer, showProgress bool) error {
	var bar *progressbar.ProgressBar
	var progress func(done, total int)
	if showProgress {
		progress = func(done, total int) {
			if bar == nil {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionEnableColorCodes(true),
					progressbar.OptionShowBytes(false),
					progressbar.OptionSetWidth(40),
					progressbar.OptionShowCount(),
					progressbar.OptionSetDescription("[cyan]Loading[reset]"),
					progressbar.OptionSetTheme(progressbar.Theme{
						Saucer:        "[green]=[reset]",
						SaucerHead:    "[green]>[reset]",
						SaucerPadding: " ",
						BarStart:      "[",
						BarEnd:        "]",
					}),
					progressbar.OptionClearOnFinish(),
				)
			}
			bar.Set(done)
		}
	}

	result, err := a.index.LoadDirectory(ctx, dir, progress)
	if err != nil {
		return fmt.Errorf("can't load files from %s: %w", dir, err)
	}

	for _, e := range result.Errors {
		fmt.Fprintln(out, capitalize(e.Error()))
	}
	fmt.Fprintf(out, "Loaded %d words from %d files (using %d stopwords) in %s\n",
		result.Stats.Terms, result.FilesLoaded+len(result.Errors), a.stopwords.Len(), result.Duration)
	return nil
}
